package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/assetpack/cache"
	"github.com/wippyai/assetpack/container"
	"github.com/wippyai/assetpack/errors"
	"github.com/wippyai/assetpack/internal/config"
	"github.com/wippyai/assetpack/namespace"
)

func main() {
	var (
		file        = flag.String("file", "", "Path to container file")
		mask        = flag.String("mask", "", "String table XOR mask, e.g. 0x5A (overrides ASSETPACK_STRING_MASK)")
		charset     = flag.String("charset", "", "Text code page, e.g. windows-1252 (overrides ASSETPACK_CHARSET)")
		resolve     = flag.String("resolve", "", "Resolve a namespace key, e.g. emitter:7 or name:spark")
		verbose     = flag.Bool("v", false, "Print section contents")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: inspect -file <container> [-mask 0x5A] [-charset name] [-v]")
		fmt.Fprintln(os.Stderr, "       inspect -file <container> -resolve emitter:7")
		fmt.Fprintln(os.Stderr, "       inspect -file <container> -i  (interactive mode)")
		os.Exit(1)
	}

	flags := inspectFlags{
		file:        *file,
		mask:        *mask,
		charset:     *charset,
		resolve:     *resolve,
		verbose:     *verbose,
		interactive: *interactive,
	}
	if err := inspect(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type inspectFlags struct {
	file        string
	mask        string
	charset     string
	resolve     string
	verbose     bool
	interactive bool
}

// inspect owns the logger so its deferred flush runs on every return path.
func inspect(f inspectFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if f.mask != "" {
		cfg.StringMask = f.mask
	}
	if f.charset != "" {
		cfg.Charset = f.charset
	}

	log, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	container.SetLogger(log.Named("container"))
	cache.SetLogger(log.Named("cache"))

	opts, err := decodeOptions(cfg)
	if err != nil {
		return err
	}

	if f.interactive {
		return runInteractive(f.file, opts)
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(f.file, opts, f.resolve, f.verbose, styled); err != nil {
		log.Debug("inspect failed", zap.Error(err))
		return err
	}
	return nil
}

func decodeOptions(cfg config.Config) ([]container.Option, error) {
	m, err := cfg.Mask()
	if err != nil {
		return nil, err
	}
	enc, err := cfg.TextEncoding()
	if err != nil {
		return nil, err
	}
	opts := []container.Option{container.WithStringMask(m)}
	if enc != nil {
		opts = append(opts, container.WithTextEncoding(enc))
	}
	return opts, nil
}

// load reads, decodes and mounts a container under its file name.
func load(file string, opts []container.Option) (*container.Container, *namespace.Node[container.Object], error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	c, err := container.Decode(data, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	root := namespace.New[container.Object]()
	node := container.Mount(root, mountName(file), c)
	return c, node, nil
}

func mountName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

func run(file string, opts []container.Option, resolveKey string, verbose, styled bool) error {
	c, node, err := load(file, opts)
	if err != nil {
		return err
	}

	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	fmt.Printf("Container: %s\n", file)
	fmt.Printf("Digest: %016x\n", c.Digest)
	fmt.Printf("Sections: %d\n", len(c.Sections()))
	if len(c.Errors) > 0 {
		fmt.Printf("Skipped: %d\n", len(c.Errors))
	}

	fmt.Printf("\n")
	for _, res := range c.Sections() {
		fmt.Printf("  %s %s %s\n",
			render(funcStyle, fmt.Sprintf("%4d", res.SectionID())),
			render(typeStyle, fmt.Sprintf("%-8s", res.Type())),
			summary(res))
		if verbose {
			for _, line := range details(res) {
				fmt.Printf("         %s\n", line)
			}
		}
	}

	for _, se := range c.Errors {
		fmt.Printf("  %s\n", render(errorStyle, se.Error()))
	}

	if resolveKey != "" {
		r := container.NewResolver(node)
		v, ok := r.Lookup(resolveKey)
		if !ok {
			e := errors.NotFound(errors.PhaseResolve, "key", resolveKey)
			e.Path = []string{node.FullPath()}
			return e
		}
		fmt.Printf("\n%s = %s\n", resolveKey, render(resultStyle, describe(v, r)))
	}
	return nil
}
