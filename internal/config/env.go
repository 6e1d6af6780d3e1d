// Package config loads command configuration from the environment.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/wippyai/assetpack/errors"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Config is the environment configuration shared by the commands.
type Config struct {
	LogLevel   string `env:"ASSETPACK_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"ASSETPACK_LOG_FORMAT" envDefault:"console"`
	StringMask string `env:"ASSETPACK_STRING_MASK"`
	Charset    string `env:"ASSETPACK_CHARSET"`
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Mask parses StringMask. Decimal, 0x hex and 0 octal forms are accepted;
// an empty value is 0.
func (c Config) Mask() (byte, error) {
	if c.StringMask == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(c.StringMask, 0, 8)
	if err != nil {
		return 0, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.StringMask).
			Cause(err).
			Detail("string mask must be a single byte").
			Build()
	}
	return byte(v), nil
}

// TextEncoding resolves Charset to an encoding. An empty value or a UTF-8
// label returns nil, meaning text is taken as is.
func (c Config) TextEncoding() (encoding.Encoding, error) {
	if c.Charset == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(c.Charset)
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindUnsupported).
			Value(c.Charset).
			Cause(err).
			Detail("unknown charset").
			Build()
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil, nil
	}
	return enc, nil
}

// Logger builds a zap logger for LogLevel and LogFormat.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.LogLevel).
			Cause(err).
			Detail("bad log level").
			Build()
	}

	var zc zap.Config
	switch strings.ToLower(c.LogFormat) {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.LogFormat).
			Detail("log format must be console or json").
			Build()
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
