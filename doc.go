// Package assetpack decodes section-based game asset containers and links
// the resources they hold.
//
// A container is a byte buffer with a table of section headers followed by
// section payloads. Some payloads are obfuscated (per-block bit rotation,
// whole-tail XOR), and some resources reference others by numeric id instead
// of embedding them. Those references are resolved lazily, on first use,
// against a hierarchical namespace that may be populated long after the
// referring container was decoded.
//
// # Architecture Overview
//
//	assetpack/           Root package with the Loadable preload protocol
//	├── container/       Container decoding, section dispatch, encoding, mounting
//	├── link/            Lazy, at-most-once cross-resource references
//	├── namespace/       Hierarchical resource namespace with root fallback lookup
//	├── cache/           Identifier-keyed block cache built once on first query
//	├── errors/          Structured error types for debugging
//	└── cmd/inspect/     Command line inspector and section browser
//
// # Quick Start
//
//	c, err := container.Decode(data, container.WithStringMask(0x5A))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	root := namespace.New[container.Object]()
//	container.Mount(root, "items", c)
//
//	resolve := container.NewResolver(root.Child("items"))
//	for _, e := range c.Emitters(7) {
//	    if next, ok := e.ExpireTarget(resolve); ok {
//	        fmt.Println("spawns", next.Name)
//	    }
//	}
//
// # Thread Safety
//
// Decoding one container is single-threaded. Different containers can be
// decoded in parallel. Namespace reads, link resolution and cache queries
// are safe for concurrent use.
package assetpack
