package assetpack

// Loadable is implemented by resources whose backing data is acquired
// asynchronously. Callers kick off acquisition with Preload and poll
// IsFullyLoaded before querying.
type Loadable interface {
	// Preload starts acquiring the underlying data. It is idempotent and
	// returns immediately.
	Preload()

	// IsFullyLoaded reports whether the underlying data is complete.
	IsFullyLoaded() bool
}
