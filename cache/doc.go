// Package cache provides an identifier-keyed index over decoded blocks.
//
// A Table maps the id embedded in each block to the block. The index is
// built once, lazily, on the first query made after the block source
// reports itself fully loaded, and is never rebuilt or invalidated.
//
//	table := cache.NewTable(cache.Blocks(blocks),
//		cache.WithIDOffset(0x04),
//		cache.WithFieldOffset(0x10),
//	)
//
//	name := table.Field(1001, 0) // "" when 1001 is absent
//
// # Preload Protocol
//
// Table implements assetpack.Loadable. Sources whose blocks arrive
// asynchronously (AsyncSource) start fetching on Preload; callers poll
// IsFullyLoaded before querying. Queries made earlier return the absent
// result without freezing a partial index.
//
//	src := cache.NewAsyncSource(fetch)
//	table := cache.NewTable(src)
//	table.Preload()
//	for !table.IsFullyLoaded() {
//	    time.Sleep(10 * time.Millisecond)
//	}
//
// # Missing Data
//
// Lookups by an absent id are not errors. Get reports false, Field returns
// the empty string, and the miss is logged once per id.
//
// # Observers
//
// Register observers to track index events:
//
//	table.Subscribe(cache.ObserverFunc(func(e cache.Event) {
//	    if e.Type == cache.EventBuilt {
//	        log.Printf("indexed %d blocks", e.Count)
//	    }
//	}))
package cache
