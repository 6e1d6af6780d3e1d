package cache

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/assetpack/errors"
)

// Blocks is a Source over blocks that are already in memory.
type Blocks []Block

func (Blocks) Preload()            {}
func (Blocks) IsFullyLoaded() bool { return true }
func (b Blocks) Blocks() []Block   { return b }

// AsyncSource fetches its blocks in a background goroutine started by Preload.
type AsyncSource struct {
	fetch  func() ([]Block, error)
	err    error
	blocks []Block
	once   sync.Once
	loaded atomic.Bool
}

// NewAsyncSource creates a source that runs fetch once, on Preload.
func NewAsyncSource(fetch func() ([]Block, error)) *AsyncSource {
	return &AsyncSource{fetch: fetch}
}

// Preload starts the fetch. Later calls do nothing.
func (s *AsyncSource) Preload() {
	s.once.Do(func() {
		go s.run()
	})
}

func (s *AsyncSource) run() {
	blocks, err := s.fetch()
	if err != nil {
		err = errors.Wrap(errors.PhaseLoad, errors.KindUnavailable, err, "fetch blocks")
		Logger().Error("block fetch failed", zap.Error(err))
	}
	s.blocks, s.err = blocks, err
	s.loaded.Store(true)
}

// IsFullyLoaded reports whether the fetch has finished. A failed fetch
// counts as loaded with no blocks.
func (s *AsyncSource) IsFullyLoaded() bool {
	return s.loaded.Load()
}

// Blocks returns the fetched blocks, or nil before loading finished.
func (s *AsyncSource) Blocks() []Block {
	if !s.loaded.Load() {
		return nil
	}
	return s.blocks
}

// Err returns the fetch error, if any, once loading finished. It is a
// PhaseLoad error wrapping the fetch function's error.
func (s *AsyncSource) Err() error {
	if !s.loaded.Load() {
		return nil
	}
	return s.err
}
