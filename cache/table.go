package cache

import (
	"maps"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"github.com/wippyai/assetpack/internal/misslog"
)

// Default block layout: id at 0x04, string fields from 0x10.
const (
	DefaultIDOffset    = 0x04
	DefaultFieldOffset = 0x10
)

// Option configures a Table.
type Option func(*Table)

// WithIDOffset reads block ids as a uint32 at offset.
func WithIDOffset(offset int) Option {
	return func(t *Table) { t.id = FieldID(offset) }
}

// WithIDFunc sets a custom id extractor.
func WithIDFunc(fn IDFunc) Option {
	return func(t *Table) { t.id = fn }
}

// WithFieldOffset sets where the zero-terminated string fields start.
func WithFieldOffset(offset int) Option {
	return func(t *Table) { t.fieldOffset = offset }
}

// WithTextEncoding decodes string fields from a legacy code page.
func WithTextEncoding(enc encoding.Encoding) Option {
	return func(t *Table) { t.enc = enc }
}

// Table is an id-keyed index over the blocks of a Source.
type Table struct {
	src         Source
	enc         encoding.Encoding
	id          IDFunc
	index       map[uint32]Block
	misses      *misslog.Log
	observers   []Observer
	fieldOffset int
	once        sync.Once
	built       atomic.Bool
	obsMu       sync.RWMutex
}

// NewTable creates a table over src. Nothing is read from src until the
// first query.
func NewTable(src Source, opts ...Option) *Table {
	t := &Table{
		src:         src,
		id:          FieldID(DefaultIDOffset),
		fieldOffset: DefaultFieldOffset,
		misses:      misslog.New("cache miss", Logger),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Preload starts loading the source.
func (t *Table) Preload() {
	t.src.Preload()
}

// IsFullyLoaded reports whether the source has all its blocks.
func (t *Table) IsFullyLoaded() bool {
	return t.src.IsFullyLoaded()
}

// ensure builds the index on first use. It returns false while the
// source is still loading.
func (t *Table) ensure() bool {
	if t.built.Load() {
		return true
	}
	if !t.src.IsFullyLoaded() {
		return false
	}
	t.once.Do(t.build)
	return true
}

func (t *Table) build() {
	blocks := t.src.Blocks()
	index := make(map[uint32]Block, len(blocks))
	for _, b := range blocks {
		id, ok := t.id(b)
		if !ok {
			Logger().Warn("block has no id field", zap.Int("offset", b.Offset), zap.Int("size", len(b.Data)))
			t.notify(Event{Type: EventMalformed})
			continue
		}
		if _, dup := index[id]; dup {
			Logger().Warn("duplicate block id, keeping first", zap.Uint32("id", id), zap.Int("offset", b.Offset))
			t.notify(Event{Type: EventDuplicate, ID: id})
			continue
		}
		index[id] = b
	}
	t.index = index
	t.built.Store(true)

	Logger().Debug("cache table built", zap.Int("blocks", len(index)))
	t.notify(Event{Type: EventBuilt, Count: len(index)})
}

// Get returns the block with the given id.
func (t *Table) Get(id uint32) (Block, bool) {
	if !t.ensure() {
		return Block{}, false
	}
	b, ok := t.index[id]
	if !ok {
		if t.misses.Report(strconv.FormatUint(uint64(id), 10)) {
			t.notify(Event{Type: EventMiss, ID: id})
		}
		return Block{}, false
	}
	return b, true
}

// Fields returns all string fields of the block with the given id.
func (t *Table) Fields(id uint32) []string {
	b, ok := t.Get(id)
	if !ok {
		return nil
	}
	fields := b.Fields(t.fieldOffset)
	if t.enc == nil {
		return fields
	}
	dec := t.enc.NewDecoder()
	for i, f := range fields {
		if s, err := dec.String(f); err == nil {
			fields[i] = s
		}
	}
	return fields
}

// Field returns string field n of the block with the given id, or "" when
// the block or the field is absent.
func (t *Table) Field(id uint32, n int) string {
	fields := t.Fields(id)
	if n < 0 || n >= len(fields) {
		return ""
	}
	return fields[n]
}

// Len returns the number of indexed blocks, 0 while loading.
func (t *Table) Len() int {
	if !t.ensure() {
		return 0
	}
	return len(t.index)
}

// IDs returns the indexed ids in ascending order.
func (t *Table) IDs() []uint32 {
	if !t.ensure() {
		return nil
	}
	return slices.Sorted(maps.Keys(t.index))
}

// Subscribe adds an observer for index events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnCacheEvent(e)
	}
}
