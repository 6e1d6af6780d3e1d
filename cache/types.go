package cache

import (
	"bytes"
	"encoding/binary"

	"github.com/wippyai/assetpack"
)

// Block is one decoded block: an opaque byte range whose id lives at a
// fixed field.
type Block struct {
	Data   []byte
	Offset int // position in the container, for diagnostics
}

// Uint32At reads a little-endian uint32 at off.
func (b Block) Uint32At(off int) (uint32, bool) {
	if off < 0 || off+4 > len(b.Data) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b.Data[off:]), true
}

// Fields splits the bytes from start on into zero-terminated strings.
// A trailing unterminated run is kept as the last field; empty fields at
// the end are block padding and dropped.
func (b Block) Fields(start int) []string {
	if start < 0 || start >= len(b.Data) {
		return nil
	}
	rest := b.Data[start:]
	var out []string
	for len(rest) > 0 {
		i := bytes.IndexByte(rest, 0)
		if i < 0 {
			out = append(out, string(rest))
			break
		}
		out = append(out, string(rest[:i]))
		rest = rest[i+1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// Source supplies the blocks a Table indexes.
type Source interface {
	assetpack.Loadable

	// Blocks returns the full block list. It is only called once
	// IsFullyLoaded reports true.
	Blocks() []Block
}

// IDFunc extracts the id of a block.
type IDFunc func(Block) (uint32, bool)

// FieldID reads the id as a uint32 at a fixed offset.
func FieldID(offset int) IDFunc {
	return func(b Block) (uint32, bool) {
		return b.Uint32At(offset)
	}
}

// EventType identifies a table event.
type EventType uint8

const (
	EventBuilt EventType = iota
	EventMiss
	EventDuplicate
	EventMalformed
)

// Event is a table index notification.
type Event struct {
	Count int
	ID    uint32
	Type  EventType
}

// Observer receives table events.
type Observer interface {
	OnCacheEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnCacheEvent(e Event) { f(e) }
