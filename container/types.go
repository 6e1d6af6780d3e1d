package container

import (
	"sync"

	"golang.org/x/text/encoding"

	"github.com/wippyai/assetpack/cache"
	"github.com/wippyai/assetpack/link"
)

// Vec3 is a 3-component float vector.
type Vec3 struct {
	X, Y, Z float32
}

// Color is an RGBA byte color.
type Color struct {
	R, G, B, A uint8
}

// SectionHeader is one entry of the container's section table.
type SectionHeader struct {
	ID     uint32
	Type   SectionType
	Offset uint32 // relative to the end of the section table
	Size   uint32
}

// Object is anything a namespace can hold: section resources and the
// addressable records inside them.
type Object interface {
	ObjectKey() string
}

// Resource is a decoded section. The set of implementations is closed;
// Unknown stands in for tags this package does not parse.
type Resource interface {
	Object
	SectionID() uint32
	Type() SectionType
	isResource()
}

// NumericTable is a list of fixed-width integers.
type NumericTable struct {
	Values []int64
	ID     uint32
	Elem   ElemType
}

// PointList is a path of points.
type PointList struct {
	Points []Vec3
	ID     uint32
	Closed bool
}

// Sound is a sound reference record. Only the id is interpreted here.
type Sound struct {
	ID    uint32
	Bank  uint16
	Flags uint16
}

// SoundTable is a list of sound references.
type SoundTable struct {
	Sounds []*Sound
	ID     uint32
}

// BlurParams configures a blur effect.
type BlurParams struct {
	ID        uint32
	Color     Color
	Radius    float32
	Intensity float32
	Passes    uint8
}

// StringTable is a positional list of strings; callers index into Entries.
type StringTable struct {
	Entries []string
	ID      uint32
}

// Emitter is a particle emitter record. OnExpire names the emitter spawned
// when a particle expires and Sound the sound it plays; both are nil when
// absent and resolved lazily otherwise.
type Emitter struct {
	OnExpire *link.Link[Object]
	Sound    *link.Link[Object]
	Name     string
	ID       uint32
	Lifetime float32
	Color    Color
}

// EmitterTable is a list of emitters.
type EmitterTable struct {
	Emitters []*Emitter
	ID       uint32
}

// RecordTable holds descrambled fixed-size blocks, indexed by the id at
// RecordIDOffset.
type RecordTable struct {
	enc       encoding.Encoding
	table     *cache.Table
	Blocks    []cache.Block
	ID        uint32
	BlockSize uint32
	tableOnce sync.Once
}

// Unknown keeps the raw payload of a section with an unregistered tag.
type Unknown struct {
	Data []byte
	ID   uint32
	Tag  SectionType
}

func (t *NumericTable) SectionID() uint32 { return t.ID }
func (t *PointList) SectionID() uint32    { return t.ID }
func (t *SoundTable) SectionID() uint32   { return t.ID }
func (t *BlurParams) SectionID() uint32   { return t.ID }
func (t *StringTable) SectionID() uint32  { return t.ID }
func (t *EmitterTable) SectionID() uint32 { return t.ID }
func (t *RecordTable) SectionID() uint32  { return t.ID }
func (t *Unknown) SectionID() uint32      { return t.ID }

func (*NumericTable) Type() SectionType { return SectionNumeric }
func (*PointList) Type() SectionType    { return SectionPoints }
func (*SoundTable) Type() SectionType   { return SectionSounds }
func (*BlurParams) Type() SectionType   { return SectionBlur }
func (*StringTable) Type() SectionType  { return SectionStrings }
func (*EmitterTable) Type() SectionType { return SectionEmitters }
func (*RecordTable) Type() SectionType  { return SectionRecords }
func (t *Unknown) Type() SectionType    { return t.Tag }

func (t *NumericTable) ObjectKey() string { return SectionKey(t.ID) }
func (t *PointList) ObjectKey() string    { return SectionKey(t.ID) }
func (t *SoundTable) ObjectKey() string   { return SectionKey(t.ID) }
func (t *BlurParams) ObjectKey() string   { return SectionKey(t.ID) }
func (t *StringTable) ObjectKey() string  { return SectionKey(t.ID) }
func (t *EmitterTable) ObjectKey() string { return SectionKey(t.ID) }
func (t *RecordTable) ObjectKey() string  { return SectionKey(t.ID) }
func (t *Unknown) ObjectKey() string      { return SectionKey(t.ID) }
func (s *Sound) ObjectKey() string        { return SoundKey(s.ID) }
func (e *Emitter) ObjectKey() string      { return EmitterKey(e.ID) }

func (*NumericTable) isResource() {}
func (*PointList) isResource()    {}
func (*SoundTable) isResource()   {}
func (*BlurParams) isResource()   {}
func (*StringTable) isResource()  {}
func (*EmitterTable) isResource() {}
func (*RecordTable) isResource()  {}
func (*Unknown) isResource()      {}

// Table returns the id-keyed cache over the blocks, created on first call.
func (t *RecordTable) Table() *cache.Table {
	t.tableOnce.Do(func() {
		opts := []cache.Option{
			cache.WithIDOffset(RecordIDOffset),
			cache.WithFieldOffset(RecordFieldOffset),
		}
		if t.enc != nil {
			opts = append(opts, cache.WithTextEncoding(t.enc))
		}
		t.table = cache.NewTable(cache.Blocks(t.Blocks), opts...)
	})
	return t.table
}

// Lookup returns the sound with the given id.
func (t *SoundTable) Lookup(id uint32) (*Sound, bool) {
	for _, s := range t.Sounds {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}
