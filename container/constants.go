package container

import (
	"fmt"
	"strconv"
)

// Magic opens every container.
const Magic = "APAK"

// Fixed sizes of the container preamble.
const (
	PreambleSize      = 8  // magic + section count
	SectionHeaderSize = 16 // id, type, offset, size
)

// SectionType tags the payload layout of a section.
type SectionType uint32

const (
	SectionNumeric  SectionType = 1
	SectionPoints   SectionType = 2
	SectionSounds   SectionType = 3
	SectionBlur     SectionType = 4
	SectionStrings  SectionType = 5
	SectionEmitters SectionType = 6
	SectionRecords  SectionType = 7
)

func (t SectionType) String() string {
	switch t {
	case SectionNumeric:
		return "numeric"
	case SectionPoints:
		return "points"
	case SectionSounds:
		return "sounds"
	case SectionBlur:
		return "blur"
	case SectionStrings:
		return "strings"
	case SectionEmitters:
		return "emitters"
	case SectionRecords:
		return "records"
	default:
		return "unknown(" + strconv.FormatUint(uint64(t), 10) + ")"
	}
}

// Type strings that open some section payloads.
const (
	PathMagic = "PATH"
	BlurMagic = "BLUR"
)

// NoLink marks an absent cross reference in emitter records.
const NoLink = 0xFFFFFFFF

// EmitterNameSize is the fixed width of an emitter name field.
const EmitterNameSize = 16

// Record block layout, after descrambling.
const (
	RecordKindOffset  = 0x00
	RecordIDOffset    = 0x04
	RecordFieldOffset = 0x10
	MinRecordBlock    = RecordFieldOffset
)

// ElemType is the element encoding of a numeric table.
type ElemType uint8

const (
	ElemS8  ElemType = 1
	ElemU8  ElemType = 2
	ElemS16 ElemType = 3
	ElemU16 ElemType = 4
	ElemS32 ElemType = 5
	ElemU32 ElemType = 6
)

// Width returns the element size in bytes, or 0 for an unknown type.
func (e ElemType) Width() int {
	switch e {
	case ElemS8, ElemU8:
		return 1
	case ElemS16, ElemU16:
		return 2
	case ElemS32, ElemU32:
		return 4
	default:
		return 0
	}
}

// Range returns the inclusive value range of the element type.
func (e ElemType) Range() (lo, hi int64) {
	switch e {
	case ElemS8:
		return -1 << 7, 1<<7 - 1
	case ElemU8:
		return 0, 1<<8 - 1
	case ElemS16:
		return -1 << 15, 1<<15 - 1
	case ElemU16:
		return 0, 1<<16 - 1
	case ElemS32:
		return -1 << 31, 1<<31 - 1
	case ElemU32:
		return 0, 1<<32 - 1
	default:
		return 0, -1
	}
}

func (e ElemType) String() string {
	switch e {
	case ElemS8:
		return "s8"
	case ElemU8:
		return "u8"
	case ElemS16:
		return "s16"
	case ElemU16:
		return "u16"
	case ElemS32:
		return "s32"
	case ElemU32:
		return "u32"
	default:
		return fmt.Sprintf("elem(%d)", uint8(e))
	}
}

// SectionKey is the namespace key of the section with the given id.
func SectionKey(id uint32) string { return "section:" + strconv.FormatUint(uint64(id), 10) }

// EmitterKey is the namespace key of an emitter record.
func EmitterKey(id uint32) string { return "emitter:" + strconv.FormatUint(uint64(id), 10) }

// SoundKey is the namespace key of a sound record.
func SoundKey(id uint32) string { return "sound:" + strconv.FormatUint(uint64(id), 10) }

// NameKey is the namespace key of an emitter's name. Names come from
// container data, so they live under their own prefix and never replace
// an id key.
func NameKey(name string) string { return "name:" + name }
