package container

import (
	"bytes"
	"strconv"

	"github.com/wippyai/assetpack/container/internal/binary"
	"github.com/wippyai/assetpack/errors"
	"github.com/wippyai/assetpack/link"
)

// Encode writes resources as a container in the given order. String
// tables are masked with the WithStringMask value and text is encoded with
// the WithTextEncoding code page, so Decode with the same options returns
// equivalent resources.
func Encode(resources []Resource, opts ...Option) ([]byte, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	w := binary.NewWriter()
	w.WriteBytes([]byte(Magic))
	w.WriteU32(uint32(len(resources)))
	headerPos := w.Len()
	for range resources {
		for i := 0; i < 4; i++ {
			w.WriteU32(0)
		}
	}
	dataStart := w.Len()

	var masked []int
	for i, res := range resources {
		start := w.Len()
		base, err := encodeSection(w, res, &o)
		if err != nil {
			return nil, err
		}
		if base >= 0 {
			masked = append(masked, base)
		}

		pos := headerPos + i*SectionHeaderSize
		w.PutU32At(pos, res.SectionID())
		w.PutU32At(pos+4, uint32(res.Type()))
		w.PutU32At(pos+8, uint32(start-dataStart))
		w.PutU32At(pos+12, uint32(w.Len()-start))
	}

	out := w.Bytes()
	if o.mask != 0 {
		for _, base := range masked {
			binary.MaskTail(out, base, o.mask)
		}
	}
	return out, nil
}

// encodeSection writes one payload. It returns the string table base for
// string sections and -1 otherwise.
func encodeSection(w *binary.Writer, res Resource, o *options) (int, error) {
	switch t := res.(type) {
	case *NumericTable:
		return -1, encodeNumeric(w, t)
	case *PointList:
		w.WriteBytes([]byte(PathMagic))
		w.WriteU32(uint32(len(t.Points)))
		if t.Closed {
			w.Byte(1)
		} else {
			w.Byte(0)
		}
		for _, p := range t.Points {
			w.WriteVec3([3]float32{p.X, p.Y, p.Z})
		}
	case *SoundTable:
		w.WriteU32(uint32(len(t.Sounds)))
		for _, s := range t.Sounds {
			w.WriteU32(s.ID)
			w.WriteU16(s.Bank)
			w.WriteU16(s.Flags)
		}
	case *BlurParams:
		w.WriteBytes([]byte(BlurMagic))
		w.WriteColor([4]byte{})
		w.WriteColor([4]byte{})
		w.WriteColor(colorBytes(t.Color))
		w.WriteF32(t.Radius)
		w.WriteF32(t.Intensity)
		w.Byte(t.Passes)
	case *StringTable:
		entries := make([]string, len(t.Entries))
		for i, s := range t.Entries {
			enc, err := o.encodeText(s)
			if err != nil {
				return -1, err
			}
			entries[i] = enc
		}
		return binary.WriteStringTable(w, entries), nil
	case *EmitterTable:
		return -1, encodeEmitters(w, t, o)
	case *RecordTable:
		return -1, encodeRecords(w, t)
	case *Unknown:
		w.WriteBytes(t.Data)
	default:
		return -1, errors.InvalidInput(errors.PhaseEncode, "unsupported resource type")
	}
	return -1, nil
}

func encodeNumeric(w *binary.Writer, t *NumericTable) error {
	if t.Elem.Width() == 0 {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Section(t.ID).
			Value(t.Elem).
			Detail("unknown element type %s", t.Elem).
			Build()
	}
	lo, hi := t.Elem.Range()
	for _, v := range t.Values {
		if v < lo || v > hi {
			return errors.Overflow(errors.PhaseEncode, v, t.Elem.String())
		}
	}

	w.WriteU32(uint32(len(t.Values)))
	w.Byte(byte(t.Elem))
	for _, v := range t.Values {
		switch t.Elem.Width() {
		case 1:
			w.Byte(byte(v))
		case 2:
			w.WriteU16(uint16(v))
		case 4:
			w.WriteU32(uint32(v))
		}
	}
	return nil
}

func encodeEmitters(w *binary.Writer, t *EmitterTable, o *options) error {
	w.WriteU32(uint32(len(t.Emitters)))
	for _, e := range t.Emitters {
		name, err := o.encodeText(e.Name)
		if err != nil {
			return err
		}
		if len(name) > EmitterNameSize {
			return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Section(t.ID).
				Value(e.Name).
				Detail("emitter name longer than %d bytes", EmitterNameSize).
				Build()
		}
		w.WriteU32(e.ID)
		w.WriteString(name, EmitterNameSize)
		w.WriteF32(e.Lifetime)
		w.WriteColor(colorBytes(e.Color))
		w.WriteU32(linkID(e.OnExpire))
		w.WriteU32(linkID(e.Sound))
	}
	return nil
}

func encodeRecords(w *binary.Writer, t *RecordTable) error {
	size := t.BlockSize
	if size == 0 && len(t.Blocks) > 0 {
		size = uint32(len(t.Blocks[0].Data))
	}
	if size < MinRecordBlock {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Section(t.ID).
			Value(size).
			Detail("block size %d below minimum %d", size, MinRecordBlock).
			Build()
	}

	w.WriteU32(size)
	w.WriteU32(uint32(len(t.Blocks)))
	for i, b := range t.Blocks {
		if len(b.Data) != int(size) {
			return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Section(t.ID).
				Path("block", strconv.Itoa(i)).
				Detail("block is %d bytes, want %d", len(b.Data), size).
				Build()
		}
		block := bytes.Clone(b.Data)
		if err := binary.Scramble(block); err != nil {
			return errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, err, "scramble block")
		}
		w.WriteBytes(block)
	}
	return nil
}

func (o *options) encodeText(s string) (string, error) {
	if o.enc == nil {
		return s, nil
	}
	out, err := o.enc.NewEncoder().String(s)
	if err != nil {
		return "", errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Value(s).
			Cause(err).
			Detail("text not representable in code page").
			Build()
	}
	return out, nil
}

func colorBytes(c Color) [4]byte {
	return [4]byte{c.R, c.G, c.B, c.A}
}

func linkID(l *link.Link[Object]) uint32 {
	if l == nil {
		return NoLink
	}
	return l.ID()
}
