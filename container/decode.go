package container

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"github.com/wippyai/assetpack/cache"
	"github.com/wippyai/assetpack/container/internal/binary"
	"github.com/wippyai/assetpack/errors"
	"github.com/wippyai/assetpack/link"
)

// Option configures Decode and Encode.
type Option func(*options)

type options struct {
	enc  encoding.Encoding
	mask byte
}

// WithStringMask sets the single-byte XOR mask of string tables. Zero
// disables masking.
func WithStringMask(mask byte) Option {
	return func(o *options) { o.mask = mask }
}

// WithTextEncoding sets the code page of stored text. Without it text is
// taken as raw bytes.
func WithTextEncoding(enc encoding.Encoding) Option {
	return func(o *options) { o.enc = enc }
}

func (o *options) decodeText(s string) string {
	if o.enc == nil {
		return s
	}
	if out, err := o.enc.NewDecoder().String(s); err == nil {
		return out
	}
	return s
}

// Container is the decoded form of one container buffer.
type Container struct {
	byID     map[uint32]Resource
	Headers  []SectionHeader
	sections []Resource
	// Errors lists sections that were skipped during decoding.
	Errors errors.SectionErrors
	Digest uint64
}

// Decode parses a container. The input is copied and never modified.
//
// Reading past the end of the buffer aborts decoding with a
// KindEndOfBuffer error. A section whose layout does not match its tag is
// skipped and reported in Container.Errors; sections with an unregistered
// tag are kept as *Unknown.
func Decode(data []byte, opts ...Option) (*Container, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{
		Digest: xxhash.Sum64(data),
		byID:   make(map[uint32]Resource),
	}
	r := binary.NewReader(bytes.Clone(data))

	magic, err := r.ReadBytes(len(Magic))
	if err != nil {
		return nil, fatal(err, nil)
	}
	if string(magic) != Magic {
		return nil, errors.New(errors.PhaseDecode, errors.KindStructuralMismatch).
			Value(magic).
			Detail("bad magic %q, want %q", magic, Magic).
			Build()
	}

	headers, err := readSectionTable(r)
	if err != nil {
		return nil, fatal(err, nil)
	}
	c.Headers = headers
	dataStart := r.Position()

	log := Logger()
	for i := range headers {
		h := &headers[i]
		res, err := decodeSection(r, dataStart, *h, &o)
		if err != nil {
			if errors.Is(err, binary.ErrEndOfBuffer) {
				return nil, fatal(err, h)
			}
			se := sectionError(err, *h)
			c.Errors = append(c.Errors, se)
			log.Warn("section skipped",
				zap.Uint32("section", h.ID),
				zap.Stringer("type", h.Type),
				zap.Any("value", se.Value),
				zap.Int("position", se.Position),
				zap.Error(se))
			continue
		}

		if u, ok := res.(*Unknown); ok {
			log.Debug("section kept raw", zap.Error(errors.UnknownSection(u.ID, uint32(u.Tag))))
		}
		if _, dup := c.byID[h.ID]; dup {
			se := errors.InvalidData(errors.PhaseDispatch, h.ID, "duplicate section id, keeping first")
			c.Errors = append(c.Errors, se)
			log.Warn("duplicate section id", zap.Uint32("section", h.ID))
			continue
		}
		c.byID[h.ID] = res
		c.sections = append(c.sections, res)
	}

	log.Debug("container decoded",
		zap.Uint64("digest", c.Digest),
		zap.Int("sections", len(c.sections)),
		zap.Int("skipped", len(c.Errors)))
	return c, nil
}

func fatal(err error, h *SectionHeader) error {
	e := errors.EndOfBuffer(errors.PhaseDecode, err)
	var pe *binary.ParseError
	if errors.As(err, &pe) {
		e.Position = pe.Position
	}
	if h != nil {
		e.Section = int64(h.ID)
		e.Detail = "section type " + h.Type.String()
	} else {
		e.Detail = "container header"
	}
	return e
}

func sectionError(err error, h SectionHeader) *errors.Error {
	var e *errors.Error
	if errors.As(err, &e) {
		return e
	}
	b := errors.New(errors.PhaseDispatch, errors.KindInvalidData).Section(h.ID).Cause(err)
	var pe *binary.ParseError
	if errors.As(err, &pe) {
		b.Position(pe.Position)
	}
	return b.Build()
}

func readSectionTable(r *binary.Reader) ([]SectionHeader, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if uint64(count)*SectionHeaderSize > uint64(r.Remaining()) {
		return nil, r.WrapError("section table", binary.ErrEndOfBuffer)
	}

	headers := make([]SectionHeader, count)
	for i := range headers {
		h := &headers[i]
		h.ID, _ = r.ReadU32()
		tag, _ := r.ReadU32()
		h.Type = SectionType(tag)
		h.Offset, _ = r.ReadU32()
		h.Size, _ = r.ReadU32()
	}
	return headers, nil
}

func decodeSection(r *binary.Reader, dataStart int, h SectionHeader, o *options) (Resource, error) {
	if err := r.Seek(dataStart + int(h.Offset)); err != nil {
		return nil, err
	}

	start := r.Position()

	var (
		res Resource
		err error
	)
	switch h.Type {
	case SectionNumeric:
		res, err = parseNumeric(r, h)
	case SectionPoints:
		res, err = parsePoints(r, h)
	case SectionSounds:
		res, err = parseSounds(r, h)
	case SectionBlur:
		res, err = parseBlur(r, h)
	case SectionStrings:
		res, err = parseStrings(r, h, o)
	case SectionEmitters:
		res, err = parseEmitters(r, h, o)
	case SectionRecords:
		res, err = parseRecords(r, h, o)
	default:
		res, err = parseUnknown(r, h)
	}
	if err != nil {
		return nil, err
	}

	if used := r.Position() - start; used > int(h.Size) {
		return nil, errors.New(errors.PhaseDispatch, errors.KindStructuralMismatch).
			Section(h.ID).
			Position(start).
			Value(used).
			Detail("payload is %d bytes, header declares %d", used, h.Size).
			Build()
	}
	return res, nil
}

// need fails with end of buffer unless count items of width bytes remain.
func need(r *binary.Reader, what string, count uint32, width int) error {
	if uint64(count)*uint64(width) > uint64(r.Remaining()) {
		return r.WrapError(what, binary.ErrEndOfBuffer)
	}
	return nil
}

func expectMagic(r *binary.Reader, h SectionHeader, want string) error {
	pos := r.Position()
	got, err := r.ReadBytes(len(want))
	if err != nil {
		return err
	}
	if string(got) != want {
		return errors.StructuralMismatch(errors.PhaseDispatch, h.ID, pos, string(got), want)
	}
	return nil
}

func parseNumeric(r *binary.Reader, h SectionHeader) (Resource, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	pos := r.Position()
	kind, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	elem := ElemType(kind)
	if elem.Width() == 0 {
		return nil, errors.StructuralMismatch(errors.PhaseDispatch, h.ID, pos, elem, "element type 1..6")
	}
	if err := need(r, "numeric", count, elem.Width()); err != nil {
		return nil, err
	}

	t := &NumericTable{ID: h.ID, Elem: elem, Values: make([]int64, count)}
	for i := range t.Values {
		switch elem {
		case ElemS8:
			v, _ := r.ReadS8()
			t.Values[i] = int64(v)
		case ElemU8:
			v, _ := r.ReadU8()
			t.Values[i] = int64(v)
		case ElemS16:
			v, _ := r.ReadS16()
			t.Values[i] = int64(v)
		case ElemU16:
			v, _ := r.ReadU16()
			t.Values[i] = int64(v)
		case ElemS32:
			v, _ := r.ReadS32()
			t.Values[i] = int64(v)
		case ElemU32:
			v, _ := r.ReadU32()
			t.Values[i] = int64(v)
		}
	}
	return t, nil
}

func parsePoints(r *binary.Reader, h SectionHeader) (Resource, error) {
	if err := expectMagic(r, h, PathMagic); err != nil {
		return nil, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	closed, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if err := need(r, "points", count, 12); err != nil {
		return nil, err
	}

	p := &PointList{ID: h.ID, Closed: closed != 0, Points: make([]Vec3, count)}
	for i := range p.Points {
		v, _ := r.ReadVec3()
		p.Points[i] = Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
	return p, nil
}

func parseSounds(r *binary.Reader, h SectionHeader) (Resource, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := need(r, "sounds", count, 8); err != nil {
		return nil, err
	}

	t := &SoundTable{ID: h.ID, Sounds: make([]*Sound, count)}
	for i := range t.Sounds {
		s := &Sound{}
		s.ID, _ = r.ReadU32()
		s.Bank, _ = r.ReadU16()
		s.Flags, _ = r.ReadU16()
		t.Sounds[i] = s
	}
	return t, nil
}

func parseBlur(r *binary.Reader, h SectionHeader) (Resource, error) {
	if err := expectMagic(r, h, BlurMagic); err != nil {
		return nil, err
	}
	// Two colors precede the real one and are not used by the client.
	for i := 0; i < 2; i++ {
		if _, err := r.ReadColor(); err != nil {
			return nil, err
		}
	}

	b := &BlurParams{ID: h.ID}
	c, err := r.ReadColor()
	if err != nil {
		return nil, err
	}
	b.Color = Color{R: c[0], G: c[1], B: c[2], A: c[3]}
	if b.Radius, err = r.ReadF32(); err != nil {
		return nil, err
	}
	if b.Intensity, err = r.ReadF32(); err != nil {
		return nil, err
	}
	if b.Passes, err = r.ReadU8(); err != nil {
		return nil, err
	}
	return b, nil
}

func parseStrings(r *binary.Reader, h SectionHeader, o *options) (Resource, error) {
	entries, err := binary.ParseStringTable(r, o.mask)
	if err != nil {
		return nil, err
	}
	for i, s := range entries {
		entries[i] = o.decodeText(s)
	}
	return &StringTable{ID: h.ID, Entries: entries}, nil
}

const emitterRecordSize = 4 + EmitterNameSize + 4 + 4 + 4 + 4

func parseEmitters(r *binary.Reader, h SectionHeader, o *options) (Resource, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := need(r, "emitters", count, emitterRecordSize); err != nil {
		return nil, err
	}

	t := &EmitterTable{ID: h.ID, Emitters: make([]*Emitter, count)}
	for i := range t.Emitters {
		e := &Emitter{}
		e.ID, _ = r.ReadU32()
		name, _ := r.ReadString(EmitterNameSize)
		e.Name = o.decodeText(name)
		e.Lifetime, _ = r.ReadF32()
		c, _ := r.ReadColor()
		e.Color = Color{R: c[0], G: c[1], B: c[2], A: c[3]}
		if id, _ := r.ReadU32(); id != NoLink {
			e.OnExpire = link.New[Object](id)
		}
		if id, _ := r.ReadU32(); id != NoLink {
			e.Sound = link.New[Object](id)
		}
		t.Emitters[i] = e
	}
	return t, nil
}

func parseRecords(r *binary.Reader, h SectionHeader, o *options) (Resource, error) {
	pos := r.Position()
	size, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if size < MinRecordBlock {
		return nil, errors.New(errors.PhaseDescramble, errors.KindStructuralMismatch).
			Section(h.ID).
			Position(pos).
			Value(size).
			Detail("block size %d below minimum %d", size, MinRecordBlock).
			Build()
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := need(r, "records", count, int(size)); err != nil {
		return nil, err
	}

	t := &RecordTable{ID: h.ID, BlockSize: size, enc: o.enc, Blocks: make([]cache.Block, count)}
	for i := range t.Blocks {
		start := r.Position()
		if err := binary.Descramble(r, int(size)); err != nil {
			return nil, err
		}
		_ = r.Seek(start)
		data, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, err
		}
		t.Blocks[i] = cache.Block{Data: data, Offset: start}
	}
	return t, nil
}

// parseUnknown keeps the payload of an unregistered tag. A declared size
// past the end of the buffer skips the section instead of failing the
// container.
func parseUnknown(r *binary.Reader, h SectionHeader) (Resource, error) {
	if uint64(h.Size) > uint64(r.Remaining()) {
		return nil, errors.New(errors.PhaseDispatch, errors.KindUnknownSection).
			Section(h.ID).
			Position(r.Position()).
			Value(h.Size).
			Detail("section type %s declares %d bytes, %d remain", h.Type, h.Size, r.Remaining()).
			Build()
	}
	data, err := r.ReadBytes(int(h.Size))
	if err != nil {
		return nil, err
	}
	return &Unknown{ID: h.ID, Tag: h.Type, Data: data}, nil
}

// Sections returns the decoded sections in section table order.
func (c *Container) Sections() []Resource {
	return c.sections
}

// Section returns the section with the given id.
func (c *Container) Section(id uint32) (Resource, bool) {
	res, ok := c.byID[id]
	return res, ok
}

// Strings returns the entries of a string table section, or nil.
func (c *Container) Strings(id uint32) []string {
	if t, ok := c.byID[id].(*StringTable); ok {
		return t.Entries
	}
	return nil
}

// Numbers returns the values of a numeric table section, or nil.
func (c *Container) Numbers(id uint32) []int64 {
	if t, ok := c.byID[id].(*NumericTable); ok {
		return t.Values
	}
	return nil
}

// Emitters returns the emitters of an emitter table section, or nil.
func (c *Container) Emitters(id uint32) []*Emitter {
	if t, ok := c.byID[id].(*EmitterTable); ok {
		return t.Emitters
	}
	return nil
}

// Table returns the id-keyed cache of a record table section, or nil.
func (c *Container) Table(id uint32) *cache.Table {
	if t, ok := c.byID[id].(*RecordTable); ok {
		return t.Table()
	}
	return nil
}

// Err returns the skipped-section errors as one error, or nil.
func (c *Container) Err() error {
	if len(c.Errors) == 0 {
		return nil
	}
	return c.Errors
}
