package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode     Phase = "decode"     // container header and section table
	PhaseDispatch   Phase = "dispatch"   // per-section parsers
	PhaseDescramble Phase = "descramble" // block cipher reversal
	PhaseResolve    Phase = "resolve"    // lazy link and namespace lookups
	PhaseEncode     Phase = "encode"     // Go to container bytes
	PhaseLoad       Phase = "load"       // block sources
	PhaseConfig     Phase = "config"     // environment and flags
)

// Kind categorizes the error
type Kind string

const (
	KindEndOfBuffer        Kind = "end_of_buffer"
	KindStructuralMismatch Kind = "structural_mismatch"
	KindUnknownSection     Kind = "unknown_section"
	KindNotFound           Kind = "not_found"
	KindInvalidData        Kind = "invalid_data"
	KindInvalidInput       Kind = "invalid_input"
	KindOverflow           Kind = "overflow"
	KindUnsupported        Kind = "unsupported"
	KindUnavailable        Kind = "unavailable"
)

// NoSection marks an error not tied to a particular section.
const NoSection = -1

// Error is the structured error type used throughout assetpack
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Detail   string
	Path     []string
	Section  int64
	Position int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Section != NoSection {
		b.WriteString(" in section ")
		b.WriteString(strconv.FormatInt(e.Section, 10))
	}

	if e.Position > 0 {
		fmt.Fprintf(&b, " at 0x%x", e.Position)
	}

	if len(e.Path) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Path, "/"))
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:   phase,
			Kind:    kind,
			Section: NoSection,
		},
	}
}

// Section sets the section id
func (b *Builder) Section(id uint32) *Builder {
	b.err.Section = int64(id)
	return b
}

// Position sets the byte position
func (b *Builder) Position(pos int) *Builder {
	b.err.Position = pos
	return b
}

// Path sets the namespace path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// EndOfBuffer creates a fatal read-past-end error
func EndOfBuffer(phase Phase, cause error) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindEndOfBuffer,
		Section: NoSection,
		Detail:  "read past end of buffer",
		Cause:   cause,
	}
}

// StructuralMismatch creates an error for a tag or magic that does not match
func StructuralMismatch(phase Phase, section uint32, pos int, got, want any) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindStructuralMismatch,
		Section:  int64(section),
		Position: pos,
		Value:    got,
		Detail:   fmt.Sprintf("got %v, want %v", got, want),
	}
}

// UnknownSection creates an error for an unregistered section type
func UnknownSection(section uint32, tag uint32) *Error {
	return &Error{
		Phase:   PhaseDispatch,
		Kind:    KindUnknownSection,
		Section: int64(section),
		Value:   tag,
		Detail:  fmt.Sprintf("unknown section type %d", tag),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, key string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindNotFound,
		Section: NoSection,
		Detail:  fmt.Sprintf("%s %q not found", what, key),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, section uint32, detail string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindInvalidData,
		Section: int64(section),
		Detail:  detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindInvalidInput,
		Section: NoSection,
		Detail:  detail,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, target string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindOverflow,
		Section: NoSection,
		Detail:  fmt.Sprintf("value %v overflows %s", value, target),
		Value:   value,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    kind,
		Section: NoSection,
		Detail:  detail,
		Cause:   cause,
	}
}

// SectionErrors collects recoverable per-section failures of one decode pass
type SectionErrors []*Error

func (s SectionErrors) Error() string {
	if len(s) == 0 {
		return "[dispatch] no section errors"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d section(s) failed to decode:\n", len(s))

	// Group by kind for cleaner output
	byKind := make(map[Kind][]*Error)
	var order []Kind
	for _, e := range s {
		if _, exists := byKind[e.Kind]; !exists {
			order = append(order, e.Kind)
		}
		byKind[e.Kind] = append(byKind[e.Kind], e)
	}

	for _, k := range order {
		b.WriteString("\n  ")
		b.WriteString(string(k))
		b.WriteString(":\n")
		for _, e := range byKind[k] {
			b.WriteString("    - ")
			b.WriteString(e.Error())
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether any collected error matches target
func (s SectionErrors) Is(target error) bool {
	if _, ok := target.(SectionErrors); ok {
		return true
	}
	for _, e := range s {
		if e.Is(target) {
			return true
		}
	}
	return false
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
