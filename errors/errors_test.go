package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseDispatch,
				Kind:     KindStructuralMismatch,
				Section:  12,
				Position: 0x40,
				Path:     []string{"effects", "fire"},
				Detail:   "bad magic",
			},
			contains: []string{"[dispatch]", "structural_mismatch", "section 12", "0x40", "effects/fire", "bad magic"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase:   PhaseDecode,
				Kind:    KindEndOfBuffer,
				Section: NoSection,
			},
			contains: []string{"[decode]", "end_of_buffer"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:   PhaseLoad,
				Kind:    KindInvalidData,
				Section: NoSection,
				Detail:  "fetch failed",
				Cause:   errors.New("underlying error"),
			},
			contains: []string{"[load]", "invalid_data", "fetch failed", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_NoSectionOmitted(t *testing.T) {
	msg := EndOfBuffer(PhaseDecode, nil).Error()
	if strings.Contains(msg, "section") {
		t.Errorf("message %q should not mention a section", msg)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := EndOfBuffer(PhaseDecode, cause)

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:   PhaseDispatch,
		Kind:    KindStructuralMismatch,
		Section: 3,
	}

	if !err.Is(&Error{Phase: PhaseDispatch, Kind: KindStructuralMismatch}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindStructuralMismatch}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDispatch, Kind: KindEndOfBuffer}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseDispatch, Kind: KindStructuralMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDispatch, KindStructuralMismatch).
		Section(7).
		Position(0x20).
		Path("ui", "icons").
		Value("BLRR").
		Cause(cause).
		Detail("expected %q, got %q", "BLUR", "BLRR").
		Build()

	if err.Phase != PhaseDispatch {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDispatch)
	}
	if err.Kind != KindStructuralMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindStructuralMismatch)
	}
	if err.Section != 7 {
		t.Errorf("Section = %d, want 7", err.Section)
	}
	if err.Position != 0x20 {
		t.Errorf("Position = %d, want 0x20", err.Position)
	}
	if len(err.Path) != 2 || err.Path[0] != "ui" || err.Path[1] != "icons" {
		t.Errorf("Path = %v, want [ui icons]", err.Path)
	}
	if err.Value != "BLRR" {
		t.Errorf("Value = %v, want BLRR", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != `expected "BLUR", got "BLRR"` {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestBuilder_DefaultsToNoSection(t *testing.T) {
	err := New(PhaseResolve, KindNotFound).Build()
	if err.Section != NoSection {
		t.Errorf("Section = %d, want NoSection", err.Section)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("StructuralMismatch", func(t *testing.T) {
		err := StructuralMismatch(PhaseDispatch, 4, 0x10, "PATX", "PATH")
		if err.Kind != KindStructuralMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindStructuralMismatch)
		}
		if err.Value != "PATX" || err.Section != 4 || err.Position != 0x10 {
			t.Errorf("Value=%v Section=%d Position=%d", err.Value, err.Section, err.Position)
		}
	})

	t.Run("UnknownSection", func(t *testing.T) {
		err := UnknownSection(9, 99)
		if err.Kind != KindUnknownSection {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnknownSection)
		}
		if !strings.Contains(err.Detail, "99") {
			t.Errorf("Detail = %v, should contain tag", err.Detail)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseResolve, "emitter", "emitter:7")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !strings.Contains(err.Detail, "emitter:7") {
			t.Errorf("Detail = %v, should contain key", err.Detail)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseEncode, 70000, "s16")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
		if err.Value != 70000 {
			t.Errorf("Value = %v, want 70000", err.Value)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseConfig, "bad mask")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
	})
}

func TestSectionErrors(t *testing.T) {
	t.Run("grouped by kind", func(t *testing.T) {
		errs := SectionErrors{
			StructuralMismatch(PhaseDispatch, 1, 0, "X", "Y"),
			UnknownSection(2, 40),
			StructuralMismatch(PhaseDispatch, 3, 0, "A", "B"),
		}
		msg := errs.Error()
		if !strings.Contains(msg, "3 section(s)") {
			t.Errorf("error should contain count, got: %s", msg)
		}
		if strings.Count(msg, "structural_mismatch:") != 1 {
			t.Errorf("error should group by kind, got: %s", msg)
		}
		if !strings.Contains(msg, "unknown_section:") {
			t.Errorf("error should contain second kind, got: %s", msg)
		}
	})

	t.Run("empty", func(t *testing.T) {
		msg := SectionErrors{}.Error()
		if !strings.Contains(msg, "no section errors") {
			t.Errorf("empty error should have specific message, got: %s", msg)
		}
	})

	t.Run("errors.Is", func(t *testing.T) {
		var err error = SectionErrors{UnknownSection(2, 40)}
		if !errors.Is(err, &Error{Phase: PhaseDispatch, Kind: KindUnknownSection}) {
			t.Error("errors.Is should match a contained error")
		}
		if errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindEndOfBuffer}) {
			t.Error("errors.Is should not match an absent kind")
		}
	})
}

func TestIsAsPassthrough(t *testing.T) {
	inner := UnknownSection(1, 2)
	wrapped := Wrap(PhaseDecode, KindInvalidData, inner, "outer")

	if !Is(wrapped, &Error{Phase: PhaseDispatch, Kind: KindUnknownSection}) {
		t.Error("Is should find the wrapped error")
	}
	var target *Error
	if !As(wrapped, &target) || target != wrapped {
		t.Error("As should return the outermost *Error")
	}
}
