// Package errors provides structured error types for the assetpack decoder.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the section id and byte position where decoding
// stopped, the offending value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDispatch, errors.KindStructuralMismatch).
//		Section(12).
//		Position(0x40).
//		Value("BLRR").
//		Detail("expected type string %q", "BLUR").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.EndOfBuffer(errors.PhaseDecode, cause)
//	err := errors.NotFound(errors.PhaseResolve, "emitter", "emitter:7")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
