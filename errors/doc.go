// Package errors provides structured error types for the flashdata library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the object name, byte offset and cause
// chain where known.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParse, errors.KindInvalidData).
//		Object("greeting").
//		Offset(128).
//		Detail("payload extends past data section").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseRead, "greeting", 40, 35)
//	err := errors.NotFound(errors.PhaseLoad, "motd")
//
// All errors implement the standard error interface and support errors.Is/As.
//
// Only the image, device and tooling layers return errors. The core object
// and view accessors degrade to truncated reads and zero values instead;
// see the object package.
package errors
