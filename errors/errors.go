package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBuild    Phase = "build"    // image construction
	PhaseParse    Phase = "parse"    // image parsing
	PhaseLoad     Phase = "load"     // store/device setup
	PhaseRead     Phase = "read"     // device read operations
	PhaseManifest Phase = "manifest" // manifest loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidMagic   Kind = "invalid_magic"
	KindInvalidVersion Kind = "invalid_version"
	KindInvalidData    Kind = "invalid_data"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindMisaligned     Kind = "misaligned"
	KindNotFound       Kind = "not_found"
	KindDuplicate      Kind = "duplicate"
	KindUnsupported    Kind = "unsupported"
	KindOverflow       Kind = "overflow"
	KindInvalidInput   Kind = "invalid_input"
)

// Error is the structured error type used by the image and device layers.
// The core accessor paths never produce errors; range conditions there
// degrade to truncated reads or zero values instead.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Object string
	Offset int64
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Object != "" {
		b.WriteString(" object ")
		b.WriteString(e.Object)
	}

	if e.Offset > 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
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
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Object sets the object name
func (b *Builder) Object(name string) *Builder {
	b.err.Object = name
	return b
}

// Offset sets the byte offset at which the error was detected
func (b *Builder) Offset(off int64) *Builder {
	b.err.Offset = off
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

// InvalidMagic creates an invalid magic number error
func InvalidMagic(got, want uint32) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidMagic,
		Detail: fmt.Sprintf("magic %#08x, want %#08x", got, want),
		Value:  got,
	}
}

// InvalidVersion creates an unsupported container version error
func InvalidVersion(got, want uint32) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidVersion,
		Detail: fmt.Sprintf("container version %d, want %d", got, want),
		Value:  got,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, object string, offset, length int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Object: object,
		Offset: offset,
		Detail: fmt.Sprintf("offset %d out of bounds (length %d)", offset, length),
		Value:  offset,
	}
}

// Misaligned creates an alignment violation error
func Misaligned(phase Phase, object string, offset int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMisaligned,
		Object: object,
		Offset: offset,
		Detail: fmt.Sprintf("offset %d not 4-byte aligned", offset),
		Value:  offset,
	}
}

// NotFound creates a missing object error
func NotFound(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Object: name,
		Detail: fmt.Sprintf("object %q not found", name),
	}
}

// Duplicate creates a duplicate object name error
func Duplicate(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Object: name,
		Detail: fmt.Sprintf("object %q already defined", name),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, object string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Object: object,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
