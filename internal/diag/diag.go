package diag

import (
	"errors"
	"fmt"
)

// Kind categorizes compiler errors for clearer handling and messaging.
type Kind string

const (
	SchemaParse       Kind = "SchemaParseError"
	ExpressionSyntax  Kind = "ExpressionSyntaxError"
	ContextResolution Kind = "ContextResolutionError"
	TypeSpec          Kind = "TypeSpecError"
	DuplicateName     Kind = "DuplicateNameError"
	UnsupportedTarget Kind = "UnsupportedTargetLanguageError"
)

// Error is a structured compile error. Path points at the offending schema
// node, e.g. "~users.get.$params.detail". Path may be empty for errors raised
// below the transformer (the expression parser has no notion of schema
// position); the transformer attaches it on the way out.
type Error struct {
	Kind    Kind
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Newf builds an Error with a formatted message.
func Newf(kind Kind, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}

// WithPath attaches a schema path to err when it is a pathless *Error.
// Errors that already carry a path keep it; anything else passes through.
func WithPath(err error, path string) error {
	var de *Error
	if errors.As(err, &de) && de.Path == "" {
		return &Error{Kind: de.Kind, Path: path, Message: de.Message, Cause: de.Cause}
	}
	return err
}

// KindOf reports the kind of err, or "" when err is not a diag error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a diag error of the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
