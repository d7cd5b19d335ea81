package diag

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorRendering(t *testing.T) {
	t.Parallel()

	err := Newf(SchemaParse, "~users.get", "unsupported HTTP method %q", "FETCH")
	want := `SchemaParseError at ~users.get: unsupported HTTP method "FETCH"`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	pathless := Newf(ExpressionSyntax, "", "unexpected end of expression")
	if pathless.Error() != "ExpressionSyntaxError: unexpected end of expression" {
		t.Errorf("got %q", pathless.Error())
	}
}

func TestWithPath(t *testing.T) {
	t.Parallel()

	err := Newf(TypeSpec, "", "unknown primitive type %q", "int")
	located := WithPath(err, "~a.x.$params.n")
	if !IsKind(located, TypeSpec) {
		t.Errorf("kind lost: %v", located)
	}
	var de *Error
	if !errors.As(located, &de) || de.Path != "~a.x.$params.n" {
		t.Errorf("path not attached: %v", located)
	}

	// an existing path wins
	kept := WithPath(Newf(DuplicateName, "here", "x"), "there")
	errors.As(kept, &de)
	if de.Path != "here" {
		t.Errorf("path overwritten: %v", kept)
	}

	// foreign errors pass through untouched
	plain := fmt.Errorf("boom")
	if WithPath(plain, "p") != plain {
		t.Error("expected pass-through")
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("outer: %w", Newf(ContextResolution, "", "no attribute"))
	if KindOf(wrapped) != ContextResolution {
		t.Errorf("got %q", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("expected empty kind for foreign errors")
	}
	if !IsKind(wrapped, ContextResolution) {
		t.Error("IsKind mismatch")
	}
}
