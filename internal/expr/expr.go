// Package expr parses the small expression language embedded in schema
// strings: ${...} context references and <name:type> placeholders inside URL
// templates, plus the "type|modifier:value" grammar of $params/$data values.
package expr

import (
	"strconv"
	"strings"

	"github.com/xsrc-dev/xsrc/internal/diag"
)

// Type is one of the primitive parameter types the grammar admits.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)

// ParseType maps a raw type token onto a Type.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeString, TypeNumber, TypeBoolean:
		return Type(s), true
	}
	return "", false
}

// SegmentKind discriminates the three segment shapes of an Expression.
type SegmentKind int

const (
	SegmentLiteral SegmentKind = iota
	SegmentRef
	SegmentParam
)

// Ref is a parsed ${...} body: a chain of !super hops followed by an
// attribute lookup. ${!super} is shorthand for ${!super.url}; the parser
// fills the default in, so Attr is never empty.
type Ref struct {
	Hops int
	Attr string
}

// Placeholder is a parsed <name:type> path parameter.
type Placeholder struct {
	Name string
	Type Type
}

// Segment is one piece of a parsed schema string.
type Segment struct {
	Kind  SegmentKind
	Text  string      // SegmentLiteral
	Ref   Ref         // SegmentRef
	Param Placeholder // SegmentParam
}

// Expression is the parsed, immutable form of one schema string.
type Expression struct {
	Segments []Segment
}

// IsLiteral reports whether the expression is plain text with no references
// or placeholders.
func (e Expression) IsLiteral() bool {
	for _, s := range e.Segments {
		if s.Kind != SegmentLiteral {
			return false
		}
	}
	return true
}

// Literal concatenates the literal segments. Only meaningful when IsLiteral
// holds.
func (e Expression) Literal() string {
	var b strings.Builder
	for _, s := range e.Segments {
		if s.Kind == SegmentLiteral {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// Placeholders returns the typed placeholders in left-to-right order.
func (e Expression) Placeholders() []Placeholder {
	var ps []Placeholder
	for _, s := range e.Segments {
		if s.Kind == SegmentParam {
			ps = append(ps, s.Param)
		}
	}
	return ps
}

// Modifier is one "name:value" extension on a parameter type spec. The base
// grammar only defines "default", but the list shape leaves room for more.
type Modifier struct {
	Name  string
	Value string
}

// ConvertDefault parses a default-value literal as the declared type.
func ConvertDefault(t Type, raw string) (any, error) {
	switch t {
	case TypeString:
		return raw, nil
	case TypeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, diag.Newf(diag.TypeSpec, "", "default %q is not a number", raw)
		}
		return f, nil
	case TypeBoolean:
		switch raw {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, diag.Newf(diag.TypeSpec, "", "default %q is not a boolean", raw)
	}
	return nil, diag.Newf(diag.TypeSpec, "", "unknown primitive type %q", string(t))
}
