package expr

import (
	"strings"

	"github.com/xsrc-dev/xsrc/internal/diag"
)

// Parse parses one schema string into an Expression. It is pure: a string
// with no markers parses to a single literal segment.
//
// Markers:
//
//	${!super.!super.url}   context reference, hops then optional attribute
//	<id:number>            typed placeholder
//	\$ \< \\               escapes in literal text
func Parse(s string) (Expression, error) {
	var segs []Segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Kind: SegmentLiteral, Text: lit.String()})
			lit.Reset()
		}
	}

	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			if i+1 >= len(rs) {
				return Expression{}, errUnexpectedEOF()
			}
			i++
			lit.WriteRune(rs[i])
		case '$':
			flush()
			ref, next, err := parseRef(rs, i+1)
			if err != nil {
				return Expression{}, err
			}
			segs = append(segs, Segment{Kind: SegmentRef, Ref: ref})
			i = next - 1
		case '<':
			flush()
			ph, next, err := parsePlaceholder(rs, i+1)
			if err != nil {
				return Expression{}, err
			}
			segs = append(segs, Segment{Kind: SegmentParam, Param: ph})
			i = next - 1
		default:
			lit.WriteRune(rs[i])
		}
	}
	flush()
	if len(segs) == 0 {
		segs = append(segs, Segment{Kind: SegmentLiteral, Text: ""})
	}
	return Expression{Segments: segs}, nil
}

// parseRef consumes "{path}" starting at pos (just past the '$') and returns
// the parsed reference plus the index after the closing brace.
func parseRef(rs []rune, pos int) (Ref, int, error) {
	if pos >= len(rs) {
		return Ref{}, 0, errUnexpectedEOF()
	}
	if rs[pos] != '{' {
		return Ref{}, 0, errUnexpectedToken(rs[pos], pos)
	}
	var elems []string
	var cur strings.Builder
	for i := pos + 1; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			return Ref{}, 0, errUnexpectedToken(rs[i], i)
		case '}':
			if cur.Len() == 0 {
				return Ref{}, 0, errUnexpectedToken(rs[i], i)
			}
			elems = append(elems, cur.String())
			ref, err := refFromPath(elems, i)
			if err != nil {
				return Ref{}, 0, err
			}
			return ref, i + 1, nil
		case '.':
			if cur.Len() == 0 {
				return Ref{}, 0, errUnexpectedToken(rs[i], i)
			}
			elems = append(elems, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(rs[i])
		}
	}
	return Ref{}, 0, errUnexpectedEOF()
}

// refFromPath validates a dotted reference path: zero or more !super tokens,
// then at most one trailing attribute name.
func refFromPath(elems []string, pos int) (Ref, error) {
	ref := Ref{Attr: "url"}
	i := 0
	for i < len(elems) && elems[i] == "!super" {
		ref.Hops++
		i++
	}
	switch len(elems) - i {
	case 0:
		if ref.Hops == 0 {
			// cannot happen: the scanner guarantees a non-empty element
			return Ref{}, diag.Newf(diag.ExpressionSyntax, "", "empty reference path")
		}
	case 1:
		ref.Attr = elems[i]
		if ref.Attr == "!super" || !isIdent(ref.Attr) {
			return Ref{}, diag.Newf(diag.ExpressionSyntax, "", "invalid attribute %q at pos %d", elems[i], pos)
		}
	default:
		return Ref{}, diag.Newf(diag.ExpressionSyntax, "", "unexpected path element %q at pos %d (only !super hops may precede the attribute)", elems[i+1], pos)
	}
	return ref, nil
}

// parsePlaceholder consumes "name:type>" starting at pos (just past '<') and
// returns the parsed placeholder plus the index after '>'.
func parsePlaceholder(rs []rune, pos int) (Placeholder, int, error) {
	var name, typ strings.Builder
	inName := true
	for i := pos; i < len(rs); i++ {
		switch rs[i] {
		case '>':
			if name.Len() == 0 {
				return Placeholder{}, 0, errUnexpectedToken(rs[i], i)
			}
			if inName || typ.Len() == 0 {
				return Placeholder{}, 0, diag.Newf(diag.ExpressionSyntax, "", "placeholder %q has no type", name.String())
			}
			t, ok := ParseType(typ.String())
			if !ok {
				return Placeholder{}, 0, diag.Newf(diag.ExpressionSyntax, "", "unknown placeholder type %q", typ.String())
			}
			if !isIdent(name.String()) {
				return Placeholder{}, 0, diag.Newf(diag.ExpressionSyntax, "", "invalid placeholder name %q", name.String())
			}
			return Placeholder{Name: name.String(), Type: t}, i + 1, nil
		case ':':
			if name.Len() == 0 || !inName {
				return Placeholder{}, 0, errUnexpectedToken(rs[i], i)
			}
			inName = false
		default:
			if inName {
				name.WriteRune(rs[i])
			} else {
				typ.WriteRune(rs[i])
			}
		}
	}
	return Placeholder{}, 0, errUnexpectedEOF()
}

// ParseParamSpec parses a $params/$data value: "type" optionally followed by
// "|modifier:value" extensions, e.g. "boolean|default:true".
func ParseParamSpec(s string) (Type, []Modifier, error) {
	parts := strings.Split(s, "|")
	t, ok := ParseType(strings.TrimSpace(parts[0]))
	if !ok {
		return "", nil, diag.Newf(diag.TypeSpec, "", "unknown primitive type %q", strings.TrimSpace(parts[0]))
	}
	var mods []Modifier
	for _, part := range parts[1:] {
		name, value, found := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return "", nil, diag.Newf(diag.TypeSpec, "", "malformed modifier %q (want name:value)", part)
		}
		if name != "default" {
			return "", nil, diag.Newf(diag.TypeSpec, "", "unknown modifier %q", name)
		}
		mods = append(mods, Modifier{Name: name, Value: value})
	}
	return t, mods, nil
}

// isIdent accepts wire-name identifiers: letters and underscores anywhere,
// digits and hyphens after the first rune. Hyphenated names keep their
// spelling on the request and are re-cased per backend in generated code.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9', r == '-':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func errUnexpectedToken(r rune, pos int) error {
	return diag.Newf(diag.ExpressionSyntax, "", "unexpected token %q at pos %d", string(r), pos)
}

func errUnexpectedEOF() error {
	return diag.Newf(diag.ExpressionSyntax, "", "unexpected end of expression")
}
