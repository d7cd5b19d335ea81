// Package pyemitter renders the target AST as a Python client on top of
// requests: one class per API set, @property accessors for nested sets,
// type-hinted methods issuing one requests call each.
package pyemitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xsrc-dev/xsrc/internal/bind"
	"github.com/xsrc-dev/xsrc/internal/expr"
	"github.com/xsrc-dev/xsrc/internal/rewrite"
)

// Emitter is the Python backend.
type Emitter struct{}

// New returns the Python backend.
func New() *Emitter { return &Emitter{} }

func (e *Emitter) Language() string  { return "python" }
func (e *Emitter) Aliases() []string { return []string{"py"} }
func (e *Emitter) FileExt() string   { return ".py" }

func (e *Emitter) Naming() rewrite.NamingRules {
	return rewrite.NamingRules{
		Class:  rewrite.PascalCase,
		Member: rewrite.SnakeCase,
		Param:  rewrite.SnakeCase,
	}
}

// Render emits the module in one pass, classes separated by two blank lines
// per PEP 8.
func (e *Emitter) Render(m *rewrite.Module) ([]byte, error) {
	var b strings.Builder
	b.WriteString("import requests\n")
	for _, kls := range m.Classes {
		b.WriteString("\n\n")
		if err := renderClass(&b, m, kls); err != nil {
			return nil, err
		}
	}
	return []byte(b.String()), nil
}

func renderClass(b *strings.Builder, m *rewrite.Module, kls rewrite.Class) error {
	fmt.Fprintf(b, "class %s:\n", kls.Name)
	renderInit(b, m, kls)
	for _, g := range kls.Getters {
		b.WriteString("\n    @property\n")
		fmt.Fprintf(b, "    def %s(self):\n", g.Name)
		fmt.Fprintf(b, "        return %s(self)\n", g.Class)
	}
	for _, meth := range kls.Methods {
		b.WriteString("\n")
		if err := renderMethod(b, meth); err != nil {
			return err
		}
	}
	return nil
}

func renderInit(b *strings.Builder, m *rewrite.Module, kls rewrite.Class) {
	if !kls.IsClient {
		b.WriteString("    def __init__(self, parent):\n")
		b.WriteString("        self._super = parent\n")
		b.WriteString("        self._base = parent._base\n")
		return
	}
	if m.BaseRequired {
		b.WriteString("    def __init__(self, base_url: str):\n")
	} else {
		fmt.Fprintf(b, "    def __init__(self, base_url: str = %s):\n", pyString(m.BaseDefault))
	}
	b.WriteString("        self._base = base_url\n")
}

func renderMethod(b *strings.Builder, m rewrite.Method) error {
	sig := []string{"self"}
	star := false
	for _, p := range m.Params() {
		// everything from the first default on is keyword-only, so a
		// required body param after a defaulted query param stays legal
		if !star && p.Default != nil {
			sig = append(sig, "*")
			star = true
		}
		part := fmt.Sprintf("%s: %s", p.Name, pyType(p.Type))
		if p.Default != nil {
			lit, err := pyLiteral(p.Type, p.Default)
			if err != nil {
				return err
			}
			part += " = " + lit
		}
		sig = append(sig, part)
	}
	fmt.Fprintf(b, "    def %s(%s):\n", m.Name, strings.Join(sig, ", "))
	args := []string{pyString(m.HTTPMethod), urlExpr(m.URL)}
	if len(m.QueryParams) > 0 {
		args = append(args, "params="+bagLiteral(m.QueryParams))
	}
	if len(m.BodyParams) > 0 {
		args = append(args, "json="+bagLiteral(m.BodyParams))
	}
	fmt.Fprintf(b, "        return requests.request(%s)\n", strings.Join(args, ", "))
	return nil
}

func urlExpr(t bind.URLTemplate) string {
	var parts []string
	if t.Rooted {
		parts = append(parts, "self._base")
	}
	for _, s := range t.Segments {
		switch s.Kind {
		case bind.TextSegment:
			parts = append(parts, pyString(s.Text))
		case bind.ParamSegment:
			parts = append(parts, fmt.Sprintf("str(%s)", s.Name))
		}
	}
	if len(parts) == 0 {
		return pyString("")
	}
	return strings.Join(parts, " + ")
}

func bagLiteral(params []rewrite.Param) string {
	entries := make([]string, 0, len(params))
	for _, p := range params {
		entries = append(entries, fmt.Sprintf("%s: %s", pyString(p.Wire), p.Name))
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

func pyType(t expr.Type) string {
	switch t {
	case expr.TypeNumber:
		return "float"
	case expr.TypeBoolean:
		return "bool"
	default:
		return "str"
	}
}

func pyLiteral(t expr.Type, v any) (string, error) {
	switch t {
	case expr.TypeString:
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("pyemitter: string default has type %T", v)
		}
		return pyString(s), nil
	case expr.TypeNumber:
		f, ok := v.(float64)
		if !ok {
			return "", fmt.Errorf("pyemitter: number default has type %T", v)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case expr.TypeBoolean:
		bv, ok := v.(bool)
		if !ok {
			return "", fmt.Errorf("pyemitter: boolean default has type %T", v)
		}
		if bv {
			return "True", nil
		}
		return "False", nil
	}
	return "", fmt.Errorf("pyemitter: unknown type %q", t)
}

func pyString(s string) string { return strconv.Quote(s) }
