// Package jsemitter renders the target AST as an ES-module JavaScript client
// on top of axios: one class per API set, async methods issuing one axios
// call each.
package jsemitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xsrc-dev/xsrc/internal/bind"
	"github.com/xsrc-dev/xsrc/internal/expr"
	"github.com/xsrc-dev/xsrc/internal/rewrite"
)

// Emitter is the JavaScript backend.
type Emitter struct{}

// New returns the JavaScript backend.
func New() *Emitter { return &Emitter{} }

func (e *Emitter) Language() string  { return "javascript" }
func (e *Emitter) Aliases() []string { return []string{"js"} }
func (e *Emitter) FileExt() string   { return ".js" }

func (e *Emitter) Naming() rewrite.NamingRules {
	return rewrite.NamingRules{
		Class:  rewrite.PascalCase,
		Member: rewrite.CamelCase,
		Param:  rewrite.CamelCase,
	}
}

// Render emits the module in one pass: import, nested classes, client class,
// default export.
func (e *Emitter) Render(m *rewrite.Module) ([]byte, error) {
	var b strings.Builder
	b.WriteString("import axios from \"axios\";\n")
	for _, kls := range m.Classes {
		b.WriteString("\n")
		if err := renderClass(&b, m, kls); err != nil {
			return nil, err
		}
	}
	fmt.Fprintf(&b, "\nexport default %s;\n", m.ClientClass)
	return []byte(b.String()), nil
}

func renderClass(b *strings.Builder, m *rewrite.Module, kls rewrite.Class) error {
	fmt.Fprintf(b, "class %s {\n", kls.Name)
	renderConstructor(b, m, kls)
	for _, g := range kls.Getters {
		fmt.Fprintf(b, "\n  get %s() {\n    return new %s(this);\n  }\n", g.Name, g.Class)
	}
	for _, meth := range kls.Methods {
		b.WriteString("\n")
		if err := renderMethod(b, meth); err != nil {
			return err
		}
	}
	b.WriteString("}\n")
	return nil
}

func renderConstructor(b *strings.Builder, m *rewrite.Module, kls rewrite.Class) {
	if !kls.IsClient {
		b.WriteString("  constructor(parent) {\n")
		b.WriteString("    this._super = parent;\n")
		b.WriteString("    this._base = parent._base;\n")
		b.WriteString("  }\n")
		return
	}
	if m.BaseRequired {
		b.WriteString("  constructor(baseURL) {\n")
		b.WriteString("    if (baseURL === undefined) {\n")
		b.WriteString("      throw new TypeError(\"baseURL is required\");\n")
		b.WriteString("    }\n")
	} else {
		fmt.Fprintf(b, "  constructor(baseURL = %s) {\n", jsString(m.BaseDefault))
	}
	b.WriteString("    this._base = baseURL;\n")
	b.WriteString("  }\n")
}

func renderMethod(b *strings.Builder, m rewrite.Method) error {
	sig := make([]string, 0, 4)
	for _, p := range m.Params() {
		if p.Default != nil {
			lit, err := jsLiteral(p.Type, p.Default)
			if err != nil {
				return err
			}
			sig = append(sig, fmt.Sprintf("%s = %s", p.Name, lit))
		} else {
			sig = append(sig, p.Name)
		}
	}
	fmt.Fprintf(b, "  async %s(%s) {\n", m.Name, strings.Join(sig, ", "))
	b.WriteString("    return axios({\n")
	fmt.Fprintf(b, "      method: %s,\n", jsString(strings.ToLower(m.HTTPMethod)))
	fmt.Fprintf(b, "      url: %s,\n", urlExpr(m.URL))
	if len(m.QueryParams) > 0 {
		fmt.Fprintf(b, "      params: %s,\n", bagLiteral(m.QueryParams))
	}
	if len(m.BodyParams) > 0 {
		fmt.Fprintf(b, "      data: %s,\n", bagLiteral(m.BodyParams))
	}
	b.WriteString("    });\n")
	b.WriteString("  }\n")
	return nil
}

// urlExpr renders the template as a string-concatenation expression; the
// client base is this._base so a runtime override reaches every call site.
func urlExpr(t bind.URLTemplate) string {
	var parts []string
	if t.Rooted {
		parts = append(parts, "this._base")
	}
	for _, s := range t.Segments {
		switch s.Kind {
		case bind.TextSegment:
			parts = append(parts, jsString(s.Text))
		case bind.ParamSegment:
			parts = append(parts, fmt.Sprintf("encodeURIComponent(%s)", s.Name))
		}
	}
	if len(parts) == 0 {
		return jsString("")
	}
	return strings.Join(parts, " + ")
}

func bagLiteral(params []rewrite.Param) string {
	entries := make([]string, 0, len(params))
	for _, p := range params {
		entries = append(entries, fmt.Sprintf("%s: %s", jsString(p.Wire), p.Name))
	}
	return "{ " + strings.Join(entries, ", ") + " }"
}

func jsLiteral(t expr.Type, v any) (string, error) {
	switch t {
	case expr.TypeString:
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("jsemitter: string default has type %T", v)
		}
		return jsString(s), nil
	case expr.TypeNumber:
		f, ok := v.(float64)
		if !ok {
			return "", fmt.Errorf("jsemitter: number default has type %T", v)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case expr.TypeBoolean:
		bv, ok := v.(bool)
		if !ok {
			return "", fmt.Errorf("jsemitter: boolean default has type %T", v)
		}
		return strconv.FormatBool(bv), nil
	}
	return "", fmt.Errorf("jsemitter: unknown type %q", t)
}

func jsString(s string) string { return strconv.Quote(s) }
