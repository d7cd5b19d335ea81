// Package bind turns the raw schema tree into a fully-resolved bound client:
// every ${...} reference spliced, every <name:type> placeholder typed and
// positioned. The bound tree is immutable and is the only input the rewriter
// sees.
package bind

import (
	"strings"

	"github.com/xsrc-dev/xsrc/internal/expr"
)

// Origin says where a parameter travels in the HTTP request.
type Origin string

const (
	OriginPath  Origin = "path"
	OriginQuery Origin = "query"
	OriginBody  Origin = "body"
)

// ParamSpec is one resolved parameter. Path params are positional and
// required; query and body params may carry a default.
type ParamSpec struct {
	Name    string
	Type    expr.Type
	Origin  Origin
	Default any // nil when the parameter is required
}

// SegmentKind discriminates resolved URL template segments.
type SegmentKind int

const (
	TextSegment SegmentKind = iota
	ParamSegment
)

// Segment is one piece of a resolved URL template.
type Segment struct {
	Kind SegmentKind
	Text string // TextSegment
	Name string // ParamSegment
}

// URLTemplate is a resolved URL. Rooted templates begin at the client base
// URL (which may be overridden at construction time in generated code);
// Segments hold everything after the base. Placeholders appear as named
// positional slots.
type URLTemplate struct {
	Rooted   bool
	Segments []Segment
}

// String renders the template with {name} slots, excluding the client base.
func (t URLTemplate) String() string {
	var b strings.Builder
	for _, s := range t.Segments {
		switch s.Kind {
		case TextSegment:
			b.WriteString(s.Text)
		case ParamSegment:
			b.WriteString("{")
			b.WriteString(s.Name)
			b.WriteString("}")
		}
	}
	return b.String()
}

func (t URLTemplate) append(s Segment) URLTemplate {
	// merge adjacent literal text so templates compare cleanly
	if s.Kind == TextSegment {
		if s.Text == "" {
			return t
		}
		if n := len(t.Segments); n > 0 && t.Segments[n-1].Kind == TextSegment {
			merged := make([]Segment, n)
			copy(merged, t.Segments)
			merged[n-1].Text += s.Text
			return URLTemplate{Rooted: t.Rooted, Segments: merged}
		}
	}
	return URLTemplate{Rooted: t.Rooted, Segments: append(append([]Segment(nil), t.Segments...), s)}
}

// BoundAction is one resolved callable operation.
type BoundAction struct {
	Name        string
	Method      string
	URL         URLTemplate
	PathParams  []ParamSpec // left-to-right order of first appearance
	QueryParams []ParamSpec // document order
	BodyParams  []ParamSpec // document order
}

// BoundAPISet is a resolved namespace node.
type BoundAPISet struct {
	Name    string
	URL     URLTemplate
	Sets    []*BoundAPISet
	Actions []*BoundAction
}

// BoundClient is the fully-resolved output of one transform pass.
type BoundClient struct {
	ClassName    string
	RootURL      string // literal constructor default; empty when absent
	RootRequired bool   // true when the constructor URL argument is mandatory
	Root         *BoundAPISet
}

// ExpandURL renders a template as a full URL string, substituting the root
// literal for the base when present. With no root literal a rooted template
// renders as a base-relative path.
func (c *BoundClient) ExpandURL(t URLTemplate) string {
	if t.Rooted {
		return c.RootURL + t.String()
	}
	return t.String()
}
