package bind

import (
	"strings"

	"github.com/xsrc-dev/xsrc/internal/diag"
	"github.com/xsrc-dev/xsrc/internal/expr"
)

// The context tree mirrors the schema's nesting and carries each node's
// already-resolved attributes for ${!super...} lookups. Parent links are
// indexes into an arena slice, so the tree has no ownership cycles and the
// back-reference is read-only by construction.

type contextNode struct {
	name   string
	parent int // arena index, -1 for the root
	attrs  map[string]URLTemplate
}

type contextArena struct {
	nodes []contextNode
}

// add appends a context and returns its handle. Parents must be added before
// their children; the transformer's top-down walk guarantees it.
func (a *contextArena) add(name string, parent int) int {
	a.nodes = append(a.nodes, contextNode{name: name, parent: parent, attrs: map[string]URLTemplate{}})
	return len(a.nodes) - 1
}

func (a *contextArena) setAttr(id int, name string, v URLTemplate) {
	a.nodes[id].attrs[name] = v
}

// path renders the dotted context path for diagnostics.
func (a *contextArena) path(id int) string {
	var parts []string
	for cur := id; cur >= 0; cur = a.nodes[cur].parent {
		parts = append(parts, a.nodes[cur].name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// names returns the context names from the root's first child down to id.
// Generated class names qualify by this chain.
func (a *contextArena) names(id int) []string {
	var parts []string
	for cur := id; a.nodes[cur].parent >= 0; cur = a.nodes[cur].parent {
		parts = append(parts, a.nodes[cur].name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return parts
}

// resolve walks ref.Hops parent links up from id and looks up the trailing
// attribute there. Resolution is a pure read: the transformer resolves a
// node's own attributes before descending, so ancestor attributes are always
// complete by the time a child references them.
func (a *contextArena) resolve(id int, ref expr.Ref) (URLTemplate, error) {
	cur := id
	for hop := 0; hop < ref.Hops; hop++ {
		cur = a.nodes[cur].parent
		if cur < 0 {
			return URLTemplate{}, diag.Newf(diag.ContextResolution, "",
				"!super chain exceeds tree depth (%d hops from %s)", ref.Hops, a.path(id))
		}
	}
	v, ok := a.nodes[cur].attrs[ref.Attr]
	if !ok {
		return URLTemplate{}, diag.Newf(diag.ContextResolution, "",
			"no attribute %q at %s", ref.Attr, a.path(cur))
	}
	return v, nil
}
