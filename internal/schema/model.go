// Package schema loads a xsrc schema document into an order-preserving raw
// tree. Key syntax decides node kind: keys prefixed "~" declare nested API
// sets, keys prefixed "$" are configuration attributes of the enclosing
// node, anything else declares an action. The document root is the implicit
// client node.
package schema

// NodeKind tells the three node shapes of the raw tree apart.
type NodeKind int

const (
	KindClient NodeKind = iota
	KindAPISet
	KindAction
)

func (k NodeKind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindAPISet:
		return "apiset"
	case KindAction:
		return "action"
	}
	return "unknown"
}

// Attr is one $params/$data entry in document order. Spec is the raw value
// string ("boolean|default:true"); Path points at the entry for diagnostics.
type Attr struct {
	Name string
	Spec string
	Path string
}

// Node is a raw schema tree node. The transformer owns it exclusively during
// one transform pass; it is never shared.
type Node struct {
	Kind NodeKind
	Name string // public name with the "~" prefix stripped; empty for the root
	Path string // schema path for diagnostics, e.g. "~users.get"

	URL    *string // $url; nil when absent or explicitly null
	Method string  // $method; actions only, empty when absent
	Params []Attr  // $params entries in document order
	Data   []Attr  // $data entries in document order
	As     string  // $as; root only

	Children []*Node // nested API sets and actions in document order
}

// joinPath appends a raw key to a schema path.
func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
