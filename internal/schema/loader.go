package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xsrc-dev/xsrc/internal/diag"
)

// DefaultClassName is the generated client class name when $as is absent.
const DefaultClassName = "XSClient"

// LoadFile reads and parses a schema file.
func LoadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	return Parse(data)
}

// Load parses a schema document from r.
func Load(r io.Reader) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML schema document into the raw tree. Mapping order is
// preserved: parameter declarations and sibling order are significant
// downstream.
func Parse(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, diag.Newf(diag.SchemaParse, "", "invalid document: %v", err)
	}
	body := &doc
	if body.Kind == yaml.DocumentNode {
		if len(body.Content) == 0 {
			return nil, diag.Newf(diag.SchemaParse, "", "empty schema document")
		}
		body = body.Content[0]
	}
	root, err := decode(body, KindClient, "", "")
	if err != nil {
		return nil, err
	}
	if root.As == "" {
		root.As = DefaultClassName
	}
	return root, nil
}

func decode(v *yaml.Node, kind NodeKind, name, path string) (*Node, error) {
	v = deref(v)
	n := &Node{Kind: kind, Name: name, Path: path}
	if isNull(v) {
		// "all: {}" and "all:" both declare an empty action
		if kind == KindAction {
			return n, nil
		}
		return nil, diag.Newf(diag.SchemaParse, path, "%s must be a mapping", kind)
	}
	if v.Kind != yaml.MappingNode {
		return nil, diag.Newf(diag.SchemaParse, path, "%s must be a mapping", kind)
	}

	for i := 0; i+1 < len(v.Content); i += 2 {
		keyNode, valNode := v.Content[i], deref(v.Content[i+1])
		if keyNode.Kind != yaml.ScalarNode {
			return nil, diag.Newf(diag.SchemaParse, path, "mapping keys must be scalar")
		}
		key := keyNode.Value
		keyPath := joinPath(path, key)

		if len(key) > 0 && key[0] == '$' {
			if err := decodeAttr(n, key, keyPath, valNode); err != nil {
				return nil, err
			}
			continue
		}

		if kind == KindAction {
			return nil, diag.Newf(diag.SchemaParse, keyPath, "unknown $-key or nested declaration inside an action")
		}
		childKind := KindAction
		childName := key
		if len(key) > 0 && key[0] == '~' {
			childKind = KindAPISet
			childName = key[1:]
			if childName == "" {
				return nil, diag.Newf(diag.SchemaParse, keyPath, "API set declaration has no name")
			}
		}
		child, err := decode(v.Content[i+1], childKind, childName, keyPath)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func decodeAttr(n *Node, key, keyPath string, val *yaml.Node) error {
	switch key {
	case "$url":
		if isNull(val) {
			return nil // explicit null means absent
		}
		s, err := scalarString(val, keyPath)
		if err != nil {
			return err
		}
		n.URL = &s
	case "$method":
		if n.Kind != KindAction {
			return diag.Newf(diag.SchemaParse, keyPath, "$method is only valid on actions")
		}
		s, err := scalarString(val, keyPath)
		if err != nil {
			return err
		}
		n.Method = s
	case "$params", "$data":
		if n.Kind != KindAction {
			return diag.Newf(diag.SchemaParse, keyPath, "%s is only valid on actions", key)
		}
		attrs, err := decodeParamMap(val, keyPath)
		if err != nil {
			return err
		}
		if key == "$params" {
			n.Params = attrs
		} else {
			n.Data = attrs
		}
	case "$as":
		if n.Kind != KindClient {
			return diag.Newf(diag.SchemaParse, keyPath, "$as is only valid at the document root")
		}
		s, err := scalarString(val, keyPath)
		if err != nil {
			return err
		}
		n.As = s
	default:
		return diag.Newf(diag.SchemaParse, keyPath, "unknown $-key %q", key)
	}
	return nil
}

func decodeParamMap(v *yaml.Node, path string) ([]Attr, error) {
	if isNull(v) {
		return nil, nil
	}
	if v.Kind != yaml.MappingNode {
		return nil, diag.Newf(diag.SchemaParse, path, "expected a mapping of name to type")
	}
	attrs := make([]Attr, 0, len(v.Content)/2)
	for i := 0; i+1 < len(v.Content); i += 2 {
		keyNode, valNode := v.Content[i], deref(v.Content[i+1])
		if keyNode.Kind != yaml.ScalarNode {
			return nil, diag.Newf(diag.SchemaParse, path, "parameter names must be scalar")
		}
		entryPath := joinPath(path, keyNode.Value)
		spec, err := scalarString(valNode, entryPath)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, Attr{Name: keyNode.Value, Spec: spec, Path: entryPath})
	}
	return attrs, nil
}

func scalarString(v *yaml.Node, path string) (string, error) {
	if v.Kind != yaml.ScalarNode || isNull(v) {
		return "", diag.Newf(diag.SchemaParse, path, "expected a string value")
	}
	return v.Value, nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || n.Tag == "!!null" || (n.Kind == 0 && n.Value == "")
}
