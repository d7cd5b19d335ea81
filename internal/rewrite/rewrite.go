package rewrite

import (
	"strings"

	"github.com/xsrc-dev/xsrc/internal/bind"
)

// Rewrite maps a bound client onto the target-neutral module. Nested set
// classes are emitted before the classes that reference them; the client
// class comes last. Class names are qualified by their path through the set
// tree so same-named sets under different parents never collide.
func Rewrite(b *bind.BoundClient, rules NamingRules) *Module {
	m := &Module{
		ClientClass:  rules.Class(b.ClassName),
		BaseRequired: b.RootRequired,
		BaseDefault:  b.RootURL,
	}
	client := rewriteClass(m, b.Root, nil, rules)
	client.Name = m.ClientClass
	client.IsClient = true
	m.Classes = append(m.Classes, client)
	return m
}

func rewriteClass(m *Module, set *bind.BoundAPISet, path []string, rules NamingRules) Class {
	var kls Class
	for _, child := range set.Sets {
		childPath := append(append([]string(nil), path...), child.Name)
		childClass := rewriteClass(m, child, childPath, rules)
		childClass.Name = rules.Class(strings.Join(childPath, " "))
		m.Classes = append(m.Classes, childClass)
		kls.Getters = append(kls.Getters, Getter{Name: rules.Member(child.Name), Class: childClass.Name})
	}
	for _, action := range set.Actions {
		kls.Methods = append(kls.Methods, rewriteMethod(action, rules))
	}
	return kls
}

func rewriteMethod(a *bind.BoundAction, rules NamingRules) Method {
	m := Method{
		Name:       rules.Member(a.Name),
		HTTPMethod: a.Method,
		URL:        renameSlots(a.URL, rules),
	}
	for _, p := range a.PathParams {
		m.PathParams = append(m.PathParams, Param{Name: rules.Param(p.Name), Wire: p.Name, Type: p.Type})
	}
	for _, p := range a.QueryParams {
		m.QueryParams = append(m.QueryParams, Param{Name: rules.Param(p.Name), Wire: p.Name, Type: p.Type, Default: p.Default})
	}
	for _, p := range a.BodyParams {
		m.BodyParams = append(m.BodyParams, Param{Name: rules.Param(p.Name), Wire: p.Name, Type: p.Type, Default: p.Default})
	}
	return m
}

// renameSlots applies the backend's parameter casing to URL slots so the
// rendered template references the declared parameter identifiers.
func renameSlots(t bind.URLTemplate, rules NamingRules) bind.URLTemplate {
	out := bind.URLTemplate{Rooted: t.Rooted, Segments: make([]bind.Segment, len(t.Segments))}
	copy(out.Segments, t.Segments)
	for i, s := range out.Segments {
		if s.Kind == bind.ParamSegment {
			out.Segments[i].Name = rules.Param(s.Name)
		}
	}
	return out
}
