package bind

import (
	"strings"

	"github.com/xsrc-dev/xsrc/internal/diag"
	"github.com/xsrc-dev/xsrc/internal/expr"
	"github.com/xsrc-dev/xsrc/internal/schema"
)

// defaultActionURL inherits the enclosing API set's resolved url unchanged.
const defaultActionURL = "${!super}"

var httpMethods = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "DELETE": {}, "PATCH": {}, "HEAD": {}, "OPTIONS": {},
}

type transformer struct {
	arena     contextArena
	rootURL   string
	classKeys map[string]string // canonical class name -> declaring path
}

// canonicalName folds a public name to the skeleton every backend casing
// maps it to: separators dropped, letters lowered. "user-profiles",
// "userProfiles" and "UserProfiles" all fold to "userprofiles", so spellings
// that would collide after re-casing collide here, with a schema path to
// point at.
func canonicalName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r == '-' || r == '_' || r == ' ' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Transform performs one top-down, depth-first pass over the raw tree and
// emits a fully bound client. Each node's attributes are resolved before its
// children are visited, which is what makes ${!super...} lookups pure reads.
func Transform(root *schema.Node) (*BoundClient, error) {
	t := &transformer{classKeys: map[string]string{}}
	rootID := t.arena.add(root.As, -1)
	t.classKeys[canonicalName(root.As)] = "$as"

	client := &BoundClient{ClassName: root.As, RootRequired: root.URL == nil}
	if root.URL != nil {
		e, err := expr.Parse(*root.URL)
		if err != nil {
			return nil, diag.WithPath(err, "$url")
		}
		tmpl, _, err := t.buildTemplate(rootID, e, "$url", false)
		if err != nil {
			return nil, err
		}
		client.RootURL = tmpl.String()
		t.rootURL = client.RootURL
	}
	t.arena.setAttr(rootID, "url", URLTemplate{Rooted: true})

	top := &BoundAPISet{URL: URLTemplate{Rooted: true}}
	if err := t.children(root, rootID, top); err != nil {
		return nil, err
	}
	client.Root = top
	return client, nil
}

func (t *transformer) children(n *schema.Node, id int, out *BoundAPISet) error {
	seen := map[string]string{}
	for _, child := range n.Children {
		key := canonicalName(child.Name)
		if prev, ok := seen[key]; ok {
			return diag.Newf(diag.DuplicateName, child.Path,
				"public name %q already declared at %s", child.Name, prev)
		}
		seen[key] = child.Path

		switch child.Kind {
		case schema.KindAPISet:
			set, err := t.transformAPISet(child, id)
			if err != nil {
				return err
			}
			out.Sets = append(out.Sets, set)
		case schema.KindAction:
			action, err := t.transformAction(child, id)
			if err != nil {
				return err
			}
			out.Actions = append(out.Actions, action)
		}
	}
	return nil
}

func (t *transformer) transformAPISet(n *schema.Node, parentID int) (*BoundAPISet, error) {
	id := t.arena.add(n.Name, parentID)
	// class names qualify by the set chain, so a deeper set can still
	// collide with a sibling of its ancestors (or with $as)
	classKey := canonicalName(strings.Join(t.arena.names(id), " "))
	if prev, ok := t.classKeys[classKey]; ok {
		return nil, diag.Newf(diag.DuplicateName, n.Path,
			"generated class name for %q collides with the declaration at %s", n.Name, prev)
	}
	t.classKeys[classKey] = n.Path
	if n.URL == nil {
		return nil, diag.Newf(diag.SchemaParse, n.Path, "API set requires $url")
	}
	e, err := expr.Parse(*n.URL)
	if err != nil {
		return nil, diag.WithPath(err, n.Path+".$url")
	}
	tmpl, _, err := t.buildTemplate(id, e, n.Path+".$url", false)
	if err != nil {
		return nil, err
	}
	t.arena.setAttr(id, "url", tmpl)

	set := &BoundAPISet{Name: n.Name, URL: tmpl}
	if err := t.children(n, id, set); err != nil {
		return nil, err
	}
	return set, nil
}

func (t *transformer) transformAction(n *schema.Node, parentID int) (*BoundAction, error) {
	id := t.arena.add(n.Name, parentID)
	urlPath := n.Path + ".$url"
	raw := defaultActionURL
	if n.URL != nil {
		raw = *n.URL
	}
	e, err := expr.Parse(raw)
	if err != nil {
		return nil, diag.WithPath(err, urlPath)
	}
	tmpl, pathParams, err := t.buildTemplate(id, e, urlPath, true)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(n.Method)
	if method == "" {
		method = "GET"
	}
	if _, ok := httpMethods[method]; !ok {
		return nil, diag.Newf(diag.SchemaParse, n.Path+".$method", "unsupported HTTP method %q", n.Method)
	}

	t.arena.setAttr(id, "url", tmpl)
	t.arena.setAttr(id, "method", URLTemplate{Segments: []Segment{{Kind: TextSegment, Text: method}}})

	names := map[string]string{}
	for _, p := range pathParams {
		names[canonicalName(p.Name)] = urlPath
	}
	queryParams, err := t.boundParams(n.Params, OriginQuery, names)
	if err != nil {
		return nil, err
	}
	bodyParams, err := t.boundParams(n.Data, OriginBody, names)
	if err != nil {
		return nil, err
	}

	return &BoundAction{
		Name:        n.Name,
		Method:      method,
		URL:         tmpl,
		PathParams:  pathParams,
		QueryParams: queryParams,
		BodyParams:  bodyParams,
	}, nil
}

func (t *transformer) boundParams(attrs []schema.Attr, origin Origin, names map[string]string) ([]ParamSpec, error) {
	var out []ParamSpec
	for _, a := range attrs {
		key := canonicalName(a.Name)
		if prev, ok := names[key]; ok {
			return nil, diag.Newf(diag.DuplicateName, a.Path,
				"parameter %q already declared at %s", a.Name, prev)
		}
		names[key] = a.Path

		typ, mods, err := expr.ParseParamSpec(a.Spec)
		if err != nil {
			return nil, diag.WithPath(err, a.Path)
		}
		p := ParamSpec{Name: a.Name, Type: typ, Origin: origin}
		for _, m := range mods {
			if p.Default != nil {
				return nil, diag.Newf(diag.TypeSpec, a.Path, "duplicate %q modifier", m.Name)
			}
			v, err := expr.ConvertDefault(typ, m.Value)
			if err != nil {
				return nil, diag.WithPath(err, a.Path)
			}
			p.Default = v
		}
		out = append(out, p)
	}
	return out, nil
}

// buildTemplate resolves one parsed $url expression against the node's
// context: literal text passes through, references splice in the referenced
// template, placeholders become positional slots and are collected as path
// params in order of first appearance.
func (t *transformer) buildTemplate(id int, e expr.Expression, path string, allowParams bool) (URLTemplate, []ParamSpec, error) {
	tmpl := URLTemplate{}
	var params []ParamSpec
	for _, seg := range e.Segments {
		switch seg.Kind {
		case expr.SegmentLiteral:
			tmpl = tmpl.append(Segment{Kind: TextSegment, Text: seg.Text})

		case expr.SegmentRef:
			resolved, err := t.arena.resolve(id, seg.Ref)
			if err != nil {
				return URLTemplate{}, nil, diag.WithPath(err, path)
			}
			tmpl, err = t.splice(tmpl, resolved, path)
			if err != nil {
				return URLTemplate{}, nil, err
			}

		case expr.SegmentParam:
			if !allowParams {
				return URLTemplate{}, nil, diag.Newf(diag.SchemaParse, path,
					"path parameter <%s:%s> is not allowed in this $url", seg.Param.Name, seg.Param.Type)
			}
			for _, p := range params {
				if canonicalName(p.Name) == canonicalName(seg.Param.Name) {
					return URLTemplate{}, nil, diag.Newf(diag.DuplicateName, path,
						"path parameter %q declared twice", p.Name)
				}
			}
			tmpl = tmpl.append(Segment{Kind: ParamSegment, Name: seg.Param.Name})
			params = append(params, ParamSpec{Name: seg.Param.Name, Type: seg.Param.Type, Origin: OriginPath})
		}
	}
	return tmpl, params, nil
}

// splice concatenates a referenced template onto tmpl. A rooted reference at
// the start roots the whole template; after literal text it can only be
// inlined when the base URL is a known literal.
func (t *transformer) splice(tmpl, resolved URLTemplate, path string) (URLTemplate, error) {
	if resolved.Rooted {
		if len(tmpl.Segments) == 0 && !tmpl.Rooted {
			tmpl.Rooted = true
		} else if t.rootURL != "" {
			tmpl = tmpl.append(Segment{Kind: TextSegment, Text: t.rootURL})
		} else {
			return URLTemplate{}, diag.Newf(diag.ContextResolution, path,
				"reference resolves to the client base URL, which is not a literal and cannot follow other template text")
		}
	}
	for _, s := range resolved.Segments {
		tmpl = tmpl.append(s)
	}
	return tmpl, nil
}
