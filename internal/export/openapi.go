// Package export renders a bound client as an OpenAPI 3 document, so a
// schema authored in the xsrc grammar can feed the wider OpenAPI toolchain.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	invyaml "github.com/invopop/yaml"

	"github.com/xsrc-dev/xsrc/internal/bind"
	"github.com/xsrc-dev/xsrc/internal/expr"
)

// Document maps a bound client onto a validated OpenAPI 3 document. Each
// bound action becomes one operation; path params map to required path
// parameters, query params to query parameters (with defaults), body params
// to a JSON object request body.
func Document(ctx context.Context, b *bind.BoundClient) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   b.ClassName,
			Version: "0.0.1",
		},
		Paths: openapi3.Paths{},
	}
	if b.RootURL != "" {
		doc.Servers = openapi3.Servers{&openapi3.Server{URL: b.RootURL}}
	}
	if err := addSet(doc, b.Root, nil); err != nil {
		return nil, err
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("export: generated document is invalid: %w", err)
	}
	return doc, nil
}

func addSet(doc *openapi3.T, set *bind.BoundAPISet, path []string) error {
	for _, action := range set.Actions {
		if err := addAction(doc, action, path); err != nil {
			return err
		}
	}
	for _, child := range set.Sets {
		if err := addSet(doc, child, append(path, child.Name)); err != nil {
			return err
		}
	}
	return nil
}

func addAction(doc *openapi3.T, a *bind.BoundAction, path []string) error {
	key := pathKey(a.URL)
	item := doc.Paths[key]
	if item == nil {
		item = &openapi3.PathItem{}
		doc.Paths[key] = item
	}
	if item.GetOperation(a.Method) != nil {
		return fmt.Errorf("export: %s %s is declared by more than one action", a.Method, key)
	}

	op := &openapi3.Operation{
		OperationID: strings.Join(append(append([]string(nil), path...), a.Name), "."),
		Responses:   openapi3.NewResponses(),
	}
	for _, p := range a.PathParams {
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: &openapi3.Parameter{
			Name:     p.Name,
			In:       openapi3.ParameterInPath,
			Required: true,
			Schema:   &openapi3.SchemaRef{Value: typeSchema(p.Type, nil)},
		}})
	}
	for _, p := range a.QueryParams {
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: &openapi3.Parameter{
			Name:     p.Name,
			In:       openapi3.ParameterInQuery,
			Required: p.Default == nil,
			Schema:   &openapi3.SchemaRef{Value: typeSchema(p.Type, p.Default)},
		}})
	}
	if len(a.BodyParams) > 0 {
		body := &openapi3.Schema{
			Type:       "object",
			Properties: openapi3.Schemas{},
		}
		for _, p := range a.BodyParams {
			body.Properties[p.Name] = &openapi3.SchemaRef{Value: typeSchema(p.Type, p.Default)}
			if p.Default == nil {
				body.Required = append(body.Required, p.Name)
			}
		}
		op.RequestBody = &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
			Required: len(body.Required) > 0,
			Content:  openapi3.NewContentWithJSONSchema(body),
		}}
	}
	item.SetOperation(a.Method, op)
	return nil
}

// pathKey renders a template as an OpenAPI path. Rooted templates are
// base-relative already; anything else is forced to path shape, since
// OpenAPI keys must begin with a slash.
func pathKey(t bind.URLTemplate) string {
	p := t.String()
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func typeSchema(t expr.Type, def any) *openapi3.Schema {
	s := &openapi3.Schema{Default: def}
	switch t {
	case expr.TypeNumber:
		s.Type = "number"
	case expr.TypeBoolean:
		s.Type = "boolean"
	default:
		s.Type = "string"
	}
	return s
}

// Encode renders the document as JSON or YAML.
func Encode(doc *openapi3.T, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("export: marshal json: %w", err)
		}
		return append(data, '\n'), nil
	case "", "yaml", "yml":
		data, err := invyaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("export: marshal yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("export: unsupported format %q (allowed: yaml, json)", format)
	}
}
