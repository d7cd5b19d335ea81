// Package rewrite maps a bound client onto a target-language-neutral class
// AST and dispatches rendering through a closed registry of per-language
// backends. The mapping is identical for every backend; backends contribute
// identifier casing rules and the final rendering only.
package rewrite

import (
	"github.com/xsrc-dev/xsrc/internal/bind"
	"github.com/xsrc-dev/xsrc/internal/expr"
)

// Module is the rewritten form of one bound client: the client class plus
// one class per nested API set, nested classes first.
type Module struct {
	ClientClass  string
	BaseRequired bool   // constructor URL argument is mandatory
	BaseDefault  string // baked constructor default; empty when required
	Classes      []Class
}

// Class is one generated class declaration. The client class owns the base
// URL; every other class captures its parent at construction time.
type Class struct {
	Name     string
	IsClient bool
	Getters  []Getter
	Methods  []Method
}

// Getter is a read-only accessor returning a freshly constructed child set.
type Getter struct {
	Name  string
	Class string
}

// Param is one declared method parameter. Name is the cased code identifier;
// Wire is the untouched schema name sent on the request. A nil Default means
// required.
type Param struct {
	Name    string
	Wire    string
	Type    expr.Type
	Default any
}

// Method is one generated action method. Its declared parameters are, in
// order, PathParams, QueryParams, BodyParams; its body is exactly one HTTP
// call.
type Method struct {
	Name        string
	HTTPMethod  string
	URL         bind.URLTemplate
	PathParams  []Param
	QueryParams []Param
	BodyParams  []Param
}

// Params returns the declared parameter list in signature order.
func (m Method) Params() []Param {
	out := make([]Param, 0, len(m.PathParams)+len(m.QueryParams)+len(m.BodyParams))
	out = append(out, m.PathParams...)
	out = append(out, m.QueryParams...)
	out = append(out, m.BodyParams...)
	return out
}
