package rewrite

import (
	"sort"
	"strings"

	"github.com/xsrc-dev/xsrc/internal/bind"
	"github.com/xsrc-dev/xsrc/internal/diag"
)

// Backend is one compiled-in target language: naming rules for the shared
// rewriting step plus the language-specific rendering.
type Backend interface {
	// Language is the canonical backend name selected via --lang.
	Language() string
	// Aliases lists accepted shorthand names, e.g. "js" for "javascript".
	Aliases() []string
	// FileExt is the output file extension including the dot.
	FileExt() string
	// Naming supplies the identifier casing rules for this language.
	Naming() NamingRules
	// Render emits source text for the module in one linear pass.
	Render(m *Module) ([]byte, error)
}

// Registry is the closed set of backends known at build time.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry builds a registry over the given backends.
func NewRegistry(backends ...Backend) *Registry {
	r := &Registry{backends: make(map[string]Backend, len(backends))}
	for _, b := range backends {
		r.backends[b.Language()] = b
		for _, alias := range b.Aliases() {
			r.backends[alias] = b
		}
	}
	return r
}

// Lookup resolves a target language name or alias.
func (r *Registry) Lookup(lang string) (Backend, error) {
	b, ok := r.backends[strings.ToLower(strings.TrimSpace(lang))]
	if !ok {
		return nil, diag.Newf(diag.UnsupportedTarget, "",
			"no backend registered for %q (available: %s)", lang, strings.Join(r.Languages(), ", "))
	}
	return b, nil
}

// Languages returns the canonical backend names, sorted.
func (r *Registry) Languages() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, b := range r.backends {
		if _, ok := seen[b.Language()]; ok {
			continue
		}
		seen[b.Language()] = struct{}{}
		out = append(out, b.Language())
	}
	sort.Strings(out)
	return out
}

// Generate rewrites the bound client for the requested target and renders it.
func (r *Registry) Generate(b *bind.BoundClient, lang string) ([]byte, error) {
	backend, err := r.Lookup(lang)
	if err != nil {
		return nil, err
	}
	return backend.Render(Rewrite(b, backend.Naming()))
}
