package rewrite

import (
	"testing"

	"github.com/xsrc-dev/xsrc/internal/bind"
	"github.com/xsrc-dev/xsrc/internal/diag"
	"github.com/xsrc-dev/xsrc/internal/expr"
	"github.com/xsrc-dev/xsrc/internal/schema"
)

func identityRules() NamingRules {
	id := func(s string) string { return s }
	return NamingRules{Class: PascalCase, Member: id, Param: id}
}

func boundFixture(t *testing.T) *bind.BoundClient {
	t.Helper()
	root, err := schema.Parse([]byte(`
$url: "http://h"
~user-profiles:
  $url: "${!super}/profiles"
  get:
    $url: "${!super}/<profile-id:number>"
    $params:
      with-details: "boolean|default:false"
  ~avatars:
    $url: "${!super}/avatars"
    upload:
      $method: POST
      $data:
        image-url: string
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, err := bind.Transform(root)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	return b
}

func TestRewriteClassLayout(t *testing.T) {
	t.Parallel()

	m := Rewrite(boundFixture(t), identityRules())

	if m.ClientClass != "XSClient" {
		t.Errorf("client class: got %q", m.ClientClass)
	}
	if m.BaseRequired || m.BaseDefault != "http://h" {
		t.Errorf("base: got required=%v default=%q", m.BaseRequired, m.BaseDefault)
	}

	// nested classes precede their parents; the client class comes last
	if len(m.Classes) != 3 {
		t.Fatalf("classes: got %d", len(m.Classes))
	}
	if m.Classes[0].Name != "UserProfilesAvatars" || m.Classes[1].Name != "UserProfiles" {
		t.Errorf("class order: got %q, %q", m.Classes[0].Name, m.Classes[1].Name)
	}
	client := m.Classes[2]
	if !client.IsClient || client.Name != "XSClient" {
		t.Errorf("client: got %+v", client)
	}
	if len(client.Getters) != 1 || client.Getters[0].Class != "UserProfiles" {
		t.Errorf("client getters: got %+v", client.Getters)
	}

	profiles := m.Classes[1]
	if len(profiles.Getters) != 1 || profiles.Getters[0].Class != "UserProfilesAvatars" {
		t.Errorf("profiles getters: got %+v", profiles.Getters)
	}
	if len(profiles.Methods) != 1 {
		t.Fatalf("profiles methods: got %+v", profiles.Methods)
	}
}

func TestRewriteParamsKeepWireNames(t *testing.T) {
	t.Parallel()

	b := boundFixture(t)
	rules := NamingRules{Class: PascalCase, Member: CamelCase, Param: SnakeCase}
	m := Rewrite(b, rules)

	get := m.Classes[1].Methods[0]
	if get.Name != "get" {
		t.Errorf("method name: got %q", get.Name)
	}
	if len(get.PathParams) != 1 {
		t.Fatalf("path params: got %+v", get.PathParams)
	}
	if p := get.PathParams[0]; p.Name != "profile_id" || p.Wire != "profile-id" {
		t.Errorf("path param: got %+v", p)
	}
	if p := get.QueryParams[0]; p.Name != "with_details" || p.Wire != "with-details" || p.Default != false {
		t.Errorf("query param: got %+v", p)
	}
	// URL slots carry the cased identifiers
	if got := get.URL.String(); got != "/profiles/{profile_id}" {
		t.Errorf("url: got %q", got)
	}

	upload := m.Classes[0].Methods[0]
	if upload.Name != "upload" || upload.HTTPMethod != "POST" {
		t.Errorf("upload: got %+v", upload)
	}
	if p := upload.BodyParams[0]; p.Name != "image_url" || p.Wire != "image-url" {
		t.Errorf("body param: got %+v", p)
	}
}

func TestMethodParamsOrder(t *testing.T) {
	t.Parallel()

	m := Method{
		PathParams:  []Param{{Name: "a"}},
		QueryParams: []Param{{Name: "b"}},
		BodyParams:  []Param{{Name: "c"}},
	}
	ps := m.Params()
	if len(ps) != 3 || ps[0].Name != "a" || ps[1].Name != "b" || ps[2].Name != "c" {
		t.Errorf("got %+v", ps)
	}
}

func TestNamingCases(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     string
		pascal string
		camel  string
		snake  string
	}{
		{"user_profile", "UserProfile", "userProfile", "user_profile"},
		{"user-profile", "UserProfile", "userProfile", "user_profile"},
		{"userProfile", "UserProfile", "userProfile", "user_profile"},
		{"users budgets", "UsersBudgets", "usersBudgets", "users_budgets"},
		{"XSClient", "XSClient", "xSClient", "xsclient"},
		{"get", "Get", "get", "get"},
	}
	for _, tc := range cases {
		if got := PascalCase(tc.in); got != tc.pascal {
			t.Errorf("PascalCase(%q): got %q, want %q", tc.in, got, tc.pascal)
		}
		if got := CamelCase(tc.in); got != tc.camel {
			t.Errorf("CamelCase(%q): got %q, want %q", tc.in, got, tc.camel)
		}
		if got := SnakeCase(tc.in); got != tc.snake {
			t.Errorf("SnakeCase(%q): got %q, want %q", tc.in, got, tc.snake)
		}
	}
}

type fakeBackend struct{ lang string }

func (f fakeBackend) Language() string  { return f.lang }
func (f fakeBackend) Aliases() []string { return nil }
func (f fakeBackend) FileExt() string   { return ".txt" }
func (f fakeBackend) Naming() NamingRules { return identityRules() }
func (f fakeBackend) Render(m *Module) ([]byte, error) {
	return []byte(m.ClientClass), nil
}

var _ Backend = fakeBackend{}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(fakeBackend{lang: "ruby"}, fakeBackend{lang: "lua"})

	if _, err := reg.Lookup("ruby"); err != nil {
		t.Errorf("lookup ruby: %v", err)
	}
	if _, err := reg.Lookup(" RUBY "); err != nil {
		t.Errorf("lookup is case/space sensitive: %v", err)
	}

	_, err := reg.Lookup("perl")
	if !diag.IsKind(err, diag.UnsupportedTarget) {
		t.Fatalf("expected UnsupportedTargetLanguageError, got %v", err)
	}

	langs := reg.Languages()
	if len(langs) != 2 || langs[0] != "lua" || langs[1] != "ruby" {
		t.Errorf("languages: got %v", langs)
	}
}

func TestRegistryGenerate(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(fakeBackend{lang: "ruby"})
	out, err := reg.Generate(boundFixture(t), "ruby")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "XSClient" {
		t.Errorf("got %q", out)
	}
}

func TestRewriteTypesSurvive(t *testing.T) {
	t.Parallel()

	m := Rewrite(boundFixture(t), identityRules())
	get := m.Classes[1].Methods[0]
	if get.PathParams[0].Type != expr.TypeNumber || get.QueryParams[0].Type != expr.TypeBoolean {
		t.Errorf("types: got %+v", get)
	}
}
