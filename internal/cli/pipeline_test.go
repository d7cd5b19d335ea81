package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const pipelineSchema = `$url: "http://api_root_url"
$as: Billing
~users:
  $url: "${!super}/users"
  get:
    $url: "${!super}/<id:number>"
    $params:
      detail: "boolean|default:true"
  create:
    $method: POST
    $data:
      name: string
`

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(path, []byte(pipelineSchema), 0o600); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return path
}

func TestPipelineGenerateJavaScript(t *testing.T) {
	schemaPath := writeSchema(t)
	outPath := filepath.Join(t.TempDir(), "client.js")

	root := NewRootCmd()
	root.SetArgs([]string{"generate", "-o", outPath, schemaPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		`import axios from "axios";`,
		"class Billing {",
		`  constructor(baseURL = "http://api_root_url") {`,
		"  async get(id, detail = true) {",
		"export default Billing;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n---\n%s", want, out)
		}
	}
}

func TestPipelineGeneratePythonToDirectory(t *testing.T) {
	schemaPath := writeSchema(t)
	outDir := t.TempDir()

	root := NewRootCmd()
	root.SetArgs([]string{"generate", "--lang", "py", "-o", outDir, schemaPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	// directory targets derive the file name from the client class
	data, err := os.ReadFile(filepath.Join(outDir, "Billing.py"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"import requests",
		"class Billing:",
		"    def get(self, id: float, *, detail: bool = True):",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n---\n%s", want, out)
		}
	}
}

func TestPipelineClassNameOverride(t *testing.T) {
	schemaPath := writeSchema(t)
	outPath := filepath.Join(t.TempDir(), "client.js")

	root := NewRootCmd()
	root.SetArgs([]string{"generate", "--class-name", "Renamed", "-o", outPath, schemaPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "class Renamed {") {
		t.Errorf("expected renamed client class:\n%s", data)
	}
}

func TestPipelineSchemaErrorSurfaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("~a:\n  get:\n"), 0o600); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	root := NewRootCmd()
	root.SetArgs([]string{"generate", "-o", filepath.Join(t.TempDir(), "x.js"), path})
	err := root.Execute()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "API set requires $url") {
		t.Errorf("error mismatch: %v", err)
	}
}

func TestPipelineExport(t *testing.T) {
	schemaPath := writeSchema(t)
	outPath := filepath.Join(t.TempDir(), "openapi.yaml")

	root := NewRootCmd()
	root.SetArgs([]string{"export", "-o", outPath, schemaPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"openapi: 3.0.3",
		"title: Billing",
		"/users/{id}:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n---\n%s", want, out)
		}
	}
}

func TestPipelineExportJSON(t *testing.T) {
	schemaPath := writeSchema(t)
	outPath := filepath.Join(t.TempDir(), "openapi.json")

	root := NewRootCmd()
	root.SetArgs([]string{"export", "--format", "json", "-o", outPath, schemaPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `"openapi": "3.0.3"`) {
		t.Errorf("output mismatch:\n%s", data)
	}
}

func TestPipelineExportRejectsFormat(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"export", "--format", "toml", "whatever.yaml"})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), `unsupported --format "toml"`) {
		t.Fatalf("expected format error, got %v", err)
	}
}
