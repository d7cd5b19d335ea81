package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateConfigFromFlags(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	var captured *GenerateConfig
	generateRunner = func(ctx context.Context, cfg *GenerateConfig) error {
		captured = cfg
		return nil
	}
	t.Cleanup(func() { generateRunner = runGenerate })

	root.SetArgs([]string{
		"--verbose",
		"generate",
		"--lang", "python",
		"--output", "./build",
		"--class-name", "MyAPI",
		"schema.yaml",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if captured == nil {
		t.Fatalf("expected config to be captured")
	}
	if captured.Schema != "schema.yaml" {
		t.Errorf("schema mismatch: got %q", captured.Schema)
	}
	if captured.Lang != "python" {
		t.Errorf("lang mismatch: got %q", captured.Lang)
	}
	if captured.Output != "./build" {
		t.Errorf("output mismatch: got %q", captured.Output)
	}
	if captured.ClassName != "MyAPI" {
		t.Errorf("class name mismatch: got %q", captured.ClassName)
	}
	if !captured.Verbose {
		t.Errorf("expected verbose true")
	}
}

func TestGenerateConfigDefaults(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	var captured *GenerateConfig
	generateRunner = func(ctx context.Context, cfg *GenerateConfig) error {
		captured = cfg
		return nil
	}
	t.Cleanup(func() { generateRunner = runGenerate })

	root.SetArgs([]string{"generate", "schema.yaml"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if captured.Lang != "javascript" {
		t.Errorf("default lang mismatch: got %q", captured.Lang)
	}
	if captured.Output != "" {
		t.Errorf("default output mismatch: got %q", captured.Output)
	}
}

func TestGenerateConfigPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	configContent := strings.TrimSpace(`
schema: from-config.yaml
lang: python
output: from-config
className: CfgClient
verbose: true
`) + "\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	var captured *GenerateConfig
	generateRunner = func(ctx context.Context, cfg *GenerateConfig) error {
		captured = cfg
		return nil
	}
	t.Cleanup(func() { generateRunner = runGenerate })

	root.SetArgs([]string{
		"--config", configPath,
		"generate",
		"--lang", "js",
		"flag-schema.yaml",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	// flags and the positional argument win over config values
	if captured.Schema != "flag-schema.yaml" {
		t.Errorf("schema mismatch: got %q", captured.Schema)
	}
	if captured.Lang != "js" {
		t.Errorf("lang mismatch: got %q", captured.Lang)
	}
	// untouched config values survive
	if captured.Output != "from-config" {
		t.Errorf("output mismatch: got %q", captured.Output)
	}
	if captured.ClassName != "CfgClient" {
		t.Errorf("class name mismatch: got %q", captured.ClassName)
	}
	if !captured.Verbose {
		t.Errorf("expected verbose true from config")
	}
}

func TestGenerateConfigUnknownField(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("bogus: 1\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--config", configPath, "generate", "schema.yaml"})

	err := root.Execute()
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), `unknown field "bogus"`) {
		t.Errorf("error mismatch: %v", err)
	}
}

func TestGenerateRequiresSchema(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate"})

	if err := root.Execute(); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestGenerateRejectsUnknownLang(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "--lang", "cobol", "schema.yaml"})

	err := root.Execute()
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "cobol") {
		t.Errorf("error mismatch: %v", err)
	}
}

func TestGenerateRejectsUnknownFlag(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "--frobnicate"})

	if err := root.Execute(); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}
