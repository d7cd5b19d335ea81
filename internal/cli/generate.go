package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/xsrc-dev/xsrc/internal/bind"
	"github.com/xsrc-dev/xsrc/internal/emitter/jsemitter"
	"github.com/xsrc-dev/xsrc/internal/emitter/pyemitter"
	"github.com/xsrc-dev/xsrc/internal/rewrite"
	"github.com/xsrc-dev/xsrc/internal/schema"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Schema     string
	Lang       string
	Output     string
	ClassName  string
	ConfigPath string
	Verbose    bool
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{Lang: "javascript"}
}

// defaultRegistry lists every backend compiled into the binary.
func defaultRegistry() *rewrite.Registry {
	return rewrite.NewRegistry(jsemitter.New(), pyemitter.New())
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <schema>",
		Short: "Generate REST client source from an xsrc schema",
		Long: "Generate REST client source from an xsrc schema. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  xsrc generate api.yaml
  xsrc generate --lang python --output ./clients api.yaml
  xsrc --config xsrc.yaml generate api.yaml`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd, args)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringP("lang", "x", "", "Target language to emit (javascript|python); defaults to javascript")
	flags.StringP("output", "o", "", "Output file or directory (stdout when omitted)")
	flags.String("class-name", "", "Override the generated client class name")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command, args []string) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Schema = strings.TrimSpace(args[0])
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	if flags.Changed("lang") {
		value, err := flags.GetString("lang")
		if err != nil {
			return err
		}
		cfg.Lang = strings.TrimSpace(value)
	}
	if flags.Changed("output") {
		value, err := flags.GetString("output")
		if err != nil {
			return err
		}
		cfg.Output = strings.TrimSpace(value)
	}
	if flags.Changed("class-name") {
		value, err := flags.GetString("class-name")
		if err != nil {
			return err
		}
		cfg.ClassName = strings.TrimSpace(value)
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Schema = strings.TrimSpace(c.Schema)
	c.Lang = strings.ToLower(strings.TrimSpace(c.Lang))
	c.Output = strings.TrimSpace(c.Output)
	c.ClassName = strings.TrimSpace(c.ClassName)
}

func (c *GenerateConfig) validate() error {
	if c.Schema == "" {
		return usagef("generate: a schema file argument is required (set via argument or config file)")
	}
	if c.Lang == "" {
		c.Lang = "javascript"
	}
	if _, err := defaultRegistry().Lookup(c.Lang); err != nil {
		return usagef("generate: unsupported --lang %q (allowed: %s)",
			c.Lang, strings.Join(defaultRegistry().Languages(), ", "))
	}
	return nil
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	_ = ctx

	root, err := schema.LoadFile(cfg.Schema)
	if err != nil {
		return err
	}
	if cfg.ClassName != "" {
		root.As = cfg.ClassName
	}

	bound, err := bind.Transform(root)
	if err != nil {
		return err
	}

	reg := defaultRegistry()
	backend, err := reg.Lookup(cfg.Lang)
	if err != nil {
		return err
	}
	src, err := backend.Render(rewrite.Rewrite(bound, backend.Naming()))
	if err != nil {
		return err
	}

	if cfg.Output == "" {
		_, err := os.Stdout.Write(src)
		return err
	}

	target, err := resolveOutputPath(cfg.Output, bound.ClassName, backend.FileExt())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return usagef("generate: cannot create output directory: %v", err)
	}
	if err := os.WriteFile(target, src, 0o644); err != nil {
		return usagef("generate: cannot write %s: %v", target, err)
	}
	if cfg.Verbose {
		fmt.Fprintf(os.Stdout, "Wrote %s client to %s\n", backend.Language(), target)
	}
	return nil
}

// resolveOutputPath treats an existing directory (or a trailing separator) as
// a directory target and derives the file name from the client class name.
func resolveOutputPath(out, className, ext string) (string, error) {
	isDir := strings.HasSuffix(out, string(os.PathSeparator)) || strings.HasSuffix(out, "/")
	if st, err := os.Stat(out); err == nil && st.IsDir() {
		isDir = true
	}
	if isDir {
		out = filepath.Join(out, className+ext)
	} else if filepath.Ext(out) == "" {
		out += ext
	}
	abs, err := filepath.Abs(out)
	if err != nil {
		return "", fmt.Errorf("generate: resolve output path: %w", err)
	}
	return abs, nil
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return usagef("read config file %q: %v", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return usagef("parse config file %q: %v", path, err)
	}

	for key, value := range raw {
		switch normalizeKey(key) {
		case "schema":
			str, err := valueAsString(value)
			if err != nil {
				return usagef("config field %q: %v", key, err)
			}
			cfg.Schema = str
		case "lang":
			str, err := valueAsString(value)
			if err != nil {
				return usagef("config field %q: %v", key, err)
			}
			cfg.Lang = str
		case "output":
			str, err := valueAsString(value)
			if err != nil {
				return usagef("config field %q: %v", key, err)
			}
			cfg.Output = str
		case "classname":
			str, err := valueAsString(value)
			if err != nil {
				return usagef("config field %q: %v", key, err)
			}
			cfg.ClassName = str
		case "verbose":
			val, err := valueAsBool(value)
			if err != nil {
				return usagef("config field %q: %v", key, err)
			}
			cfg.Verbose = val
		default:
			return usagef("config file %q: unknown field %q", path, key)
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}
