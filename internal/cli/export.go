package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xsrc-dev/xsrc/internal/bind"
	"github.com/xsrc-dev/xsrc/internal/export"
	"github.com/xsrc-dev/xsrc/internal/schema"
)

// ExportConfig captures the options for the export command.
type ExportConfig struct {
	Schema    string
	Format    string
	Output    string
	ClassName string
}

var exportRunner = runExport

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <schema>",
		Short: "Export an xsrc schema as an OpenAPI 3 document",
		Long:  "Export an xsrc schema as an OpenAPI 3 document, for use with the wider OpenAPI toolchain.",
		Example: strings.TrimSpace(`  xsrc export api.yaml
  xsrc export --format json -o openapi.json api.yaml`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			output, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}
			className, err := cmd.Flags().GetString("class-name")
			if err != nil {
				return err
			}
			cfg := &ExportConfig{
				Schema:    strings.TrimSpace(args[0]),
				Format:    strings.ToLower(strings.TrimSpace(format)),
				Output:    strings.TrimSpace(output),
				ClassName: strings.TrimSpace(className),
			}
			switch cfg.Format {
			case "", "yaml", "yml", "json":
			default:
				return usagef("export: unsupported --format %q (allowed: yaml, json)", cfg.Format)
			}
			return exportRunner(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("format", "yaml", "Output format (yaml|json)")
	cmd.Flags().StringP("output", "o", "", "Output file (stdout when omitted)")
	cmd.Flags().String("class-name", "", "Override the document title")

	return cmd
}

func runExport(ctx context.Context, cfg *ExportConfig) error {
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

	doc, err := export.Document(ctx, bound)
	if err != nil {
		return err
	}
	data, err := export.Encode(doc, cfg.Format)
	if err != nil {
		return err
	}

	if cfg.Output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
		return usagef("export: cannot create output directory: %v", err)
	}
	if err := os.WriteFile(cfg.Output, data, 0o644); err != nil {
		return usagef("export: cannot write %s: %v", cfg.Output, err)
	}
	return nil
}
