package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
	Verbose    bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Scaffold a starter xsrc schema",
		Long:  "Scaffold a commented starter schema that documents the xsrc grammar.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			if len(args) > 0 {
				out = args[0]
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			cfg := &InitConfig{
				OutputPath: out,
				Force:      force,
				Verbose:    verbose,
			}
			return initRunner(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("out", "api.yaml", "Where to write the starter schema")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

	return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
	_ = ctx

	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = "api.yaml"
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force {
		if st.Mode().IsRegular() {
			return usagef("init: %q already exists (use --force to overwrite)", absPath)
		}
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return usagef("init: cannot create parent directory: %v", err)
	}

	content := strings.TrimSpace(starterSchemaYAML) + "\n"

	// Atomic write via temp + rename
	tmp := absPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return usagef("init: cannot write temp file: %v\nHint: choose a different --out or check directory permissions.", err)
	}
	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return usagef("init: cannot place file at %s: %v", absPath, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote starter schema to %s\n", absPath)
	return nil
}

// starterSchemaYAML is a commented example schema documenting the grammar.
const starterSchemaYAML = `# xsrc schema
# Run "xsrc generate api.yaml" to emit a JavaScript client.

# Base URL of the API. Generated clients accept an override at construction.
$url: "http://api.example.com"

# Name of the generated client class. Defaults to XSClient when omitted.
$as: ExampleClient

# Keys prefixed with ~ declare API sets (namespaces). Every set needs a $url;
# ${!super} refers to the parent's url.
~users:
  $url: "${!super}/users"

  # Keys without a ~ prefix declare callable actions.
  get:
    # <name:type> placeholders become path parameters. Types: string, number, boolean.
    $url: "${!super}/<id:number>"
    # $params become query parameters; "|default:" makes one optional.
    $params:
      detail: "boolean|default:true"

  create:
    $method: POST
    # $data fields travel in the request body.
    $data:
      name: string
      email: string
`
