package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/vitalvas/reqspec/internal/config"
	"github.com/vitalvas/reqspec/internal/routesfile"
	"github.com/vitalvas/reqspec/router"
	"github.com/vitalvas/reqspec/swagger"
	"gopkg.in/yaml.v3"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the document of a routes file",
		Example: `  reqspec generate -r routes.yaml
  reqspec generate -r routes.yaml -o json --openapi3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}
			if format != "yaml" && format != "json" {
				return fmt.Errorf("%w: unknown output format %q, want yaml or json", ErrUsage, format)
			}

			openapi3, err := cmd.Flags().GetBool("openapi3")
			if err != nil {
				return err
			}

			cfg, f, err := loadRoutes(cmd)
			if err != nil {
				return err
			}

			doc, err := buildDocument(cfg, f)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

			var out any = doc
			if openapi3 {
				v3, err := doc.OpenAPI3(cmd.Context())
				if err != nil {
					return err
				}
				out = v3
			}

			return encode(cmd.OutOrStdout(), format, out)
		},
	}

	cmd.Flags().StringP("output", "o", "yaml", "Output format (yaml|json)")
	cmd.Flags().Bool("openapi3", false, "Convert the document to OpenAPI 3")

	return cmd
}

// newSpec returns the document builder for cfg and f.
func newSpec(cfg *config.Config, f *routesfile.File) *swagger.Spec {
	s := swagger.NewSpec(swagger.Info{
		Title:   cfg.API.Title,
		Version: cfg.API.Version,
	}).SetBasePath(cfg.API.BasePath)

	return f.Apply(s)
}

// buildDocument registers the routes of f on a fresh router and returns
// the document together with the registration errors.
func buildDocument(cfg *config.Config, f *routesfile.File) (*swagger.Document, error) {
	r := router.New()
	err := f.Build(r, http.NotFoundHandler())

	return newSpec(cfg, f).Build(r), err
}

// encode writes v as indented JSON or as YAML. Values are passed through
// JSON first so types with custom JSON encoding keep it in YAML.
func encode(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if format == "json" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
