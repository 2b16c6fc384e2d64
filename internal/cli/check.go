package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check a routes file",
		Long: "Check registers every route of a routes file, compiles its definitions " +
			"and validates the resulting document. Every problem found is reported.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, f, err := loadRoutes(cmd)
			if err != nil {
				return err
			}

			doc, regErr := buildDocument(cfg, f)

			errs := []error{regErr}
			if err := newSpec(cfg, f).Validate(); err != nil {
				errs = append(errs, err)
			}
			if _, err := doc.OpenAPI3(cmd.Context()); err != nil {
				errs = append(errs, fmt.Errorf("document: %w", err))
			}

			if err := errors.Join(errs...); err != nil {
				return err
			}

			operations := 0
			for _, rs := range doc.Paths {
				operations += len(rs.Methods())
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d paths, %d operations, %d definitions\n",
				cfg.Routes.File, len(doc.Paths), operations, len(doc.Definitions))
			return err
		},
	}
}
