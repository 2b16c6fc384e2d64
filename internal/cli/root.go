// Package cli implements the reqspec command.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vitalvas/reqspec/internal/config"
	"github.com/vitalvas/reqspec/internal/routesfile"
)

// Version is set at build time.
var Version = "dev"

// ErrUsage is wrapped by errors caused by bad flags or arguments.
var ErrUsage = errors.New("usage error")

// Execute runs the reqspec command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reqspec",
		Short: "Validate HTTP requests against Swagger 2.0 route specifications",
		Long: "reqspec serves routes described in a routes file with request validation, " +
			"checks routes files and generates their Swagger 2.0 or OpenAPI 3 document.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v\n\n%s", ErrUsage, err, c.UsageString())
	})

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "Config file path (YAML)")
	flags.StringP("routes", "r", "", "Routes file path, overrides routes.file")

	cmd.AddCommand(
		newGenerateCmd(),
		newCheckCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return cmd
}

// loadConfig reads the configuration named by --config and applies the
// --routes override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("routes") {
		routes, err := cmd.Flags().GetString("routes")
		if err != nil {
			return nil, err
		}
		if routes == "" {
			return nil, fmt.Errorf("%w: --routes must not be empty", ErrUsage)
		}
		cfg.Routes.File = routes
	}

	return cfg, nil
}

func loadRoutes(cmd *cobra.Command) (*config.Config, *routesfile.File, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	f, err := routesfile.Load(cfg.Routes.File)
	if err != nil {
		return nil, nil, err
	}

	return cfg, f, nil
}
