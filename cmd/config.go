package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/pulse/cli"
	"github.com/grovetools/pulse/schema"
)

// NewConfigCmd creates the `config` command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect pulse configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSchemaCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Prints the configuration after merging the project file over the global
one (~/.config/pulse/pulse.yml) and filling in defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(out, cfg)
			}

			if cfg.Source != "" {
				fmt.Fprintf(out, "# Source: %s\n", cfg.Source)
			} else {
				fmt.Fprintln(out, "# Source: built-in defaults")
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprint(out, string(data))
			if len(cfg.Extensions) > 0 {
				ext, err := yaml.Marshal(cfg.Extensions)
				if err != nil {
					return fmt.Errorf("failed to marshal config extensions: %w", err)
				}
				fmt.Fprint(out, string(ext))
			}
			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for pulse.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), string(schema.Schema()))
			return nil
		},
	}
}
