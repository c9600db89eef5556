package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/runoshun/mission-control/internal/app"
	"github.com/runoshun/mission-control/internal/domain"
	"github.com/runoshun/mission-control/internal/infra/config"
	"github.com/runoshun/mission-control/internal/usecase"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage mission-control configuration files and settings.`,
		// No RunE: shows subcommand list when called without arguments
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigTemplateCommand())
	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Shows which config files were loaded and the final merged configuration.
Sources are merged defaults <- global <- data directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			// Display loaded files section
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			printConfigSource(w, out.GlobalConfig)
			printConfigSource(w, out.LocalConfig)
			_, _ = fmt.Fprintln(w)

			if out.LoadErr != nil {
				return fmt.Errorf("load config: %w", out.LoadErr)
			}

			if len(out.Effective.Warnings) > 0 {
				_, _ = fmt.Fprintln(w, "[Warnings]")
				for _, warning := range out.Effective.Warnings {
					_, _ = fmt.Fprintf(w, "- %s\n", warning)
				}
				_, _ = fmt.Fprintln(w)
			}

			// Display effective config in TOML format
			_, _ = fmt.Fprintln(w, "[Effective Config]")
			content, err := config.RenderConfig(out.Effective)
			if err != nil {
				return err
			}
			_, err = w.Write(content)
			return err
		},
	}
}

// printConfigSource prints one line of the [Loaded from] section.
func printConfigSource(w io.Writer, info domain.ConfigInfo) {
	switch {
	case info.Path == "":
		_, _ = fmt.Fprintln(w, "- global config (no config directory)")
	case info.Exists:
		_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
	default:
		_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
	}
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Output configuration template",
		Long: `Output the default configuration file to stdout.

It does not depend on existing configuration files and will work even if they are broken.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := config.RenderConfig(domain.NewDefaultConfig())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	}
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate configuration file",
		Long: `Generate a configuration file holding the default settings and roster.

By default, creates <data-dir>/config.toml.
With --global, creates $XDG_CONFIG_HOME/mission-control/config.toml.

Error conditions:
- Target file already exists: error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{
				Global: global,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Generate global configuration")

	return cmd
}
