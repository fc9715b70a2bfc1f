package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circlepack/pkg/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())
	return cmd
}

// configShowCommand prints the effective configuration as TOML.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Write(stdout, c.settings())
		},
	}
}

// configPathCommand lists the config search paths.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "List config file locations in search order",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := config.SearchPaths()
			if c.configPath != "" {
				paths = []string{c.configPath}
			}
			for _, p := range paths {
				status := "missing"
				if _, err := os.Stat(p); err == nil {
					status = "found"
				}
				printKeyValue(status, p)
			}
			return nil
		},
	}
}
