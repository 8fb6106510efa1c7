package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/agrikit/pkg/config"
)

// configCommand creates the config command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or check the agrikit configuration",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configCheckCommand())
	cmd.AddCommand(c.configPathCommand())
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := c.loadConfig()
			if err != nil {
				return err
			}
			text, err := cfg.Encode()
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "# built-in defaults")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func (c *CLI) configCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				printError("%s is invalid", args[0])
				return err
			}
			printSuccess("%s is valid", args[0])
			printKeyValue(statusOut, "store", cfg.Store.Backend)
			printKeyValue(statusOut, "sessions", fmt.Sprint(cfg.Cache.SessionCapacity))
			printKeyValue(statusOut, "seed edges", fmt.Sprint(len(cfg.Topology.Edges)))
			return nil
		},
	}
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := configDir()
			if err != nil {
				return fmt.Errorf("get config dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir+"/"+configFile)
			return nil
		},
	}
}
