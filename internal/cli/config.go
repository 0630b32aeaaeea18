package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/asteria/pagereview/pkg/config"
	"github.com/asteria/pagereview/pkg/errors"
)

// configCommand creates the configuration management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize the configuration file",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return config.Encode(c.out(), cfg)
		},
	}
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configSource()
			if path == "" {
				return errors.New(errors.ErrCodeNotFound, "no config directory available")
			}
			fmt.Fprintln(c.out(), path)
			return nil
		},
	}
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configSource()
			if path == "" {
				return errors.New(errors.ErrCodeNotFound, "no config directory available")
			}
			if _, err := os.Stat(path); err == nil && !force {
				c.printWarning("%s already exists", path)
				c.printNextStep("Overwrite it", "pagereview config init --force")
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "create config dir")
			}
			f, err := os.Create(path)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
			}
			if err := config.Encode(f, config.Default()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
			}
			c.printSuccess("Wrote default configuration")
			c.printItem(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
