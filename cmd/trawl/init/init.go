// Package initcmder provides the init command.
package initcmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harborworks/trawl/pkg/cliui"
	"github.com/harborworks/trawl/pkg/config"
)

type initCommander struct {
	force bool
}

const initLongDesc string = `Write a default trawl.toml to the working directory
(or to the path given with --config). Refuses to overwrite an existing file
unless --force is set.

Example:
  trawl init
  trawl init --config ./configs/trawl.toml`

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("could not get config flag: %w", err)
			}

			configer := config.NewConfiger(configPath)

			if !cmder.force {
				if _, err := os.Stat(configer.Path()); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", configer.Path())
				}
			}

			if err := configer.Save(config.NewDefaultConfig()); err != nil {
				return err
			}

			fmt.Printf("%s wrote %s\n", cliui.OKStyle.Render("✓"), configer.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&cmder.force, "force", false, "Overwrite an existing config file")

	return cmd
}
