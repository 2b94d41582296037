// Package checkcmder provides the check command.
package checkcmder

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborworks/trawl/pkg/app"
	"github.com/harborworks/trawl/pkg/cliui"
	"github.com/harborworks/trawl/pkg/store"
)

const checkLongDesc string = `Report whether the configured index exists and how
many documents it holds.

Example:
  trawl check`

func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the index and count documents",
		Long:  checkLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := cliui.Setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			count, err := application.Store.Count(cmd.Context())
			if errors.Is(err, store.ErrNotFound) {
				fmt.Printf("%s index %q does not exist\n", cliui.WarnStyle.Render("!"), cfg.Index.Name)
				return nil
			}
			if err != nil {
				return fmt.Errorf("counting documents in %q: %w", cfg.Index.Name, err)
			}

			fmt.Printf("%s index %q exists with %d documents\n",
				cliui.OKStyle.Render("✓"), cfg.Index.Name, count)
			return nil
		},
	}

	return cmd
}
