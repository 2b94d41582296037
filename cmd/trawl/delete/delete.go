// Package deletecmder provides the delete command.
package deletecmder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harborworks/trawl/pkg/app"
	"github.com/harborworks/trawl/pkg/cliui"
	"github.com/harborworks/trawl/pkg/store"
)

type deleteCommander struct {
	id      string
	field   string
	value   string
	confirm bool

	application *app.App
	logger      *zap.Logger
}

const deleteLongDesc string = `Delete documents from the index.

With --id a single document is removed. With --field and --value every
matching document is removed, paging until none remain. With no selector
the whole index is dropped after confirmation.

Example:
  trawl delete --id 42
  trawl delete --field file_name --value articles.json
  trawl delete --yes`

func NewDeleteCmd() *cobra.Command {
	cmder := &deleteCommander{}

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete documents or drop the index",
		Long:  deleteLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := cliui.Setup(cmd)
			if err != nil {
				return err
			}
			cmder.logger = logger
			defer func() { _ = logger.Sync() }()

			if (cmder.field == "") != (cmder.value == "") {
				return fmt.Errorf("--field and --value must be used together")
			}
			if cmder.id != "" && cmder.field != "" {
				return fmt.Errorf("--id and --field are mutually exclusive")
			}

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()
			cmder.application = application

			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cmder.id, "id", "", "Delete the document with this id")
	cmd.Flags().StringVarP(&cmder.field, "field", "f", "", "Delete documents matching this field")
	cmd.Flags().StringVarP(&cmder.value, "value", "v", "", "Value the field must match")
	cmd.Flags().BoolVarP(&cmder.confirm, "yes", "y", false, "Skip the confirmation prompt when dropping the index")

	return cmd
}

func (c *deleteCommander) run(ctx context.Context) error {
	switch {
	case c.id != "":
		return c.deleteByID(ctx)
	case c.field != "":
		return c.deleteByMatch(ctx)
	default:
		return c.dropIndex(ctx)
	}
}

func (c *deleteCommander) deleteByID(ctx context.Context) error {
	outcome, err := c.application.Store.DeleteByID(ctx, c.id)
	if err != nil {
		return fmt.Errorf("deleting document %q: %w", c.id, err)
	}
	switch outcome {
	case store.OutcomeDeleted:
		fmt.Printf("%s document %q deleted\n", cliui.OKStyle.Render("✓"), c.id)
	case store.OutcomeNotFound:
		fmt.Printf("%s document %q not found\n", cliui.WarnStyle.Render("!"), c.id)
	}
	return nil
}

// deleteByMatch pages until the store reports no more matches. Each page is
// bounded, so a huge match set deletes in several round trips.
func (c *deleteCommander) deleteByMatch(ctx context.Context) error {
	total := 0
	for {
		deleted, err := c.application.Store.DeleteByMatch(ctx, c.field, c.value)
		if err != nil {
			return fmt.Errorf("deleting documents matching %s=%q: %w", c.field, c.value, err)
		}
		total += deleted
		if deleted == 0 {
			break
		}
		c.logger.Debug("deleted page of matching documents",
			zap.String("field", c.field),
			zap.Int("deleted", deleted),
		)
	}

	fmt.Printf("%s %d documents matching %s=%q deleted\n",
		cliui.OKStyle.Render("✓"), total, c.field, c.value)
	return nil
}

func (c *deleteCommander) dropIndex(ctx context.Context) error {
	name := c.application.Cfg.Index.Name

	if !c.confirm {
		fmt.Printf("Drop index %q and all its documents? [y/N]: ", name)
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading confirmation: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Printf("%s aborted\n", cliui.DimStyle.Render("·"))
			return nil
		}
	}

	outcome, err := c.application.Store.DropIndex(ctx)
	if err != nil {
		return fmt.Errorf("dropping index %q: %w", name, err)
	}
	if outcome == store.OutcomeNotFound {
		fmt.Printf("%s index %q does not exist\n", cliui.WarnStyle.Render("!"), name)
		return nil
	}

	fmt.Printf("%s index %q dropped\n", cliui.OKStyle.Render("✓"), name)
	return nil
}
