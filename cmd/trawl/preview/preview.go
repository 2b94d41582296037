// Package previewcmder provides the preview command.
package previewcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborworks/trawl/pkg/app"
	"github.com/harborworks/trawl/pkg/cliui"
	"github.com/harborworks/trawl/pkg/store"
)

type previewCommander struct {
	field string
	value string
	size  int

	application *app.App
}

const previewLongDesc string = `Print a sample of stored documents so their fields
can be inspected without a search query.

With --field and --value the sample is restricted to matching documents.

Example:
  trawl preview
  trawl preview --size 10
  trawl preview --field project_name --value trawl`

func NewPreviewCmd() *cobra.Command {
	cmder := &previewCommander{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show a sample of stored documents",
		Long:  previewLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := cliui.Setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if (cmder.field == "") != (cmder.value == "") {
				return fmt.Errorf("--field and --value must be used together")
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

	cmd.Flags().StringVarP(&cmder.field, "field", "f", "", "Restrict the sample to documents matching this field")
	cmd.Flags().StringVarP(&cmder.value, "value", "v", "", "Value the field must match")
	cmd.Flags().IntVarP(&cmder.size, "size", "s", 5, "Number of documents to show")

	return cmd
}

func (c *previewCommander) run(ctx context.Context) error {
	docs, err := c.application.Store.Preview(ctx, c.field, c.value, c.size)
	if err != nil {
		return fmt.Errorf("previewing index %q: %w", c.application.Cfg.Index.Name, err)
	}

	if len(docs) == 0 {
		fmt.Printf("%s no documents\n", cliui.DimStyle.Render("·"))
		return nil
	}

	for i, doc := range docs {
		c.printDocument(i+1, doc)
	}
	return nil
}

func (c *previewCommander) printDocument(rank int, doc store.Document) {
	fmt.Printf("%s %s\n",
		cliui.RankStyle.Render(fmt.Sprintf("[%d]", rank)),
		cliui.TitleStyle.Render(doc.Title),
	)
	fmt.Printf("    %s\n", cliui.ContentStyle.Render(cliui.Truncate(doc.Content, 120)))
	fmt.Printf("    %s\n", cliui.DimStyle.Render(fmt.Sprintf(
		"id=%s project=%s file=%s page=%d url=%s",
		doc.ID, doc.ProjectName, doc.FileName, doc.Page, doc.URL,
	)))
}
