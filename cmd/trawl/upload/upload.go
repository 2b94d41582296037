// Package uploadcmder provides the upload command: ensure the index exists,
// then ingest the configured input file as one bulk write.
package uploadcmder

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harborworks/trawl/pkg/app"
	"github.com/harborworks/trawl/pkg/cliui"
	"github.com/harborworks/trawl/pkg/ingest"
	"github.com/harborworks/trawl/pkg/store"
)

type uploadCommander struct {
	input string

	application *app.App
	logger      *zap.Logger
}

const uploadLongDesc string = `Ingest the configured input file into the search index.

The index is created on first upload with the configured vector dimension;
after that the schema is immutable. Each document gets an id from the
configured strategy (sequential, hash, uuid), an embedding of its content,
and the batch's provenance fields, then the whole batch is submitted as one
bulk write. Per-document failures are reported; the batch is not rolled back.

Re-running an upload with the hash strategy overwrites documents in place.
With the sequential or uuid strategy it creates duplicates under new ids.

Example:
  trawl upload
  trawl upload --input ./data/bing_articles_full.json`

const uploadShortDesc string = "Ingest the input file into the index"

func NewUploadCmd() *cobra.Command {
	cmder := &uploadCommander{}

	cmd := &cobra.Command{
		Use:   "upload",
		Short: uploadShortDesc,
		Long:  uploadLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := cliui.Setup(cmd)
			if err != nil {
				return err
			}
			cmder.logger = logger
			defer func() { _ = logger.Sync() }()

			if cmd.Flags().Changed("input") {
				cfg.Input.Path = cmder.input
			}

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			if _, err := application.WithEmbedder(); err != nil {
				application.Close()
				return err
			}
			defer application.Close()
			cmder.application = application

			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.input, "input", "i", "", "Input JSON file (overrides input.path)")

	return cmd
}

func (c *uploadCommander) run(ctx context.Context) error {
	cfg := c.application.Cfg

	outcome, err := c.application.Store.EnsureIndex(ctx, c.application.Schema())
	if err != nil {
		return fmt.Errorf("ensuring index %q: %w", cfg.Index.Name, err)
	}
	switch outcome {
	case store.OutcomeCreated:
		fmt.Printf("%s index %q created\n", cliui.OKStyle.Render("✓"), cfg.Index.Name)
	case store.OutcomeExists:
		fmt.Printf("%s index %q already exists\n", cliui.DimStyle.Render("·"), cfg.Index.Name)
	}

	batch, err := ingest.ReadBatch(cfg.Input.Path)
	if err != nil {
		return err
	}
	fmt.Printf("%s %d documents read from %s\n", cliui.DimStyle.Render("·"), len(batch), cfg.Input.Path)

	pipeline := ingest.NewPipeline(
		c.application.Store,
		c.application.Embedder,
		c.application.Publisher,
		ingest.Config{
			Index:      cfg.Index.Name,
			Strategy:   c.application.Strategy(),
			Dimensions: cfg.Embedding.Dimensions,
			Provenance: ingest.Provenance{
				ProjectName: cfg.Input.ProjectName,
				FileName:    filepath.Base(cfg.Input.Path),
				Page:        cfg.Input.Page,
			},
		},
		c.logger,
	)

	report, err := pipeline.Run(ctx, batch)
	if err != nil {
		return err
	}

	c.printReport(report)
	return nil
}

func (c *uploadCommander) printReport(report *ingest.Report) {
	fmt.Printf("%s %d/%d documents indexed\n",
		cliui.OKStyle.Render("✓"),
		report.Indexed,
		report.Submitted,
	)
	if report.NoEmbedding > 0 {
		fmt.Printf("%s %d documents had empty content and were indexed without an embedding\n",
			cliui.WarnStyle.Render("!"),
			report.NoEmbedding,
		)
	}
	for _, failure := range report.Failed {
		fmt.Printf("%s %s: %s\n",
			cliui.WarnStyle.Render("✗"),
			failure.ID,
			failure.Reason,
		)
	}
}
