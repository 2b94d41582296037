// Package searchcmder provides the search command.
package searchcmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harborworks/trawl/pkg/app"
	"github.com/harborworks/trawl/pkg/cliui"
	"github.com/harborworks/trawl/pkg/retrieval"
)

type searchCommander struct {
	topK int

	searcher *retrieval.Searcher
}

const searchLongDesc string = `Embed the query and return the closest documents
by cosine similarity.

If the index does not exist the result is empty, not an error.

Example:
  trawl search "how do neural networks learn"
  trawl search --top 10 "transformer architecture"`

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a semantic search against the index",
		Long:  searchLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := cliui.Setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			if _, err := application.WithEmbedder(); err != nil {
				application.Close()
				return err
			}
			defer application.Close()

			cmder.searcher = retrieval.NewSearcher(
				application.Embedder,
				application.Store,
				cfg.Embedding.Dimensions,
				logger,
			)

			return cmder.run(cmd.Context(), strings.Join(args, " "))
		},
	}

	cmd.Flags().IntVarP(&cmder.topK, "top", "k", retrieval.DefaultTopK, "Number of results to return")

	return cmd
}

func (c *searchCommander) run(ctx context.Context, query string) error {
	output, err := c.searcher.Search(ctx, query, c.topK)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	fmt.Printf("%s\n", cliui.HeaderStyle.Render(fmt.Sprintf("%d results for %q", output.Count, output.Query)))

	for i, result := range output.Results {
		fmt.Printf("%s %s %s\n",
			cliui.RankStyle.Render(fmt.Sprintf("[%d]", i+1)),
			cliui.TitleStyle.Render(result.Title),
			cliui.ScoreStyle.Render(fmt.Sprintf("(%.4f)", result.Score)),
		)
		fmt.Printf("    %s\n", cliui.ContentStyle.Render(cliui.Truncate(result.Content, 160)))
		if result.URL != "" {
			fmt.Printf("    %s\n", cliui.DimStyle.Render(result.URL))
		}
	}

	return nil
}
