// Package askcmder provides the ask command.
package askcmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harborworks/trawl/pkg/answer"
	"github.com/harborworks/trawl/pkg/app"
	"github.com/harborworks/trawl/pkg/cliui"
	"github.com/harborworks/trawl/pkg/dispatch"
	"github.com/harborworks/trawl/pkg/retrieval"
)

type askCommander struct {
	topK int

	service *answer.Service
}

const askLongDesc string = `Answer a question grounded in the indexed corpus.

The question is embedded, the closest documents are retrieved, and the
configured text-generation model answers from that context. Sources are
printed after the answer.

Example:
  trawl ask "what did the article say about inflation"
  trawl ask --top 3 "who won the match"`

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question grounded in the index",
		Long:  askLongDesc,
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

			gen, err := app.OpenGenerator(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = gen.Close() }()

			searcher := retrieval.NewSearcher(
				application.Embedder,
				application.Store,
				cfg.Embedding.Dimensions,
				logger,
			)
			pool := dispatch.NewPool(cfg.Generation.MaxConcurrent)
			cmder.service = answer.NewService(searcher, gen, pool, cmder.topK, logger)

			return cmder.run(cmd.Context(), strings.Join(args, " "))
		},
	}

	cmd.Flags().IntVarP(&cmder.topK, "top", "k", retrieval.DefaultTopK, "Number of documents to ground the answer on")

	return cmd
}

func (c *askCommander) run(ctx context.Context, question string) error {
	resp, err := c.service.Ask(ctx, "cli", question)
	if err != nil {
		return fmt.Errorf("answering: %w", err)
	}

	fmt.Printf("%s\n\n", cliui.ContentStyle.Render(resp.Answer))

	if len(resp.Sources) > 0 {
		fmt.Printf("%s\n", cliui.HeaderStyle.Render("Sources"))
		for i, source := range resp.Sources {
			fmt.Printf("%s %s %s\n",
				cliui.RankStyle.Render(fmt.Sprintf("[%d]", i+1)),
				cliui.TitleStyle.Render(source.Title),
				cliui.ScoreStyle.Render(fmt.Sprintf("(%.4f)", source.Score)),
			)
			if source.URL != "" {
				fmt.Printf("    %s\n", cliui.DimStyle.Render(source.URL))
			}
		}
	}

	return nil
}
