// Package answer builds retrieval-augmented answers: top-k context from the
// retrieval service is folded into a prompt for a text-generation model. The
// chat transport that used to front this flow stays out of scope; the
// service itself is transport-neutral.
package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/harborworks/trawl/pkg/dispatch"
	"github.com/harborworks/trawl/pkg/retrieval"
)

// Generator produces text completions from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// Response is one answered question with the documents that grounded it.
type Response struct {
	Question string             `json:"question"`
	Answer   string             `json:"answer"`
	Sources  []retrieval.Result `json:"sources"`
}

// Service answers questions over the indexed corpus. Every question runs
// through a bounded pool with single-flight per chat key, so one chat can
// never have two model calls in flight.
type Service struct {
	searcher *retrieval.Searcher
	gen      Generator
	pool     *dispatch.Pool
	topK     int
	logger   *zap.Logger
}

// NewService creates an answer service. topK bounds how many retrieved
// documents feed the prompt; non-positive values use the retrieval default.
func NewService(searcher *retrieval.Searcher, gen Generator, pool *dispatch.Pool, topK int, logger *zap.Logger) *Service {
	if topK <= 0 {
		topK = retrieval.DefaultTopK
	}
	return &Service{
		searcher: searcher,
		gen:      gen,
		pool:     pool,
		topK:     topK,
		logger:   logger,
	}
}

// Ask answers one question for the given chat key. A question for a chat
// that already has one in flight returns dispatch.ErrInFlight.
func (s *Service) Ask(ctx context.Context, chatKey, question string) (*Response, error) {
	var resp *Response
	err := s.pool.Do(ctx, chatKey, func(ctx context.Context) error {
		var err error
		resp, err = s.answer(ctx, question)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Service) answer(ctx context.Context, question string) (*Response, error) {
	output, err := s.searcher.Search(ctx, question, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	prompt := BuildPrompt(question, output.Results)

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	s.logger.Debug("answered question",
		zap.Int("sources", output.Count),
		zap.Int("answer_len", len(text)),
	)

	return &Response{
		Question: question,
		Answer:   strings.TrimSpace(text),
		Sources:  output.Results,
	}, nil
}

// BuildPrompt folds retrieved documents into a grounded completion prompt.
// With no retrieved context the model is asked to answer unaided.
func BuildPrompt(question string, results []retrieval.Result) string {
	var b strings.Builder

	if len(results) > 0 {
		b.WriteString("Answer the question using the context below.\n\n")
		for i, result := range results {
			fmt.Fprintf(&b, "[%d] %s\n%s\n", i+1, result.Title, result.Content)
			if result.URL != "" {
				fmt.Fprintf(&b, "(%s)\n", result.URL)
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "User: %s\nAssistant:", question)
	return b.String()
}
