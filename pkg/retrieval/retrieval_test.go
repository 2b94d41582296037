package retrieval_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/harborworks/trawl/pkg/retrieval"
	"github.com/harborworks/trawl/pkg/store"
	"github.com/harborworks/trawl/pkg/store/memory"
	testutils "github.com/harborworks/trawl/pkg/utils/test"
)

func TestRetrieval(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Retrieval Suite")
}

const dims = 4

var _ = Describe("Searcher", func() {
	var (
		ctx      context.Context
		driver   *memory.Driver
		embedder *testutils.MockEmbedder
		searcher *retrieval.Searcher
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = memory.NewDriver()
		embedder = testutils.NewMockEmbedder(dims)
		searcher = retrieval.NewSearcher(embedder, driver, dims, zap.NewNop())
	})

	seed := func() {
		_, err := driver.EnsureIndex(ctx, store.Schema{Name: "articles", Dimensions: dims})
		Expect(err).NotTo(HaveOccurred())

		embedder.Embeddings["query"] = []float32{1, 0, 0, 0}

		_, err = driver.BulkIndex(ctx, []store.Document{
			{ID: "1", Title: "exact", Content: "a", URL: "https://example.com/1", Embedding: []float32{1, 0, 0, 0}},
			{ID: "2", Title: "close", Content: "b", Embedding: []float32{0.9, 0.1, 0, 0}},
			{ID: "3", Title: "far", Content: "c", Embedding: []float32{0, 0, 0, 1}},
		})
		Expect(err).NotTo(HaveOccurred())
	}

	It("returns results ordered by descending similarity", func() {
		seed()

		output, err := searcher.Search(ctx, "query", 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(output.Query).To(Equal("query"))
		Expect(output.Count).To(Equal(3))
		Expect(output.Results[0].Title).To(Equal("exact"))
		Expect(output.Results[0].URL).To(Equal("https://example.com/1"))
		Expect(output.Results[1].Title).To(Equal("close"))
		Expect(output.Results[2].Title).To(Equal("far"))
	})

	It("bounds the result at topK", func() {
		seed()

		output, err := searcher.Search(ctx, "query", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(output.Count).To(Equal(2))
	})

	It("falls back to the default topK for non-positive values", func() {
		seed()

		output, err := searcher.Search(ctx, "query", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(output.Count).To(Equal(3))
	})

	It("returns an empty output when the index does not exist", func() {
		output, err := searcher.Search(ctx, "anything", 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(output.Count).To(BeZero())
		Expect(output.Results).To(BeEmpty())
	})

	It("surfaces an embedding failure", func() {
		seed()
		embedder.FailOn = "query"

		_, err := searcher.Search(ctx, "query", 5)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("embedding query"))
	})

	It("rejects a query embedding of the wrong dimension", func() {
		seed()
		embedder.Embeddings["query"] = []float32{1, 0}

		_, err := searcher.Search(ctx, "query", 5)
		Expect(err).To(MatchError(store.ErrDimensionMismatch))
	})

	It("surfaces a store failure", func() {
		seed()
		failing := &testutils.FailingStore{Driver: driver, FailSearch: true}
		searcher = retrieval.NewSearcher(embedder, failing, dims, zap.NewNop())

		_, err := searcher.Search(ctx, "query", 5)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("searching store"))
	})
})
