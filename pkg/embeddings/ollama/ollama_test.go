package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/harborworks/trawl/pkg/embeddings"
	"github.com/harborworks/trawl/pkg/embeddings/ollama"
)

func TestOllama(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ollama Embedder Suite")
}

var _ = Describe("Embedder", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("posts the model and input to /api/embed and returns the vector", func() {
		var reqBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/api/embed"))
			Expect(json.NewDecoder(r.Body).Decode(&reqBody)).To(Succeed())

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{0.1, 0.2, 0.3}},
			})
		}))
		defer server.Close()

		embedder, err := ollama.NewEmbedder(ollama.Config{
			BaseURL: server.URL,
			Model:   "all-minilm",
		})
		Expect(err).NotTo(HaveOccurred())

		vec, err := embedder.Embed(ctx, "hello world")
		Expect(err).NotTo(HaveOccurred())
		Expect(vec).To(Equal([]float32{0.1, 0.2, 0.3}))
		Expect(reqBody["model"]).To(Equal("all-minilm"))
		Expect(reqBody["input"]).To(Equal("hello world"))
	})

	It("defaults the model when unset", func() {
		var reqBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(json.NewDecoder(r.Body).Decode(&reqBody)).To(Succeed())
			_ = json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{0}},
			})
		}))
		defer server.Close()

		embedder, err := ollama.NewEmbedder(ollama.Config{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = embedder.Embed(ctx, "text")
		Expect(err).NotTo(HaveOccurred())
		Expect(reqBody["model"]).To(Equal(ollama.DefaultEmbeddingModel))
	})

	It("wraps a non-200 status in ErrEmbedding", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer server.Close()

		embedder, err := ollama.NewEmbedder(ollama.Config{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = embedder.Embed(ctx, "text")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
		Expect(err.Error()).To(ContainSubstring("status 404"))
	})

	It("errors when the engine returns no embeddings", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{},
			})
		}))
		defer server.Close()

		embedder, err := ollama.NewEmbedder(ollama.Config{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = embedder.Embed(ctx, "text")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
		Expect(err.Error()).To(ContainSubstring("no embeddings"))
	})

	It("wraps an unreachable engine in ErrEmbedding", func() {
		server := httptest.NewServer(nil)
		server.Close()

		embedder, err := ollama.NewEmbedder(ollama.Config{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = embedder.Embed(ctx, "text")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})
})
