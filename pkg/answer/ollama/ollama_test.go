package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/harborworks/trawl/pkg/answer/ollama"
)

func TestOllama(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ollama Generator Suite")
}

var _ = Describe("Generator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("posts a non-streaming generate request and returns the completion", func() {
		var reqBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/api/generate"))
			Expect(json.NewDecoder(r.Body).Decode(&reqBody)).To(Succeed())

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"response": "the answer",
			})
		}))
		defer server.Close()

		gen, err := ollama.NewGenerator(ollama.Config{
			BaseURL: server.URL,
			Model:   "llama3.2",
		})
		Expect(err).NotTo(HaveOccurred())

		text, err := gen.Generate(ctx, "the prompt")
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("the answer"))
		Expect(reqBody["model"]).To(Equal("llama3.2"))
		Expect(reqBody["prompt"]).To(Equal("the prompt"))
		Expect(reqBody["stream"]).To(BeFalse())
	})

	It("surfaces a non-200 status", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		gen, err := ollama.NewGenerator(ollama.Config{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.Generate(ctx, "prompt")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("status 503"))
	})
})
