package ingest_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/harborworks/trawl/pkg/ingest"
)

var _ = Describe("ReadBatch", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "reader-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("reads an ordered batch from a JSON array", func() {
		data := `[
  {"title": "first", "content": "alpha", "url": "https://example.com/1", "datetime": "2024-01-01 00:00:00"},
  {"title": "second", "content": "beta"}
]`
		path := filepath.Join(tmpDir, "articles.json")
		Expect(os.WriteFile(path, []byte(data), 0o600)).To(Succeed())

		docs, err := ingest.ReadBatch(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(2))
		Expect(docs[0].Title).To(Equal("first"))
		Expect(docs[0].URL).To(Equal("https://example.com/1"))
		Expect(docs[1].Content).To(Equal("beta"))
		Expect(docs[1].URL).To(BeEmpty())
	})

	It("returns an empty batch for an empty array", func() {
		path := filepath.Join(tmpDir, "empty.json")
		Expect(os.WriteFile(path, []byte("[]"), 0o600)).To(Succeed())

		docs, err := ingest.ReadBatch(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(BeEmpty())
	})

	It("errors on a missing file", func() {
		_, err := ingest.ReadBatch(filepath.Join(tmpDir, "absent.json"))
		Expect(err).To(HaveOccurred())
	})

	It("errors on malformed JSON", func() {
		path := filepath.Join(tmpDir, "broken.json")
		Expect(os.WriteFile(path, []byte("{not an array"), 0o600)).To(Succeed())

		_, err := ingest.ReadBatch(path)
		Expect(err).To(HaveOccurred())
	})
})
