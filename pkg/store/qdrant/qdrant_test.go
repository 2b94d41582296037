package qdrant

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	qdrantgo "github.com/qdrant/go-client/qdrant"

	"github.com/harborworks/trawl/pkg/store"
)

func TestQdrant(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Qdrant Store Suite")
}

var _ = Describe("pointID", func() {
	It("maps sequential ids to numeric point ids", func() {
		pid, err := pointID("42")
		Expect(err).NotTo(HaveOccurred())
		Expect(pid.GetNum()).To(Equal(uint64(42)))
	})

	It("passes UUIDs through", func() {
		pid, err := pointID("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
		Expect(err).NotTo(HaveOccurred())
		Expect(pid.GetUuid()).To(Equal("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	})

	It("reshapes md5 hex digests into UUID form", func() {
		pid, err := pointID("d41d8cd98f00b204e9800998ecf8427e")
		Expect(err).NotTo(HaveOccurred())
		Expect(pid.GetUuid()).To(Equal("d41d8cd9-8f00-b204-e980-0998ecf8427e"))
	})

	It("rejects ids that fit none of the forms", func() {
		_, err := pointID("not-a-point-id")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("matchFilter", func() {
	It("redirects the id field to the doc_id payload key", func() {
		filter := matchFilter("id", "42")
		Expect(filter.Must).To(HaveLen(1))
		Expect(filter.Must[0].GetField().GetKey()).To(Equal("doc_id"))
	})

	It("passes other fields through", func() {
		filter := matchFilter("file_name", "articles.json")
		Expect(filter.Must[0].GetField().GetKey()).To(Equal("file_name"))
	})
})

var _ = Describe("documentFromPayload", func() {
	It("rebuilds a document from point payload values", func() {
		payload := qdrantgo.NewValueMap(map[string]any{
			"doc_id":       "42",
			"title":        "a title",
			"content":      "some content",
			"url":          "https://example.com",
			"datetime":     "2024-01-01 00:00:00",
			"project_name": "trawl",
			"file_name":    "articles.json",
			"page":         int64(3),
		})

		doc := documentFromPayload(payload)
		Expect(doc.ID).To(Equal("42"))
		Expect(doc.Title).To(Equal("a title"))
		Expect(doc.Content).To(Equal("some content"))
		Expect(doc.URL).To(Equal("https://example.com"))
		Expect(doc.ProjectName).To(Equal("trawl"))
		Expect(doc.FileName).To(Equal("articles.json"))
		Expect(doc.Page).To(Equal(3))
	})
})

var _ = Describe("splitTarget", func() {
	It("splits host and port", func() {
		host, port, err := splitTarget("localhost:6334")
		Expect(err).NotTo(HaveOccurred())
		Expect(host).To(Equal("localhost"))
		Expect(port).To(Equal(6334))
	})

	It("strips a grpc scheme prefix", func() {
		host, port, err := splitTarget("grpc://qdrant.internal:6334")
		Expect(err).NotTo(HaveOccurred())
		Expect(host).To(Equal("qdrant.internal"))
		Expect(port).To(Equal(6334))
	})

	It("rejects a target without a port", func() {
		_, _, err := splitTarget("localhost")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Interface compliance", func() {
	It("implements store.Driver", func() {
		var _ store.Driver = (*Driver)(nil)
	})
})
