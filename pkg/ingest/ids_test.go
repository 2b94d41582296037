package ingest_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/harborworks/trawl/pkg/ingest"
)

var _ = Describe("ParseStrategy", func() {
	It("parses the known strategy names", func() {
		s, err := ingest.ParseStrategy("sequential")
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(ingest.StrategySequential))

		s, err = ingest.ParseStrategy("hash")
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(ingest.StrategyHash))

		s, err = ingest.ParseStrategy("uuid")
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(ingest.StrategyUUID))
	})

	It("defaults the empty string to uuid", func() {
		s, err := ingest.ParseStrategy("")
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(ingest.StrategyUUID))
	})

	It("rejects unknown names", func() {
		_, err := ingest.ParseStrategy("random")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unknown id strategy"))
	})

	It("round-trips through String", func() {
		for _, name := range []string{"sequential", "hash", "uuid"} {
			s, err := ingest.ParseStrategy(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.String()).To(Equal(name))
		}
	})
})

var _ = Describe("HashID", func() {
	It("is the md5 hex digest of title concatenated with content", func() {
		// md5("") and md5("ab") are fixed points any implementation must hit.
		Expect(ingest.HashID("", "")).To(Equal("d41d8cd98f00b204e9800998ecf8427e"))
		Expect(ingest.HashID("a", "b")).To(Equal("187ef4436122d1cc2f40dc2b92f0eba0"))
	})

	It("is stable for identical input", func() {
		Expect(ingest.HashID("title", "content")).To(Equal(ingest.HashID("title", "content")))
	})

	It("differs when title and content split differently", func() {
		// Concatenation means the boundary does not matter; this is the
		// documented (if surprising) behavior.
		Expect(ingest.HashID("ab", "")).To(Equal(ingest.HashID("a", "b")))
	})
})
