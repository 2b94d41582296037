package nop_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/harborworks/trawl/pkg/eventstream"
	"github.com/harborworks/trawl/pkg/eventstream/nop"
)

func TestNop(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Nop Publisher Suite")
}

var _ = Describe("Publisher", func() {
	It("accepts a batch event", func() {
		p := nop.NewPublisher()
		err := p.PublishBatch(context.Background(), &eventstream.BatchIndexedEvent{
			Index:     "articles",
			Submitted: 2,
			Indexed:   2,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Close()).To(Succeed())
	})

	It("rejects a nil event", func() {
		p := nop.NewPublisher()
		err := p.PublishBatch(context.Background(), nil)
		Expect(err).To(MatchError(eventstream.ErrNilBatchEvent))
	})
})
