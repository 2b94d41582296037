package eventstream_test

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/harborworks/trawl/pkg/eventstream"
)

func TestEventstream(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Eventstream Suite")
}

var _ = Describe("Event", func() {
	It("marshals BatchIndexedEvent with expected top-level keys", func() {
		now := time.Unix(1735689600, 0).UTC()
		event := eventstream.BatchIndexedEvent{
			SchemaVersion: eventstream.SchemaVersionV1,
			EventType:     eventstream.EventTypeBatchIndexed,
			EventID:       "evt_123",
			EmittedAt:     now,
			Index:         "articles",
			ProjectName:   "trawl",
			FileName:      "articles.json",
			IDStrategy:    "hash",
			Submitted:     10,
			Indexed:       9,
			Failed:        1,
		}

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("schema_version"))
		Expect(got).To(HaveKey("event_type"))
		Expect(got).To(HaveKey("event_id"))
		Expect(got).To(HaveKey("emitted_at"))
		Expect(got).To(HaveKey("index"))
		Expect(got).To(HaveKey("id_strategy"))
		Expect(got).To(HaveKey("submitted"))
		Expect(got).To(HaveKey("indexed"))
		Expect(got).To(HaveKey("failed"))
	})

	It("defines stable event constants", func() {
		Expect(eventstream.SchemaVersionV1).To(BeNumerically(">", 0))
		Expect(eventstream.EventTypeBatchIndexed).To(Equal("trawl.batch.indexed"))
	})

	It("provides ErrNilBatchEvent for nil payload validation", func() {
		Expect(eventstream.ErrNilBatchEvent).NotTo(BeNil())
		Expect(eventstream.ErrNilBatchEvent).To(MatchError("nil batch event"))
	})
})

var _ = Describe("FillEnvelope", func() {
	It("fills empty envelope fields with defaults", func() {
		event := &eventstream.BatchIndexedEvent{Index: "articles"}
		event.FillEnvelope()

		Expect(event.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
		Expect(event.EventType).To(Equal(eventstream.EventTypeBatchIndexed))
		Expect(event.EventID).NotTo(BeEmpty())
		Expect(event.EmittedAt).To(BeTemporally("~", time.Now().UTC(), time.Minute))
	})

	It("leaves preset envelope fields alone", func() {
		emitted := time.Unix(1735689600, 0).UTC()
		event := &eventstream.BatchIndexedEvent{
			SchemaVersion: 7,
			EventType:     "custom.type",
			EventID:       "evt_abc",
			EmittedAt:     emitted,
		}
		event.FillEnvelope()

		Expect(event.SchemaVersion).To(Equal(7))
		Expect(event.EventType).To(Equal("custom.type"))
		Expect(event.EventID).To(Equal("evt_abc"))
		Expect(event.EmittedAt).To(Equal(emitted))
	})

	It("assigns a fresh event id per call", func() {
		first := &eventstream.BatchIndexedEvent{}
		second := &eventstream.BatchIndexedEvent{}
		first.FillEnvelope()
		second.FillEnvelope()

		Expect(first.EventID).NotTo(Equal(second.EventID))
	})
})
