package cliui_test

import (
	"testing"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/harborworks/trawl/pkg/cliui"
)

func TestCliui(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cliui Suite")
}

var _ = Describe("Truncate", func() {
	It("returns short strings unchanged", func() {
		Expect(cliui.Truncate("hello", 10)).To(Equal("hello"))
		Expect(cliui.Truncate("hello", 5)).To(Equal("hello"))
	})

	It("cuts long strings and appends an ellipsis", func() {
		Expect(cliui.Truncate("hello world", 8)).To(Equal("hello..."))
	})

	It("cuts on rune boundaries, not byte boundaries", func() {
		got := cliui.Truncate("서울에서 열린 기자회견", 7)
		Expect(got).To(Equal("서울에서..."))
		Expect(utf8.ValidString(got)).To(BeTrue())
	})

	It("keeps multi-byte strings that fit within the rune limit", func() {
		Expect(cliui.Truncate("서울", 2)).To(Equal("서울"))
	})

	It("drops the ellipsis for tiny limits", func() {
		Expect(cliui.Truncate("hello", 2)).To(Equal("he"))
		Expect(cliui.Truncate("서울에서", 3)).To(Equal("서울에"))
	})

	It("returns an empty string for a non-positive limit", func() {
		Expect(cliui.Truncate("hello", 0)).To(Equal(""))
	})
})
