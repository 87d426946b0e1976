package pdf_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/printmerge/internal/pdf"
)

var _ = Describe("Page stamper", func() {
	Context("page number patterns", func() {
		DescribeTable("valid patterns",
			func(format string, page, total int, expected string) {
				pattern, err := pdf.ParsePattern(format)
				Expect(err).NotTo(HaveOccurred())
				Expect(pattern.Format(page, total)).To(Equal(expected))
			},
			Entry("default", pdf.DefaultPattern, 3, 10, "Страница 3"),
			Entry("with total", pdf.TotalPattern, 3, 10, "Страница 3 из 10"),
			Entry("escaped percent", "%d%% done", 7, 9, "7% done"),
		)

		DescribeTable("invalid patterns",
			func(format string) {
				_, err := pdf.ParsePattern(format)
				Expect(err).To(HaveOccurred())
			},
			Entry("no verb", "Страница"),
			Entry("three verbs", "%d/%d/%d"),
			Entry("string verb", "Страница %s"),
			Entry("trailing percent", "Страница %d %"),
		)

		It("should report whether the total is printed", func() {
			Expect(pdf.MustParsePattern(pdf.DefaultPattern).UsesTotal()).To(BeFalse())
			Expect(pdf.MustParsePattern(pdf.TotalPattern).UsesTotal()).To(BeTrue())
		})
	})

	Context("stamp geometry", func() {
		var stamper *pdf.Stamper

		BeforeEach(func() {
			pattern := pdf.MustParsePattern(pdf.DefaultPattern)
			stamper = pdf.NewStamper(testFont(pattern), pattern)
		})

		It("should center the stamp 15pt above the bottom edge", func() {
			x, y := stamper.Anchor(pdf.PageStampContext{Index: 1, Total: 1, Width: 595, Height: 842})
			Expect(x).To(BeNumerically("~", 297.5, 0.001))
			Expect(y).To(BeNumerically("~", 827, 0.001))
		})

		It("should reuse the last valid width for a zero-width page", func() {
			stamper.Anchor(pdf.PageStampContext{Index: 1, Total: 3, Width: 600, Height: 800})

			x, _ := stamper.Anchor(pdf.PageStampContext{Index: 2, Total: 3, Width: 0, Height: 800})
			Expect(x).To(BeNumerically("~", 300, 0.001))

			x, _ = stamper.Anchor(pdf.PageStampContext{Index: 3, Total: 3, Width: 400, Height: -1})
			Expect(x).To(BeNumerically("~", 300, 0.001))
		})

		It("should fall back to zero when no valid page was seen yet", func() {
			x, _ := stamper.Anchor(pdf.PageStampContext{Index: 1, Total: 1, Width: 0, Height: 0})
			Expect(x).To(BeZero())
		})
	})
})
