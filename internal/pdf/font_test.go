package pdf_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/kpauljoseph/printmerge/internal/pdf"
)

var _ = Describe("Font loading", func() {
	var (
		testDir string
		pattern pdf.Pattern
	)

	BeforeEach(func() {
		var err error
		testDir, err = os.MkdirTemp("", "font-test-*")
		Expect(err).NotTo(HaveOccurred())
		pattern = pdf.MustParsePattern(pdf.TotalPattern)
	})

	AfterEach(func() {
		os.RemoveAll(testDir)
	})

	expectKind := func(err error, kind pdf.Kind) {
		Expect(err).To(HaveOccurred())
		actual, ok := pdf.KindOf(err)
		Expect(ok).To(BeTrue())
		Expect(actual).To(Equal(kind))
	}

	It("should load a font covering Cyrillic from disk", func() {
		path := filepath.Join(testDir, "Go-Regular.ttf")
		Expect(os.WriteFile(path, goregular.TTF, 0644)).To(Succeed())

		font, err := pdf.LoadFont(path, pattern)
		Expect(err).NotTo(HaveOccurred())
		Expect(font.Path).To(Equal(path))
		Expect(font.Family).NotTo(BeEmpty())
	})

	It("should fail for a missing file", func() {
		_, err := pdf.LoadFont(filepath.Join(testDir, "missing.ttf"), pattern)
		expectKind(err, pdf.KindFontLoad)
	})

	It("should fail for a file that is not a TrueType font", func() {
		path := filepath.Join(testDir, "fake.ttf")
		Expect(os.WriteFile(path, []byte("definitely not a font"), 0644)).To(Succeed())

		_, err := pdf.LoadFont(path, pattern)
		expectKind(err, pdf.KindFontLoad)
	})

	It("should fail when the font cannot draw the pattern", func() {
		_, err := pdf.ParseFont("goregular.ttf", goregular.TTF, pdf.MustParsePattern("第 %d 页"))
		expectKind(err, pdf.KindFontLoad)
		Expect(err.Error()).To(ContainSubstring("no glyph"))
	})

	It("should resolve an explicit path without probing the system", func() {
		path, err := pdf.ResolveFontPath("/fonts/custom.ttf")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/fonts/custom.ttf"))
	})
})
