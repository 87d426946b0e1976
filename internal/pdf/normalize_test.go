package pdf_test

import (
	"bytes"
	"context"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/image/tiff"

	"github.com/kpauljoseph/printmerge/internal/detect"
	"github.com/kpauljoseph/printmerge/internal/pdf"
	"github.com/kpauljoseph/printmerge/internal/tempfile"
	"github.com/kpauljoseph/printmerge/pkg/models"
)

var _ = Describe("Image normalizer", func() {
	Context("layout", func() {
		It("should keep a small image on a portrait page", func() {
			placement, err := pdf.LayoutImage(100, 50)
			Expect(err).NotTo(HaveOccurred())

			Expect(placement.Page).To(Equal(models.PageDimensions{Width: 595, Height: 842}))
			Expect(placement.Percent).To(BeNumerically("~", 563, 0.001))
			Expect(placement.X).To(Equal(30.0))
			Expect(placement.Y).To(Equal(30.0))
			Expect(placement.Width).To(BeNumerically("~", 563, 0.001))
			Expect(placement.Height).To(BeNumerically("~", 281.5, 0.001))
		})

		It("should turn the page for a wide image", func() {
			placement, err := pdf.LayoutImage(1000, 500)
			Expect(err).NotTo(HaveOccurred())

			Expect(placement.Page).To(Equal(models.PageDimensions{Width: 842, Height: 595}))
			Expect(placement.Percent).To(BeNumerically("~", 79.2, 0.001))
			Expect(placement.Width).To(BeNumerically("~", 792, 0.001))
			Expect(placement.Height).To(BeNumerically("~", 396, 0.001))
		})

		DescribeTable("orientation",
			func(w, h int, landscape bool) {
				placement, err := pdf.LayoutImage(w, h)
				Expect(err).NotTo(HaveOccurred())
				Expect(placement.Page.Width > placement.Page.Height).To(Equal(landscape))
			},
			Entry("narrow and wide", 500, 100, false),
			Entry("wide but taller", 1000, 2000, false),
			Entry("exactly A4 wide", 595, 100, false),
			Entry("one point wider than A4", 596, 100, true),
			Entry("wide square", 800, 800, false),
		)

		It("should keep the drawn image inside the page", func() {
			for _, size := range [][2]int{{3000, 4000}, {4000, 3000}, {10, 10}, {2480, 3508}} {
				placement, err := pdf.LayoutImage(size[0], size[1])
				Expect(err).NotTo(HaveOccurred())
				Expect(placement.X + placement.Width).To(BeNumerically("<=", placement.Page.Width))
				Expect(placement.Y + placement.Height).To(BeNumerically("<=", placement.Page.Height))
			}
		})

		It("should reject an empty image", func() {
			_, err := pdf.LayoutImage(0, 10)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("conversion", func() {
		var (
			testDir    string
			temps      *tempfile.Manager
			normalizer *pdf.Normalizer
		)

		BeforeEach(func() {
			var err error
			testDir, err = os.MkdirTemp("", "normalize-test-*")
			Expect(err).NotTo(HaveOccurred())

			log := pdfTestLogger()
			temps = tempfile.NewManager(log)
			normalizer = pdf.NewNormalizer(temps, log)
		})

		AfterEach(func() {
			Expect(temps.Cleanup()).To(Succeed())
			os.RemoveAll(testDir)
		})

		DescribeTable("one page per image",
			func(name string, mediaType detect.MediaType, w, h int, encode func(*bytes.Buffer, int, int) error, expected models.PageDimensions) {
				src := filepath.Join(testDir, name)
				writeEncoded(src, func(b *bytes.Buffer) error { return encode(b, w, h) })

				out, err := normalizer.Normalize(context.Background(), models.InputItem{Path: src, MediaType: mediaType.String()})
				Expect(err).NotTo(HaveOccurred())

				Expect(filepath.Dir(out)).To(Equal(testDir))
				Expect(tempfile.IsTemp(out)).To(BeTrue())
				Expect(temps.Owned()).To(ContainElement(out))

				dims, err := api.PageDimsFile(out)
				Expect(err).NotTo(HaveOccurred())
				Expect(dims).To(HaveLen(1))
				Expect(dims[0].Width).To(BeNumerically("~", expected.Width, 0.01))
				Expect(dims[0].Height).To(BeNumerically("~", expected.Height, 0.01))
			},
			Entry("jpeg", "scan.jpeg", detect.JPEG, 120, 160, func(b *bytes.Buffer, w, h int) error {
				return jpeg.Encode(b, testImage(w, h), nil)
			}, models.PageDimensions{Width: 595, Height: 842}),
			Entry("landscape png", "scan.png", detect.PNG, 700, 300, func(b *bytes.Buffer, w, h int) error {
				return png.Encode(b, testImage(w, h))
			}, models.PageDimensions{Width: 842, Height: 595}),
			Entry("gif", "scan.gif", detect.GIF, 40, 40, func(b *bytes.Buffer, w, h int) error {
				return gif.Encode(b, testImage(w, h), nil)
			}, models.PageDimensions{Width: 595, Height: 842}),
			Entry("tiff", "scan.tif", detect.TIFF, 64, 48, func(b *bytes.Buffer, w, h int) error {
				return tiff.Encode(b, testImage(w, h), nil)
			}, models.PageDimensions{Width: 595, Height: 842}),
		)

		It("should report a corrupt image as a conversion failure", func() {
			src := filepath.Join(testDir, "broken.png")
			Expect(os.WriteFile(src, []byte("\x89PNG\r\n\x1a\nnot really"), 0644)).To(Succeed())

			_, err := normalizer.Normalize(context.Background(), models.InputItem{Path: src, MediaType: detect.PNG.String()})
			Expect(err).To(HaveOccurred())
			kind, ok := pdf.KindOf(err)
			Expect(ok).To(BeTrue())
			Expect(kind).To(Equal(pdf.KindImageConversion))
		})

		It("should stop when the context is cancelled", func() {
			src := filepath.Join(testDir, "scan.png")
			writeEncoded(src, func(b *bytes.Buffer) error { return png.Encode(b, testImage(10, 10)) })

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := normalizer.Normalize(ctx, models.InputItem{Path: src, MediaType: detect.PNG.String()})
			Expect(err).To(MatchError(context.Canceled))
			Expect(temps.Owned()).To(BeEmpty())
		})
	})
})
