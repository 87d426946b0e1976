package pdf

import (
	"fmt"
	"strings"

	"codeberg.org/go-pdf/fpdf"
)

const (
	DefaultPattern = "Страница %d"
	TotalPattern   = "Страница %d из %d"

	StampFontSize = 9.0
	// StampBaseline is the distance from the bottom edge of the page to the
	// baseline of the stamp.
	StampBaseline = 15.0
)

// PageStampContext describes the output page being stamped. Index is
// 1-based and counts across every input of the run.
type PageStampContext struct {
	Index  int
	Total  int
	Width  float64
	Height float64
}

// Pattern is a page-number format with one %d (the page) or two (the page
// and the total).
type Pattern struct {
	format string
	verbs  int
}

func ParsePattern(format string) (Pattern, error) {
	verbs := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		if i+1 >= len(format) {
			return Pattern{}, fmt.Errorf("page number pattern %q ends with a bare %%", format)
		}
		i++
		switch format[i] {
		case '%':
		case 'd':
			verbs++
		default:
			return Pattern{}, fmt.Errorf("page number pattern %q: unsupported verb %%%c", format, format[i])
		}
	}

	if verbs < 1 || verbs > 2 {
		return Pattern{}, fmt.Errorf("page number pattern %q must contain one or two %%d, found %d", format, verbs)
	}
	return Pattern{format: format, verbs: verbs}, nil
}

func MustParsePattern(format string) Pattern {
	p, err := ParsePattern(format)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) Format(page, total int) string {
	if p.verbs == 2 {
		return fmt.Sprintf(p.format, page, total)
	}
	return fmt.Sprintf(p.format, page)
}

func (p Pattern) String() string {
	return p.format
}

func (p Pattern) IsZero() bool {
	return p.verbs == 0
}

// UsesTotal reports whether the pattern prints the total page count.
func (p Pattern) UsesTotal() bool {
	return p.verbs == 2
}

// runes returns every rune the pattern can print.
func (p Pattern) runes() []rune {
	var literal strings.Builder
	for i := 0; i < len(p.format); i++ {
		if p.format[i] == '%' {
			i++
			if p.format[i] == 'd' {
				continue
			}
		}
		literal.WriteByte(p.format[i])
	}
	return append([]rune(literal.String()), []rune("0123456789")...)
}

// Stamper draws the page-number text on top of an already-drawn page.
type Stamper struct {
	font      *Font
	pattern   Pattern
	lastWidth float64
}

func NewStamper(font *Font, pattern Pattern) *Stamper {
	return &Stamper{font: font, pattern: pattern}
}

func (s *Stamper) Pattern() Pattern {
	return s.pattern
}

// Register embeds the stamp font into doc. It must be called once per
// document before the first Stamp.
func (s *Stamper) Register(doc *fpdf.Fpdf) {
	doc.AddUTF8FontFromBytes(s.font.Family, "", s.font.data)
}

// Anchor returns the horizontal center and the baseline of the stamp, with
// the baseline measured from the top edge like every other fpdf coordinate.
// Pages without a usable size take the width of the last page that had one.
func (s *Stamper) Anchor(page PageStampContext) (centerX, baselineY float64) {
	if page.Width > 0 && page.Height > 0 {
		s.lastWidth = page.Width
	}
	return s.lastWidth / 2, page.Height - StampBaseline
}

// Stamp writes the text for page onto the current page of doc.
func (s *Stamper) Stamp(doc *fpdf.Fpdf, page PageStampContext) string {
	text := s.pattern.Format(page.Index, page.Total)
	centerX, baselineY := s.Anchor(page)

	doc.SetFont(s.font.Family, "", StampFontSize)
	doc.SetTextColor(0, 0, 0)
	doc.Text(centerX-doc.GetStringWidth(text)/2, baselineY, text)
	return text
}
