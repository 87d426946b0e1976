package pdf

import (
	"fmt"
	"os"
	"unicode"

	"github.com/golang/freetype/truetype"

	"github.com/kpauljoseph/printmerge/pkg/utils"
)

// SystemFontCandidates are tried in order when no font path is configured.
var SystemFontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/truetype/noto/NotoSans-Regular.ttf",
	"/usr/share/fonts/noto/NotoSans-Regular.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

// Font is a TrueType font read once per run and embedded into every
// document the run writes.
type Font struct {
	Family string
	Path   string
	data   []byte
}

// ResolveFontPath returns path, or the first existing system candidate
// when path is empty.
func ResolveFontPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	for _, candidate := range SystemFontCandidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", NewError(KindFontLoad, "no font configured and no system font found", "", nil)
}

// LoadFont reads the TrueType font at path and checks that it can draw
// every rune pattern prints. An empty path selects a system font.
func LoadFont(path string, pattern Pattern) (*Font, error) {
	path, err := ResolveFontPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewError(KindFontLoad, "failed to read font", path, err)
	}
	return ParseFont(path, data, pattern)
}

// ParseFont is LoadFont for font bytes already in memory; name is used
// for messages only.
func ParseFont(name string, data []byte, pattern Pattern) (*Font, error) {
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, NewError(KindFontLoad, "failed to parse font", name, err)
	}

	for _, r := range pattern.runes() {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			continue
		}
		if ttf.Index(r) == 0 {
			return nil, NewError(KindFontLoad, fmt.Sprintf("font has no glyph for %q", r), name, nil)
		}
	}

	family := ttf.Name(truetype.NameIDFontFamily)
	if family == "" {
		family = utils.BaseName(name)
	}
	return &Font{Family: family, Path: name, data: data}, nil
}
