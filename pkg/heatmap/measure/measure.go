// Package measure provides element measurers for the layout engine.
//
// [Font] measures text with real glyph advances of the Go Regular typeface,
// which is close to what browsers and rsvg draw with a sans-serif font.
// [Fixed] assumes every character has the same width and is meant for tests
// and quick previews where deterministic sizes matter more than accuracy.
package measure

import (
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/funkyheatmap/pkg/svg"
)

// DefaultFontSize is used for text nodes without a font size.
const DefaultFontSize = 12

// Fixed measures text as CharWidth×FontSize per character and LineHeight×FontSize high.
type Fixed struct {
	CharWidth  float64
	LineHeight float64
}

// NewFixed returns a fixed measurer with typical sans-serif proportions.
func NewFixed() Fixed { return Fixed{CharWidth: 0.55, LineHeight: 1.2} }

// Measure implements layout.Measurer.
func (f Fixed) Measure(n *svg.Node) svg.Box { return svg.Bounds(n, f.Text) }

// Text returns the size of s at the given font size.
func (f Fixed) Text(s string, size float64) (float64, float64) {
	if size <= 0 {
		size = DefaultFontSize
	}
	return float64(len([]rune(s))) * f.CharWidth * size, f.LineHeight * size
}

// Font measures text with glyph advances and kerning of an OpenType font.
type Font struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewFont parses the Go Regular font.
func NewFont() (*Font, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return &Font{font: f, faces: map[float64]font.Face{}}, nil
}

// Measure implements layout.Measurer.
func (f *Font) Measure(n *svg.Node) svg.Box { return svg.Bounds(n, f.Text) }

// Text returns the advance width and line height of s.
func (f *Font) Text(s string, size float64) (float64, float64) {
	if size <= 0 {
		size = DefaultFontSize
	}
	face := f.face(size)
	var adv fixed.Int26_6
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			adv += face.Kern(prev, r)
		}
		if a, ok := face.GlyphAdvance(r); ok {
			adv += a
		}
		prev = r
	}
	return fixedToFloat(adv), fixedToFloat(face.Metrics().Height)
}

func (f *Font) face(size float64) font.Face {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return basicfont.Face7x13
	}
	f.faces[size] = face
	return face
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return math.Round(float64(v)/64*100) / 100
}
