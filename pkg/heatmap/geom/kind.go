// Package geom draws single heatmap cells.
//
// A geom maps a value (and optionally a separate color value) to an SVG
// element positioned inside one cell of RowHeight×RowHeight pixels, with the
// cell's top-left corner at the origin. Renderers are pure: they read the
// [Encoding] and position arguments and return a fresh node.
//
//	| Kind      | Data     | Size | Color |
//	|-----------|----------|------|-------|
//	| funkyrect | number   | yes  | yes   |
//	| circle    | number   | yes  | yes   |
//	| bar       | number   | yes  | yes   |
//	| rect      | number   | no   | yes   |
//	| text      | string   | no   | yes   |
//	| pie       | []number | no   | yes   |
//	| image     | URL      | no   | no    |
package geom

import (
	"encoding/json"
	"strings"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
)

// Kind is a geom kind.
type Kind int

const (
	Text Kind = iota
	Bar
	Circle
	Rect
	Funkyrect
	Pie
	Image
)

var kindNames = [...]string{
	Text:      "text",
	Bar:       "bar",
	Circle:    "circle",
	Rect:      "rect",
	Funkyrect: "funkyrect",
	Pie:       "pie",
	Image:     "image",
}

// Kinds lists every geom kind in declaration order.
func Kinds() []Kind {
	return []Kind{Text, Bar, Circle, Rect, Funkyrect, Pie, Image}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind parses a geom name.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, ferrors.New(ferrors.ErrCodeUnknownGeom, "geom %q is not supported. Use one of %s", s, strings.Join(kindNames[:], ", "))
}

// Numeric reports whether the kind draws a size-mapped number.
func (k Kind) Numeric() bool {
	switch k {
	case Bar, Circle, Rect, Funkyrect:
		return true
	}
	return false
}

// Categorical reports whether the kind always treats its data as categories.
func (k Kind) Categorical() bool { return k == Text || k == Pie }

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalJSON keeps kinds readable in JSON exports.
func (k Kind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }
