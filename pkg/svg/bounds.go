package svg

import "math"

// Box is an axis-aligned bounding box. The zero Box is a point at the origin;
// use [Empty] for a box that contains nothing.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Empty returns a box that is the identity for Union.
func Empty() Box {
	return Box{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

// Rectangle returns the box with top-left corner (x, y) and size w×h.
func Rectangle(x, y, w, h float64) Box {
	return Box{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// Span returns the box spanned by two corners in any order.
func Span(x1, y1, x2, y2 float64) Box {
	return Box{MinX: math.Min(x1, x2), MinY: math.Min(y1, y2), MaxX: math.Max(x1, x2), MaxY: math.Max(y1, y2)}
}

func (b Box) IsEmpty() bool { return b.MinX > b.MaxX || b.MinY > b.MaxY }

func (b Box) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxX - b.MinX
}

func (b Box) Height() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxY - b.MinY
}

// Union returns the smallest box containing both.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return Box{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Contains reports whether the point lies inside the box.
func (b Box) Contains(x, y float64) bool {
	return !b.IsEmpty() && x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Offset shifts the box.
func (b Box) Offset(dx, dy float64) Box {
	if b.IsEmpty() {
		return b
	}
	return Box{b.MinX + dx, b.MinY + dy, b.MaxX + dx, b.MaxY + dy}
}

// Rotated returns the bounding box of b rotated by deg around the origin.
func (b Box) Rotated(deg float64) Box {
	if b.IsEmpty() || deg == 0 {
		return b
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	out := Empty()
	for _, p := range [4][2]float64{{b.MinX, b.MinY}, {b.MaxX, b.MinY}, {b.MinX, b.MaxY}, {b.MaxX, b.MaxY}} {
		x := p[0]*cos - p[1]*sin
		y := p[0]*sin + p[1]*cos
		out = out.Union(Box{x, y, x, y})
	}
	return out
}

// TextMetrics returns the advance width and line height of s at the given
// font size.
type TextMetrics func(s string, fontSize float64) (width, height float64)

// Bounds returns the bounding box of n in its parent's coordinates.
// Titles and definitions contribute nothing.
func Bounds(n *Node, metrics TextMetrics) Box {
	var local Box
	switch n.Tag {
	case "title", "defs", "linearGradient", "stop", "style", "script":
		return Empty()
	case "g", "svg", "a":
		local = Empty()
		for _, c := range n.Children {
			local = local.Union(Bounds(c, metrics))
		}
	case "text":
		local = textBox(n, metrics)
	default:
		local = n.Extent
	}
	return local.Rotated(n.Rotate).Offset(n.TX, n.TY)
}

func textBox(n *Node, metrics TextMetrics) Box {
	if n.Text == "" {
		return Empty()
	}
	w, h := metrics(n.Text, n.FontSize)
	x := n.X
	switch n.Anchor {
	case "middle":
		x -= w / 2
	case "end":
		x -= w
	}
	y := n.Y - 0.8*h
	if n.Baseline == "middle" || n.Baseline == "central" {
		y = n.Y - h/2
	}
	return Rectangle(x, y, w, h)
}
