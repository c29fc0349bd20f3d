// Package svg is a small SVG element tree.
//
// Nodes are built with the shape constructors ([Circle], [Rect], [Text], ...)
// and grouped with [Group]. Every shape remembers its own extent so that
// [Bounds] can compute the box of any subtree, including translated and
// rotated groups. Text extents need font metrics and are delegated to a
// [TextMetrics] function supplied by the caller.
//
// [Node.Render] writes the tree as XML.
package svg

import (
	"fmt"
	"math"
	"strconv"
)

// Attr is a single XML attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is one SVG element.
type Node struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node

	// Transform applied to the element, rendered as translate(...) rotate(...).
	TX, TY float64
	Rotate float64

	// Geometry used by Bounds.
	Extent   Box     // shapes: local bounding box
	X, Y     float64 // text: anchor point
	FontSize float64 // text
	Anchor   string  // text: start, middle or end
	Baseline string  // text: dominant-baseline
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Set sets an attribute, replacing an existing value.
func (n *Node) Set(name, value string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{name, value})
	return n
}

// SetNum sets a numeric attribute.
func (n *Node) SetNum(name string, v float64) *Node { return n.Set(name, Num(v)) }

func (n *Node) Fill(color string) *Node   { return n.Set("fill", color) }
func (n *Node) Stroke(color string) *Node { return n.Set("stroke", color) }
func (n *Node) Class(class string) *Node  { return n.Set("class", class) }
func (n *Node) ID(id string) *Node        { return n.Set("id", id) }

// Data sets a data-* attribute.
func (n *Node) Data(key, value string) *Node { return n.Set("data-"+key, value) }

// Append adds children and returns n.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Translate moves the element.
func (n *Node) Translate(x, y float64) *Node {
	n.TX, n.TY = x, y
	return n
}

// RotateBy rotates the element around its local origin, in degrees.
func (n *Node) RotateBy(deg float64) *Node {
	n.Rotate = deg
	return n
}

// Title attaches a <title> child, shown as a native tooltip.
func (n *Node) Title(text string) *Node {
	if text == "" {
		return n
	}
	return n.Append(&Node{Tag: "title", Text: text})
}

// Transform returns the transform attribute value, or "" if there is none.
func (n *Node) Transform() string {
	var s string
	if n.TX != 0 || n.TY != 0 {
		s = fmt.Sprintf("translate(%s,%s)", Num(n.TX), Num(n.TY))
	}
	if n.Rotate != 0 {
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("rotate(%s)", Num(n.Rotate))
	}
	return s
}

// Element returns a bare element, for tags without a dedicated constructor.
func Element(tag string, children ...*Node) *Node {
	return (&Node{Tag: tag}).Append(children...)
}

// Group returns a <g> holding children.
func Group(children ...*Node) *Node {
	return (&Node{Tag: "g"}).Append(children...)
}

// Circle returns a circle centered at (cx, cy).
func Circle(cx, cy, r float64) *Node {
	n := &Node{Tag: "circle", Extent: Rectangle(cx-r, cy-r, 2*r, 2*r)}
	return n.SetNum("cx", cx).SetNum("cy", cy).SetNum("r", r)
}

// Rect returns an axis-aligned rectangle.
func Rect(x, y, w, h float64) *Node {
	n := &Node{Tag: "rect", Extent: Rectangle(x, y, w, h)}
	return n.SetNum("x", x).SetNum("y", y).SetNum("width", w).SetNum("height", h)
}

// RoundedRect returns a rectangle with corner radius r.
func RoundedRect(x, y, w, h, r float64) *Node {
	return Rect(x, y, w, h).SetNum("rx", r).SetNum("ry", r)
}

// Line returns a line segment.
func Line(x1, y1, x2, y2 float64) *Node {
	n := &Node{Tag: "line", Extent: Span(x1, y1, x2, y2)}
	return n.SetNum("x1", x1).SetNum("y1", y1).SetNum("x2", x2).SetNum("y2", y2)
}

// Path returns a path. Path data is not parsed, so the caller supplies its extent.
func Path(d string, extent Box) *Node {
	n := &Node{Tag: "path", Extent: extent}
	return n.Set("d", d)
}

// Image returns an external image reference.
func Image(href string, x, y, w, h float64) *Node {
	n := &Node{Tag: "image", Extent: Rectangle(x, y, w, h)}
	return n.Set("href", href).SetNum("x", x).SetNum("y", y).SetNum("width", w).SetNum("height", h)
}

// Text returns a text element anchored at (x, y).
func Text(x, y float64, s string, fontSize float64) *Node {
	n := &Node{Tag: "text", Text: s, X: x, Y: y, FontSize: fontSize, Anchor: "start"}
	n.SetNum("x", x).SetNum("y", y)
	if fontSize > 0 {
		n.SetNum("font-size", fontSize)
	}
	return n
}

// Align sets the text anchor: start, middle or end.
func (n *Node) Align(anchor string) *Node {
	n.Anchor = anchor
	if anchor == "start" {
		return n
	}
	return n.Set("text-anchor", anchor)
}

// Middle centers text vertically on its y coordinate.
func (n *Node) Middle() *Node {
	n.Baseline = "middle"
	return n.Set("dominant-baseline", "middle")
}

// Num formats a coordinate with at most two decimals.
func Num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
