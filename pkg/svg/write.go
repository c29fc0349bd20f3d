package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Render writes n and its subtree, one element per line.
func (n *Node) Render(buf *bytes.Buffer) {
	n.render(buf, 0)
}

// Bytes renders n into a new buffer.
func (n *Node) Bytes() []byte {
	var buf bytes.Buffer
	n.Render(&buf)
	return buf.Bytes()
}

func (n *Node) render(buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(buf, "%s<%s", indent, n.Tag)
	if t := n.Transform(); t != "" {
		fmt.Fprintf(buf, ` transform="%s"`, t)
	}
	for _, a := range n.Attrs {
		fmt.Fprintf(buf, ` %s="%s"`, a.Name, EscapeXML(a.Value))
	}

	switch {
	case len(n.Children) == 0 && n.Text == "":
		buf.WriteString("/>\n")
	case len(n.Children) == 0:
		fmt.Fprintf(buf, ">%s</%s>\n", EscapeXML(n.Text), n.Tag)
	default:
		buf.WriteString(">")
		if n.Text != "" {
			buf.WriteString(EscapeXML(n.Text))
		}
		buf.WriteString("\n")
		for _, c := range n.Children {
			c.render(buf, depth+1)
		}
		fmt.Fprintf(buf, "%s</%s>\n", indent, n.Tag)
	}
}

// Walk calls fn for n and every descendant in document order. Returning false
// skips the subtree.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
