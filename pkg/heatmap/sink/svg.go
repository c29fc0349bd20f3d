package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/funkyheatmap/pkg/heatmap/layout"
	"github.com/matzehuels/funkyheatmap/pkg/svg"
)

const interactionCSS = `
    .fh-column > g[data-row] { transition: opacity 0.15s ease; }
    .funkyheatmap.fh-hovering .fh-column > g[data-row]:not(.fh-hover) { opacity: 0.45; }
    .fh-col-label { cursor: pointer; }
    .fh-col-label:hover text { font-weight: bold; }`

const interactionJS = `
    (function() {
      const root = document.currentScript ? document.currentScript.closest('svg') : document.querySelector('svg.funkyheatmap');
      if (!root) return;
      root.querySelectorAll('.fh-col-label').forEach(el => {
        el.addEventListener('click', () => {
          root.dispatchEvent(new CustomEvent('funkyheatmap:sort', { bubbles: true, detail: { column: el.dataset.col } }));
        });
      });
      root.querySelectorAll('.fh-column > g[data-row]').forEach(el => {
        el.addEventListener('mouseenter', () => {
          root.classList.add('fh-hovering');
          root.querySelectorAll('.fh-column > g[data-row="' + el.dataset.row + '"]').forEach(c => c.classList.add('fh-hover'));
        });
        el.addEventListener('mouseleave', () => {
          root.classList.remove('fh-hovering');
          root.querySelectorAll('.fh-hover').forEach(c => c.classList.remove('fh-hover'));
        });
      });
    })();`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	interaction bool
	header      bool
	css         string
}

// WithInteraction embeds row highlighting and sort events.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interaction = true } }

// WithXMLHeader prepends an XML declaration, for standalone files.
func WithXMLHeader() SVGOption { return func(r *svgRenderer) { r.header = true } }

// WithCSS embeds an additional style sheet.
func WithCSS(css string) SVGOption { return func(r *svgRenderer) { r.css = css } }

// RenderSVG serializes a laid out heatmap.
func RenderSVG(res *layout.Result, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var doc bytes.Buffer
	res.Root.Render(&doc)
	if !r.interaction && r.css == "" && !r.header {
		return doc.Bytes()
	}

	var buf bytes.Buffer
	if r.header {
		buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	}
	body := doc.Bytes()
	closing := bytes.LastIndex(body, []byte("</svg>"))
	if closing < 0 {
		// A root without children renders self-closed.
		buf.Write(body)
		return buf.Bytes()
	}
	buf.Write(body[:closing])
	if r.css != "" || r.interaction {
		css := r.css
		if r.interaction {
			css += interactionCSS
		}
		fmt.Fprintf(&buf, "  <style><![CDATA[%s\n  ]]></style>\n", css)
	}
	if r.interaction {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
	}
	buf.Write(body[closing:])
	return buf.Bytes()
}

// Labels returns the text of every column label in the header, in document
// order.
func Labels(res *layout.Result) []string {
	var out []string
	svg.Walk(res.Root, func(n *svg.Node) bool {
		if class, _ := n.Attr("class"); class == "fh-col-label" {
			for _, c := range n.Children {
				if c.Tag == "text" {
					out = append(out, c.Text)
					break
				}
			}
			return false
		}
		return true
	})
	return out
}
