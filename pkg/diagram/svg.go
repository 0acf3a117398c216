package diagram

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
)

const (
	edgeStroke     = "#b0b0b0"
	feedbackStroke = "#f9a825"
	nodeStroke     = "#333"
	captionFill    = "#666"
)

// SVG renders the diagram with live positions.
func (in *Instance) SVG() []byte {
	var buf bytes.Buffer
	in.render(&buf)
	return buf.Bytes()
}

// RenderSVG writes the diagram to w.
func (in *Instance) RenderSVG(w io.Writer) error {
	_, err := w.Write(in.SVG())
	return err
}

func (in *Instance) render(buf *bytes.Buffer) {
	key := escapeXML(in.key.String())
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" class="network-svg" data-key="%s">`+"\n",
		ViewportWidth, ViewportHeight, key)
	if in.phase == PhaseTornDown {
		buf.WriteString("</svg>\n")
		return
	}

	marker := "arrow-" + key
	fmt.Fprintf(buf, `  <defs><marker id="%s" viewBox="0 0 10 10" refX="%.0f" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">`,
		marker, in.topo.maxRadius()+6)
	fmt.Fprintf(buf, `<path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker></defs>`+"\n", edgeStroke)

	buf.WriteString("  <g class=\"edges\">\n")
	for _, e := range in.Edges() {
		renderEdge(buf, e, marker)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"nodes\">\n")
	for _, n := range in.Nodes() {
		renderNode(buf, n)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"captions\">\n")
	for _, c := range in.Captions() {
		fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="middle" font-size="10" fill="%s">%s</text>`+"\n",
			num(c.X), num(c.Y), captionFill, escapeXML(c.Text))
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
}

func renderEdge(buf *bytes.Buffer, e EdgeSegment, marker string) {
	stroke, dash := edgeStroke, ""
	if e.Feedback {
		stroke, dash = feedbackStroke, ` stroke-dasharray="5 4"`
	}
	fmt.Fprintf(buf, `    <line class="edge" data-from="%s" data-to="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1.5"%s marker-end="url(#%s)"/>`+"\n",
		e.From, e.To, num(e.X1), num(e.Y1), num(e.X2), num(e.Y2), stroke, dash, marker)
}

func renderNode(buf *bytes.Buffer, n Node) {
	v := n.Visual
	fmt.Fprintf(buf, `    <g class="node" data-node="%s">`, escapeXML(string(n.ID)))
	fmt.Fprintf(buf, `<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="2" style="cursor: grab; touch-action: none"/>`,
		num(n.Position.X), num(n.Position.Y), num(v.Radius), v.Fill, nodeStroke)
	fmt.Fprintf(buf, `<text x="%s" y="%s" text-anchor="middle" font-size="11" font-weight="bold" fill="#fff" pointer-events="none">%s</text></g>`+"\n",
		num(n.Position.X), num(n.Position.Y+4), escapeXML(v.Label))
}

// num formats a coordinate rounded to two decimals without trailing zeros.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // normalise -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
