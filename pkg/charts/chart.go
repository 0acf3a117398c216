package charts

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Kind is the overall chart type.
type Kind string

// Chart kinds.
const (
	KindScatter  Kind = "scatter"
	KindLine     Kind = "line"
	KindStep     Kind = "step"
	KindBar      Kind = "bar"
	KindComposed Kind = "composed" // scatter with a fitted line
)

// Mark is how one series is drawn.
type Mark int

// Series marks.
const (
	MarkDots Mark = iota
	MarkLine
	MarkSmooth
	MarkStep
	MarkBar
)

// Point is one datum. For bar charts X is the category index.
type Point struct {
	X, Y float64
}

// Series is a named, styled run of points.
type Series struct {
	Name    string
	Mark    Mark
	Color   string
	Opacity float64 // 0 means opaque
	Points  []Point
	// PointColors overrides Color per point when non-empty.
	PointColors []string
}

// Domain is an axis range. The zero value means "derive from data".
type Domain struct {
	Min, Max float64
}

func (d Domain) set() bool { return d.Min != 0 || d.Max != 0 }

// Chart is a canned plot.
type Chart struct {
	Name       string
	Kind       Kind
	Caption    string
	XDomain    Domain
	YDomain    Domain
	Categories []string
	Series     []Series
	DashedGrid bool
	HideAxes   bool
	Legend     bool
}

// PanelName identifies the chart in cache keys.
func (c *Chart) PanelName() string { return c.Name }

// Chart canvas geometry.
const (
	Width  = 360.0
	Height = 200.0

	padLeft   = 36.0
	padRight  = 10.0
	padTop    = 10.0
	padBottom = 42.0
)

// WriteTo renders the chart as SVG.
func (c *Chart) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.SVG())
	return int64(n), err
}

// SVG renders the chart.
func (c *Chart) SVG() []byte {
	var buf bytes.Buffer
	p := c.plot()

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" class="chart chart-%s" data-chart="%s">`+"\n",
		Width, Height, c.Kind, escapeXML(c.Name))
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.0f" height="%.0f" fill="#fff" stroke="#eee" rx="4"/>`+"\n", Width, Height)

	p.grid(&buf, c.DashedGrid)
	if !c.HideAxes {
		p.axes(&buf, c.Categories)
	}
	for _, s := range c.Series {
		p.series(&buf, s)
	}
	if c.Legend {
		c.legend(&buf)
	}
	fmt.Fprintf(&buf, `  <text class="caption" x="%s" y="%s" text-anchor="middle" font-size="11" fill="#666">%s</text>`+"\n",
		num(Width/2), num(Height-6), escapeXML(c.Caption))
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// =============================================================================
// Plot area
// =============================================================================

type plot struct {
	x, y   Domain
	bands  int // > 0 for categorical x
	xticks []float64
	yticks []float64
}

func (c *Chart) plot() plot {
	var xs, ys []float64
	for _, s := range c.Series {
		for _, pt := range s.Points {
			xs = append(xs, pt.X)
			ys = append(ys, pt.Y)
		}
	}

	p := plot{x: c.XDomain, y: c.YDomain}
	if len(c.Categories) > 0 {
		p.bands = len(c.Categories)
		p.x = Domain{Min: 0, Max: float64(p.bands)}
	} else if !p.x.set() {
		p.x = niceDomain(xs, false)
	}
	if !p.y.set() {
		p.y = niceDomain(ys, true)
	}
	if p.bands == 0 {
		p.xticks = ticks(p.x)
	}
	p.yticks = ticks(p.y)
	return p
}

func (p plot) px(x float64) float64 {
	return padLeft + (x-p.x.Min)/(p.x.Max-p.x.Min)*(Width-padLeft-padRight)
}

func (p plot) py(y float64) float64 {
	return Height - padBottom - (y-p.y.Min)/(p.y.Max-p.y.Min)*(Height-padTop-padBottom)
}

// bandX returns the centre of category i.
func (p plot) bandX(i float64) float64 { return p.px(i + 0.5) }

func (p plot) grid(buf *bytes.Buffer, dashed bool) {
	dash := ""
	if dashed {
		dash = ` stroke-dasharray="3 3"`
	}
	buf.WriteString(`  <g class="grid" stroke="#ddd"` + dash + ">\n")
	for _, t := range p.yticks {
		fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n",
			num(padLeft), num(p.py(t)), num(Width-padRight), num(p.py(t)))
	}
	for _, t := range p.xticks {
		fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n",
			num(p.px(t)), num(padTop), num(p.px(t)), num(Height-padBottom))
	}
	buf.WriteString("  </g>\n")
}

func (p plot) axes(buf *bytes.Buffer, categories []string) {
	bottom := Height - padBottom
	buf.WriteString(`  <g class="axes" font-size="10" fill="#666">` + "\n")
	fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#999"/>`+"\n",
		num(padLeft), num(bottom), num(Width-padRight), num(bottom))
	fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#999"/>`+"\n",
		num(padLeft), num(padTop), num(padLeft), num(bottom))
	for _, t := range p.yticks {
		fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="end">%s</text>`+"\n",
			num(padLeft-4), num(p.py(t)+3), num(t))
	}
	for _, t := range p.xticks {
		fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
			num(p.px(t)), num(bottom+12), num(t))
	}
	for i, name := range categories {
		fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
			num(p.bandX(float64(i))), num(bottom+12), escapeXML(name))
	}
	buf.WriteString("  </g>\n")
}

func (p plot) series(buf *bytes.Buffer, s Series) {
	opacity := ""
	if s.Opacity > 0 && s.Opacity < 1 {
		opacity = fmt.Sprintf(` opacity="%s"`, num(s.Opacity))
	}
	fmt.Fprintf(buf, `  <g class="series" data-series="%s"%s>`+"\n", escapeXML(s.Name), opacity)

	switch s.Mark {
	case MarkDots:
		for i, pt := range s.Points {
			fmt.Fprintf(buf, `    <circle cx="%s" cy="%s" r="3.5" fill="%s"/>`+"\n",
				num(p.px(pt.X)), num(p.py(pt.Y)), s.pointColor(i))
		}
	case MarkBar:
		band := p.px(1) - p.px(0)
		for i, pt := range s.Points {
			top := p.py(pt.Y)
			fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
				num(p.bandX(pt.X)-band*0.3), num(top), num(band*0.6), num(p.py(p.y.Min)-top), s.pointColor(i))
		}
	default:
		fmt.Fprintf(buf, `    <path d="%s" fill="none" stroke="%s" stroke-width="2"/>`+"\n", p.path(s), s.Color)
	}
	buf.WriteString("  </g>\n")
}

func (s Series) pointColor(i int) string {
	if i < len(s.PointColors) && s.PointColors[i] != "" {
		return s.PointColors[i]
	}
	return s.Color
}

// path builds the SVG path data for line-like marks.
func (p plot) path(s Series) string {
	pts := make([]Point, len(s.Points))
	for i, pt := range s.Points {
		pts[i] = Point{X: p.px(pt.X), Y: p.py(pt.Y)}
	}
	if len(pts) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M%s,%s", num(pts[0].X), num(pts[0].Y))
	for i := 1; i < len(pts); i++ {
		prev, cur := pts[i-1], pts[i]
		switch s.Mark {
		case MarkStep:
			mid := (prev.X + cur.X) / 2
			fmt.Fprintf(&b, " H%s V%s H%s", num(mid), num(cur.Y), num(cur.X))
		case MarkSmooth:
			// Catmull-Rom segment expressed as a cubic Bézier.
			before, after := prev, cur
			if i >= 2 {
				before = pts[i-2]
			}
			if i+1 < len(pts) {
				after = pts[i+1]
			}
			c1 := Point{X: prev.X + (cur.X-before.X)/6, Y: prev.Y + (cur.Y-before.Y)/6}
			c2 := Point{X: cur.X - (after.X-prev.X)/6, Y: cur.Y - (after.Y-prev.Y)/6}
			fmt.Fprintf(&b, " C%s,%s %s,%s %s,%s",
				num(c1.X), num(c1.Y), num(c2.X), num(c2.Y), num(cur.X), num(cur.Y))
		default:
			fmt.Fprintf(&b, " L%s,%s", num(cur.X), num(cur.Y))
		}
	}
	return b.String()
}

func (c *Chart) legend(buf *bytes.Buffer) {
	x := padLeft + 8
	buf.WriteString(`  <g class="legend" font-size="10" fill="#333">` + "\n")
	for _, s := range c.Series {
		fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="10" height="3" fill="%s"/>`, num(x), num(Height-padBottom+20), s.Color)
		fmt.Fprintf(buf, `<text x="%s" y="%s">%s</text>`+"\n", num(x+14), num(Height-padBottom+24), escapeXML(s.Name))
		x += 14 + float64(len(s.Name))*6 + 12
	}
	buf.WriteString("  </g>\n")
}

// =============================================================================
// Scales
// =============================================================================

// niceDomain spans values with round bounds. Y domains include zero when
// every value is positive.
func niceDomain(vs []float64, zero bool) Domain {
	if len(vs) == 0 {
		return Domain{Min: 0, Max: 1}
	}
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	if zero && lo > 0 {
		lo = 0
	}
	if lo == hi {
		hi = lo + 1
	}
	step := tickStep(hi - lo)
	return Domain{Min: math.Floor(lo/step) * step, Max: math.Ceil(hi/step) * step}
}

// tickStep picks 1, 2 or 5 times a power of ten giving about five intervals.
func tickStep(span float64) float64 {
	raw := span / 5
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch r := raw / mag; {
	case r <= 1:
		return mag
	case r <= 2:
		return 2 * mag
	case r <= 5:
		return 5 * mag
	}
	return 10 * mag
}

func ticks(d Domain) []float64 {
	step := tickStep(d.Max - d.Min)
	var out []float64
	for v := math.Ceil(d.Min/step) * step; v <= d.Max+step/1e6; v += step {
		out = append(out, math.Round(v/step)*step)
	}
	return out
}

func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
