package export

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mlviz/pkg/cache"
	"github.com/matzehuels/mlviz/pkg/diagram"
	"github.com/matzehuels/mlviz/pkg/errors"
	"github.com/matzehuels/mlviz/pkg/observability"
)

// Supported render formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Formats lists every format accepted by [Render].
var Formats = []string{FormatSVG, FormatPNG}

// Engine is the Graphviz layout engine used by [Render]. neato honours the
// pinned positions written by [ToDOT].
const Engine = "neato"

// ToDOT converts an instance to Graphviz DOT. Positions are in points with
// the y axis flipped, since Graphviz grows upward.
func ToDOT(in *diagram.Instance) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", strconv.Quote(in.Key().String()))
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, fixedsize=true, style=filled, color=\"#333333\", fontcolor=white, fontsize=11, fontname=\"Helvetica-Bold\"];\n")
	buf.WriteString("  edge [color=\"#b0b0b0\", arrowsize=0.6];\n\n")

	for _, n := range in.Nodes() {
		fmt.Fprintf(&buf, "  %s [pos=\"%s,%s!\", width=%s, fillcolor=%s, label=%s];\n",
			strconv.Quote(string(n.ID)),
			num(n.Position.X), num(diagram.ViewportHeight-n.Position.Y),
			num(2*n.Visual.Radius/72),
			strconv.Quote(n.Visual.Fill),
			strconv.Quote(n.Visual.Label))
	}
	buf.WriteString("\n")
	for _, e := range in.Edges() {
		style := ""
		if e.Feedback {
			style = " [style=dashed, color=\"#f9a825\"]"
		}
		fmt.Fprintf(&buf, "  %s -> %s%s;\n", strconv.Quote(string(e.From)), strconv.Quote(string(e.To)), style)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// Render lays out dot with neato and renders it in format.
func Render(ctx context.Context, dot string, format string) ([]byte, error) {
	if err := errors.ValidateFormat(format, Formats...); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	gvFormat := graphviz.SVG
	if format == FormatPNG {
		gvFormat = graphviz.PNG
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Renderer renders DOT through a cache keyed by the DOT hash and format.
type Renderer struct {
	Cache cache.Cache
	Keyer cache.Keyer // nil uses cache.NewDefaultKeyer
	TTL   time.Duration
}

// Render returns the cached artifact or renders and stores it.
func (r Renderer) Render(ctx context.Context, dot string, format string) ([]byte, error) {
	if r.Cache == nil {
		return Render(ctx, dot, format)
	}
	keyer := r.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	key := keyer.ExportKey(cache.Hash([]byte(dot)), cache.ExportKeyOpts{Format: format, Engine: Engine})

	hooks := observability.Cache()
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, "export")
		return data, nil
	}
	hooks.OnCacheMiss(ctx, "export")

	data, err := Render(ctx, dot, format)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err == nil {
		hooks.OnCacheSet(ctx, "export", len(data))
	}
	return data, nil
}
