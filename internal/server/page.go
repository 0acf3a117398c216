package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/diagram"
	"github.com/matzehuels/mlviz/pkg/errors"
	"github.com/matzehuels/mlviz/pkg/session"
)

//go:embed templates/index.html
var indexHTML string

var pageTemplate = template.Must(template.New("index").Parse(indexHTML))

type pageRow struct {
	ID       string
	Method   string
	RowColor string
	Selected bool
	Cells    []pageCell
}

type pageCell struct {
	Class string
	Text  string
}

type pageCard struct {
	Key     string
	Title   string
	Example string
	Diagram template.HTML
	Panel   template.HTML
}

type pageData struct {
	Colors      []catalogue.Swatch
	Legend      []legendEntry
	Headers     []catalogue.Column
	Rows        []pageRow
	Selected    string
	Generation  uint64
	Cards       []pageCard
	Placeholder string
}

type legendEntry struct {
	Label string
	Fill  string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	sess.Lock()
	data := s.page(sess)
	sess.Unlock()

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render page"))
		return
	}
	writeRaw(w, http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// page assembles the template data. Callers hold the session lock.
func (s *Server) page(sess *session.Session) pageData {
	data := pageData{
		Colors:      catalogue.TextColors,
		Headers:     catalogue.Columns,
		Selected:    sess.Selection,
		Generation:  sess.Set.Generation(),
		Placeholder: sess.Set.Placeholder(),
	}
	for _, role := range diagram.Legend {
		data.Legend = append(data.Legend, legendEntry{Label: role.Label(), Fill: role.Fill()})
	}

	for _, m := range s.cat.Methods() {
		row := pageRow{ID: m.ID, Method: m.Method, RowColor: m.RowColor, Selected: m.ID == sess.Selection}
		for _, col := range catalogue.Columns {
			row.Cells = append(row.Cells, pageCell{Class: col.Class, Text: strings.Join(col.Values(&m), ", ")})
		}
		data.Rows = append(data.Rows, row)
	}

	for _, in := range sess.Set.Instances() {
		card := pageCard{
			Key:     in.Key().String(),
			Title:   in.Combination().Title(in.Key().Index),
			Example: in.Combination().BiologicalExample,
			// Both are produced by our own escaping SVG writers.
			Diagram: template.HTML(in.SVG()),
		}
		if p := in.Panel(); p != nil {
			var buf bytes.Buffer
			if _, err := p.WriteTo(&buf); err != nil {
				s.logger.Warn("panel render failed", "key", card.Key, "err", err)
			} else {
				card.Panel = template.HTML(buf.String())
			}
		}
		data.Cards = append(data.Cards, card)
	}
	return data
}
