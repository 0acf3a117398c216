package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/diagram"
	"github.com/matzehuels/mlviz/pkg/errors"
	"github.com/matzehuels/mlviz/pkg/export"
	"github.com/matzehuels/mlviz/pkg/geom"
	"github.com/matzehuels/mlviz/pkg/observability"
)

// =============================================================================
// Selection
// =============================================================================

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "methodID")

	sess.Lock()
	selected := sess.Select(s.cat, id)
	count := len(sess.Set.Instances())
	sess.Unlock()

	observability.Dashboard().OnSelect(r.Context(), selected, count)
	s.logger.Debug("selection", "requested", id, "selected", selected, "diagrams", count)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// =============================================================================
// Read APIs
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMethods(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Methods []catalogue.MethodRecord `json:"methods"`
		Colors  []catalogue.Swatch       `json:"colors"`
	}{s.cat.Methods(), catalogue.TextColors})
}

func (s *Server) handleDiagrams(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.Lock()
	data, err := export.SetJSON(sess.Set)
	sess.Unlock()
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode diagrams"))
		return
	}
	writeRaw(w, http.StatusOK, "application/json", data)
}

func (s *Server) handleDiagramSVG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.Lock()
	in, err := instance(sess, chi.URLParam(r, "key"))
	var svg []byte
	if err == nil {
		svg = in.SVG()
	}
	sess.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, "image/svg+xml", svg)
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	key := chi.URLParam(r, "key")
	sess.Lock()
	in, err := instance(sess, key)
	var panel diagram.Panel
	if err == nil {
		panel = in.Panel()
	}
	sess.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	if panel == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "diagram %q has no panel", key))
		return
	}

	var buf bytes.Buffer
	if _, err := panel.WriteTo(&buf); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render panel"))
		return
	}
	writeRaw(w, http.StatusOK, "image/svg+xml", buf.Bytes())
}

// =============================================================================
// Export
// =============================================================================

// formatDOT and formatJSON are served directly; svg and png go through
// Graphviz.
const (
	formatDOT  = "dot"
	formatJSON = "json"
)

var exportFormats = append([]string{formatDOT, formatJSON}, export.Formats...)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatDOT
	}
	if err := errors.ValidateFormat(format, exportFormats...); err != nil {
		writeError(w, err)
		return
	}

	sess, err := s.session(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.Lock()
	in, err := instance(sess, chi.URLParam(r, "key"))
	var dot string
	var snapshot []byte
	if err == nil {
		dot = export.ToDOT(in)
		if format == formatJSON {
			snapshot, err = export.JSON(in)
		}
	}
	sess.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	switch format {
	case formatDOT:
		writeRaw(w, http.StatusOK, "text/vnd.graphviz", []byte(dot))
		return
	case formatJSON:
		writeRaw(w, http.StatusOK, "application/json", snapshot)
		return
	}

	start := time.Now()
	data, err := s.exporter.Render(r.Context(), dot, format)
	observability.Dashboard().OnExport(r.Context(), format, time.Since(start), err)
	if err != nil {
		s.logger.Warn("export failed", "format", format, "err", err)
		writeError(w, err)
		return
	}
	contentType := "image/svg+xml"
	if format == export.FormatPNG {
		contentType = "image/png"
	}
	writeRaw(w, http.StatusOK, contentType, data)
}

// =============================================================================
// Pointer events
// =============================================================================

// Pointer event types accepted by the pointer endpoint.
const (
	pointerDown   = "down"
	pointerMove   = "move"
	pointerUp     = "up"
	pointerCancel = "cancel"
)

// PointerRequest is one pointer observation posted by the page. CTM is the
// surface's screen transform as [a b c d e f]; when absent or singular the
// client coordinates are used as local coordinates.
type PointerRequest struct {
	Type      string    `json:"type"`
	PointerID int64     `json:"pointerId"`
	ClientX   float64   `json:"clientX"`
	ClientY   float64   `json:"clientY"`
	Node      string    `json:"node,omitempty"`
	CTM       []float64 `json:"ctm,omitempty"`
}

// PointerResponse reports whether the event changed anything and the live
// geometry after it.
type PointerResponse struct {
	Applied   bool                          `json:"applied"`
	Dragging  int                           `json:"dragging"`
	Positions map[diagram.NodeID]geom.Point `json:"positions"`
	Edges     []diagram.EdgeSegment         `json:"edges"`
}

func (req PointerRequest) event() diagram.PointerEvent {
	ev := diagram.PointerEvent{
		PointerID: diagram.PointerID(req.PointerID),
		Client:    geom.Point{X: req.ClientX, Y: req.ClientY},
	}
	if m, ok := geom.FromSlice(req.CTM); ok {
		ev.Surface = geom.ScreenTransform(m)
	}
	return ev
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode pointer event"))
		return
	}
	switch req.Type {
	case pointerDown:
		if req.Node == "" {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "pointer down needs a node"))
			return
		}
	case pointerMove, pointerUp, pointerCancel:
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "unknown pointer event type %q", req.Type))
		return
	}

	sess, err := s.session(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	key := chi.URLParam(r, "key")

	sess.Lock()
	in, err := instance(sess, key)
	var resp PointerResponse
	if err == nil {
		ev := req.event()
		switch req.Type {
		case pointerDown:
			resp.Applied = in.PointerDown(ev, diagram.NodeID(req.Node))
		case pointerMove:
			resp.Applied = in.PointerMove(ev)
		case pointerUp:
			resp.Applied = in.PointerUp(ev)
		case pointerCancel:
			resp.Applied = in.LostCapture(ev.PointerID)
		}
		resp.Dragging = in.Dragging()
		resp.Positions = in.Positions()
		resp.Edges = in.Edges()
	}
	sess.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	observability.Dashboard().OnPointer(r.Context(), key, req.Type, resp.Applied)
	writeJSON(w, http.StatusOK, resp)
}
