package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/mlviz/pkg/charts"
	"github.com/matzehuels/mlviz/pkg/diagram"
	"github.com/matzehuels/mlviz/pkg/geom"
)

// newTestClient starts a server and returns a client that keeps the session
// cookie and does not follow redirects.
func newTestClient(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(New(Options{Supplier: charts.Supplier}).Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return srv, client
}

func get(t *testing.T, c *http.Client, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := c.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func post(t *testing.T, c *http.Client, url string, v any) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader = http.NoBody
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(data)
	}
	resp, err := c.Post(url, "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, out
}

func selectMethod(t *testing.T, srv *httptest.Server, c *http.Client, id string) {
	t.Helper()
	resp, _ := post(t, c, srv.URL+"/select/"+id, nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("select %s: status %d, want 303", id, resp.StatusCode)
	}
}

type diagramsBody struct {
	Method      string             `json:"method"`
	Placeholder string             `json:"placeholder"`
	Diagrams    []diagram.Snapshot `json:"diagrams"`
}

func diagrams(t *testing.T, srv *httptest.Server, c *http.Client) diagramsBody {
	t.Helper()
	resp, body := get(t, c, srv.URL+"/api/diagrams")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("diagrams: status %d: %s", resp.StatusCode, body)
	}
	var out diagramsBody
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestHealth(t *testing.T) {
	srv, c := newTestClient(t)
	resp, body := get(t, c, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "ok") {
		t.Errorf("healthz = %d %s", resp.StatusCode, body)
	}
}

func TestIndexPlaceholder(t *testing.T) {
	srv, c := newTestClient(t)
	resp, body := get(t, c, srv.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	page := string(body)
	for _, want := range []string{diagram.Placeholder, "Loss Functions", `action="/select/regression"`, "Bottleneck"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, "network-svg\" data-key") {
		t.Error("page renders diagrams with nothing selected")
	}

	var found bool
	for _, ck := range resp.Cookies() {
		found = found || ck.Name == cookieName
	}
	if !found {
		t.Error("no session cookie set")
	}
}

func TestSelectToggle(t *testing.T) {
	srv, c := newTestClient(t)

	selectMethod(t, srv, c, "generative")
	got := diagrams(t, srv, c)
	if got.Method != "generative" || len(got.Diagrams) != 3 {
		t.Fatalf("after select: method %q with %d diagrams", got.Method, len(got.Diagrams))
	}
	if got.Diagrams[0].Archetype != diagram.Bottleneck {
		t.Errorf("archetype = %s, want bottleneck", got.Diagrams[0].Archetype)
	}

	_, body := get(t, c, srv.URL+"/")
	if n := strings.Count(string(body), `class="card"`); n != 3 {
		t.Errorf("page has %d cards, want 3", n)
	}

	selectMethod(t, srv, c, "generative")
	got = diagrams(t, srv, c)
	if got.Method != "" || len(got.Diagrams) != 0 || got.Placeholder != diagram.Placeholder {
		t.Errorf("after toggle off: %+v", got)
	}
}

func TestSelectUnknownMethodClears(t *testing.T) {
	srv, c := newTestClient(t)
	selectMethod(t, srv, c, "regression")
	selectMethod(t, srv, c, "nope")
	if got := diagrams(t, srv, c); got.Method != "" {
		t.Errorf("method = %q, want none", got.Method)
	}
}

func TestPointerDrag(t *testing.T) {
	srv, c := newTestClient(t)
	selectMethod(t, srv, c, "regression")
	url := srv.URL + "/api/diagrams/regression-0/pointer"

	steps := []struct {
		req  PointerRequest
		want bool
	}{
		{PointerRequest{Type: "down", PointerID: 1, ClientX: 180, ClientY: 80, Node: "H2"}, true},
		{PointerRequest{Type: "move", PointerID: 1, ClientX: 200, ClientY: 70}, true},
		{PointerRequest{Type: "move", PointerID: 2, ClientX: 0, ClientY: 0}, false},
		{PointerRequest{Type: "up", PointerID: 1, ClientX: 200, ClientY: 70}, true},
	}
	var last PointerResponse
	for _, step := range steps {
		resp, body := post(t, c, url, step.req)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d: %s", step.req.Type, resp.StatusCode, body)
		}
		last = PointerResponse{}
		if err := json.Unmarshal(body, &last); err != nil {
			t.Fatal(err)
		}
		if last.Applied != step.want {
			t.Errorf("%s pointer %d: applied = %v, want %v", step.req.Type, step.req.PointerID, last.Applied, step.want)
		}
	}

	if want := (geom.Point{X: 200, Y: 70}); last.Positions["H2"] != want {
		t.Errorf("H2 = %v, want %v", last.Positions["H2"], want)
	}
	if last.Dragging != 0 {
		t.Errorf("dragging = %d after release", last.Dragging)
	}

	// The other combination is untouched.
	got := diagrams(t, srv, c)
	for _, n := range got.Diagrams[1].Nodes {
		if n.ID == "H2" && n.Position != (geom.Point{X: 180, Y: 80}) {
			t.Errorf("regression-1 H2 moved to %v", n.Position)
		}
	}
}

func TestPointerWithScreenTransform(t *testing.T) {
	srv, c := newTestClient(t)
	selectMethod(t, srv, c, "regression")
	url := srv.URL + "/api/diagrams/regression-0/pointer"
	ctm := []float64{2, 0, 0, 2, 10, 20}

	post(t, c, url, PointerRequest{Type: "down", PointerID: 7, ClientX: 370, ClientY: 180, Node: "H2", CTM: ctm})
	_, body := post(t, c, url, PointerRequest{Type: "move", PointerID: 7, ClientX: 410, ClientY: 160, CTM: ctm})

	var resp PointerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatal(err)
	}
	if want := (geom.Point{X: 200, Y: 70}); resp.Positions["H2"] != want {
		t.Errorf("H2 = %v, want %v", resp.Positions["H2"], want)
	}
}

func TestReselectDiscardsDrags(t *testing.T) {
	srv, c := newTestClient(t)
	selectMethod(t, srv, c, "regression")
	url := srv.URL + "/api/diagrams/regression-0/pointer"
	post(t, c, url, PointerRequest{Type: "down", PointerID: 1, ClientX: 180, ClientY: 80, Node: "H2"})
	post(t, c, url, PointerRequest{Type: "move", PointerID: 1, ClientX: 100, ClientY: 100})

	selectMethod(t, srv, c, "clustering")
	selectMethod(t, srv, c, "regression")
	for _, n := range diagrams(t, srv, c).Diagrams[0].Nodes {
		if n.ID == "H2" && n.Position != (geom.Point{X: 180, Y: 80}) {
			t.Errorf("H2 = %v after reseed, want template position", n.Position)
		}
	}
}

func TestPointerErrors(t *testing.T) {
	srv, c := newTestClient(t)
	selectMethod(t, srv, c, "regression")

	tests := []struct {
		name   string
		key    string
		req    any
		status int
	}{
		{"stale key", "classification-0", PointerRequest{Type: "move", PointerID: 1}, http.StatusNotFound},
		{"index out of range", "regression-9", PointerRequest{Type: "move", PointerID: 1}, http.StatusNotFound},
		{"malformed key", "regression", PointerRequest{Type: "move", PointerID: 1}, http.StatusBadRequest},
		{"unknown type", "regression-0", PointerRequest{Type: "hover", PointerID: 1}, http.StatusBadRequest},
		{"down without node", "regression-0", PointerRequest{Type: "down", PointerID: 1}, http.StatusBadRequest},
		{"bad body", "regression-0", "nonsense", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, c, srv.URL+"/api/diagrams/"+tt.key+"/pointer", tt.req)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			var e ErrorResponse
			if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
				t.Errorf("body %s is not an error response", body)
			}
		})
	}
}

func TestDiagramSVGAndPanel(t *testing.T) {
	srv, c := newTestClient(t)
	selectMethod(t, srv, c, "rl")

	resp, body := get(t, c, srv.URL+"/api/diagrams/rl-0/svg")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("svg: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), `stroke-dasharray="5 4"`) {
		t.Error("agent diagram has no feedback edge")
	}

	resp, body = get(t, c, srv.URL+"/api/diagrams/rl-0/panel")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(string(body), "<svg") {
		t.Errorf("panel: %d %.40s", resp.StatusCode, body)
	}
}

func TestExport(t *testing.T) {
	srv, c := newTestClient(t)
	selectMethod(t, srv, c, "regression")

	tests := []struct {
		format      string
		status      int
		contentType string
		contains    string
	}{
		{"", http.StatusOK, "text/vnd.graphviz", "layout=neato"},
		{"dot", http.StatusOK, "text/vnd.graphviz", `"H2"`},
		{"json", http.StatusOK, "application/json", `"archetype": "feedforward"`},
		{"pdf", http.StatusBadRequest, "application/json", "INVALID_FORMAT"},
	}
	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			resp, body := get(t, c, srv.URL+"/api/diagrams/regression-0/export?format="+tt.format)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body missing %q: %.200s", tt.contains, body)
			}
		})
	}
}

func TestMethods(t *testing.T) {
	srv, c := newTestClient(t)
	_, body := get(t, c, srv.URL+"/api/methods")
	var out struct {
		Methods []struct {
			ID string `json:"id"`
		} `json:"methods"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Methods) != 7 || out.Methods[0].ID != "regression" {
		t.Errorf("methods = %+v", out.Methods)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	srv, a := newTestClient(t)
	jar, _ := cookiejar.New(nil)
	b := &http.Client{Jar: jar, CheckRedirect: a.CheckRedirect}

	selectMethod(t, srv, a, "regression")
	if got := diagrams(t, srv, b); got.Method != "" {
		t.Errorf("second session sees selection %q", got.Method)
	}
}

func TestRecovererReturnsJSON(t *testing.T) {
	s := New(Options{})
	h := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
