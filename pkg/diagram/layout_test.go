package diagram

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/geom"
)

func TestLayoutCounts(t *testing.T) {
	tests := []struct {
		archetype Archetype
		nodes     int
		edges     int
		radius    float64
	}{
		{FeedForward, 6, 9, 18},
		{Bottleneck, 10, 16, 14},
		{Deep, 10, 19, 14},
		{Agent, 7, 7, 18},
	}

	for _, tt := range tests {
		t.Run(string(tt.archetype), func(t *testing.T) {
			topo := LayoutFor(tt.archetype)
			if topo.Archetype() != tt.archetype {
				t.Errorf("Archetype() = %q, want %q", topo.Archetype(), tt.archetype)
			}
			if got := topo.NodeCount(); got != tt.nodes {
				t.Errorf("NodeCount() = %d, want %d", got, tt.nodes)
			}
			if got := topo.EdgeCount(); got != tt.edges {
				t.Errorf("EdgeCount() = %d, want %d", got, tt.edges)
			}
			if got := topo.maxRadius(); got != tt.radius {
				t.Errorf("maxRadius() = %v, want %v", got, tt.radius)
			}
		})
	}
}

func TestNoDanglingEdges(t *testing.T) {
	for _, a := range Archetypes {
		topo := LayoutFor(a)
		for _, e := range topo.Edges() {
			if !topo.Has(e.From) || !topo.Has(e.To) {
				t.Errorf("%s: edge %s -> %s references an unknown node", a, e.From, e.To)
			}
		}
	}
}

func TestNodesInsideViewport(t *testing.T) {
	for _, a := range Archetypes {
		for _, n := range LayoutFor(a).Nodes() {
			r := n.Visual.Radius
			p := n.Position
			if p.X-r < 0 || p.Y-r < 0 || p.X+r > ViewportWidth || p.Y+r > ViewportHeight {
				t.Errorf("%s: node %s at %v (r=%v) leaves the viewport", a, n.ID, p, r)
			}
		}
	}
}

func TestFeedForwardTemplate(t *testing.T) {
	topo := LayoutFor(FeedForward)
	want := map[NodeID]geom.Point{
		"I1": {X: 60, Y: 50}, "I2": {X: 60, Y: 110},
		"H1": {X: 180, Y: 30}, "H2": {X: 180, Y: 80}, "H3": {X: 180, Y: 130},
		"O1": {X: 300, Y: 80},
	}
	seed := topo.Seed()
	if len(seed) != len(want) {
		t.Fatalf("Seed() has %d nodes, want %d", len(seed), len(want))
	}
	for id, p := range want {
		if seed[id] != p {
			t.Errorf("Seed()[%s] = %v, want %v", id, seed[id], p)
		}
	}

	edges := topo.Edges()
	wantEdges := []Edge{
		{From: "I1", To: "H1"}, {From: "I1", To: "H2"}, {From: "I1", To: "H3"},
		{From: "I2", To: "H1"}, {From: "I2", To: "H2"}, {From: "I2", To: "H3"},
		{From: "H1", To: "O1"}, {From: "H2", To: "O1"}, {From: "H3", To: "O1"},
	}
	for i, e := range wantEdges {
		if edges[i] != e {
			t.Errorf("Edges()[%d] = %+v, want %+v", i, edges[i], e)
		}
	}
}

func TestAgentFeedback(t *testing.T) {
	topo := LayoutFor(Agent)
	var feedback []Edge
	for _, e := range topo.Edges() {
		if e.Feedback {
			feedback = append(feedback, e)
		}
	}
	if len(feedback) != 1 || feedback[0].From != "R1" || feedback[0].To != "S2" {
		t.Errorf("feedback edges = %+v, want [R1 -> S2]", feedback)
	}
	r, _ := topo.Node("R1")
	if r.Visual.Fill != "#ffd54f" || r.Visual.Role != RoleReward {
		t.Errorf("R1 visual = %+v", r.Visual)
	}
}

func TestVisualsFromRole(t *testing.T) {
	n, _ := LayoutFor(Bottleneck).Node("B1")
	if n.Visual.Fill != "#ffb74d" || n.Visual.Radius != 14 || n.Visual.Label != "B1" {
		t.Errorf("B1 visual = %+v", n.Visual)
	}
	n, _ = LayoutFor(Deep).Node("G2")
	if n.Visual.Role != RoleHidden || n.Visual.Fill != "#81c784" {
		t.Errorf("G2 visual = %+v", n.Visual)
	}
}

func TestUnknownArchetype(t *testing.T) {
	for _, a := range []Archetype{"", "quantum", "FeedForward"} {
		if got := LayoutFor(a); got != LayoutFor(FeedForward) {
			t.Errorf("LayoutFor(%q) did not return the feed-forward template", a)
		}
	}
	if _, ok := ParseArchetype("quantum"); ok {
		t.Error("ParseArchetype accepted an unknown archetype")
	}
	if a, ok := ParseArchetype("deep"); !ok || a != Deep {
		t.Errorf("ParseArchetype(deep) = %q, %v", a, ok)
	}
}

func TestRegistryLogsFallback(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(log.New(&buf))

	if reg.LayoutFor(Deep) != LayoutFor(Deep) {
		t.Error("registry returned a different template for deep")
	}
	if buf.Len() != 0 {
		t.Errorf("known archetype logged %q", buf.String())
	}

	got := reg.ForMethod(&catalogue.MethodRecord{ID: "new", Archetype: "transformer"})
	if got != LayoutFor(FeedForward) {
		t.Error("unknown method archetype did not fall back")
	}
	if !strings.Contains(buf.String(), "unknown archetype") || !strings.Contains(buf.String(), "transformer") {
		t.Errorf("fallback warning missing, log = %q", buf.String())
	}
}

func TestTopologyReturnsCopies(t *testing.T) {
	topo := LayoutFor(FeedForward)
	nodes := topo.Nodes()
	nodes[0].Position = geom.Point{X: -1, Y: -1}
	edges := topo.Edges()
	edges[0].From = "X"
	seed := topo.Seed()
	seed["I1"] = geom.Point{}

	if n, _ := topo.Node("I1"); n.Position != (geom.Point{X: 60, Y: 50}) {
		t.Errorf("template node mutated: %v", n.Position)
	}
	if topo.Edges()[0].From != "I1" {
		t.Error("template edge mutated")
	}
	if topo.Seed()["I1"] != (geom.Point{X: 60, Y: 50}) {
		t.Error("Seed shares state between calls")
	}
}
