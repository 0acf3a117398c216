package diagram

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/geom"
)

// Viewport size of every diagram in local units.
const (
	ViewportWidth  = 360.0
	ViewportHeight = 170.0
)

// Archetype names one of the fixed network topology templates.
type Archetype string

// Supported archetypes.
const (
	FeedForward Archetype = "feedforward" // 2 → 3 → 1
	Bottleneck  Archetype = "bottleneck"  // 4 → 2 → 4 autoencoder
	Deep        Archetype = "deep"        // 3 → 3 → 2 → 2
	Agent       Archetype = "agent"       // state → policy → action, reward feedback
)

// DefaultArchetype is used for unknown or empty archetype ids.
const DefaultArchetype = FeedForward

// Archetypes lists every archetype in a stable order.
var Archetypes = []Archetype{FeedForward, Bottleneck, Deep, Agent}

// ParseArchetype reports whether s names a known archetype.
func ParseArchetype(s string) (Archetype, bool) {
	a := Archetype(s)
	_, ok := layouts[a]
	return a, ok
}

// NodeID identifies a node within one topology.
type NodeID string

// Role is the visual role of a node.
type Role string

// Node roles.
const (
	RoleInput      Role = "input"
	RoleHidden     Role = "hidden"
	RoleOutput     Role = "output"
	RoleBottleneck Role = "bottleneck"
	RoleState      Role = "state"
	RolePolicy     Role = "policy"
	RoleAction     Role = "action"
	RoleReward     Role = "reward"
)

var roleFill = map[Role]string{
	RoleInput:      "#64b5f6",
	RoleState:      "#64b5f6",
	RoleHidden:     "#81c784",
	RolePolicy:     "#81c784",
	RoleOutput:     "#e57373",
	RoleAction:     "#e57373",
	RoleBottleneck: "#ffb74d",
	RoleReward:     "#ffd54f",
}

// Fill returns the node fill colour for the role.
func (r Role) Fill() string { return roleFill[r] }

// Label returns the role name for legends.
func (r Role) Label() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// Legend lists the roles shown in the layer colour key.
var Legend = []Role{RoleInput, RoleHidden, RoleOutput, RoleBottleneck, RoleReward}

// NodeVisual holds rendering attributes fixed at seed time.
type NodeVisual struct {
	Role   Role    `json:"role"`
	Fill   string  `json:"fill"`
	Radius float64 `json:"radius"`
	Label  string  `json:"label"`
}

// Node is a template node.
type Node struct {
	ID       NodeID     `json:"id"`
	Position geom.Point `json:"position"`
	Visual   NodeVisual `json:"visual"`
}

// Edge is a directed connection. Feedback edges close a loop (the reward
// signal in the agent archetype) and render dashed.
type Edge struct {
	From     NodeID `json:"from"`
	To       NodeID `json:"to"`
	Feedback bool   `json:"feedback,omitempty"`
}

// captionKind selects which combination field, if any, suffixes a caption.
type captionKind int

const (
	captionPlain captionKind = iota
	captionHidden
	captionOutput
)

type captionTemplate struct {
	text string
	at   geom.Point
	kind captionKind
}

// Topology is an immutable node/edge template. Values returned from its
// methods are copies.
type Topology struct {
	archetype Archetype
	nodes     []Node
	index     map[NodeID]int
	edges     []Edge
	captions  []captionTemplate
}

// Archetype returns the archetype this template was built for.
func (t *Topology) Archetype() Archetype { return t.archetype }

// Nodes returns the template nodes in declaration order.
func (t *Topology) Nodes() []Node {
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Node returns the template node with the given id.
func (t *Topology) Node(id NodeID) (Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return Node{}, false
	}
	return t.nodes[i], true
}

// Has reports whether id is a node of the template.
func (t *Topology) Has(id NodeID) bool {
	_, ok := t.index[id]
	return ok
}

// Edges returns the edges in insertion order (source-major per stage).
func (t *Topology) Edges() []Edge {
	out := make([]Edge, len(t.edges))
	copy(out, t.edges)
	return out
}

// NodeCount returns the number of nodes.
func (t *Topology) NodeCount() int { return len(t.nodes) }

// EdgeCount returns the number of edges.
func (t *Topology) EdgeCount() int { return len(t.edges) }

// Seed returns a fresh position map holding the template positions.
func (t *Topology) Seed() map[NodeID]geom.Point {
	m := make(map[NodeID]geom.Point, len(t.nodes))
	for _, n := range t.nodes {
		m[n.ID] = n.Position
	}
	return m
}

// maxRadius is used to offset arrow heads from node centres.
func (t *Topology) maxRadius() float64 {
	r := 0.0
	for _, n := range t.nodes {
		r = max(r, n.Visual.Radius)
	}
	return r
}

// =============================================================================
// Registry
// =============================================================================

var layouts = map[Archetype]*Topology{
	FeedForward: feedForward(),
	Bottleneck:  bottleneck(),
	Deep:        deep(),
	Agent:       agent(),
}

// LayoutFor returns the shared template for a. Unknown archetypes resolve to
// the default feed-forward template. The result must not be modified.
func LayoutFor(a Archetype) *Topology {
	if t, ok := layouts[a]; ok {
		return t
	}
	return layouts[DefaultArchetype]
}

// Registry resolves archetypes and method records to templates and logs
// fallbacks.
type Registry struct {
	logger *log.Logger
}

// NewRegistry creates a registry. A nil logger discards warnings.
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Registry{logger: logger}
}

// LayoutFor behaves like the package-level LayoutFor and logs a warning when
// it falls back.
func (r *Registry) LayoutFor(a Archetype) *Topology {
	if _, ok := layouts[a]; !ok {
		r.logger.Warn("unknown archetype, using default", "archetype", string(a), "default", string(DefaultArchetype))
	}
	return LayoutFor(a)
}

// ForMethod returns the template for a method record's archetype.
func (r *Registry) ForMethod(rec *catalogue.MethodRecord) *Topology {
	if rec == nil {
		return LayoutFor(DefaultArchetype)
	}
	return r.LayoutFor(Archetype(rec.Archetype))
}

// =============================================================================
// Templates
// =============================================================================

// stage is one column of nodes sharing a role.
type stage struct {
	role   Role
	prefix string
	x      float64
	ys     []float64
}

func (s stage) ids() []NodeID {
	ids := make([]NodeID, len(s.ys))
	for i := range s.ys {
		ids[i] = NodeID(s.prefix + string(rune('1'+i)))
	}
	return ids
}

// layered builds a template whose adjacent stages are fully connected,
// source-major.
func layered(a Archetype, radius float64, stages []stage, captions []captionTemplate) *Topology {
	t := &Topology{archetype: a, index: make(map[NodeID]int), captions: captions}
	for _, s := range stages {
		for i, id := range s.ids() {
			t.add(Node{
				ID:       id,
				Position: geom.Point{X: s.x, Y: s.ys[i]},
				Visual:   NodeVisual{Role: s.role, Fill: roleFill[s.role], Radius: radius, Label: string(id)},
			})
		}
	}
	for i := 0; i+1 < len(stages); i++ {
		for _, from := range stages[i].ids() {
			for _, to := range stages[i+1].ids() {
				t.edges = append(t.edges, Edge{From: from, To: to})
			}
		}
	}
	return t
}

func (t *Topology) add(n Node) {
	t.index[n.ID] = len(t.nodes)
	t.nodes = append(t.nodes, n)
}

const captionY = 164

func feedForward() *Topology {
	return layered(FeedForward, 18, []stage{
		{RoleInput, "I", 60, []float64{50, 110}},
		{RoleHidden, "H", 180, []float64{30, 80, 130}},
		{RoleOutput, "O", 300, []float64{80}},
	}, []captionTemplate{
		{"Input", geom.Point{X: 60, Y: captionY}, captionPlain},
		{"Hidden", geom.Point{X: 180, Y: captionY}, captionHidden},
		{"Output", geom.Point{X: 300, Y: captionY}, captionOutput},
	})
}

func bottleneck() *Topology {
	return layered(Bottleneck, 14, []stage{
		{RoleInput, "I", 50, []float64{20, 55, 90, 125}},
		{RoleBottleneck, "B", 180, []float64{55, 90}},
		{RoleOutput, "O", 310, []float64{20, 55, 90, 125}},
	}, []captionTemplate{
		{"Input", geom.Point{X: 50, Y: captionY}, captionPlain},
		{"Bottleneck", geom.Point{X: 180, Y: captionY}, captionHidden},
		{"Reconstruction", geom.Point{X: 310, Y: captionY}, captionOutput},
	})
}

func deep() *Topology {
	return layered(Deep, 14, []stage{
		{RoleInput, "I", 40, []float64{30, 75, 120}},
		{RoleHidden, "H", 140, []float64{30, 75, 120}},
		{RoleHidden, "G", 240, []float64{50, 100}},
		{RoleOutput, "O", 320, []float64{50, 100}},
	}, []captionTemplate{
		{"Input", geom.Point{X: 40, Y: captionY}, captionPlain},
		{"Stage 1", geom.Point{X: 140, Y: captionY}, captionHidden},
		{"Stage 2", geom.Point{X: 240, Y: captionY}, captionPlain},
		{"Output", geom.Point{X: 315, Y: captionY}, captionOutput},
	})
}

func agent() *Topology {
	t := layered(Agent, 18, []stage{
		{RoleState, "S", 60, []float64{50, 110}},
		{RolePolicy, "P", 180, []float64{50, 110}},
		{RoleAction, "A", 300, []float64{60}},
	}, []captionTemplate{
		{"State", geom.Point{X: 60, Y: captionY}, captionPlain},
		{"Policy", geom.Point{X: 180, Y: captionY}, captionHidden},
		{"Action", geom.Point{X: 300, Y: 22}, captionOutput},
		{"Reward", geom.Point{X: 300, Y: captionY}, captionPlain},
	})
	t.add(Node{
		ID:       "R1",
		Position: geom.Point{X: 300, Y: 135},
		Visual:   NodeVisual{Role: RoleReward, Fill: roleFill[RoleReward], Radius: 18, Label: "R1"},
	})
	t.edges = append(t.edges, Edge{From: "R1", To: "S2", Feedback: true})
	return t
}
