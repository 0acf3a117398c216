package diagram

import (
	"bytes"
	"io"
	"maps"
	"testing"

	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/geom"
)

func mustLookup(t *testing.T, id string) *catalogue.MethodRecord {
	t.Helper()
	rec, ok := catalogue.MustEmbedded().Lookup(id)
	if !ok {
		t.Fatalf("method %q not in catalogue", id)
	}
	return rec
}

func dragAll(s *Set) {
	for _, in := range s.Instances() {
		for _, n := range in.Nodes() {
			in.MoveNode(n.ID, n.Position.Add(geom.Point{X: 7, Y: -3}))
		}
	}
}

func assertPristine(t *testing.T, s *Set, a Archetype) {
	t.Helper()
	want := LayoutFor(a).Seed()
	for _, in := range s.Instances() {
		if in.Topology().Archetype() != a {
			t.Errorf("%s: archetype %s, want %s", in.Key(), in.Topology().Archetype(), a)
		}
		if !maps.Equal(in.Positions(), want) {
			t.Errorf("%s: positions differ from the pristine template", in.Key())
		}
		if in.Phase() != PhaseSeeded {
			t.Errorf("%s: phase %v, want seeded", in.Key(), in.Phase())
		}
	}
}

func TestReseedSameMethodIsIdempotent(t *testing.T) {
	rec := mustLookup(t, "regression")
	s := NewSet(nil, nil)
	s.Reseed(rec)
	dragAll(s)
	s.Reseed(rec)
	assertPristine(t, s, FeedForward)
}

func TestMethodSwitchScenario(t *testing.T) {
	s := NewSet(nil, nil)
	s.Reseed(mustLookup(t, "classification"))
	if s.Topology().Archetype() != Deep {
		t.Fatalf("classification archetype = %s, want deep", s.Topology().Archetype())
	}
	old := s.Instances()
	dragAll(s)

	s.Reseed(mustLookup(t, "clustering"))
	assertPristine(t, s, FeedForward)

	for _, in := range old {
		if in.Phase() != PhaseTornDown {
			t.Errorf("%s not torn down after switch", in.Key())
		}
	}
	if _, ok := s.Instance(Key{MethodID: "classification", Index: 0}); ok {
		t.Error("stale key still resolves after switch")
	}
}

func TestSetInstancesPerCombination(t *testing.T) {
	rec := mustLookup(t, "classification")
	s := NewSet(nil, nil)
	s.Reseed(rec)

	if got := len(s.Instances()); got != len(rec.Combinations) {
		t.Fatalf("got %d instances, want %d", got, len(rec.Combinations))
	}
	for i, combo := range rec.Combinations {
		in, ok := s.Instance(Key{MethodID: rec.ID, Index: i})
		if !ok {
			t.Fatalf("instance %d missing", i)
		}
		if in.Combination() != combo {
			t.Errorf("instance %d combination = %+v, want %+v", i, in.Combination(), combo)
		}
	}
	if _, ok := s.Instance(Key{MethodID: rec.ID, Index: len(rec.Combinations)}); ok {
		t.Error("out-of-range index resolved")
	}
}

func TestSetPlaceholder(t *testing.T) {
	s := NewSet(nil, nil)
	if !s.Empty() || s.Placeholder() != Placeholder {
		t.Fatalf("new set: Empty=%v Placeholder=%q", s.Empty(), s.Placeholder())
	}

	s.Reseed(mustLookup(t, "rl"))
	if s.Empty() || s.Placeholder() != "" {
		t.Error("selected set reports empty")
	}
	gen := s.Generation()

	s.Reseed(nil)
	if !s.Empty() || len(s.Instances()) != 0 || s.Topology() != nil {
		t.Error("nil reseed did not clear the set")
	}
	if s.Generation() != gen+1 {
		t.Errorf("Generation() = %d, want %d", s.Generation(), gen+1)
	}
}

type stubPanel string

func (p stubPanel) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, string(p))
	return int64(n), err
}

func TestSetPanelSupplier(t *testing.T) {
	var calls []Key
	supplier := func(methodID string, _ catalogue.Combination, index int) Panel {
		calls = append(calls, Key{MethodID: methodID, Index: index})
		if index == 0 {
			return nil
		}
		return stubPanel("panel")
	}

	s := NewSet(nil, supplier)
	s.Reseed(mustLookup(t, "generative"))

	if len(calls) != len(s.Instances()) {
		t.Fatalf("supplier called %d times for %d instances", len(calls), len(s.Instances()))
	}
	if s.Instances()[0].Panel() != nil {
		t.Error("instance 0 has a panel")
	}
	var buf bytes.Buffer
	if _, err := s.Instances()[1].Panel().WriteTo(&buf); err != nil || buf.String() != "panel" {
		t.Errorf("panel = %q, %v", buf.String(), err)
	}
}
