package diagram

import "github.com/matzehuels/mlviz/pkg/catalogue"

// Placeholder is shown when no method is selected.
const Placeholder = "Select a method above to view its neural network diagrams."

// PanelSupplier returns the auxiliary panel for one combination, or nil.
type PanelSupplier func(methodID string, combo catalogue.Combination, index int) Panel

// Set holds one instance per combination of the selected method.
type Set struct {
	reg      *Registry
	supplier PanelSupplier

	method     *catalogue.MethodRecord
	topo       *Topology
	instances  []*Instance
	generation uint64
}

// NewSet creates an empty set. A nil registry uses one that discards
// warnings; a nil supplier yields no panels.
func NewSet(reg *Registry, supplier PanelSupplier) *Set {
	if reg == nil {
		reg = NewRegistry(nil)
	}
	return &Set{reg: reg, supplier: supplier}
}

// Reseed tears down every instance and, for a non-nil method, builds one
// fresh instance per combination from the pristine template. Reseeding the
// same method again discards all drag history.
func (s *Set) Reseed(method *catalogue.MethodRecord) {
	for _, in := range s.instances {
		in.Teardown()
	}
	s.instances = nil
	s.method = method
	s.topo = nil
	s.generation++
	if method == nil {
		return
	}

	s.topo = s.reg.ForMethod(method)
	s.instances = make([]*Instance, len(method.Combinations))
	for i, combo := range method.Combinations {
		var panel Panel
		if s.supplier != nil {
			panel = s.supplier(method.ID, combo, i)
		}
		s.instances[i] = NewInstance(Key{MethodID: method.ID, Index: i}, s.topo, combo, panel)
	}
}

// Method returns the selected method, or nil.
func (s *Set) Method() *catalogue.MethodRecord { return s.method }

// Topology returns the template shared by the current instances, or nil.
func (s *Set) Topology() *Topology { return s.topo }

// Empty reports whether no method is selected.
func (s *Set) Empty() bool { return s.method == nil }

// Generation increments on every reseed.
func (s *Set) Generation() uint64 { return s.generation }

// Instances returns the live instances in combination order.
func (s *Set) Instances() []*Instance {
	out := make([]*Instance, len(s.instances))
	copy(out, s.instances)
	return out
}

// Instance returns the live instance for k. Keys from before the last
// reseed are not found.
func (s *Set) Instance(k Key) (*Instance, bool) {
	if s.method == nil || k.MethodID != s.method.ID || k.Index < 0 || k.Index >= len(s.instances) {
		return nil, false
	}
	return s.instances[k.Index], true
}

// Placeholder returns the placeholder text when the set is empty.
func (s *Set) Placeholder() string {
	if s.Empty() {
		return Placeholder
	}
	return ""
}
