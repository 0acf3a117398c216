package export

import (
	"encoding/json"

	"github.com/matzehuels/mlviz/pkg/diagram"
)

// JSON returns an indented layout snapshot of the instance.
func JSON(in *diagram.Instance) ([]byte, error) {
	return json.MarshalIndent(in.Snapshot(), "", "  ")
}

// SetJSON returns snapshots of every instance in the set.
func SetJSON(s *diagram.Set) ([]byte, error) {
	out := struct {
		Method      string             `json:"method,omitempty"`
		Placeholder string             `json:"placeholder,omitempty"`
		Diagrams    []diagram.Snapshot `json:"diagrams"`
	}{Placeholder: s.Placeholder(), Diagrams: []diagram.Snapshot{}}
	if m := s.Method(); m != nil {
		out.Method = m.ID
	}
	for _, in := range s.Instances() {
		out.Diagrams = append(out.Diagrams, in.Snapshot())
	}
	return json.MarshalIndent(out, "", "  ")
}
