package catalogue

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	mlerrors "github.com/matzehuels/mlviz/pkg/errors"
)

//go:embed catalogue.yaml
var embeddedYAML []byte

// Catalogue is an ordered, read-only collection of method records.
type Catalogue struct {
	methods []MethodRecord
	index   map[string]int
}

// New validates records and builds a catalogue that preserves their order.
// Records are copied; later changes to the input slice are not observed.
func New(records []MethodRecord) (*Catalogue, error) {
	c := &Catalogue{
		methods: make([]MethodRecord, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for i, r := range records {
		if err := mlerrors.ValidateIdentifier("method id", r.ID); err != nil {
			return nil, mlerrors.Wrap(mlerrors.ErrCodeInvalidInput, err, "record %d", i)
		}
		if _, dup := c.index[r.ID]; dup {
			return nil, mlerrors.New(mlerrors.ErrCodeInvalidInput, "duplicate method id: %s", r.ID)
		}
		c.index[r.ID] = i
		c.methods[i] = cloneRecord(r)
	}
	return c, nil
}

// Parse decodes a YAML sequence of method records.
func Parse(data []byte) (*Catalogue, error) {
	var records []MethodRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, mlerrors.Wrap(mlerrors.ErrCodeInvalidInput, err, "parse catalogue")
	}
	return New(records)
}

// Len returns the number of methods.
func (c *Catalogue) Len() int { return len(c.methods) }

// Methods returns the records in display order. The slice is a copy; the
// records share their string slices with the catalogue and must not be
// modified.
func (c *Catalogue) Methods() []MethodRecord {
	out := make([]MethodRecord, len(c.methods))
	copy(out, c.methods)
	return out
}

// Lookup returns the record with the given id.
func (c *Catalogue) Lookup(id string) (*MethodRecord, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	r := c.methods[i]
	return &r, true
}

func cloneRecord(r MethodRecord) MethodRecord {
	r.LossFunctions = clone(r.LossFunctions)
	r.ActivationFunctions = clone(r.ActivationFunctions)
	r.Optimizers = clone(r.Optimizers)
	r.Datasets = clone(r.Datasets)
	r.HiddenActivations = clone(r.HiddenActivations)
	r.OutputActivations = clone(r.OutputActivations)
	r.EvaluationMetrics = clone(r.EvaluationMetrics)
	r.Regularization = clone(r.Regularization)
	r.Architectures = clone(r.Architectures)
	r.Combinations = append([]Combination(nil), r.Combinations...)
	return r
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// =============================================================================
// Sources
// =============================================================================

// Source loads a catalogue.
type Source interface {
	Load(ctx context.Context) (*Catalogue, error)
}

type embeddedSource struct{}

// Embedded returns the source backed by the compiled-in catalogue.
func Embedded() Source { return embeddedSource{} }

func (embeddedSource) Load(context.Context) (*Catalogue, error) {
	return Parse(embeddedYAML)
}

// FileSource loads a YAML catalogue from disk.
type FileSource struct {
	Path string
}

// Load reads and parses the file.
func (s FileSource) Load(context.Context) (*Catalogue, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, mlerrors.Wrap(mlerrors.ErrCodeNotFound, err, "read catalogue %s", s.Path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return c, nil
}

// MustEmbedded loads the embedded catalogue and panics if it is malformed.
// The embedded document is part of the build, so a failure is a programming
// error.
func MustEmbedded() *Catalogue {
	c, err := Parse(embeddedYAML)
	if err != nil {
		panic(err)
	}
	return c
}
