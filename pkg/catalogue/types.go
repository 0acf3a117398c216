package catalogue

import "strconv"

// MethodRecord is one machine-learning method profile.
type MethodRecord struct {
	ID        string `json:"id" yaml:"id" bson:"id"`
	Method    string `json:"method" yaml:"method" bson:"method"`
	RowColor  string `json:"rowColor,omitempty" yaml:"rowColor" bson:"rowColor,omitempty"`
	Archetype string `json:"archetype,omitempty" yaml:"archetype" bson:"archetype,omitempty"`

	LossFunctions       []string `json:"lossFunctions" yaml:"lossFunctions" bson:"lossFunctions"`
	ActivationFunctions []string `json:"activationFunctions" yaml:"activationFunctions" bson:"activationFunctions"`
	Optimizers          []string `json:"optimizers" yaml:"optimizers" bson:"optimizers"`
	Datasets            []string `json:"datasets" yaml:"datasets" bson:"datasets"`
	HiddenActivations   []string `json:"hiddenActivations" yaml:"hiddenActivations" bson:"hiddenActivations"`
	OutputActivations   []string `json:"outputActivations" yaml:"outputActivations" bson:"outputActivations"`
	EvaluationMetrics   []string `json:"evaluationMetrics" yaml:"evaluationMetrics" bson:"evaluationMetrics"`
	Regularization      []string `json:"regularization" yaml:"regularization" bson:"regularization"`
	Architectures       []string `json:"architectures" yaml:"architectures" bson:"architectures"`

	Combinations []Combination `json:"networkCombinations" yaml:"networkCombinations" bson:"networkCombinations"`
}

// Combination is one activation-function variant of a method, rendered as its
// own diagram.
type Combination struct {
	Hidden            string `json:"hidden" yaml:"hidden" bson:"hidden"`
	Output            string `json:"output" yaml:"output" bson:"output"`
	BiologicalExample string `json:"biologicalExample" yaml:"biologicalExample" bson:"biologicalExample"`
}

// Title returns the card heading for the combination at index i.
func (c Combination) Title(i int) string {
	t := "Combination " + strconv.Itoa(i+1)
	if c.Hidden != "" || c.Output != "" {
		t += ": Hidden=" + c.Hidden + ", Output=" + c.Output
	}
	return t
}

// Column is one enumerated column of the overview table.
type Column struct {
	Header string
	Class  string // text colour class from the colour key
	Values func(*MethodRecord) []string
}

// Columns lists the overview table columns after the method name, in display
// order.
var Columns = []Column{
	{"Loss Functions", "loss", func(m *MethodRecord) []string { return m.LossFunctions }},
	{"Activation Functions", "activation", func(m *MethodRecord) []string { return m.ActivationFunctions }},
	{"Optimizers", "optimizer", func(m *MethodRecord) []string { return m.Optimizers }},
	{"Datasets", "dataset", func(m *MethodRecord) []string { return m.Datasets }},
	{"Hidden Layer Act.", "activation", func(m *MethodRecord) []string { return m.HiddenActivations }},
	{"Output Layer Act.", "activation", func(m *MethodRecord) []string { return m.OutputActivations }},
	{"Eval Metrics", "metric", func(m *MethodRecord) []string { return m.EvaluationMetrics }},
	{"Regularization", "regularization", func(m *MethodRecord) []string { return m.Regularization }},
	{"Architectures", "architecture", func(m *MethodRecord) []string { return m.Architectures }},
}

// Swatch is a labelled colour in the dashboard colour key.
type Swatch struct {
	Label string
	Class string
	Color string
}

// TextColors maps the table's text colour classes to their legend.
var TextColors = []Swatch{
	{"Loss Functions", "loss", "#d32f2f"},
	{"Activation Functions", "activation", "#1565c0"},
	{"Optimizers", "optimizer", "#2e7d32"},
	{"Datasets", "dataset", "#7b1fa2"},
	{"Evaluation Metrics", "metric", "#e65100"},
	{"Regularization", "regularization", "#00695c"},
	{"Architectures", "architecture", "#4e342e"},
}
