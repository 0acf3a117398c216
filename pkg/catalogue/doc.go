// Package catalogue holds the static collection of machine-learning method
// profiles that the dashboard lists and visualizes.
//
// The catalogue is inert data: it is loaded once, never mutated, and read by
// the overview table, the selection UI and the diagram engine. The diagram
// engine only reads a record's ID, its [MethodRecord.Archetype] and the order
// and count of its [Combination] entries.
//
// # Sources
//
// The default source is the YAML document embedded in this package. Other
// sources load the same shape from a file or from a MongoDB collection:
//
//	cat, err := catalogue.Embedded().Load(ctx)
//	rec, ok := cat.Lookup("regression")
//
// # Selection
//
// [Select] implements the toggle behaviour of the method buttons and table
// rows: picking the current method again clears the selection, and an id
// missing from the catalogue resolves to no selection.
package catalogue
