// Package charts renders the small illustrative plots shown next to each
// network diagram.
//
// Every plot is a canned dataset chosen for its teaching value (a linear fit
// against a smooth one, softmax against sigmoid class probabilities, and so
// on). A [Chart] is plain data plus a deterministic SVG renderer, and it
// satisfies [diagram.Panel] so a [diagram.Set] can carry it without knowing
// what it is.
//
// [Supplier] maps a method and combination index to its chart. [Cached]
// wraps any panel supplier so rendered bytes go through a [cache.Cache].
package charts
