package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// PanelKeyOpts identifies one rendered chart panel.
type PanelKeyOpts struct {
	Chart  string `json:"chart"`
	Hidden string `json:"hidden,omitempty"`
	Output string `json:"output,omitempty"`
}

// ExportKeyOpts identifies one Graphviz export.
type ExportKeyOpts struct {
	Format string `json:"format"`
	Engine string `json:"engine"`
}

// Keyer builds cache keys.
type Keyer interface {
	PanelKey(methodID string, index int, opts PanelKeyOpts) string
	ExportKey(dotHash string, opts ExportKeyOpts) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PanelKey returns "panel:<hash>".
func (DefaultKeyer) PanelKey(methodID string, index int, opts PanelKeyOpts) string {
	return hashKey("panel", methodID, index, opts)
}

// ExportKey returns "export:<hash>".
func (DefaultKeyer) ExportKey(dotHash string, opts ExportKeyOpts) string {
	return hashKey("export", dotHash, opts)
}

// ScopedKeyer prefixes every key with a scope, usually the build, so that
// one build's artifacts are never served by another.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), buildinfo.CacheScope())
type ScopedKeyer struct {
	inner Keyer
	scope string
}

// NewScopedKeyer wraps inner (the default keyer when nil) with scope.
func NewScopedKeyer(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, scope: scope}
}

// PanelKey returns "<scope>/<inner key>".
func (k *ScopedKeyer) PanelKey(methodID string, index int, opts PanelKeyOpts) string {
	return k.scoped(k.inner.PanelKey(methodID, index, opts))
}

// ExportKey returns "<scope>/<inner key>".
func (k *ScopedKeyer) ExportKey(dotHash string, opts ExportKeyOpts) string {
	return k.scoped(k.inner.ExportKey(dotHash, opts))
}

func (k *ScopedKeyer) scoped(key string) string {
	if k.scope == "" {
		return key
	}
	return k.scope + "/" + key
}

// hashKey returns "prefix:sha256(json(parts))".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
