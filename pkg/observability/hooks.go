// Package observability lets the CLI attach instrumentation to the dashboard
// server and the caching layers without those packages depending on a
// logging or metrics backend.
//
// Three hook families exist: [DashboardHooks] for selection, pointer and
// export events, [CacheHooks] for panel and export cache traffic, and
// [HTTPHooks] for served requests. Until [Install] is called every family
// is backed by [Noop]. The diagram engine itself never calls hooks.
//
//	observability.Install(observability.Hooks{Dashboard: h, HTTP: h})
//	defer observability.Reset()
//
//	observability.Dashboard().OnSelect(ctx, methodID, len(set.Instances()))
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// DashboardHooks receives events from dashboard interaction.
type DashboardHooks interface {
	// OnSelect records a selection change. methodID is empty when the
	// selection was cleared.
	OnSelect(ctx context.Context, methodID string, instances int)
	OnPointer(ctx context.Context, key, eventType string, applied bool)
	OnExport(ctx context.Context, format string, duration time.Duration, err error)
}

// CacheHooks receives events from the panel and export caches. keyType is
// "panel" or "export".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the dashboard HTTP server.
type HTTPHooks interface {
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
	OnPanic(ctx context.Context, method, route string, recovered any)
}

// Noop implements every hook family and discards all events.
type Noop struct{}

func (Noop) OnSelect(context.Context, string, int)                          {}
func (Noop) OnPointer(context.Context, string, string, bool)                {}
func (Noop) OnExport(context.Context, string, time.Duration, error)         {}
func (Noop) OnCacheHit(context.Context, string)                             {}
func (Noop) OnCacheMiss(context.Context, string)                            {}
func (Noop) OnCacheSet(context.Context, string, int)                        {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration) {}
func (Noop) OnPanic(context.Context, string, string, any)                   {}

// Hooks is the set of installed hook families. Nil fields leave the
// currently installed family in place.
type Hooks struct {
	Dashboard DashboardHooks
	Cache     CacheHooks
	HTTP      HTTPHooks
}

var (
	noop    = Hooks{Dashboard: Noop{}, Cache: Noop{}, HTTP: Noop{}}
	current atomic.Pointer[Hooks]
)

func init() { Reset() }

// Install replaces the hook families set in h.
func Install(h Hooks) {
	for {
		old := current.Load()
		next := *old
		if h.Dashboard != nil {
			next.Dashboard = h.Dashboard
		}
		if h.Cache != nil {
			next.Cache = h.Cache
		}
		if h.HTTP != nil {
			next.HTTP = h.HTTP
		}
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Reset restores the no-op hooks.
func Reset() {
	h := noop
	current.Store(&h)
}

// Dashboard returns the installed dashboard hooks.
func Dashboard() DashboardHooks { return current.Load().Dashboard }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().Cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().HTTP }
