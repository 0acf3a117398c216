package charts

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mlviz/pkg/cache"
	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/diagram"
	"github.com/matzehuels/mlviz/pkg/observability"
)

// For returns the chart for a method's combination index, or nil when the
// method has no chart.
func For(methodID string, index int) *Chart {
	switch methodID {
	case "regression":
		if index == 0 {
			return RegressionLinear()
		}
		return RegressionSmooth()
	case "clustering":
		if index == 0 {
			return ClusteringDistinct()
		}
		return ClusteringSoft()
	case "classification":
		if index == 1 {
			return ClassSigmoid()
		}
		return ClassSoftmax()
	case "dimensionality":
		if index == 0 {
			return DimManifold()
		}
		return DimBounded()
	case "semisupervised":
		return SemiSupervised()
	case "generative":
		// Diffusion reuses the GAN training curves.
		if index == 1 {
			return LatentSampling(LatentSeed)
		}
		return GANLosses()
	case "rl":
		if index == 0 {
			return RLPolicy()
		}
		return RLReward()
	}
	return nil
}

// Supplier is a [diagram.PanelSupplier] backed by [For].
func Supplier(methodID string, _ catalogue.Combination, index int) diagram.Panel {
	if c := For(methodID, index); c != nil {
		return c
	}
	return nil
}

// Named is implemented by panels that can be cached.
type Named interface {
	PanelName() string
}

// CacheOptions configures [Cached].
type CacheOptions struct {
	Cache  cache.Cache
	Keyer  cache.Keyer   // nil uses cache.NewDefaultKeyer
	TTL    time.Duration // zero keeps entries until evicted
	Logger *log.Logger   // nil discards cache errors
}

// Cached wraps next so that each panel's rendered bytes are read from and
// written to the cache. Cache failures fall back to rendering directly.
func Cached(ctx context.Context, opts CacheOptions, next diagram.PanelSupplier) diagram.PanelSupplier {
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return func(methodID string, combo catalogue.Combination, index int) diagram.Panel {
		panel := next(methodID, combo, index)
		named, ok := panel.(Named)
		if !ok || opts.Cache == nil {
			return panel
		}
		key := opts.Keyer.PanelKey(methodID, index, cache.PanelKeyOpts{
			Chart:  named.PanelName(),
			Hidden: combo.Hidden,
			Output: combo.Output,
		})
		return &cachedPanel{ctx: ctx, opts: opts, key: key, inner: panel}
	}
}

type cachedPanel struct {
	ctx   context.Context
	opts  CacheOptions
	key   string
	inner diagram.Panel
}

func (p *cachedPanel) PanelName() string { return p.inner.(Named).PanelName() }

func (p *cachedPanel) WriteTo(w io.Writer) (int64, error) {
	data, hit, err := p.opts.Cache.Get(p.ctx, p.key)
	if err != nil {
		p.opts.Logger.Warn("panel cache read failed", "key", p.key, "error", err)
	}
	hooks := observability.Cache()
	if hit {
		hooks.OnCacheHit(p.ctx, "panel")
	} else {
		hooks.OnCacheMiss(p.ctx, "panel")
		var buf bytes.Buffer
		if _, err := p.inner.WriteTo(&buf); err != nil {
			return 0, err
		}
		data = buf.Bytes()
		if err := p.opts.Cache.Set(p.ctx, p.key, data, p.opts.TTL); err != nil {
			p.opts.Logger.Warn("panel cache write failed", "key", p.key, "error", err)
		} else {
			hooks.OnCacheSet(p.ctx, "panel", len(data))
		}
	}
	n, err := w.Write(data)
	return int64(n), err
}
