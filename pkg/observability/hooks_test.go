package observability

import (
	"context"
	"sync"
	"testing"
)

type selectCounter struct {
	Noop
	mu    sync.Mutex
	calls []string
}

func (c *selectCounter) OnSelect(_ context.Context, methodID string, _ int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, methodID)
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Dashboard().(Noop); !ok {
		t.Errorf("Dashboard() = %T, want Noop", Dashboard())
	}
	if _, ok := Cache().(Noop); !ok {
		t.Errorf("Cache() = %T, want Noop", Cache())
	}
	if _, ok := HTTP().(Noop); !ok {
		t.Errorf("HTTP() = %T, want Noop", HTTP())
	}
}

func TestInstallKeepsUnsetFamilies(t *testing.T) {
	t.Cleanup(Reset)

	counter := &selectCounter{}
	Install(Hooks{Dashboard: counter})
	Install(Hooks{Cache: Noop{}})

	if Dashboard() != counter {
		t.Error("installing cache hooks replaced dashboard hooks")
	}
	Dashboard().OnSelect(context.Background(), "rl", 3)
	Dashboard().OnSelect(context.Background(), "", 0)
	if len(counter.calls) != 2 || counter.calls[0] != "rl" {
		t.Errorf("calls = %v", counter.calls)
	}

	Reset()
	if _, ok := Dashboard().(Noop); !ok {
		t.Error("Reset did not restore Noop")
	}
}

func TestInstallConcurrent(t *testing.T) {
	t.Cleanup(Reset)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Install(Hooks{HTTP: Noop{}})
			HTTP().OnResponse(context.Background(), "GET", "/", 200, 0)
		}()
	}
	wg.Wait()
}
