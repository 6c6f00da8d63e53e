// Package health tracks reachability and readiness of the remote matcher as
// a small state machine, gating whether the remote call is attempted at all.
package health

import (
	"context"
	"fmt"
	"sync"

	"github.com/crmbridge/matchgate/internal/adapters/matchprovider"
	"github.com/crmbridge/matchgate/internal/logging"
)

type State string

const (
	StateUnknown      State = "unknown"
	StateChecking     State = "checking"
	StateModelLoading State = "model_loading"
	StateReady        State = "ready"
	StateUnavailable  State = "unavailable"
)

// Gate is shared by all concurrent resolve calls. State writes are
// whole-value replacements under the mutex; concurrent probes are
// last-writer-wins and reads never observe a torn transition.
type Gate struct {
	lock    sync.Mutex
	state   State
	matcher matchprovider.MatcherAPI
}

func NewGate(matcher matchprovider.MatcherAPI) *Gate {
	return &Gate{
		state:   StateUnknown,
		matcher: matcher,
	}
}

// State returns the last fully-committed state.
func (g *Gate) State() State {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.state
}

// IsUsable reports whether the remote matcher may be called right now. Only
// StateReady qualifies.
func (g *Gate) IsUsable() bool {
	return g.State() == StateReady
}

// Probe performs one reachability check and returns the resulting state.
// Ready is sticky: a probe in StateReady does not hit the network; only
// MarkFailure demotes a ready gate. From every other state the gate
// re-probes - it never gives up permanently.
func (g *Gate) Probe(ctx context.Context) State {
	g.lock.Lock()
	if g.state == StateReady {
		g.lock.Unlock()
		return StateReady
	}
	g.state = StateChecking
	g.lock.Unlock()

	report, err := g.matcher.CheckHealth(ctx)

	next := StateUnavailable
	if err == nil && report.Healthy {
		if report.ModelLoaded {
			next = StateReady
		} else {
			next = StateModelLoading
		}
	}

	if next != StateReady {
		logging.FromContext(ctx).InfoContext(ctx, "matcher probe did not reach ready", "state", string(next), "error", fmt.Sprintf("%v", err))
	}

	g.lock.Lock()
	g.state = next
	g.lock.Unlock()

	return next
}

// MarkFailure records that an actual remote call failed. The next caller
// will re-probe.
func (g *Gate) MarkFailure() {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.state = StateUnavailable
}

// Preload fires a best-effort warm-up call and ignores its result, nudging a
// cold model into loading without blocking any caller.
func (g *Gate) Preload(ctx context.Context) {
	if err := g.matcher.Preload(ctx); err != nil {
		logging.FromContext(ctx).InfoContext(ctx, "matcher preload failed", "error", err.Error())
	}
}
