package search

import "sync/atomic"

// State tracks the remote index lifecycle. Transitions are advisory:
// each call still attempts the remote path independently, so Degraded
// flips back to Ready on the next success without a circuit breaker.
type State int32

// Index lifecycle states.
const (
	StateUnconfigured State = iota
	StateProvisioning
	StateReady
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateProvisioning:
		return "provisioning"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// stateHolder is a concurrency-safe holder for the current State.
type stateHolder struct {
	v atomic.Int32
}

func (h *stateHolder) get() State  { return State(h.v.Load()) }
func (h *stateHolder) set(s State) { h.v.Store(int32(s)) }
