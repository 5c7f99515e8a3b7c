// Package bench implements the tick-driven sampling engine: a Sampler that
// performs one random memory access per tick and a Coordinator that drives
// it at a fixed cadence for a fixed number of ticks.
package bench

// State is the lifecycle state of a Coordinator.
type State int32

const (
	// StateNotStarted is the state before Run.
	StateNotStarted State = iota
	// StateWorkerReady indicates the worker signalled it is waiting for ticks.
	StateWorkerReady
	// StateTicking indicates ticks are being issued.
	StateTicking
	// StateDraining indicates the worker has been cancelled and is being joined.
	StateDraining
	// StateStopped indicates the worker has exited.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateWorkerReady:
		return "worker-ready"
	case StateTicking:
		return "ticking"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
