package dash

// State is the lifecycle of one remote-backed value.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Resource holds the latest successful payload for one independently
// fetched remote value together with its state tag. Exactly one successful
// value is retained at a time; a failure records its message without
// touching the cached value.
type Resource[T any] struct {
	state    State
	value    T
	hasValue bool
	errMsg   string
}

// State returns the current state tag.
func (r *Resource[T]) State() State {
	return r.state
}

// Value returns the cached payload and whether one is held.
func (r *Resource[T]) Value() (T, bool) {
	return r.value, r.hasValue
}

// Err returns the recorded failure message, empty unless state is error.
func (r *Resource[T]) Err() string {
	return r.errMsg
}

// Begin marks the resource loading. The previous value, if any, stays
// cached so callers can keep showing it while the refresh is in flight.
func (r *Resource[T]) Begin() {
	r.state = StateLoading
	r.errMsg = ""
}

// Resolve stores a successful payload, replacing any previous one.
func (r *Resource[T]) Resolve(v T) {
	r.state = StateReady
	r.value = v
	r.hasValue = true
	r.errMsg = ""
}

// Fail records a failure message. The cached value is not mutated.
func (r *Resource[T]) Fail(msg string) {
	r.state = StateError
	r.errMsg = msg
}

// Clear resets the resource to idle and drops the cached value.
func (r *Resource[T]) Clear() {
	var zero T
	r.state = StateIdle
	r.value = zero
	r.hasValue = false
	r.errMsg = ""
}
