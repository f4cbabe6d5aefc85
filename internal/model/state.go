package model

// ListState is the render state every list surface is in.
type ListState int

const (
	StateLoading ListState = iota
	StateEmpty
	StatePopulated
	StateFailed
)

func (s ListState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// StateOf derives the render state once a load finished. A zero-length
// result is a legitimate empty state, never an error.
func StateOf(n int, err error) ListState {
	switch {
	case err != nil:
		return StateFailed
	case n == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}
