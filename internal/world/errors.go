package world

import "errors"

var (
	// ErrChunkNotLoaded means the chunk holding a coordinate is absent or
	// still generating. Callers must not treat it as empty space.
	ErrChunkNotLoaded = errors.New("world: chunk not loaded")
	ErrOutOfBounds    = errors.New("world: coordinate out of bounds")

	ErrAboveBuildLimit  = errors.New("world: above build limit")
	ErrBelowMiningDepth = errors.New("world: below mining depth")
	ErrOccupied         = errors.New("world: block occupied")
	ErrAlreadyEmpty     = errors.New("world: block already empty")
	ErrIndestructible   = errors.New("world: block is indestructible")
	ErrInvalidBlock     = errors.New("world: invalid block id")
)

// editResult maps an edit error to a short metrics label.
func editResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrChunkNotLoaded):
		return "not_loaded"
	case errors.Is(err, ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, ErrAboveBuildLimit):
		return "above_build_limit"
	case errors.Is(err, ErrBelowMiningDepth):
		return "below_mining_depth"
	case errors.Is(err, ErrOccupied):
		return "occupied"
	case errors.Is(err, ErrAlreadyEmpty):
		return "already_empty"
	case errors.Is(err, ErrIndestructible):
		return "indestructible"
	case errors.Is(err, ErrInvalidBlock):
		return "invalid_block"
	}
	return "error"
}
