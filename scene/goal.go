package scene

// Goal is what a caller is optimizing for when saving a scene; it picks
// the strategy, not the container format (every goal still writes the
// same 49-byte header).
type Goal int

const (
	GoalFastestLoad Goal = iota
	GoalSmallestFileSize
	GoalHumanReadableDebug
	GoalLongTermStability
)

// StrategyNameFor maps a save goal to the strategy name WriteScene should
// use: FastestLoad picks the raw-column Archetype strategy (no per-field
// reconstruction cost), SmallestFileSize picks the compact binary Recipe
// strategy, and both debug-oriented goals pick the human-readable
// Definition strategy.
func StrategyNameFor(goal Goal) string {
	switch goal {
	case GoalFastestLoad:
		return "archetype"
	case GoalSmallestFileSize:
		return "recipe"
	case GoalHumanReadableDebug, GoalLongTermStability:
		return "definition"
	default:
		return "recipe"
	}
}

// Dispatcher resolves a strategy name (as read from a container header)
// to the registered Strategy instance that can decode it.
type Dispatcher struct {
	strategies map[string]Strategy
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{strategies: make(map[string]Strategy)}
}

func (d *Dispatcher) Register(s Strategy) {
	d.strategies[s.Name()] = s
}

func (d *Dispatcher) StrategyFor(name string) (Strategy, error) {
	s, ok := d.strategies[name]
	if !ok {
		return nil, StrategyNotFoundError{Name: name}
	}
	return s, nil
}
