package engine

// Rules holds the tunable limits of a game.
type Rules struct {
	MaxUndos          uint8 // undos allowed per game; 0 treated as 3
	AutoCompleteLimit int   // planner iteration cap; values below 500 are raised to 500
}

// DefaultRules returns the standard limits: 3 undos, 500 planner iterations.
func DefaultRules() Rules {
	return Rules{
		MaxUndos:          3,
		AutoCompleteLimit: 500,
	}
}

// maxUndos returns the effective undo budget, treating 0 as 3.
func (r Rules) maxUndos() uint8 {
	if r.MaxUndos == 0 {
		return 3
	}
	return r.MaxUndos
}

// autoCompleteLimit returns the effective planner cap, never below 500.
func (r Rules) autoCompleteLimit() int {
	if r.AutoCompleteLimit < 500 {
		return 500
	}
	return r.AutoCompleteLimit
}
