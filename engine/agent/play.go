package agent

import (
	engine "github.com/yaguri-afk/spider-solitaire/engine"
)

// Outcome says why Play stopped.
type Outcome uint8

const (
	OutcomeWon     Outcome = iota // all runs completed
	OutcomeStuck                  // no useful action left
	OutcomeLooping                // a board repeated LoopThreshold times
	OutcomeLimit                  // MaxActions reached
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeStuck:
		return "stuck"
	case OutcomeLooping:
		return "looping"
	default:
		return "limit"
	}
}

// Options bounds a Play run. Zero values fall back to the defaults.
type Options struct {
	MaxActions    int // default 2000
	LoopThreshold int // default 3
}

func (o Options) maxActions() int {
	if o.MaxActions <= 0 {
		return 2000
	}
	return o.MaxActions
}

func (o Options) loopThreshold() int {
	if o.LoopThreshold <= 0 {
		return 3
	}
	return o.LoopThreshold
}

// Result summarizes a Play run.
type Result struct {
	Final   engine.GameState
	Actions []Action
	Moves   int
	Deals   int
	Outcome Outcome
}

// Play drives g with Hint until it is won, stuck, looping or out of budget.
// When the board reaches a finishing position the autocomplete planner's
// whole sequence is replayed at once, stopping early if a board repeats. The history is dropped after every
// action, so the final state cannot be undone.
func Play(g engine.GameState, opts Options) Result {
	res := Result{}
	seen := map[string]int{engine.StateSignature(g): 1}
	triedFinish := false

	record := func(a Action, next engine.GameState) {
		next.History = nil
		g = next
		res.Actions = append(res.Actions, a)
		if a.Type == ActionDeal {
			res.Deals++
		} else {
			res.Moves++
		}
	}

	for len(res.Actions) < opts.maxActions() {
		if g.IsWon() {
			res.Outcome = OutcomeWon
			res.Final = g
			return res
		}

		if !triedFinish && engine.CanAutoComplete(g) {
			triedFinish = true
			visited := map[string]bool{engine.StateSignature(g): true}
			for _, m := range engine.BuildAutoCompleteSequence(g) {
				if len(res.Actions) >= opts.maxActions() {
					break
				}
				next, ok := g.Apply(m)
				if !ok {
					break
				}
				record(Action{Type: ActionMove, Move: m}, next)
				sig := engine.StateSignature(g)
				if visited[sig] {
					break
				}
				visited[sig] = true
			}
			continue
		}

		a, ok := hint(g, seen)
		if !ok {
			res.Outcome = OutcomeStuck
			res.Final = g
			return res
		}
		next, ok := a.Apply(g)
		if !ok {
			res.Outcome = OutcomeStuck
			res.Final = g
			return res
		}
		record(a, next)

		sig := engine.StateSignature(g)
		seen[sig]++
		if seen[sig] >= opts.loopThreshold() {
			res.Outcome = OutcomeLooping
			res.Final = g
			return res
		}
	}

	res.Outcome = OutcomeLimit
	if g.IsWon() {
		res.Outcome = OutcomeWon
	}
	res.Final = g
	return res
}
