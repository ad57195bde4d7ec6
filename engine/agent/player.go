// Package agent plays Spider games automatically on top of the engine's
// solvers. The session service uses Hint to suggest a next action; Play
// drives a whole game and is used for simulations and property tests.
package agent

import (
	engine "github.com/yaguri-afk/spider-solitaire/engine"
)

// ActionType is the kind of action the agent chose.
type ActionType uint8

const (
	ActionNone ActionType = iota // 0
	ActionMove                   // 1
	ActionDeal                   // 2
)

func (a ActionType) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionDeal:
		return "deal"
	default:
		return "none"
	}
}

// MarshalText encodes the action type by name.
func (a ActionType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// Action is one agent decision. Move is only meaningful for ActionMove.
type Action struct {
	Type ActionType  `json:"type"`
	Move engine.Move `json:"move"`
}

// Apply performs the action on g.
func (a Action) Apply(g engine.GameState) (engine.GameState, bool) {
	switch a.Type {
	case ActionMove:
		return g.Apply(a.Move)
	case ActionDeal:
		return g.DealFromStock()
	default:
		return g, false
	}
}

// Hint returns the action a greedy player would take next, or false when the
// game is won or stuck.
//
// In a finishing position (engine.CanAutoComplete) the planner's first move
// is returned, unless it neither improves the board nor completes a run. Otherwise the highest-scoring useful stack move wins if it
// scores above zero, then a deal, then any remaining useful move.
func Hint(g engine.GameState) (Action, bool) {
	return hint(g, nil)
}

// hint is Hint that also skips moves leading to a board in seen.
func hint(g engine.GameState, seen map[string]int) (Action, bool) {
	if g.Status != engine.StatusPlaying {
		return Action{}, false
	}
	if engine.CanAutoComplete(g) {
		if plan := engine.BuildAutoCompleteSequence(g); len(plan) > 0 && progresses(g, plan[0]) {
			return Action{Type: ActionMove, Move: plan[0]}, true
		}
	}

	var best engine.Move
	bestScore, found := 0, false
	for _, m := range engine.LegalMoves(g) {
		score, useful := scoreMove(g.Columns, m)
		if !useful {
			continue
		}
		if seen != nil {
			next, _ := g.Apply(m)
			if seen[engine.StateSignature(next)] > 0 {
				continue
			}
		}
		if !found || score > bestScore {
			best, bestScore, found = m, score, true
		}
	}

	switch {
	case found && bestScore > 0:
		return Action{Type: ActionMove, Move: best}, true
	case g.CanDeal():
		return Action{Type: ActionDeal}, true
	case found:
		return Action{Type: ActionMove, Move: best}, true
	}
	return Action{}, false
}

// progresses reports whether m is worth suggesting: scoreMove accepts it or
// it sends a run to the foundation.
func progresses(g engine.GameState, m engine.Move) bool {
	if _, useful := scoreMove(g.Columns, m); useful {
		return true
	}
	next, ok := g.Apply(m)
	return ok && len(next.Foundation) > len(g.Foundation)
}

// scoreMove rates a legal move. Moves that cannot improve the board, such as
// shifting a whole column into an empty one or lifting a stack off a card it
// already continues in suit, are reported as not useful.
func scoreMove(cols engine.Tableau, m engine.Move) (int, bool) {
	src := cols[m.FromColumn]
	bottom := src[m.FromIndex]
	top, hasTop := cols.Top(m.ToColumn)
	sameSuitTarget := hasTop && top.Suit == bottom.Suit

	if m.FromIndex > 0 {
		parent := src[m.FromIndex-1]
		if parent.FaceUp && parent.Rank == bottom.Rank+1 {
			if parent.Suit == bottom.Suit || !sameSuitTarget {
				return 0, false
			}
		}
	}

	score := 0
	switch {
	case !hasTop:
		if m.FromIndex == 0 {
			return 0, false
		}
		score -= 2
		if bottom.Rank == engine.RankKing {
			score += 3
		}
	case sameSuitTarget:
		score += 4
	}
	if m.FromIndex > 0 && !src[m.FromIndex-1].FaceUp {
		score += 3 // reveals a card
	}
	if m.FromIndex == 0 {
		score += 2 // frees a column
	}
	return score, true
}
