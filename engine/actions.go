package engine

import "slices"

// MoveStack moves the stack starting at p onto column to. It returns the
// receiver unchanged and false when the game is over, the target is the
// source column, the pick is out of range or not pickable, or the stack
// cannot be dropped on the target.
//
// On success the previous snapshot is pushed onto the history, the new top
// card of the source column is turned face up, and completed runs are
// cleared to the foundation.
func (g GameState) MoveStack(p Pick, to int) (GameState, bool) {
	if g.Status != StatusPlaying || to == p.FromColumn {
		return g, false
	}
	if !CanPickStack(g.Columns, p.FromColumn, p.FromIndex) {
		return g, false
	}
	src := g.Columns[p.FromColumn]
	moving := src[p.FromIndex:]
	if !CanDropStack(g.Columns, to, moving) {
		return g, false
	}

	next := g.pushHistory()
	next.Columns[p.FromColumn] = revealTop(src[:p.FromIndex])
	next.Columns[to] = slices.Concat(g.Columns[to], moving)
	return next.autoClearCompleted(), true
}

// Apply is MoveStack for a planner move.
func (g GameState) Apply(m Move) (GameState, bool) {
	return g.MoveStack(m.Pick(), m.ToColumn)
}

// DealFromStock deals one face-up card from the front of the stock onto each
// column in order. It is a no-op when the game is over or fewer than ten
// cards remain in the stock.
func (g GameState) DealFromStock() (GameState, bool) {
	if !g.CanDeal() {
		return g, false
	}

	next := g.pushHistory()
	for i := 0; i < NumColumns; i++ {
		c := g.Stock[i]
		c.FaceUp = true
		next.Columns[i] = append(slices.Clip(g.Columns[i]), c)
	}
	next.Stock = g.Stock[DealSize:]
	return next.autoClearCompleted(), true
}

// Undo restores the most recent history snapshot. The undo counter is
// carried forward from the current state plus one rather than taken from
// the restored snapshot. It is a no-op once the undo budget is spent or
// when there is no history.
func (g GameState) Undo() (GameState, bool) {
	if !g.CanUndo() {
		return g, false
	}
	n := len(g.History) - 1
	prev := GameState{
		GameSnapshot: g.History[n],
		History:      g.History[:n:n],
		Rules:        g.Rules,
	}
	prev.UndoUsed = g.UndoUsed + 1
	return prev, true
}

// autoClearCompleted moves every column-top K..A same-suit face-up run to the
// foundation, rescanning from column 0 after each removal, and marks the
// game won once all runs are complete.
func (g GameState) autoClearCompleted() GameState {
	for cleared := true; cleared; {
		cleared = false
		for i := 0; i < NumColumns; i++ {
			col := g.Columns[i]
			cut := len(col) - RunLength
			if cut < 0 || !isCompleteRun(col[cut:]) {
				continue
			}
			g.Foundation = append(slices.Clip(g.Foundation), slices.Clone(col[cut:]))
			g.Columns[i] = revealTop(col[:cut])
			cleared = true
			break
		}
	}
	if len(g.Foundation) == NumRuns {
		g.Status = StatusWon
	}
	return g
}

// revealTop returns a copy of cards with the last card turned face up.
func revealTop(cards []Card) []Card {
	out := slices.Clone(cards)
	if len(out) > 0 {
		out[len(out)-1].FaceUp = true
	}
	return out
}
