package engine

// CanPickStack reports whether the cards from fromIndex to the top of column
// fromCol can be lifted together: all face up and each card exactly one rank
// below the card beneath it. Suits may be mixed.
func CanPickStack(cols Tableau, fromCol, fromIndex int) bool {
	if fromCol < 0 || fromCol >= NumColumns {
		return false
	}
	col := cols[fromCol]
	if fromIndex < 0 || fromIndex >= len(col) {
		return false
	}
	stack := col[fromIndex:]
	for i, c := range stack {
		if !c.FaceUp {
			return false
		}
		if i > 0 && stack[i-1].Rank != c.Rank+1 {
			return false
		}
	}
	return true
}

// CanDropStack reports whether stack may be placed on column targetCol:
// the column is empty, or its top card is exactly one rank above stack[0].
// Suit is not checked.
func CanDropStack(cols Tableau, targetCol int, stack []Card) bool {
	if targetCol < 0 || targetCol >= NumColumns || len(stack) == 0 {
		return false
	}
	top, ok := cols.Top(targetCol)
	if !ok {
		return true
	}
	return top.Rank == stack[0].Rank+1
}

// isSingleSuit reports whether every card in stack shares one suit.
func isSingleSuit(stack []Card) bool {
	for _, c := range stack[1:] {
		if c.Suit != stack[0].Suit {
			return false
		}
	}
	return true
}

// isCompleteRun reports whether run is a face-up, single-suit K..A sequence
// ordered bottom to top.
func isCompleteRun(run []Card) bool {
	if len(run) != RunLength {
		return false
	}
	suit := run[0].Suit
	for i, c := range run {
		if !c.FaceUp || c.Suit != suit || c.Rank != RankKing-Rank(i) {
			return false
		}
	}
	return true
}

// LegalMoves returns every (from, index, to) triple that MoveStack would
// accept, in column-then-index-then-target order. Returns nil once the game
// is won.
func LegalMoves(g GameState) []Move {
	if g.Status != StatusPlaying {
		return nil
	}
	var moves []Move
	forEachLegalMove(g.Columns, func(m Move, _ []Card) bool {
		moves = append(moves, m)
		return false
	})
	return moves
}

// forEachLegalMove calls fn for each legal move in scan order, passing the
// moving stack. Iteration stops early when fn returns true.
func forEachLegalMove(cols Tableau, fn func(m Move, stack []Card) bool) bool {
	for from := 0; from < NumColumns; from++ {
		for idx := range cols[from] {
			if !CanPickStack(cols, from, idx) {
				continue
			}
			stack := cols[from][idx:]
			for to := 0; to < NumColumns; to++ {
				if to == from || !CanDropStack(cols, to, stack) {
					continue
				}
				if fn(Move{FromColumn: from, FromIndex: idx, ToColumn: to}, stack) {
					return true
				}
			}
		}
	}
	return false
}
