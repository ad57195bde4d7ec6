package engine

// BuildAutoCompleteSequence plans moves that drain the tableau into the
// foundation. It simulates on a private copy of g, picking one move per
// iteration with nextAutoCompleteMove, and stops when no move qualifies,
// the simulated game is won, a move fails to apply, or the iteration cap
// from g.Rules is reached.
//
// The planner is greedy and never backtracks; the result need not reach a
// win. Replaying the returned moves in order against g reproduces the
// simulated end state.
func BuildAutoCompleteSequence(g GameState) []Move {
	var moves []Move
	s := g
	s.History = nil

	limit := g.Rules.autoCompleteLimit()
	for iter := 0; iter < limit; iter++ {
		if s.Status == StatusWon {
			break
		}
		m, ok := nextAutoCompleteMove(s.Columns)
		if !ok {
			break
		}
		next, applied := s.Apply(m)
		if !applied {
			break
		}
		next.History = nil
		moves = append(moves, m)
		s = next
	}
	return moves
}

// Replay applies moves in order and returns the resulting state along with
// the number of moves that applied. It stops at the first move that is
// rejected.
func Replay(g GameState, moves []Move) (GameState, int) {
	for i, m := range moves {
		next, ok := g.Apply(m)
		if !ok {
			return g, i
		}
		g = next
	}
	return g, len(moves)
}

// nextAutoCompleteMove picks the planner's next move, by priority:
//
//  1. a single-suit stack onto a non-empty column whose top shares its suit;
//  2. if a column is empty, a single-suit stack starting with a King into it,
//     or else a single-suit stack that some other column could then take as
//     a same-suit merge;
//  3. any legal move.
//
// Each tier scans source column, then stack start index, then target column,
// and returns the first match.
func nextAutoCompleteMove(cols Tableau) (Move, bool) {
	if m, ok := sameSuitMerge(cols); ok {
		return m, true
	}
	if empty := cols.EmptyColumn(); empty >= 0 {
		if m, ok := relocateToEmpty(cols, empty); ok {
			return m, true
		}
	}
	var found Move
	ok := forEachLegalMove(cols, func(m Move, _ []Card) bool {
		found = m
		return true
	})
	return found, ok
}

func sameSuitMerge(cols Tableau) (Move, bool) {
	var found Move
	ok := forEachLegalMove(cols, func(m Move, stack []Card) bool {
		if !isSingleSuit(stack) {
			return false
		}
		top, ok := cols.Top(m.ToColumn)
		if !ok || top.Suit != stack[0].Suit {
			return false
		}
		found = m
		return true
	})
	return found, ok
}

func relocateToEmpty(cols Tableau, empty int) (Move, bool) {
	if m, ok := firstSingleSuitStack(cols, empty, func(_ int, stack []Card) bool {
		return stack[0].Rank == RankKing
	}); ok {
		return m, true
	}
	return firstSingleSuitStack(cols, empty, func(from int, stack []Card) bool {
		for ci := 0; ci < NumColumns; ci++ {
			if ci == from || ci == empty {
				continue
			}
			top, ok := cols.Top(ci)
			if ok && top.Suit == stack[0].Suit && top.Rank == stack[0].Rank+1 {
				return true
			}
		}
		return false
	})
}

// firstSingleSuitStack returns a move of the first pickable single-suit
// stack accepted by want into column to.
func firstSingleSuitStack(cols Tableau, to int, want func(from int, stack []Card) bool) (Move, bool) {
	for from := 0; from < NumColumns; from++ {
		if from == to {
			continue
		}
		for idx := range cols[from] {
			if !CanPickStack(cols, from, idx) {
				continue
			}
			stack := cols[from][idx:]
			if isSingleSuit(stack) && want(from, stack) {
				return Move{FromColumn: from, FromIndex: idx, ToColumn: to}, true
			}
		}
	}
	return Move{}, false
}
