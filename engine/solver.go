package engine

import (
	"strconv"
	"strings"
)

// HasAnyMove reports whether the player still has an action: a deal from a
// non-empty stock, or any legal stack move. A false result means the game
// is stuck.
func HasAnyMove(g GameState) bool {
	if len(g.Stock) > 0 {
		return true
	}
	return forEachLegalMove(g.Columns, func(Move, []Card) bool { return true })
}

// StateSignature returns a canonical key for the tableau: rank and suit of
// every card, cards joined by "," and columns by "|". Two states with the
// same signature show the same board, so callers can count repeats to
// detect loops. Face orientation, stock and foundation are not included.
func StateSignature(g GameState) string {
	var b strings.Builder
	b.Grow(DeckSize * 4)
	for i, col := range g.Columns {
		if i > 0 {
			b.WriteByte('|')
		}
		for j, c := range col {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(int(c.Rank)))
			b.WriteString(c.Suit.String())
		}
	}
	return b.String()
}

// CanAutoComplete reports whether the game is in a finishing position: still
// playing, stock empty, and every column a face-up single-suit descending
// run (empty columns qualify).
func CanAutoComplete(g GameState) bool {
	if g.Status != StatusPlaying || len(g.Stock) > 0 {
		return false
	}
	for _, col := range g.Columns {
		for i, c := range col {
			if !c.FaceUp {
				return false
			}
			if i > 0 && (col[i-1].Suit != c.Suit || col[i-1].Rank != c.Rank+1) {
				return false
			}
		}
	}
	return true
}
