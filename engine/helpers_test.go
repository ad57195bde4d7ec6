package engine

import (
	"testing"

	"github.com/google/uuid"
)

// up builds a face-up card.
func up(s Suit, r Rank) Card {
	return Card{ID: uuid.New(), Suit: s, Rank: r, FaceUp: true}
}

// down builds a face-down card.
func down(s Suit, r Rank) Card {
	return Card{ID: uuid.New(), Suit: s, Rank: r}
}

// run builds a face-up descending single-suit sequence from high to low.
func run(s Suit, high, low Rank) []Card {
	var out []Card
	for r := high; r >= low; r-- {
		out = append(out, up(s, r))
	}
	return out
}

// cat joins card sequences into one column.
func cat(parts ...[]Card) []Card {
	var out []Card
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// fixture builds a playing state with the given columns (missing columns
// are empty), an empty stock and default rules.
func fixture(cols ...[]Card) GameState {
	var t Tableau
	copy(t[:], cols)
	return GameState{
		GameSnapshot: GameSnapshot{
			Difficulty: FourSuits,
			Columns:    t,
			Status:     StatusPlaying,
		},
		Rules: DefaultRules(),
	}
}

// fullPiles returns n completed spade runs for prefilling the foundation.
func fullPiles(n int) [][]Card {
	piles := make([][]Card, n)
	for i := range piles {
		piles[i] = run(SuitSpades, RankKing, RankAce)
	}
	return piles
}

// newSeeded returns a reproducible two-suit game.
func newSeeded(t *testing.T, seed uint64) GameState {
	t.Helper()
	return NewSeededGame(TwoSuits, seed, DefaultRules())
}

// mustMove applies a move and fails the test if it was rejected.
func mustMove(t *testing.T, g GameState, p Pick, to int) GameState {
	t.Helper()
	next, ok := g.MoveStack(p, to)
	if !ok {
		t.Fatalf("MoveStack(%+v, %d) rejected", p, to)
	}
	return next
}

// cloneSnapshot deep-copies a snapshot so later comparisons catch in-place edits.
func cloneSnapshot(s GameSnapshot) GameSnapshot {
	out := s
	for i, col := range s.Columns {
		out.Columns[i] = append([]Card(nil), col...)
	}
	out.Stock = append([]Card(nil), s.Stock...)
	out.Foundation = nil
	for _, pile := range s.Foundation {
		out.Foundation = append(out.Foundation, append([]Card(nil), pile...))
	}
	return out
}
