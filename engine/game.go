// Package engine implements the Spider Solitaire rules.
//
// Every operation is a pure transition over value-typed states: a call
// either returns a new GameState and true, or the receiver unchanged and
// false. Nothing in this package blocks, logs or performs I/O, so it can be
// driven directly by the session service, by the auto-player, and by tests.
package engine

import "slices"

const (
	NumColumns   = 10
	DeckSize     = 104
	RunLength    = 13
	NumRuns      = DeckSize / RunLength // foundation piles needed to win
	DealSize     = NumColumns           // cards dealt from stock per deal
	InitialDealt = 54
)

// Tableau is the ten playing columns, each ordered bottom to top.
type Tableau [NumColumns][]Card

// Top returns the top card of column col, or false if it is empty or out of range.
func (t Tableau) Top(col int) (Card, bool) {
	if col < 0 || col >= NumColumns || len(t[col]) == 0 {
		return Card{}, false
	}
	c := t[col]
	return c[len(c)-1], true
}

// EmptyColumn returns the lowest-indexed empty column, or -1.
func (t Tableau) EmptyColumn() int {
	for i := range t {
		if len(t[i]) == 0 {
			return i
		}
	}
	return -1
}

// GameSnapshot is one recorded board state. Snapshots are never edited in
// place; transitions build new slices for whatever they change.
type GameSnapshot struct {
	Difficulty Difficulty `json:"difficulty"`
	Columns    Tableau    `json:"columns"`
	Stock      []Card     `json:"stock"`
	Foundation [][]Card   `json:"foundation"`
	UndoUsed   uint8      `json:"undoUsed"`
	Status     Status     `json:"status"`
}

// CardCount returns the number of cards across columns, stock and foundation.
// It is always DeckSize for a well-formed game.
func (s GameSnapshot) CardCount() int {
	n := len(s.Stock)
	for _, col := range s.Columns {
		n += len(col)
	}
	for _, pile := range s.Foundation {
		n += len(pile)
	}
	return n
}

// IsWon reports whether all runs have been completed.
func (s GameSnapshot) IsWon() bool { return s.Status == StatusWon }

// GameState is the current snapshot plus the undo history, oldest first.
type GameState struct {
	GameSnapshot
	History []GameSnapshot `json:"-"`
	Rules   Rules          `json:"-"`
}

// NewGame shuffles a fresh deck for difficulty d and deals it.
func NewGame(d Difficulty) GameState {
	return newGame(d, BuildDeck(d), DefaultRules())
}

// NewSeededGame is NewGame with a reproducible shuffle and custom rules.
func NewSeededGame(d Difficulty, seed uint64, rules Rules) GameState {
	return newGame(d, BuildSeededDeck(d, seed), rules)
}

func newGame(d Difficulty, deck []Card, rules Rules) GameState {
	cols, stock := DealInitial(deck)
	return GameState{
		GameSnapshot: GameSnapshot{
			Difficulty: d,
			Columns:    cols,
			Stock:      stock,
			Status:     StatusPlaying,
		},
		Rules: rules,
	}
}

// CanUndo reports whether Undo would change the state.
func (g GameState) CanUndo() bool {
	return len(g.History) > 0 && g.UndoUsed < g.Rules.maxUndos()
}

// CanDeal reports whether DealFromStock would change the state.
func (g GameState) CanDeal() bool {
	return g.Status == StatusPlaying && len(g.Stock) >= DealSize
}

// UndosLeft returns how many undos remain in this game.
func (g GameState) UndosLeft() int {
	n := int(g.Rules.maxUndos()) - int(g.UndoUsed)
	if n < 0 {
		return 0
	}
	return n
}

// ---------------------------------------------------------------------------
// History
// ---------------------------------------------------------------------------

// pushHistory returns a copy of g with its current snapshot appended to the
// history. The history slice is clipped first so the append never writes
// into an array shared with an older state.
func (g GameState) pushHistory() GameState {
	g.History = append(slices.Clip(g.History), g.GameSnapshot)
	return g
}
