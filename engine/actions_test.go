package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestMoveStackNoOps verifies every rejected move returns the input unchanged.
func TestMoveStackNoOps(t *testing.T) {
	g := fixture(
		cat([]Card{down(SuitHearts, 3)}, run(SuitSpades, 9, 8)),
		[]Card{up(SuitHearts, 5)},
		[]Card{up(SuitClubs, 10), up(SuitClubs, 6)},
	)
	before := cloneSnapshot(g.GameSnapshot)

	tests := []struct {
		name string
		pick Pick
		to   int
	}{
		{"same column", Pick{0, 1}, 0},
		{"face-down pick", Pick{0, 0}, 3},
		{"index out of range", Pick{0, 3}, 3},
		{"negative index", Pick{0, -1}, 3},
		{"source out of range", Pick{12, 0}, 3},
		{"target out of range", Pick{1, 0}, 10},
		{"rank mismatch", Pick{1, 0}, 0},
		{"rank gap in stack", Pick{2, 0}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := g.MoveStack(tt.pick, tt.to)
			if ok {
				t.Fatal("move accepted")
			}
			if diff := cmp.Diff(before, next.GameSnapshot); diff != "" {
				t.Errorf("state changed (-want +got):\n%s", diff)
			}
			if len(next.History) != 0 {
				t.Error("history pushed on a rejected move")
			}
			again, ok := next.MoveStack(tt.pick, tt.to)
			if ok || !cmp.Equal(next.GameSnapshot, again.GameSnapshot) {
				t.Error("second identical call was not a no-op")
			}
		})
	}
}

// TestMoveStackRevealsAndPreservesIdentity checks the core move semantics.
func TestMoveStackRevealsAndPreservesIdentity(t *testing.T) {
	hidden := down(SuitHearts, 3)
	g := fixture(
		cat([]Card{hidden}, []Card{up(SuitSpades, 8), up(SuitHearts, 7)}),
		[]Card{up(SuitClubs, 9)},
	)
	moving := append([]Card(nil), g.Columns[0][1:]...)
	before := cloneSnapshot(g.GameSnapshot)

	next := mustMove(t, g, Pick{FromColumn: 0, FromIndex: 1}, 1)

	if len(next.Columns[0]) != 1 || next.Columns[0][0].ID != hidden.ID || !next.Columns[0][0].FaceUp {
		t.Errorf("source column = %+v, want revealed %s", next.Columns[0], hidden.Label())
	}
	got := next.Columns[1]
	if len(got) != 3 {
		t.Fatalf("target column len = %d, want 3", len(got))
	}
	for i, c := range moving {
		if got[i+1].ID != c.ID {
			t.Errorf("target[%d] id changed", i+1)
		}
	}
	if len(next.History) != 1 {
		t.Fatalf("history len = %d, want 1", len(next.History))
	}
	if diff := cmp.Diff(before, next.History[0]); diff != "" {
		t.Errorf("history snapshot differs from the pre-move state (-want +got):\n%s", diff)
	}
	// The caller's state is untouched.
	if diff := cmp.Diff(before, g.GameSnapshot); diff != "" {
		t.Errorf("input state mutated (-want +got):\n%s", diff)
	}
}

// TestMoveStackToEmptyColumn verifies any stack can go to an empty column.
func TestMoveStackToEmptyColumn(t *testing.T) {
	g := fixture(
		[]Card{up(SuitSpades, 8), up(SuitHearts, 7)},
	)
	next := mustMove(t, g, Pick{FromColumn: 0, FromIndex: 0}, 5)
	if len(next.Columns[0]) != 0 || len(next.Columns[5]) != 2 {
		t.Errorf("columns after move: %d / %d", len(next.Columns[0]), len(next.Columns[5]))
	}
}

// TestMoveStackSharedBacking verifies appends never leak between states that
// share column storage.
func TestMoveStackSharedBacking(t *testing.T) {
	base := make([]Card, 1, 8)
	base[0] = up(SuitSpades, 9)
	g := fixture(
		base,
		[]Card{up(SuitHearts, 8)},
		[]Card{up(SuitClubs, 8)},
	)
	a := mustMove(t, g, Pick{FromColumn: 1, FromIndex: 0}, 0)
	b := mustMove(t, g, Pick{FromColumn: 2, FromIndex: 0}, 0)
	if a.Columns[0][1].Suit != SuitHearts {
		t.Errorf("state a sees %s on column 0", a.Columns[0][1].Label())
	}
	if b.Columns[0][1].Suit != SuitClubs {
		t.Errorf("state b sees %s on column 0", b.Columns[0][1].Label())
	}
}

// TestDealFromStock verifies one face-up card per column from the stock front.
func TestDealFromStock(t *testing.T) {
	g := newSeeded(t, 42)
	front := append([]Card(nil), g.Stock[:DealSize]...)

	next, ok := g.DealFromStock()
	if !ok {
		t.Fatal("deal rejected")
	}
	if len(next.Stock) != 40 {
		t.Errorf("stock = %d, want 40", len(next.Stock))
	}
	if len(next.History) != 1 {
		t.Errorf("history = %d, want 1", len(next.History))
	}
	for i := 0; i < NumColumns; i++ {
		col := next.Columns[i]
		top := col[len(col)-1]
		if top.ID != front[i].ID || !top.FaceUp {
			t.Errorf("column %d top = %+v, want face-up %s", i, top, front[i].Label())
		}
		if len(col) != len(g.Columns[i])+1 {
			t.Errorf("column %d grew by %d", i, len(col)-len(g.Columns[i]))
		}
	}
	if g.Stock[0].FaceUp {
		t.Error("deal flipped a card in the caller's stock")
	}
	if next.CardCount() != DeckSize {
		t.Errorf("CardCount = %d", next.CardCount())
	}
}

// TestDealFromStockShortStock verifies a deal with fewer than ten cards is a no-op.
func TestDealFromStockShortStock(t *testing.T) {
	g := newSeeded(t, 3)
	g.Stock = g.Stock[:5]
	next, ok := g.DealFromStock()
	if ok {
		t.Fatal("deal accepted with 5 stock cards")
	}
	if !cmp.Equal(g.GameSnapshot, next.GameSnapshot) || len(next.History) != 0 {
		t.Error("state changed on rejected deal")
	}
}

// TestUndoRoundTrip verifies undo restores the board and bumps the counter.
func TestUndoRoundTrip(t *testing.T) {
	g := newSeeded(t, 11)
	dealt, ok := g.DealFromStock()
	if !ok {
		t.Fatal("deal rejected")
	}
	restored, ok := dealt.Undo()
	if !ok {
		t.Fatal("undo rejected")
	}

	want := cloneSnapshot(g.GameSnapshot)
	want.UndoUsed = 1
	if diff := cmp.Diff(want, restored.GameSnapshot); diff != "" {
		t.Errorf("undo mismatch (-want +got):\n%s", diff)
	}
	if len(restored.History) != 0 {
		t.Errorf("history = %d, want 0", len(restored.History))
	}
}

// TestUndoCounterCarriesForward checks undoUsed comes from the current state,
// not the restored snapshot.
func TestUndoCounterCarriesForward(t *testing.T) {
	g := fixture(
		[]Card{up(SuitSpades, 9)},
		[]Card{up(SuitHearts, 8)},
		[]Card{up(SuitClubs, 7)},
	)
	s1 := mustMove(t, g, Pick{FromColumn: 1, FromIndex: 0}, 0) // history: [g]
	s2 := mustMove(t, s1, Pick{FromColumn: 2, FromIndex: 0}, 0)
	u1, _ := s2.Undo()
	if u1.UndoUsed != 1 {
		t.Fatalf("UndoUsed = %d, want 1", u1.UndoUsed)
	}
	s3 := mustMove(t, u1, Pick{FromColumn: 2, FromIndex: 0}, 0)
	u2, _ := s3.Undo()
	if u2.UndoUsed != 2 {
		t.Errorf("UndoUsed = %d, want 2", u2.UndoUsed)
	}
	u3, _ := u2.Undo()
	if u3.UndoUsed != 3 {
		t.Errorf("UndoUsed = %d, want 3", u3.UndoUsed)
	}
	if len(u3.Columns[0]) != 1 {
		t.Errorf("third undo should restore the original board, column 0 len = %d", len(u3.Columns[0]))
	}
}

// TestUndoBudget verifies the fourth undo is a no-op even with history left.
func TestUndoBudget(t *testing.T) {
	g := newSeeded(t, 8)
	for i := 0; i < 5; i++ {
		var ok bool
		if g, ok = g.DealFromStock(); !ok {
			t.Fatalf("deal %d rejected", i)
		}
	}
	for i := 0; i < 3; i++ {
		var ok bool
		if g, ok = g.Undo(); !ok {
			t.Fatalf("undo %d rejected", i+1)
		}
	}
	if len(g.History) != 2 {
		t.Fatalf("history = %d, want 2", len(g.History))
	}
	next, ok := g.Undo()
	if ok {
		t.Fatal("fourth undo accepted")
	}
	if !cmp.Equal(g.GameSnapshot, next.GameSnapshot) {
		t.Error("fourth undo changed the state")
	}
	if g.CanUndo() || g.UndosLeft() != 0 {
		t.Error("CanUndo/UndosLeft should report the spent budget")
	}
}

// TestUndoEmptyHistory verifies undo with no history is a no-op.
func TestUndoEmptyHistory(t *testing.T) {
	g := newSeeded(t, 2)
	if _, ok := g.Undo(); ok {
		t.Error("undo accepted with empty history")
	}
}

// TestUndoCustomBudget verifies Rules.MaxUndos is honored.
func TestUndoCustomBudget(t *testing.T) {
	g := NewSeededGame(OneSuit, 4, Rules{MaxUndos: 1})
	g, _ = g.DealFromStock()
	g, _ = g.DealFromStock()
	g, ok := g.Undo()
	if !ok {
		t.Fatal("first undo rejected")
	}
	if _, ok := g.Undo(); ok {
		t.Error("second undo accepted with MaxUndos=1")
	}
}

// TestAutoClearOnMove verifies a completed run leaves the column and reveals
// the card beneath it.
func TestAutoClearOnMove(t *testing.T) {
	below := down(SuitClubs, 5)
	g := fixture(
		cat([]Card{below}, run(SuitHearts, RankKing, 2)),
		[]Card{up(SuitDiamonds, 9), up(SuitHearts, RankAce)},
	)
	next := mustMove(t, g, Pick{FromColumn: 1, FromIndex: 1}, 0)

	if len(next.Foundation) != 1 {
		t.Fatalf("foundation = %d, want 1", len(next.Foundation))
	}
	pile := next.Foundation[0]
	if !isCompleteRun(pile) {
		t.Error("foundation pile is not a K..A run")
	}
	if len(next.Columns[0]) != 1 || next.Columns[0][0].ID != below.ID || !next.Columns[0][0].FaceUp {
		t.Errorf("column 0 = %+v, want revealed %s", next.Columns[0], below.Label())
	}
	if len(next.Columns[1]) != 1 || !next.Columns[1][0].FaceUp {
		t.Errorf("column 1 = %+v", next.Columns[1])
	}
	if next.Status != StatusPlaying {
		t.Errorf("status = %s after one run", next.Status)
	}
}

// TestAutoClearOnDeal verifies a dealt card can complete a run.
func TestAutoClearOnDeal(t *testing.T) {
	g := fixture(run(SuitSpades, RankKing, 2))
	for i := 1; i < NumColumns; i++ {
		g.Columns[i] = []Card{up(SuitClubs, 5)}
	}
	g.Stock = []Card{down(SuitSpades, RankAce)}
	for i := 1; i < NumColumns; i++ {
		g.Stock = append(g.Stock, down(SuitDiamonds, 9))
	}

	next, ok := g.DealFromStock()
	if !ok {
		t.Fatal("deal rejected")
	}
	if len(next.Foundation) != 1 || len(next.Columns[0]) != 0 {
		t.Errorf("foundation = %d, column 0 = %d", len(next.Foundation), len(next.Columns[0]))
	}
}

// TestAutoClearRequiresSameSuit verifies a mixed-suit K..A stays put.
func TestAutoClearRequiresSameSuit(t *testing.T) {
	col := run(SuitHearts, RankKing, 2)
	col[4].Suit = SuitDiamonds
	g := fixture(col, []Card{up(SuitHearts, RankAce)})
	next := mustMove(t, g, Pick{FromColumn: 1, FromIndex: 0}, 0)
	if len(next.Foundation) != 0 || len(next.Columns[0]) != RunLength {
		t.Errorf("mixed run cleared: foundation=%d column=%d", len(next.Foundation), len(next.Columns[0]))
	}
}

// TestAutoClearMultiple verifies the rescan clears every completed column.
func TestAutoClearMultiple(t *testing.T) {
	g := fixture(
		run(SuitSpades, RankKing, RankAce),
		run(SuitHearts, RankKing, RankAce),
		[]Card{up(SuitClubs, 4)},
		[]Card{up(SuitClubs, 3)},
	)
	next := mustMove(t, g, Pick{FromColumn: 3, FromIndex: 0}, 2)
	if len(next.Foundation) != 2 {
		t.Errorf("foundation = %d, want 2", len(next.Foundation))
	}
}

// TestWinCondition verifies the game is won exactly on the eighth run.
func TestWinCondition(t *testing.T) {
	g := fixture(
		run(SuitSpades, RankKing, 2),
		[]Card{up(SuitSpades, RankAce)},
		run(SuitHearts, RankKing, 2),
		[]Card{up(SuitHearts, RankAce)},
	)
	g.Foundation = fullPiles(6)

	seven := mustMove(t, g, Pick{FromColumn: 1, FromIndex: 0}, 0)
	if len(seven.Foundation) != 7 || seven.Status != StatusPlaying {
		t.Fatalf("after 7th run: foundation=%d status=%s", len(seven.Foundation), seven.Status)
	}
	won := mustMove(t, seven, Pick{FromColumn: 3, FromIndex: 0}, 2)
	if len(won.Foundation) != NumRuns || won.Status != StatusWon {
		t.Fatalf("after 8th run: foundation=%d status=%s", len(won.Foundation), won.Status)
	}
	if !won.IsWon() {
		t.Error("IsWon = false")
	}
}

// TestWonGameIsTerminal verifies moves and deals are rejected once won.
func TestWonGameIsTerminal(t *testing.T) {
	g := fixture(
		[]Card{up(SuitSpades, 9)},
		[]Card{up(SuitSpades, 8)},
	)
	g.Stock = run(SuitClubs, 10, RankAce)
	g.Status = StatusWon

	if _, ok := g.MoveStack(Pick{FromColumn: 1, FromIndex: 0}, 0); ok {
		t.Error("move accepted on won game")
	}
	if _, ok := g.DealFromStock(); ok {
		t.Error("deal accepted on won game")
	}
}

// TestApply verifies Apply is MoveStack for a Move.
func TestApply(t *testing.T) {
	g := fixture(
		[]Card{up(SuitSpades, 9)},
		[]Card{up(SuitSpades, 8)},
	)
	m := Move{FromColumn: 1, FromIndex: 0, ToColumn: 0}
	a, okA := g.Apply(m)
	b, okB := g.MoveStack(m.Pick(), m.ToColumn)
	if !okA || !okB || !cmp.Equal(a.GameSnapshot, b.GameSnapshot) {
		t.Error("Apply and MoveStack disagree")
	}
}
