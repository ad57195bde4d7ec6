package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// splitBoard returns eight columns each holding a full single-suit K..A run
// and two empty columns.
func splitBoard() GameState {
	var cols [][]Card
	for i := 0; i < NumRuns; i++ {
		cols = append(cols, run(Suit(i%4), RankKing, RankAce))
	}
	return fixture(cols...)
}

// TestAutoCompleteSplitBoard drives the fully-split board to a win.
func TestAutoCompleteSplitBoard(t *testing.T) {
	g := splitBoard()
	moves := BuildAutoCompleteSequence(g)
	if len(moves) == 0 || len(moves) > NumRuns {
		t.Fatalf("got %d moves, want 1..%d", len(moves), NumRuns)
	}

	end, applied := Replay(g, moves)
	if applied != len(moves) {
		t.Fatalf("replay applied %d of %d moves", applied, len(moves))
	}
	if end.Status != StatusWon || len(end.Foundation) != NumRuns {
		t.Errorf("status=%s foundation=%d after replay", end.Status, len(end.Foundation))
	}
}

// TestAutoCompleteSameSuitMerge verifies the planner joins split runs.
func TestAutoCompleteSameSuitMerge(t *testing.T) {
	g := fixture(
		run(SuitSpades, RankKing, 7),
		run(SuitSpades, 6, RankAce),
	)
	moves := BuildAutoCompleteSequence(g)
	want := []Move{{FromColumn: 1, FromIndex: 0, ToColumn: 0}}
	if diff := cmp.Diff(want, moves); diff != "" {
		t.Fatalf("moves (-want +got):\n%s", diff)
	}
	end, _ := Replay(g, moves)
	if len(end.Foundation) != 1 {
		t.Errorf("foundation = %d, want 1", len(end.Foundation))
	}
}

// TestAutoCompletePrefersSameSuitTarget verifies a same-suit target wins over
// an earlier off-suit one.
func TestAutoCompletePrefersSameSuitTarget(t *testing.T) {
	g := blocked()
	g.Columns[0] = []Card{up(SuitHearts, 8)}
	g.Columns[1] = []Card{up(SuitSpades, 8)}
	g.Columns[2] = []Card{up(SuitSpades, 7)}

	m, ok := nextAutoCompleteMove(g.Columns)
	if !ok {
		t.Fatal("no move found")
	}
	want := Move{FromColumn: 2, FromIndex: 0, ToColumn: 1}
	if m != want {
		t.Errorf("move = %+v, want %+v", m, want)
	}
}

// TestAutoCompleteKingToEmpty verifies a king-led run is moved into an empty
// column when no merge exists.
func TestAutoCompleteKingToEmpty(t *testing.T) {
	g := blocked()
	g.Columns[0] = []Card{down(SuitClubs, 3), up(SuitHearts, RankKing), up(SuitHearts, RankQueen)}
	g.Columns[1] = []Card{up(SuitDiamonds, 5)}
	g.Columns[9] = nil

	moves := BuildAutoCompleteSequence(g)
	want := []Move{{FromColumn: 0, FromIndex: 1, ToColumn: 9}}
	if diff := cmp.Diff(want, moves); diff != "" {
		t.Fatalf("moves (-want +got):\n%s", diff)
	}
	end, _ := Replay(g, moves)
	if top, _ := end.Columns.Top(0); !top.FaceUp || top.Rank != 3 {
		t.Errorf("column 0 top = %+v, want revealed 3", top)
	}
}

// TestAutoCompleteFallbackAndCap verifies the any-move fallback and that a
// cycling board stops at the iteration cap.
func TestAutoCompleteFallbackAndCap(t *testing.T) {
	g := blocked()
	g.Columns[0] = []Card{up(SuitSpades, 9)}
	g.Columns[1] = []Card{up(SuitHearts, 8)}

	first, ok := nextAutoCompleteMove(g.Columns)
	if !ok || first != (Move{FromColumn: 1, FromIndex: 0, ToColumn: 0}) {
		t.Fatalf("first move = %+v, %v", first, ok)
	}

	// After the off-suit merge the 9-8 pair shuttles through the empty column.
	moves := BuildAutoCompleteSequence(g)
	if len(moves) != 500 {
		t.Errorf("got %d moves, want the 500 cap", len(moves))
	}

	g.Rules.AutoCompleteLimit = 600
	if got := len(BuildAutoCompleteSequence(g)); got != 600 {
		t.Errorf("got %d moves with limit 600", got)
	}
}

// TestAutoCompleteNoMove verifies an empty plan for a stuck or won board.
func TestAutoCompleteNoMove(t *testing.T) {
	if moves := BuildAutoCompleteSequence(blocked()); len(moves) != 0 {
		t.Errorf("blocked board planned %d moves", len(moves))
	}
	won := splitBoard()
	won.Status = StatusWon
	if moves := BuildAutoCompleteSequence(won); len(moves) != 0 {
		t.Errorf("won board planned %d moves", len(moves))
	}
}

// TestAutoCompleteLeavesInputAlone verifies planning does not touch the input.
func TestAutoCompleteLeavesInputAlone(t *testing.T) {
	g := fixture(
		run(SuitSpades, RankKing, 7),
		run(SuitSpades, 6, RankAce),
	)
	before := cloneSnapshot(g.GameSnapshot)
	BuildAutoCompleteSequence(g)
	if diff := cmp.Diff(before, g.GameSnapshot); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}

// TestReplayStopsAtRejectedMove verifies Replay reports the applied prefix.
func TestReplayStopsAtRejectedMove(t *testing.T) {
	g := fixture(
		[]Card{up(SuitSpades, 9)},
		[]Card{up(SuitSpades, 8)},
	)
	moves := []Move{
		{FromColumn: 1, FromIndex: 0, ToColumn: 0},
		{FromColumn: 1, FromIndex: 0, ToColumn: 0},
	}
	end, n := Replay(g, moves)
	if n != 1 {
		t.Errorf("applied = %d, want 1", n)
	}
	if len(end.Columns[0]) != 2 {
		t.Errorf("column 0 len = %d, want 2", len(end.Columns[0]))
	}
}
