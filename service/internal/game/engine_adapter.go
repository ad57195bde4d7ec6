// internal/game/engine_adapter.go
package game

import (
	"github.com/sirupsen/logrus"

	engine "github.com/yaguri-afk/spider-solitaire/engine"
)

// Rejection reasons sent with EventMoveRejected.
const (
	ReasonClosed    = "game_closed"
	ReasonNotActive = "game_not_active"
	ReasonIllegal   = "illegal_move"
	ReasonStock     = "stock_too_small"
	ReasonNoHistory = "nothing_to_undo"
	ReasonNoUndos   = "undo_limit_reached"
)

// MoveStack moves the stack starting at m.FromIndex of m.FromColumn onto
// m.ToColumn. A running autocomplete is cancelled first.
func (g *SpiderGame) MoveStack(m engine.Move) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.cancelAutoCompleteLocked()
	return g.applyMoveLocked(m, false)
}

// applyMoveLocked applies one stack move and broadcasts the result. Caller
// holds Mu.
func (g *SpiderGame) applyMoveLocked(m engine.Move, auto bool) bool {
	if g.closed {
		g.rejectLocked("move", ReasonClosed, &m)
		return false
	}
	prev := g.Engine
	next, ok := prev.Apply(m)
	if !ok {
		reason := ReasonIllegal
		if prev.Status != engine.StatusPlaying {
			reason = ReasonNotActive
		}
		g.rejectLocked("move", reason, &m)
		return false
	}
	g.Engine = next
	g.Moves++
	g.log.WithFields(logrus.Fields{
		"from": m.FromColumn, "index": m.FromIndex, "to": m.ToColumn, "auto": auto,
	}).Debug("Stack moved.")
	g.fireEvent(GameEvent{Type: EventStackMoved, Move: &m, Payload: map[string]interface{}{
		"cards": len(prev.Columns[m.FromColumn]) - m.FromIndex,
		"auto":  auto,
	}})
	g.afterActionLocked(prev, true)
	return true
}

// Deal deals one card from the stock onto every column.
func (g *SpiderGame) Deal() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.cancelAutoCompleteLocked()
	if g.closed {
		g.rejectLocked("deal", ReasonClosed, nil)
		return false
	}
	prev := g.Engine
	next, ok := prev.DealFromStock()
	if !ok {
		reason := ReasonStock
		if prev.Status != engine.StatusPlaying {
			reason = ReasonNotActive
		}
		g.rejectLocked("deal", reason, nil)
		return false
	}
	g.Engine = next
	g.Deals++
	g.log.WithField("stock", len(next.Stock)).Debug("Stock dealt.")
	g.fireEvent(GameEvent{Type: EventStockDealt, Payload: map[string]interface{}{
		"stock": len(next.Stock),
	}})
	g.afterActionLocked(prev, true)
	return true
}

// Undo restores the board before the last move or deal. A won game is
// finished and cannot be undone.
func (g *SpiderGame) Undo() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.cancelAutoCompleteLocked()
	if g.closed {
		g.rejectLocked("undo", ReasonClosed, nil)
		return false
	}
	prev := g.Engine
	if prev.Status != engine.StatusPlaying {
		g.rejectLocked("undo", ReasonNotActive, nil)
		return false
	}
	next, ok := prev.Undo()
	if !ok {
		reason := ReasonNoUndos
		if len(prev.History) == 0 {
			reason = ReasonNoHistory
		}
		g.rejectLocked("undo", reason, nil)
		return false
	}
	g.Engine = next
	g.log.WithField("undos_left", next.UndosLeft()).Debug("Undo.")
	g.fireEvent(GameEvent{Type: EventUndo, Payload: map[string]interface{}{
		"undosLeft": next.UndosLeft(),
	}})
	// Undoing back to a board already seen is not a loop.
	g.afterActionLocked(prev, false)
	return true
}

func (g *SpiderGame) rejectLocked(action, reason string, m *engine.Move) {
	g.log.WithFields(logrus.Fields{"action": action, "reason": reason}).Debug("Action rejected.")
	g.fireEvent(GameEvent{Type: EventMoveRejected, Move: m, Payload: map[string]interface{}{
		"action": action,
		"reason": reason,
	}})
}

// afterActionLocked inspects the board after an accepted action: completed
// runs, win, stuck and loop detection. A sync_state event always follows.
func (g *SpiderGame) afterActionLocked(prev engine.GameState, countVisit bool) {
	cur := g.Engine

	for i := len(prev.Foundation); i < len(cur.Foundation); i++ {
		pile := cur.Foundation[i]
		g.fireEvent(GameEvent{Type: EventRunCompleted, Payload: map[string]interface{}{
			"suit":       pile[0].Suit.String(),
			"foundation": i + 1,
		}})
	}

	if cur.IsWon() {
		if !prev.IsWon() {
			g.log.WithFields(logrus.Fields{"moves": g.Moves, "deals": g.Deals}).Info("Game won.")
			g.fireEvent(GameEvent{Type: EventGameWon, Payload: map[string]interface{}{
				"moves": g.Moves,
				"deals": g.Deals,
			}})
			g.endLocked(OutcomeWon)
		}
		g.broadcastSyncState()
		return
	}

	stuck := !engine.HasAnyMove(cur)
	if stuck && !g.stuck {
		g.log.Info("Game stuck.")
		g.fireEvent(GameEvent{Type: EventGameStuck, Payload: map[string]interface{}{
			"undosLeft": cur.UndosLeft(),
		}})
	}
	g.stuck = stuck

	if countVisit {
		sig := engine.StateSignature(cur)
		g.seen[sig]++
		if g.seen[sig] >= g.LoopThreshold && !g.looping {
			g.looping = true
			g.log.WithField("repeats", g.seen[sig]).Info("Game looping.")
			g.fireEvent(GameEvent{Type: EventGameLooping, Payload: map[string]interface{}{
				"repeats": g.seen[sig],
			}})
		}
	}

	g.broadcastSyncState()
}
