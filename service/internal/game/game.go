// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/yaguri-afk/spider-solitaire/engine"
	"github.com/yaguri-afk/spider-solitaire/engine/agent"
	"github.com/yaguri-afk/spider-solitaire/service/internal/config"
)

// Outcome describes how a game ended.
type Outcome string

const (
	OutcomeWon       Outcome = "won"
	OutcomeAbandoned Outcome = "abandoned" // replaced by a new game or closed before winning
)

// OnGameEndFunc is called once per game when it is won or abandoned.
// It runs with the game lock held and must not call back into the game.
type OnGameEndFunc func(gameID uuid.UUID, outcome Outcome, moves int)

// GameEventType represents the type of a game-related event sent to the client.
type GameEventType string

// Constants defining the GameEvent types used for WebSocket communication.
const (
	EventGameStarted           GameEventType = "game_started"
	EventStackMoved            GameEventType = "stack_moved"
	EventStockDealt            GameEventType = "stock_dealt"
	EventUndo                  GameEventType = "undo"
	EventMoveRejected          GameEventType = "move_rejected" // Any rejected move, deal or undo.
	EventRunCompleted          GameEventType = "run_completed" // A K..A run went to the foundation.
	EventGameWon               GameEventType = "game_won"      // All eight runs completed.
	EventGameStuck             GameEventType = "game_stuck"    // No legal move and no stock left.
	EventGameLooping           GameEventType = "game_looping"  // The same board keeps coming back.
	EventAutoCompleteStarted   GameEventType = "auto_complete_started"
	EventAutoCompleteFinished  GameEventType = "auto_complete_finished"
	EventAutoCompleteCancelled GameEventType = "auto_complete_cancelled"
	EventHint                  GameEventType = "hint"
	EventSyncState             GameEventType = "sync_state"
	EventError                 GameEventType = "error"
)

// GameEvent is the standard structure for broadcasting game state changes and actions.
type GameEvent struct {
	Type GameEventType `json:"type"`
	Move *engine.Move  `json:"move,omitempty"` // Stack move involved, if any.

	Payload map[string]interface{} `json:"payload,omitempty"` // Additional arbitrary data.

	State *ObfGameState `json:"state,omitempty"` // Client view for sync events.
}

var (
	ErrAutoCompleteRunning = errors.New("autocomplete already running")
	ErrNothingToComplete   = errors.New("no autocomplete moves")
	ErrGameClosed          = errors.New("game closed")
)

// Options configures a SpiderGame. Zero values fall back to defaults.
type Options struct {
	Difficulty    engine.Difficulty
	Rules         engine.Rules
	StepDelay     time.Duration // Pause between autocomplete moves.
	LoopThreshold int           // Repeats of one board before game_looping, default 3.
	Seed          uint64        // Non-zero makes deals reproducible.
	Logger        *logrus.Logger
}

// SpiderGame is one player's Spider Solitaire session. It owns the
// authoritative engine state and serializes every action through Mu.
type SpiderGame struct {
	ID uuid.UUID // Changes on every new deal.

	Engine engine.GameState // The authoritative game state.
	Rules  engine.Rules

	Moves int // Successful stack moves in this deal.
	Deals int // Successful stock deals in this deal.

	StepDelay     time.Duration
	LoopThreshold int

	seed     uint64
	dealt    int            // Games dealt by this session, mixes into seed.
	seen     map[string]int // Board signature -> times reached.
	stuck    bool           // game_stuck already sent for the current board.
	looping  bool
	finished bool // OnGameEnd already called for this deal.
	closed   bool

	autoCancel context.CancelFunc
	autoRun    int

	Mu sync.Mutex // Protects all fields above.

	BroadcastFn func(ev GameEvent) // Sends an event to the connected client.
	OnGameEnd   OnGameEndFunc

	base *logrus.Logger
	log  *logrus.Entry
}

// NewSpiderGame creates a session and deals its first game. Call Start once
// BroadcastFn is set to announce it.
func NewSpiderGame(opts Options) *SpiderGame {
	if !opts.Difficulty.Valid() {
		opts.Difficulty = engine.OneSuit
	}
	if opts.Rules == (engine.Rules{}) {
		opts.Rules = engine.DefaultRules()
	}
	if opts.LoopThreshold <= 0 {
		opts.LoopThreshold = 3
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	g := &SpiderGame{
		Rules:         opts.Rules,
		StepDelay:     opts.StepDelay,
		LoopThreshold: opts.LoopThreshold,
		seed:          opts.Seed,
		base:          opts.Logger,
	}
	g.deal(opts.Difficulty)
	return g
}

// deal replaces the engine state with a fresh game. Caller holds Mu or owns g.
func (g *SpiderGame) deal(d engine.Difficulty) {
	if g.seed != 0 {
		g.Engine = engine.NewSeededGame(d, g.seed+uint64(g.dealt), g.Rules)
	} else {
		g.Engine = engine.NewGame(d)
		g.Engine.Rules = g.Rules
	}
	g.dealt++
	g.ID = uuid.New()
	g.Moves, g.Deals = 0, 0
	g.seen = map[string]int{engine.StateSignature(g.Engine): 1}
	g.stuck, g.looping, g.finished = false, false, false
	g.log = g.base.WithFields(logrus.Fields{
		"game_id":    g.ID,
		"difficulty": int(d),
	})
}

// Start announces the current deal to the client.
func (g *SpiderGame) Start() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.log.Info("Game started.")
	g.fireEvent(GameEvent{Type: EventGameStarted, Payload: map[string]interface{}{
		"difficulty": int(g.Engine.Difficulty),
	}})
	g.broadcastSyncState()
}

// NewGame abandons the current deal and starts another.
func (g *SpiderGame) NewGame(d engine.Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %d", config.ErrInvalidDifficulty, d)
	}
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return ErrGameClosed
	}
	g.cancelAutoCompleteLocked()
	g.endLocked(OutcomeAbandoned)
	g.deal(d)
	g.log.Info("Game started.")
	g.fireEvent(GameEvent{Type: EventGameStarted, Payload: map[string]interface{}{
		"difficulty": int(d),
	}})
	g.broadcastSyncState()
	return nil
}

// Close stops any running autocomplete and reports an unfinished deal as
// abandoned. Later actions are rejected.
func (g *SpiderGame) Close() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return
	}
	g.cancelAutoCompleteLocked()
	g.endLocked(OutcomeAbandoned)
	g.closed = true
	g.log.Debug("Game closed.")
}

// endLocked reports the end of the current deal once. An untouched deal is not
// reported as abandoned.
func (g *SpiderGame) endLocked(outcome Outcome) {
	if g.finished {
		return
	}
	if outcome == OutcomeAbandoned && (g.Engine.IsWon() || g.Moves+g.Deals == 0) {
		return
	}
	g.finished = true
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, outcome, g.Moves)
	}
}

// SyncState sends the current client view.
func (g *SpiderGame) SyncState() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.broadcastSyncState()
}

// Hint suggests the next action and sends it as a hint event.
func (g *SpiderGame) Hint() (agent.Action, bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	a, ok := agent.Hint(g.Engine)
	ev := GameEvent{Type: EventHint, Payload: map[string]interface{}{"action": a.Type.String()}}
	if ok && a.Type == agent.ActionMove {
		m := a.Move
		ev.Move = &m
	}
	g.fireEvent(ev)
	return a, ok
}

// fireEvent sends an event via the BroadcastFn callback.
func (g *SpiderGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	} else {
		g.log.WithField("event", ev.Type).Warn("BroadcastFn is nil, dropping event.")
	}
}

// broadcastSyncState sends the obfuscated view. Caller holds Mu.
func (g *SpiderGame) broadcastSyncState() {
	st := g.obfuscatedStateLocked()
	g.fireEvent(GameEvent{Type: EventSyncState, State: &st})
}
