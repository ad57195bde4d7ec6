// internal/game/autocomplete.go
package game

import (
	"context"
	"fmt"
	"time"

	engine "github.com/yaguri-afk/spider-solitaire/engine"
)

// AutoComplete plans a finishing sequence and replays it one move per
// StepDelay, broadcasting every step. It blocks until the plan is exhausted,
// ctx is done, or another action cancels it. A plan that only shuffles
// stacks back and forth is cut short at the first repeated board.
func (g *SpiderGame) AutoComplete(ctx context.Context) error {
	g.Mu.Lock()
	if g.closed {
		g.Mu.Unlock()
		return ErrGameClosed
	}
	if g.autoCancel != nil {
		g.Mu.Unlock()
		return ErrAutoCompleteRunning
	}
	plan := engine.BuildAutoCompleteSequence(g.Engine)
	if len(plan) == 0 {
		g.Mu.Unlock()
		return ErrNothingToComplete
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g.autoRun++
	run := g.autoRun
	g.autoCancel = cancel
	visited := map[string]bool{engine.StateSignature(g.Engine): true}
	wasLooping := g.looping
	g.log.WithField("moves", len(plan)).Info("Autocomplete started.")
	g.fireEvent(GameEvent{Type: EventAutoCompleteStarted, Payload: map[string]interface{}{
		"moves": len(plan),
	}})
	g.Mu.Unlock()

	var timer *time.Timer
	if g.StepDelay > 0 {
		timer = time.NewTimer(g.StepDelay)
		defer timer.Stop()
	}

	applied := 0
	for _, m := range plan {
		if timer != nil {
			select {
			case <-ctx.Done():
				return g.finishAutoComplete(ctx, run, applied, len(plan))
			case <-timer.C:
				timer.Reset(g.StepDelay)
			}
		}

		g.Mu.Lock()
		if ctx.Err() != nil || g.autoRun != run {
			g.Mu.Unlock()
			return g.finishAutoComplete(ctx, run, applied, len(plan))
		}
		ok := g.applyMoveLocked(m, true)
		repeated := false
		if ok {
			sig := engine.StateSignature(g.Engine)
			repeated = visited[sig] || (g.looping && !wasLooping)
			visited[sig] = true
		}
		g.Mu.Unlock()
		if !ok {
			// The board changed under the plan; stop rather than guess.
			break
		}
		applied++
		if repeated {
			g.log.WithField("applied", applied).Info("Autocomplete is going in circles.")
			break
		}
	}
	return g.finishAutoComplete(ctx, run, applied, len(plan))
}

// finishAutoComplete clears the running marker and reports how the replay
// ended.
func (g *SpiderGame) finishAutoComplete(ctx context.Context, run, applied, planned int) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.autoRun == run {
		g.autoCancel = nil
	}
	payload := map[string]interface{}{
		"applied": applied,
		"planned": planned,
		"won":     g.Engine.IsWon(),
	}
	if err := ctx.Err(); err != nil {
		g.log.WithField("applied", applied).Info("Autocomplete cancelled.")
		g.fireEvent(GameEvent{Type: EventAutoCompleteCancelled, Payload: payload})
		return fmt.Errorf("autocomplete after %d of %d moves: %w", applied, planned, err)
	}
	g.log.WithFields(payload).Info("Autocomplete finished.")
	g.fireEvent(GameEvent{Type: EventAutoCompleteFinished, Payload: payload})
	g.broadcastSyncState()
	return nil
}

// CancelAutoComplete stops a running autocomplete. It reports whether one
// was running.
func (g *SpiderGame) CancelAutoComplete() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.cancelAutoCompleteLocked()
}

func (g *SpiderGame) cancelAutoCompleteLocked() bool {
	if g.autoCancel == nil {
		return false
	}
	g.autoCancel()
	g.autoCancel = nil
	return true
}
