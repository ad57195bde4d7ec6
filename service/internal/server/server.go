// Package server exposes Spider sessions over WebSocket: one game per
// socket, JSON commands in, game events out.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	engine "github.com/yaguri-afk/spider-solitaire/engine"
	"github.com/yaguri-afk/spider-solitaire/service/internal/config"
	"github.com/yaguri-afk/spider-solitaire/service/internal/game"
)

// Client command types.
const (
	CmdSync         = "sync"
	CmdMove         = "move"
	CmdDeal         = "deal"
	CmdUndo         = "undo"
	CmdNewGame      = "new_game"
	CmdAutoComplete = "auto_complete"
	CmdCancelAuto   = "cancel_auto"
	CmdHint         = "hint"
)

const writeTimeout = 5 * time.Second

// Command is the client message envelope. Only the fields its Type needs
// are read.
type Command struct {
	Type       string `json:"type"`
	FromColumn int    `json:"fromColumn"`
	FromIndex  int    `json:"fromIndex"`
	ToColumn   int    `json:"toColumn"`
	Difficulty int    `json:"difficulty,omitempty"` // new_game only; 0 means the configured default
}

// Server serves game sessions.
type Server struct {
	cfg   config.Config
	log   *logrus.Logger
	allow map[string]bool

	sessions  atomic.Int64
	won       atomic.Int64
	abandoned atomic.Int64
}

// New creates a Server. cfg should already be validated.
func New(cfg config.Config, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Server{cfg: cfg, log: logger, allow: make(map[string]bool)}
	for _, o := range cfg.AllowedOrigins {
		s.allow[o] = true
	}
	return s
}

// Routes returns the HTTP handler: /ws for games and /healthz.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	mux.HandleFunc("/healthz", s.serveHealth)
	return mux
}

type health struct {
	Status    string `json:"status"`
	Sessions  int64  `json:"sessions"`
	Won       int64  `json:"won"`
	Abandoned int64  `json:"abandoned"`
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(health{
		Status:    "ok",
		Sessions:  s.sessions.Load(),
		Won:       s.won.Load(),
		Abandoned: s.abandoned.Load(),
	})
}

// originAllowed accepts same-origin requests, requests without an Origin
// header and the configured origins.
func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || s.allow[origin] {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// ServeWS upgrades the request and runs one game session until the socket
// closes.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := s.log.WithField("remote", r.RemoteAddr)
	if !s.originAllowed(r) {
		log.WithField("origin", r.Header.Get("Origin")).Warn("Rejected origin.")
		http.Error(w, "forbidden origin", http.StatusForbidden)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.WithError(err).Warn("WebSocket accept failed.")
		return
	}
	defer c.CloseNow()

	s.sessions.Add(1)
	defer s.sessions.Add(-1)
	log.Info("Client connected.")

	err = s.runSession(r.Context(), c, log)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway:
	default:
		log.WithError(err).Warn("Session ended with error.")
	}
	_ = c.Close(websocket.StatusNormalClosure, "bye")
	log.Info("Client disconnected.")
}

// runSession wires a SpiderGame to the socket: a writer drains the event
// queue, the reader dispatches commands, autocomplete runs alongside.
func (s *Server) runSession(ctx context.Context, c *websocket.Conn, log *logrus.Entry) error {
	eg, ctx := errgroup.WithContext(ctx)
	out := make(chan game.GameEvent, 64)

	emit := func(ev game.GameEvent) {
		select {
		case out <- ev:
		case <-ctx.Done():
		}
	}

	sess := game.NewSpiderGame(game.Options{
		Difficulty:    s.cfg.DefaultDifficulty(),
		Rules:         s.cfg.Rules(),
		StepDelay:     s.cfg.AutoCompleteStepDelay,
		LoopThreshold: s.cfg.LoopThreshold,
		Logger:        s.log,
	})
	sess.BroadcastFn = emit
	sess.OnGameEnd = func(id uuid.UUID, outcome game.Outcome, moves int) {
		log.WithFields(logrus.Fields{"game_id": id, "outcome": outcome, "moves": moves}).Info("Game ended.")
		switch outcome {
		case game.OutcomeWon:
			s.won.Add(1)
		case game.OutcomeAbandoned:
			s.abandoned.Add(1)
		}
	}
	defer sess.Close()

	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-out:
				wctx, cancel := context.WithTimeout(ctx, writeTimeout)
				err := wsjson.Write(wctx, c, ev)
				cancel()
				if err != nil {
					return fmt.Errorf("write %s: %w", ev.Type, err)
				}
			}
		}
	})

	eg.Go(func() error {
		sess.Start()
		for {
			_, data, err := c.Read(ctx)
			if err != nil {
				return err
			}
			var cmd Command
			if err := json.Unmarshal(data, &cmd); err != nil {
				emit(errorEvent("malformed command: " + err.Error()))
				continue
			}
			if err := s.dispatch(ctx, eg, sess, cmd, log); err != nil {
				emit(errorEvent(err.Error()))
			}
		}
	})

	// The reader only stops on a socket error, which cancels the rest.
	return eg.Wait()
}

// dispatch runs one client command against the session.
func (s *Server) dispatch(ctx context.Context, eg *errgroup.Group, sess *game.SpiderGame, cmd Command, log *logrus.Entry) error {
	switch cmd.Type {
	case CmdSync:
		sess.SyncState()
	case CmdMove:
		sess.MoveStack(engine.Move{FromColumn: cmd.FromColumn, FromIndex: cmd.FromIndex, ToColumn: cmd.ToColumn})
	case CmdDeal:
		sess.Deal()
	case CmdUndo:
		sess.Undo()
	case CmdNewGame:
		d := s.cfg.DefaultDifficulty()
		if cmd.Difficulty < 0 || cmd.Difficulty > int(engine.FourSuits) {
			return fmt.Errorf("%w: %d", config.ErrInvalidDifficulty, cmd.Difficulty)
		}
		if cmd.Difficulty != 0 {
			d = engine.Difficulty(cmd.Difficulty)
		}
		return sess.NewGame(d)
	case CmdAutoComplete:
		eg.Go(func() error {
			err := sess.AutoComplete(ctx)
			switch {
			case err == nil, errors.Is(err, context.Canceled):
			case errors.Is(err, game.ErrNothingToComplete), errors.Is(err, game.ErrAutoCompleteRunning):
				sess.BroadcastFn(errorEvent(err.Error()))
			default:
				log.WithError(err).Debug("Autocomplete stopped.")
			}
			return nil
		})
	case CmdCancelAuto:
		sess.CancelAutoComplete()
	case CmdHint:
		sess.Hint()
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
	return nil
}

func errorEvent(msg string) game.GameEvent {
	return game.GameEvent{Type: game.EventError, Payload: map[string]interface{}{"message": msg}}
}
