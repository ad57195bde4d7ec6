// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	engine "github.com/yaguri-afk/spider-solitaire/engine"
)

// ObfCard represents a card for the client. Face-down cards expose only their ID.
type ObfCard struct {
	ID    uuid.UUID `json:"id"`
	Known bool      `json:"known"` // True if Rank/Suit are revealed.
	Rank  string    `json:"rank,omitempty"`
	Suit  string    `json:"suit,omitempty"`
	Label string    `json:"label,omitempty"` // Display text, e.g. "10♥".
	Red   bool      `json:"red,omitempty"`
}

// ObfGameState is the client view of a game.
type ObfGameState struct {
	GameID     uuid.UUID         `json:"gameId"`
	Difficulty engine.Difficulty `json:"difficulty"`
	Status     engine.Status     `json:"status"`

	Columns    [engine.NumColumns][]ObfCard `json:"columns"`
	StockSize  int                          `json:"stockSize"`
	DealsLeft  int                          `json:"dealsLeft"`
	Foundation []string                     `json:"foundation"` // Suit of each completed run.

	Moves     int `json:"moves"`
	Deals     int `json:"deals"`
	UndosLeft int `json:"undosLeft"`

	CanDeal         bool `json:"canDeal"`
	CanUndo         bool `json:"canUndo"`
	CanAutoComplete bool `json:"canAutoComplete"`
	AutoCompleting  bool `json:"autoCompleting"`
	Stuck           bool `json:"stuck"`
	Looping         bool `json:"looping"`
}

// State returns the current client view.
func (g *SpiderGame) State() ObfGameState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.obfuscatedStateLocked()
}

// obfuscatedStateLocked builds the client view. Caller holds Mu.
func (g *SpiderGame) obfuscatedStateLocked() ObfGameState {
	e := g.Engine
	obf := ObfGameState{
		GameID:     g.ID,
		Difficulty: e.Difficulty,
		Status:     e.Status,
		StockSize:  len(e.Stock),
		DealsLeft:  len(e.Stock) / engine.DealSize,
		Foundation: make([]string, 0, len(e.Foundation)),
		Moves:      g.Moves,
		Deals:      g.Deals,
		UndosLeft:  e.UndosLeft(),

		CanDeal:         e.CanDeal(),
		CanUndo:         e.CanUndo() && e.Status == engine.StatusPlaying,
		CanAutoComplete: engine.CanAutoComplete(e),
		AutoCompleting:  g.autoCancel != nil,
		Stuck:           g.stuck,
		Looping:         g.looping,
	}
	for i, col := range e.Columns {
		cards := make([]ObfCard, len(col))
		for j, c := range col {
			cards[j] = obfuscateCard(c)
		}
		obf.Columns[i] = cards
	}
	for _, pile := range e.Foundation {
		obf.Foundation = append(obf.Foundation, pile[0].Suit.String())
	}
	return obf
}

func obfuscateCard(c engine.Card) ObfCard {
	if !c.FaceUp {
		return ObfCard{ID: c.ID}
	}
	return ObfCard{
		ID:    c.ID,
		Known: true,
		Rank:  engine.RankLabel(c.Rank),
		Suit:  c.Suit.String(),
		Label: c.Label(),
		Red:   c.Suit.IsRed(),
	}
}
