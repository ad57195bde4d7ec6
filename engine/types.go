package engine

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Suit identifies one of the four card suits.
type Suit uint8

const (
	SuitSpades   Suit = 0
	SuitHearts   Suit = 1
	SuitDiamonds Suit = 2
	SuitClubs    Suit = 3
)

// String returns the single-letter suit code ("S", "H", "D", "C").
func (s Suit) String() string {
	switch s {
	case SuitSpades:
		return "S"
	case SuitHearts:
		return "H"
	case SuitDiamonds:
		return "D"
	case SuitClubs:
		return "C"
	default:
		return "?"
	}
}

// IsRed reports whether the suit is hearts or diamonds.
func (s Suit) IsRed() bool { return s == SuitHearts || s == SuitDiamonds }

// SuitLabel returns the display symbol for a suit.
func SuitLabel(s Suit) string {
	switch s {
	case SuitSpades:
		return "♠"
	case SuitHearts:
		return "♥"
	case SuitDiamonds:
		return "♦"
	default:
		return "♣"
	}
}

// Rank is a card rank from Ace (1) to King (13).
type Rank uint8

const (
	RankAce   Rank = 1
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
)

// RankLabel returns the display label for a rank: A, 2..10, J, Q, K.
func RankLabel(r Rank) string {
	switch r {
	case RankAce:
		return "A"
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	default:
		return strconv.Itoa(int(r))
	}
}

// Card is a single playing card. ID, Suit and Rank are fixed when the card
// is built; only FaceUp changes over the card's life.
type Card struct {
	ID     uuid.UUID `json:"id"`
	Suit   Suit      `json:"suit"`
	Rank   Rank      `json:"rank"`
	FaceUp bool      `json:"faceUp"`
}

// Label returns the rank and suit symbol, e.g. "Q♥".
func (c Card) Label() string { return RankLabel(c.Rank) + SuitLabel(c.Suit) }

// Difficulty is the number of suits in play.
type Difficulty uint8

const (
	OneSuit   Difficulty = 1
	TwoSuits  Difficulty = 2
	FourSuits Difficulty = 4
)

// Valid reports whether d is one of the supported suit counts.
func (d Difficulty) Valid() bool {
	return d == OneSuit || d == TwoSuits || d == FourSuits
}

// Suits returns the suits used at this difficulty.
func (d Difficulty) Suits() []Suit {
	switch d {
	case OneSuit:
		return []Suit{SuitSpades}
	case TwoSuits:
		return []Suit{SuitSpades, SuitHearts}
	default:
		return []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}
	}
}

// Status is the lifecycle state of a game.
type Status uint8

const (
	StatusPlaying Status = iota
	StatusWon
)

func (s Status) String() string {
	if s == StatusWon {
		return "won"
	}
	return "playing"
}

// MarshalText encodes the status as "playing" or "won".
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes "playing" or "won".
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "playing":
		*s = StatusPlaying
	case "won":
		*s = StatusWon
	default:
		return fmt.Errorf("unknown status %q", b)
	}
	return nil
}

// Pick references the bottom card of a stack a player wants to move.
type Pick struct {
	FromColumn int `json:"fromColumn"`
	FromIndex  int `json:"fromIndex"`
}

// Move is a single stack relocation.
type Move struct {
	FromColumn int `json:"fromColumn"`
	FromIndex  int `json:"fromIndex"`
	ToColumn   int `json:"toColumn"`
}

// Pick returns the pick half of the move.
func (m Move) Pick() Pick { return Pick{FromColumn: m.FromColumn, FromIndex: m.FromIndex} }
