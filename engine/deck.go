package engine

import (
	"math"

	"github.com/google/uuid"
	"lukechampine.com/frand"
)

// BuildDeck returns the 104 face-down cards for difficulty d in a uniformly
// random order. Each suit in play contributes 8/len(suits) full A..K runs.
func BuildDeck(d Difficulty) []Card {
	return buildDeck(d, frand.Uint64n)
}

// BuildSeededDeck is BuildDeck with a deterministic shuffle: the same seed
// always yields the same suit/rank order. Card IDs are still unique.
func BuildSeededDeck(d Difficulty, seed uint64) []Card {
	rng := newXorshift(seed)
	return buildDeck(d, rng.randN)
}

func buildDeck(d Difficulty, randN func(n uint64) uint64) []Card {
	suits := d.Suits()
	copies := NumRuns / len(suits)

	deck := make([]Card, 0, DeckSize)
	for _, s := range suits {
		for set := 0; set < copies; set++ {
			for r := RankAce; r <= RankKing; r++ {
				deck = append(deck, Card{ID: uuid.New(), Suit: s, Rank: r})
			}
		}
	}

	// Fisher-Yates shuffle.
	for i := len(deck) - 1; i > 0; i-- {
		j := int(randN(uint64(i + 1)))
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// DealInitial lays out a shuffled deck: columns 0-3 get six cards, columns
// 4-9 get five, in deck order, with only the last card of each column face
// up. The remaining 50 cards become the stock in deck order.
func DealInitial(deck []Card) (Tableau, []Card) {
	var cols Tableau
	idx := 0
	for col := 0; col < NumColumns; col++ {
		size := 5
		if col < 4 {
			size = 6
		}
		cards := make([]Card, size)
		copy(cards, deck[idx:idx+size])
		for k := range cards {
			cards[k].FaceUp = false
		}
		cards[size-1].FaceUp = true
		cols[col] = cards
		idx += size
	}

	stock := make([]Card, len(deck)-idx)
	copy(stock, deck[idx:])
	for k := range stock {
		stock[k].FaceUp = false
	}
	return cols, stock
}

// ---------------------------------------------------------------------------
// xorshift64 RNG for seeded shuffles
// ---------------------------------------------------------------------------

type xorshift struct{ state uint64 }

func newXorshift(seed uint64) *xorshift {
	if seed == 0 {
		seed = 1 // xorshift can't start at 0
	}
	return &xorshift{state: seed}
}

func (x *xorshift) next() uint64 {
	s := x.state
	s ^= s << 13
	s ^= s >> 7
	s ^= s << 17
	x.state = s
	return s
}

// randN returns a uniformly distributed number in [0, n). Draws from the
// tail of the range that would skew the modulo are rejected.
func (x *xorshift) randN(n uint64) uint64 {
	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		if v := x.next(); v < limit {
			return v % n
		}
	}
}
