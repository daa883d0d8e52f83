package domain

import "strconv"

// Suit is a card suit. The declaration order is the canonical hand order.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Spades
	Hearts
)

// Rank is a card rank from Two (2) up to Ace (14).
type Rank int

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// Suits lists every suit in canonical order.
var Suits = []Suit{Clubs, Diamonds, Spades, Hearts}

// Ranks lists every rank in ascending order.
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	case Spades:
		return "S"
	case Hearts:
		return "H"
	default:
		return "?"
	}
}

func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	}
	if r >= Two && r <= Ten {
		return strconv.Itoa(int(r))
	}
	return "?"
}

// Card is an immutable playing card. ID is the short code, e.g. "10H" or "QS".
type Card struct {
	ID   string `json:"id"`
	Rank Rank   `json:"rank"`
	Suit Suit   `json:"suit"`
}

// NewCard builds a card with its canonical id.
func NewCard(rank Rank, suit Suit) Card {
	return Card{ID: CardID(rank, suit), Rank: rank, Suit: suit}
}

// CardID returns the short code for a rank/suit pair.
func CardID(rank Rank, suit Suit) string {
	return rank.String() + suit.String()
}

func (c Card) String() string {
	return c.ID
}

// Well-known cards.
var (
	TwoOfClubs    = NewCard(Two, Clubs)
	QueenOfSpades = NewCard(Queen, Spades)
)

// IsQueenOfSpades reports whether c is the Queen of Spades.
func (c Card) IsQueenOfSpades() bool {
	return c.Suit == Spades && c.Rank == Queen
}

// IsTwoOfClubs reports whether c is the Two of Clubs.
func (c Card) IsTwoOfClubs() bool {
	return c.Suit == Clubs && c.Rank == Two
}
