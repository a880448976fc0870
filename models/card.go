package models

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

type Suit string
type Rank string

const (
	Spades   Suit = "S"
	Clubs    Suit = "C"
	Diamonds Suit = "D"
	Hearts   Suit = "H"
)

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "T"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

const (
	DeckSize = 52
	HandSize = DeckSize / SeatsPerGame

	// An encoded deck is two characters per card. Each seat takes one
	// character pair out of every block of eight.
	encodedBlock = 2 * SeatsPerGame
)

var (
	suits = []Suit{Spades, Clubs, Diamonds, Hearts}
	ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
)

var ErrInvalidCard = errors.New("invalid card")

type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

func (c Card) Value() int {
	return RankValue(c.Rank)
}

// RankValue decodes a rank character to 2..14 with aces high. Anything
// else is 0.
func RankValue(r Rank) int {
	switch r {
	case Two:
		return 2
	case Three:
		return 3
	case Four:
		return 4
	case Five:
		return 5
	case Six:
		return 6
	case Seven:
		return 7
	case Eight:
		return 8
	case Nine:
		return 9
	case Ten:
		return 10
	case Jack:
		return 11
	case Queen:
		return 12
	case King:
		return 13
	case Ace:
		return 14
	}
	return 0
}

func (s Suit) Valid() bool {
	for _, suit := range suits {
		if s == suit {
			return true
		}
	}
	return false
}

// ParseCard decodes a two character token such as "TS" or "4H".
func ParseCard(token string) (Card, error) {
	if len(token) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, token)
	}
	card := Card{Rank: Rank(token[:1]), Suit: Suit(token[1:])}
	if card.Value() == 0 || !card.Suit.Valid() {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, token)
	}
	return card, nil
}

// Hand is an ordered set of cards as dealt. Order is preserved on removal.
type Hand []Card

func ParseHand(encoded string) (Hand, error) {
	if len(encoded)%2 != 0 {
		return nil, fmt.Errorf("%w: odd hand length %d", ErrInvalidCard, len(encoded))
	}
	hand := make(Hand, 0, len(encoded)/2)
	for i := 0; i < len(encoded); i += 2 {
		card, err := ParseCard(encoded[i : i+2])
		if err != nil {
			return nil, err
		}
		hand = append(hand, card)
	}
	return hand, nil
}

func (h Hand) String() string {
	var b strings.Builder
	for _, c := range h {
		b.WriteString(c.String())
	}
	return b.String()
}

func (h Hand) IndexOf(card Card) int {
	for i, c := range h {
		if c == card {
			return i
		}
	}
	return -1
}

func (h Hand) Contains(card Card) bool {
	return h.IndexOf(card) >= 0
}

// FirstOfSuit returns the first card of suit in dealt order.
func (h Hand) FirstOfSuit(suit Suit) (Card, bool) {
	for _, c := range h {
		if c.Suit == suit {
			return c, true
		}
	}
	return Card{}, false
}

// Remove drops the first copy of card and reports whether it was present.
func (h *Hand) Remove(card Card) bool {
	i := h.IndexOf(card)
	if i < 0 {
		return false
	}
	*h = append((*h)[:i], (*h)[i+1:]...)
	return true
}

type Deck struct {
	cards []Card
	rng   *rand.Rand
}

func NewDeck() *Deck {
	return NewDeckFromSource(rand.NewSource(time.Now().UnixNano()))
}

// NewDeckFromSource builds a shuffled deck driven by src, which lets tests
// reproduce a deal.
func NewDeckFromSource(src rand.Source) *Deck {
	deck := &Deck{
		cards: make([]Card, 0, DeckSize),
		rng:   rand.New(src),
	}
	deck.Reset()
	return deck
}

func (d *Deck) Reset() {
	d.cards = make([]Card, 0, DeckSize)
	for _, suit := range suits {
		for _, rank := range ranks {
			d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
		}
	}
	d.Shuffle()
}

func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Encode renders the deck as one string, two characters per card.
func (d *Deck) Encode() string {
	return Hand(d.cards).String()
}

// HandFor partitions the encoded deck: seat s receives the character pair
// at offset 2s of every eight character block.
func (d *Deck) HandFor(seat int) (Hand, error) {
	if seat < 0 || seat >= SeatsPerGame {
		return nil, fmt.Errorf("seat %d out of range", seat)
	}
	encoded := d.Encode()
	offset := 2 * seat

	var b strings.Builder
	for i := 0; i < len(encoded); i++ {
		if m := i % encodedBlock; m == offset || m == offset+1 {
			b.WriteByte(encoded[i])
		}
	}
	return ParseHand(b.String())
}
