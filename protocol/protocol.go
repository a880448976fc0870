// Package protocol formats and parses the line oriented messages exchanged
// between the server and players. Every line starts with a one byte kind.
package protocol

import (
	"errors"
	"fmt"
	"strings"

	"rats-server/models"
)

type Kind byte

const (
	KindMessage  Kind = 'M' // free text for the player
	KindHand     Kind = 'H' // the dealt hand
	KindLead     Kind = 'L' // your turn, you lead
	KindFollow   Kind = 'P' // your turn, follow the given suit
	KindAccepted Kind = 'A' // your play was accepted
	KindOver     Kind = 'O' // the game is over, the server will close
)

var ErrEmptyLine = errors.New("empty line")

const (
	Lead     = "L"
	Accepted = "A"
	Over     = "O"
	Starting = "MStarting the game"
)

func Message(text string) string {
	return "M" + text
}

func Hand(h models.Hand) string {
	return "H" + h.String()
}

// Teams renders the two roster lines for seats sorted by name.
func Teams(names [models.SeatsPerGame]string) [2]string {
	return [2]string{
		fmt.Sprintf("MTeam 1: %s, %s", names[0], names[2]),
		fmt.Sprintf("MTeam 2: %s, %s", names[1], names[3]),
	}
}

func Follow(suit models.Suit) string {
	return "P" + string(suit)
}

func Played(name string, card models.Card) string {
	return fmt.Sprintf("M%s plays %s", name, card)
}

// TrickWon announces the winning seat, numbered from 1.
func TrickWon(seat int) string {
	return fmt.Sprintf("MP%d won", seat+1)
}

// Winner announces the winning team, numbered from 1.
func Winner(team, tricks int) string {
	return fmt.Sprintf("MWinner is Team %d (%d tricks won)", team, tricks)
}

func DisconnectedEarly(seat int) string {
	return fmt.Sprintf("Mplayer%d disconnected early", seat+1)
}

// ParsePlay splits a play token into rank and suit without checking either;
// a play is legal only if the card is in the player's hand.
func ParsePlay(token string) (models.Card, bool) {
	if len(token) != 2 {
		return models.Card{}, false
	}
	return models.Card{Rank: models.Rank(token[:1]), Suit: models.Suit(token[1:])}, true
}

// Line is one server line split into its kind and body.
type Line struct {
	Kind Kind
	Body string
}

func ParseLine(raw string) (Line, error) {
	raw = strings.TrimRight(raw, "\r\n")
	if raw == "" {
		return Line{}, ErrEmptyLine
	}
	return Line{Kind: Kind(raw[0]), Body: raw[1:]}, nil
}

func (l Line) String() string {
	return string(l.Kind) + l.Body
}
