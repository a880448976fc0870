package engine

import "rats-server/models"

// playValue is what a card is worth in the current trick: its rank when it
// follows the led suit, 0 otherwise so that it can never win.
func playValue(card models.Card, led models.Suit) int {
	if card.Suit != led {
		return 0
	}
	return card.Value()
}

// trickWinner returns the seat holding the first strict maximum, with plays
// indexed by offset from the leader.
func trickWinner(leader int, plays [models.SeatsPerGame]int) int {
	best, offset := plays[0], 0
	for i := 1; i < models.SeatsPerGame; i++ {
		if plays[i] > best {
			best, offset = plays[i], i
		}
	}
	return (leader + offset) % models.SeatsPerGame
}
