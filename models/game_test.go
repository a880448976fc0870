package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeamOf(t *testing.T) {
	assert.Equal(t, 0, TeamOf(0))
	assert.Equal(t, 1, TeamOf(1))
	assert.Equal(t, 0, TeamOf(2))
	assert.Equal(t, 1, TeamOf(3))
}

func TestDealMode_Valid(t *testing.T) {
	assert.True(t, DealShared.Valid())
	assert.True(t, DealPerSeat.Valid())
	assert.False(t, DealMode("").Valid())
	assert.False(t, DealMode("random").Valid())
}

func TestTricksPerGame(t *testing.T) {
	assert.Equal(t, 13, TricksPerGame)
	assert.Equal(t, DeckSize, HandSize*SeatsPerGame)
}
