package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rats-server/models"
)

func TestRegistry_RegisterAndUnregister(t *testing.T) {
	r := newTestRegistry(Options{})

	a, _ := newTestClient("a", "g")
	b, _ := newTestClient("b", "g")
	r.Register(a)
	r.Register(b)
	r.Unregister(a)

	stats := r.Stats()
	assert.Equal(t, 1, stats.Connected)
	assert.Equal(t, 2, stats.TotalConnected)
	assert.Equal(t, 2, r.ClientCount())
	assert.Same(t, r.Counters(), r.counters)
}

func TestRegistry_FindOrCreate(t *testing.T) {
	r := newTestRegistry(Options{})

	first := r.FindOrCreate("alpha")
	assert.Same(t, first, r.FindOrCreate("alpha"))
	assert.NotSame(t, first, r.FindOrCreate("beta"))
	assert.Equal(t, "alpha", first.Name)
	assert.Equal(t, models.StateIdle, first.State())
	assert.Len(t, r.Games(), 2)
}

func TestRegistry_JoinFillsGamesInGroupsOfFour(t *testing.T) {
	r := newTestRegistry(Options{})

	type joined struct {
		client *Client
		game   *Game
	}
	results := make(chan joined, 8)
	for i := 0; i < 8; i++ {
		c, _ := newTestClient(string(rune('a'+i)), "crowd")
		go func() {
			g, err := r.Join(c)
			assert.NoError(t, err)
			results <- joined{client: c, game: g}
		}()
	}

	perGame := make(map[*Game][]*Client)
	for i := 0; i < 8; i++ {
		j := <-results
		perGame[j.game] = append(perGame[j.game], j.client)
	}

	require.Len(t, perGame, 2)
	for g, clients := range perGame {
		assert.Len(t, clients, 4)
		assert.Equal(t, models.StateReady, g.State())
		seats := make(map[int]bool)
		for _, c := range clients {
			seats[c.Seat] = true
		}
		assert.Len(t, seats, 4)
	}
}

func TestRegistry_DefaultsOptions(t *testing.T) {
	r := NewRegistry(zerolog.Nop(), Options{DealMode: "bogus"})
	assert.Equal(t, models.DealShared, r.opts.DealMode)
	assert.NotNil(t, r.opts.Recorder)
	assert.NotNil(t, r.opts.NewDeck)
}
