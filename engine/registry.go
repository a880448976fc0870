package engine

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"rats-server/models"
)

// Options tunes how games created by a Registry behave.
type Options struct {
	DealMode models.DealMode
	Recorder Recorder
	// NewDeck returns a freshly shuffled deck. Tests swap it for a seeded one.
	NewDeck func() *models.Deck
}

// Registry is the shared state of the server: every client ever accepted,
// every game ever created and the counters. Each part has its own lock.
type Registry struct {
	clientsMu sync.Mutex
	clients   []*Client

	gamesMu sync.Mutex
	games   []*Game

	counters *Counters
	opts     Options
	log      zerolog.Logger
}

func NewRegistry(logger zerolog.Logger, opts Options) *Registry {
	if !opts.DealMode.Valid() {
		opts.DealMode = models.DealShared
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.NewDeck == nil {
		opts.NewDeck = models.NewDeck
	}
	return &Registry{
		counters: NewCounters(),
		opts:     opts,
		log:      logger.With().Str("component", "registry").Logger(),
	}
}

// Register records a newly accepted client. Clients are never removed.
func (r *Registry) Register(c *Client) {
	r.clientsMu.Lock()
	r.clients = append(r.clients, c)
	r.clientsMu.Unlock()

	r.counters.ClientConnected()
}

func (r *Registry) Unregister(c *Client) {
	r.counters.ClientDisconnected()
}

// ClientCount is the number of clients ever registered.
func (r *Registry) ClientCount() int {
	r.clientsMu.Lock()
	defer r.clientsMu.Unlock()
	return len(r.clients)
}

// FindOrCreate returns the game called name that still has a free seat,
// creating one if there is none.
func (r *Registry) FindOrCreate(name string) *Game {
	r.gamesMu.Lock()
	defer r.gamesMu.Unlock()

	for _, g := range r.games {
		if g.Name == name && g.open() {
			return g
		}
	}

	g := newGame(name, r.opts, r.counters, r.log)
	r.games = append(r.games, g)
	r.log.Debug().Str("game_id", g.ID).Str("game", name).Msg("game created")
	return g
}

// Join seats c in a game called c.GameName and blocks until that game is
// full. A game that filled up between lookup and seating is skipped.
func (r *Registry) Join(c *Client) (*Game, error) {
	for {
		g := r.FindOrCreate(c.GameName)
		err := g.Seat(c)
		if errors.Is(err, ErrGameFull) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return g, nil
	}
}

func (r *Registry) Games() []models.GameSummary {
	r.gamesMu.Lock()
	games := make([]*Game, len(r.games))
	copy(games, r.games)
	r.gamesMu.Unlock()

	summaries := make([]models.GameSummary, 0, len(games))
	for _, g := range games {
		summaries = append(summaries, g.Summary())
	}
	return summaries
}

func (r *Registry) Counters() *Counters {
	return r.counters
}

func (r *Registry) Stats() models.Stats {
	return r.counters.Snapshot()
}
