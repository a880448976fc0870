package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rats-server/models"
	"rats-server/protocol"
)

var (
	ErrGameFull     = errors.New("game is full")
	ErrDisconnected = errors.New("player disconnected")
)

// Game is one four seat game. All turn, trick and state fields are guarded
// by mu. The condition variable is shared by three waits (seating, ready
// barrier, turn) and every waiter re-checks its own predicate.
type Game struct {
	ID        string
	Name      string
	createdAt time.Time

	mu   sync.Mutex
	cond *sync.Cond

	state     models.GameState
	seats     [models.SeatsPerGame]*Client
	filled    int
	full      atomic.Bool
	startedAt time.Time

	currentTurn int
	leader      int
	ledSuit     models.Suit
	plays       [models.SeatsPerGame]int         // by offset from leader
	cards       [models.SeatsPerGame]models.Card // by seat
	playCount   int
	teamTricks  [2]int
	readyCount  int

	dealMode models.DealMode
	newDeck  func() *models.Deck
	deck     *models.Deck

	counters *Counters
	recorder Recorder
	log      zerolog.Logger

	// snapshot is what Summary reports. It has its own lock so that readers
	// never wait on mu, which is held while a player is thinking.
	snapMu   sync.Mutex
	snapshot models.GameSummary
}

func newGame(name string, opts Options, counters *Counters, logger zerolog.Logger) *Game {
	id := uuid.New().String()
	g := &Game{
		ID:        id,
		Name:      name,
		createdAt: time.Now(),
		state:     models.StateIdle,
		dealMode:  opts.DealMode,
		newDeck:   opts.NewDeck,
		counters:  counters,
		recorder:  opts.Recorder,
		log:       logger.With().Str("game_id", id).Str("game", name).Logger(),
	}
	g.cond = sync.NewCond(&g.mu)
	g.publishLocked()
	return g
}

// open reports whether the game still has a free seat. It is read by the
// registry without taking the game lock.
func (g *Game) open() bool {
	return !g.full.Load()
}

// Seat puts c into the next free seat and blocks until the game has four
// players. The fourth arrival fixes the seating order by name and wakes the
// others.
func (g *Game) Seat(c *Client) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.filled == models.SeatsPerGame {
		return ErrGameFull
	}
	g.seats[g.filled] = c
	c.Seat = g.filled
	g.filled++

	if g.filled < models.SeatsPerGame {
		g.state = models.StateWaiting
		g.publishLocked()
		g.log.Debug().Str("player", c.Name).Int("seated", g.filled).Msg("waiting for players")
		for g.state == models.StateWaiting {
			g.cond.Wait()
		}
		return nil
	}

	g.promote()
	return nil
}

func (g *Game) promote() {
	g.full.Store(true)
	sort.SliceStable(g.seats[:], func(i, j int) bool {
		return g.seats[i].Name < g.seats[j].Name
	})
	for i, c := range g.seats {
		c.Seat = i
	}
	g.state = models.StateReady
	g.leader = 0
	g.currentTurn = 0
	g.playCount = 0
	g.startedAt = time.Now()
	g.publishLocked()

	g.log.Info().Strs("players", g.namesLocked()).Msg("game ready")
	g.cond.Broadcast()
}

// Deal gives c its hand and sends it the rosters, the hand and the start
// notice. It must be called after Seat returned.
func (g *Game) Deal(c *Client) error {
	deck := g.deckFor()
	hand, err := deck.HandFor(c.Seat)
	if err != nil {
		return fmt.Errorf("deal seat %d: %w", c.Seat, err)
	}
	c.Hand = hand

	g.mu.Lock()
	var names [models.SeatsPerGame]string
	copy(names[:], g.namesLocked())
	g.mu.Unlock()

	for _, line := range protocol.Teams(names) {
		c.Send(line)
	}
	c.Send(protocol.Hand(hand))
	c.Send(protocol.Starting)
	return nil
}

func (g *Game) deckFor() *models.Deck {
	if g.dealMode == models.DealPerSeat {
		return g.newDeck()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deck == nil {
		g.deck = g.newDeck()
	}
	return g.deck
}

// AwaitReady blocks until all four players have been dealt. The last one in
// counts the game as running.
func (g *Game) AwaitReady() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.readyCount++
	if g.readyCount == models.SeatsPerGame {
		g.counters.GameStarted()
		g.cond.Broadcast()
		return
	}
	for g.readyCount < models.SeatsPerGame {
		g.cond.Wait()
	}
}

// Play runs c's side of the turn loop until the game completes. It returns
// ErrDisconnected when c went away mid game.
func (g *Game) Play(c *Client) error {
	for {
		g.mu.Lock()
		for g.currentTurn != c.Seat && g.state != models.StateCompleted {
			g.cond.Wait()
		}
		if g.state == models.StateCompleted {
			g.mu.Unlock()
			return nil
		}

		if g.leader == c.Seat {
			c.Send(protocol.Lead)
		} else {
			c.Send(protocol.Follow(g.ledSuit))
		}

		token, err := c.ReadLine()
		if err != nil {
			result := g.terminate(c)
			g.mu.Unlock()
			g.record(nil, &result)
			return fmt.Errorf("%w: seat %d: %v", ErrDisconnected, c.Seat, err)
		}

		card, ok := protocol.ParsePlay(token)
		if !ok || !c.Hand.Contains(card) {
			g.log.Debug().Str("player", c.Name).Str("token", token).Msg("ignoring illegal play")
			g.mu.Unlock()
			continue
		}

		g.acceptPlay(c, card)

		var trick *models.TrickResult
		var result *models.GameResult
		if g.playCount == models.SeatsPerGame {
			t := g.resolveTrick()
			trick = &t
			if g.teamTricks[0]+g.teamTricks[1] == models.TricksPerGame {
				r := g.complete()
				result = &r
			}
		}
		g.cond.Broadcast()
		g.mu.Unlock()

		g.record(trick, result)
		if result != nil {
			return nil
		}
	}
}

func (g *Game) acceptPlay(c *Client, card models.Card) {
	for _, p := range g.seats {
		if p == c {
			p.Send(protocol.Accepted)
		} else {
			p.Send(protocol.Played(c.Name, card))
		}
	}
	c.Hand.Remove(card)

	if g.state == models.StateReady {
		g.state = models.StatePlaying
		g.publishLocked()
	}
	if g.leader == c.Seat {
		g.ledSuit = card.Suit
	}
	g.plays[g.playCount] = playValue(card, g.ledSuit)
	g.cards[c.Seat] = card
	g.currentTurn = (g.currentTurn + 1) % models.SeatsPerGame
	g.playCount++

	g.log.Debug().Str("player", c.Name).Int("seat", c.Seat).Str("card", card.String()).Msg("card played")
}

func (g *Game) resolveTrick() models.TrickResult {
	winner := trickWinner(g.leader, g.plays)
	g.teamTricks[models.TeamOf(winner)]++
	for _, p := range g.seats {
		p.Send(protocol.TrickWon(winner))
	}

	trick := models.TrickResult{
		GameID: g.ID,
		Number: g.teamTricks[0] + g.teamTricks[1],
		Leader: g.leader,
		Winner: winner,
		Cards:  g.cards,
	}

	g.plays = [models.SeatsPerGame]int{}
	g.cards = [models.SeatsPerGame]models.Card{}
	g.leader = winner
	g.currentTurn = winner
	g.playCount = 0
	g.counters.TrickPlayed()
	g.publishLocked()

	g.log.Debug().Int("trick", trick.Number).Int("winner", winner).Msg("trick resolved")
	return trick
}

func (g *Game) complete() models.GameResult {
	team, tricks := 1, g.teamTricks[0]
	// 13 tricks cannot split evenly, so the tie case never reaches Team 2.
	if g.teamTricks[0] <= g.teamTricks[1] {
		team, tricks = 2, g.teamTricks[1]
	}
	for _, p := range g.seats {
		p.Send(protocol.Winner(team, tricks))
	}
	for _, p := range g.seats {
		p.Send(protocol.Over)
	}
	g.state = models.StateCompleted
	g.publishLocked()
	g.cond.Broadcast()
	g.counters.GameCompleted()

	g.log.Info().Int("team", team).Int("tricks", tricks).Msg("game completed")

	result := g.resultLocked(models.OutcomeCompleted)
	result.WinningTeam = team
	return result
}

// terminate ends the game because c went away. Called with mu held.
func (g *Game) terminate(c *Client) models.GameResult {
	for _, p := range g.seats {
		if p != c {
			p.Send(protocol.DisconnectedEarly(c.Seat))
			p.Send(protocol.Over)
		}
	}
	g.state = models.StateCompleted
	g.publishLocked()
	g.cond.Broadcast()
	g.counters.GameTerminated()

	g.log.Info().Str("player", c.Name).Int("seat", c.Seat).Msg("game terminated by disconnect")

	result := g.resultLocked(models.OutcomeTerminated)
	result.DisconnectedSeat = c.Seat
	return result
}

func (g *Game) resultLocked(outcome models.Outcome) models.GameResult {
	result := models.GameResult{
		GameID:           g.ID,
		Name:             g.Name,
		Outcome:          outcome,
		TeamTricks:       g.teamTricks,
		DisconnectedSeat: -1,
		StartedAt:        g.startedAt,
		EndedAt:          time.Now(),
	}
	copy(result.Players[:], g.namesLocked())
	return result
}

func (g *Game) record(trick *models.TrickResult, result *models.GameResult) {
	if trick != nil {
		if err := g.recorder.RecordTrick(*trick); err != nil {
			g.log.Warn().Err(err).Int("trick", trick.Number).Msg("failed to record trick")
		}
	}
	if result != nil {
		if err := g.recorder.RecordGame(*result); err != nil {
			g.log.Warn().Err(err).Msg("failed to record game")
		}
	}
}

func (g *Game) namesLocked() []string {
	names := make([]string, 0, models.SeatsPerGame)
	for _, c := range g.seats {
		if c != nil {
			names = append(names, c.Name)
		}
	}
	return names
}

// publishLocked refreshes the snapshot read by Summary. Called with mu
// held, or before the game is shared.
func (g *Game) publishLocked() {
	seats := make([]models.SeatSummary, 0, g.filled)
	for i := 0; i < g.filled; i++ {
		c := g.seats[i]
		seats = append(seats, models.SeatSummary{Seat: i, ClientID: c.ID, Name: c.Name})
	}

	g.snapMu.Lock()
	g.snapshot = models.GameSummary{
		GameID:     g.ID,
		Name:       g.Name,
		State:      g.state,
		Seats:      seats,
		TeamTricks: g.teamTricks,
		CreatedAt:  g.createdAt,
	}
	g.snapMu.Unlock()
}

func (g *Game) State() models.GameState {
	return g.Summary().State
}

func (g *Game) TeamTricks() [2]int {
	return g.Summary().TeamTricks
}

// Summary returns the last published snapshot. It does not take mu, so it
// never blocks behind a player on turn.
func (g *Game) Summary() models.GameSummary {
	g.snapMu.Lock()
	defer g.snapMu.Unlock()

	summary := g.snapshot
	summary.Seats = append([]models.SeatSummary(nil), g.snapshot.Seats...)
	if summary.Seats == nil {
		summary.Seats = []models.SeatSummary{}
	}
	return summary
}
