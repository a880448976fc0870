package engine

import (
	"io"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"rats-server/models"
)

// botTransport answers every prompt with a legal card, like a well behaved
// player. script holds tokens sent before any legal choice, and quitAfter
// closes the connection at the prompt following that many accepted plays.
type botTransport struct {
	mu        sync.Mutex
	lines     []string
	replies   chan string
	closed    bool
	hand      models.Hand
	pending   models.Card
	plays     int
	quitAfter int
	script    []string
}

func newBotTransport() *botTransport {
	return &botTransport{replies: make(chan string, 64), quitAfter: -1}
}

func (t *botTransport) ReadLine() (string, error) {
	line, ok := <-t.replies
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

func (t *botTransport) WriteLine(line string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lines = append(t.lines, line)
	if line == "" || t.closed {
		return nil
	}
	switch line[0] {
	case 'H':
		t.hand, _ = models.ParseHand(line[1:])
	case 'L', 'P':
		if t.plays == t.quitAfter {
			t.closed = true
			close(t.replies)
			return nil
		}
		if len(t.script) > 0 {
			t.replies <- t.script[0]
			t.script = t.script[1:]
			return nil
		}
		t.pending = chooseCard(t.hand, models.Suit(line[1:]))
		t.replies <- t.pending.String()
	case 'A':
		t.hand.Remove(t.pending)
		t.plays++
	}
	return nil
}

func (t *botTransport) Close() error {
	return nil
}

func (t *botTransport) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

func (t *botTransport) count(prefix string) int {
	n := 0
	for _, l := range t.Lines() {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func chooseCard(hand models.Hand, led models.Suit) models.Card {
	if c, ok := hand.FirstOfSuit(led); ok {
		return c
	}
	return hand[0]
}

type recordingRecorder struct {
	mu      sync.Mutex
	tricks  []models.TrickResult
	results []models.GameResult
}

func (r *recordingRecorder) RecordTrick(t models.TrickResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tricks = append(r.tricks, t)
	return nil
}

func (r *recordingRecorder) RecordGame(res models.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	return nil
}

func seededDeck(seed int64) func() *models.Deck {
	return func() *models.Deck {
		return models.NewDeckFromSource(rand.NewSource(seed))
	}
}

func newTestRegistry(opts Options) *Registry {
	if opts.NewDeck == nil {
		opts.NewDeck = seededDeck(42)
	}
	return NewRegistry(zerolog.Nop(), opts)
}

func newTestClient(name, game string) (*Client, *botTransport) {
	transport := newBotTransport()
	c := NewClient(transport, zerolog.Nop())
	c.Name = name
	c.GameName = game
	return c, transport
}

// runSession mirrors what the TCP session does once a client is registered.
func runSession(r *Registry, c *Client) error {
	game, err := r.Join(c)
	if err != nil {
		return err
	}
	if err := game.Deal(c); err != nil {
		return err
	}
	game.AwaitReady()
	return game.Play(c)
}

// runGame plays four clients through a game and returns each session's
// error, in the order the clients were given.
func runGame(t *testing.T, r *Registry, clients []*Client) []error {
	t.Helper()

	errs := make([]error, len(clients))
	var wg sync.WaitGroup
	for i, c := range clients {
		wg.Add(1)
		go func(i int, c *Client) {
			defer wg.Done()
			errs[i] = runSession(r, c)
		}(i, c)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		require.FailNow(t, "game did not finish in time")
	}
	return errs
}
