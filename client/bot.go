// Package client is a protocol client that plays automatically: it leads
// its first card and follows suit whenever it can.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/rs/zerolog"

	"rats-server/models"
	"rats-server/protocol"
)

var ErrUnexpectedClose = errors.New("server closed the connection before the game was over")

type Config struct {
	Addr string
	Name string
	Game string
	// QuitAfter closes the connection instead of making play number
	// QuitAfter+1. Zero plays the whole game.
	QuitAfter int
}

// Result is everything the bot saw during one game.
type Result struct {
	Welcome      string
	Teams        []string
	Hand         models.Hand
	Plays        int
	TrickWinners []int // seats, numbered from 1
	Winner       string
	Disconnected string
	Quit         bool
	Lines        []protocol.Line
}

type Bot struct {
	cfg     Config
	conn    net.Conn
	scanner *bufio.Scanner
	hand    models.Hand
	pending models.Card
	log     zerolog.Logger
}

// Dial connects and registers. The welcome line is read by Run.
func Dial(ctx context.Context, cfg Config, logger zerolog.Logger) (*Bot, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.Addr, err)
	}
	b := &Bot{
		cfg:     cfg,
		conn:    conn,
		scanner: bufio.NewScanner(conn),
		log:     logger.With().Str("bot", cfg.Name).Str("game", cfg.Game).Logger(),
	}
	if err := b.send(cfg.Name); err != nil {
		conn.Close()
		return nil, err
	}
	if err := b.send(cfg.Game); err != nil {
		conn.Close()
		return nil, err
	}
	return b, nil
}

func (b *Bot) send(line string) error {
	if _, err := io.WriteString(b.conn, line+"\n"); err != nil {
		return fmt.Errorf("write %q: %w", line, err)
	}
	return nil
}

// Run plays until the server ends the game. The connection is closed on
// return.
func (b *Bot) Run() (*Result, error) {
	defer b.conn.Close()

	result := &Result{}
	for b.scanner.Scan() {
		line, err := protocol.ParseLine(b.scanner.Text())
		if err != nil {
			continue
		}
		result.Lines = append(result.Lines, line)

		switch line.Kind {
		case protocol.KindMessage:
			b.noteMessage(result, line.Body)
		case protocol.KindHand:
			hand, err := models.ParseHand(line.Body)
			if err != nil {
				return result, fmt.Errorf("bad hand %q: %w", line.Body, err)
			}
			b.hand = hand
			result.Hand = append(models.Hand(nil), hand...)
		case protocol.KindLead, protocol.KindFollow:
			if b.cfg.QuitAfter > 0 && result.Plays == b.cfg.QuitAfter {
				b.log.Debug().Int("plays", result.Plays).Msg("quitting")
				result.Quit = true
				return result, nil
			}
			b.pending = b.choose(models.Suit(line.Body))
			if err := b.send(b.pending.String()); err != nil {
				return result, err
			}
		case protocol.KindAccepted:
			b.hand.Remove(b.pending)
			result.Plays++
		case protocol.KindOver:
			return result, nil
		}
	}
	if err := b.scanner.Err(); err != nil {
		return result, err
	}
	return result, ErrUnexpectedClose
}

func (b *Bot) noteMessage(result *Result, body string) {
	var seat int
	switch {
	case result.Welcome == "" && len(result.Lines) == 1:
		result.Welcome = body
	case strings.HasPrefix(body, "Team "):
		result.Teams = append(result.Teams, body)
	case strings.HasPrefix(body, "Winner is "):
		result.Winner = body
	case strings.HasSuffix(body, " disconnected early"):
		result.Disconnected = body
	default:
		if _, err := fmt.Sscanf(body, "P%d won", &seat); err == nil {
			result.TrickWinners = append(result.TrickWinners, seat)
		}
	}
}

// choose leads with the first card, or follows suit with the first card of
// that suit when there is one.
func (b *Bot) choose(led models.Suit) models.Card {
	if c, ok := b.hand.FirstOfSuit(led); ok {
		return c
	}
	return b.hand[0]
}

func (b *Bot) Close() error {
	return b.conn.Close()
}
