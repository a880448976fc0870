package engine

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rats-server/models"
)

// Transport is a line oriented connection to one player. Lines are passed
// without their trailing newline.
type Transport interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
}

// Client is one accepted connection. Name and GameName are set during
// registration, before the client is seated; Seat is final once its game is
// promoted. Hand is only touched by the client's own session.
type Client struct {
	ID       string
	Name     string
	GameName string
	Seat     int
	Hand     models.Hand

	conn Transport
	log  zerolog.Logger
}

func NewClient(conn Transport, logger zerolog.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		ID:   id,
		Seat: -1,
		conn: conn,
		log:  logger.With().Str("client_id", id).Logger(),
	}
}

// Send writes one line. A failed write is only logged: a peer that went
// away is noticed on its own next read.
func (c *Client) Send(line string) {
	if err := c.conn.WriteLine(line); err != nil {
		c.log.Warn().Err(err).Str("line", line).Msg("write to client failed")
	}
}

func (c *Client) ReadLine() (string, error) {
	return c.conn.ReadLine()
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) Logger() zerolog.Logger {
	return c.log
}
