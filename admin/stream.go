package admin

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

type streamMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// handleStatsStream pushes the counters once on connect and then every
// time they change.
func (s *Server) handleStatsStream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// The read side only exists to notice the peer closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.cfg.StreamInterval)
	defer ticker.Stop()

	last := s.stats()
	if err := writeStats(conn, last); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			current := s.stats()
			if current == last {
				continue
			}
			if err := writeStats(conn, current); err != nil {
				s.log.Debug().Err(err).Msg("stats stream closed")
				return
			}
			last = current
		}
	}
}

func writeStats(conn *websocket.Conn, stats statsResponse) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(streamMessage{Type: "stats", Payload: stats})
}
