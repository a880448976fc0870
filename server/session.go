package server

import (
	"errors"
	"fmt"
	"net"

	"rats-server/engine"
	"rats-server/protocol"
)

var ErrRegistration = errors.New("registration failed")

// handleConnection owns one client from accept to close: welcome,
// registration, seating, deal, ready barrier, turn loop and teardown.
func (s *TCPServer) handleConnection(conn net.Conn) {
	client := engine.NewClient(newLineConn(conn), s.log)
	log := client.Logger().With().Str("remote", conn.RemoteAddr().String()).Logger()

	s.registry.Register(client)
	log.Info().Msg("client connected")

	defer func() {
		s.registry.Unregister(client)
		if err := client.Close(); err != nil {
			log.Debug().Err(err).Msg("error closing connection")
		}
		s.admission.Release()
		log.Info().Msg("client disconnected")
	}()

	if err := s.runSession(client); err != nil {
		log.Info().Err(err).Msg("session ended early")
	}
}

func (s *TCPServer) runSession(c *engine.Client) error {
	c.Send(protocol.Message(s.message))

	if err := register(c); err != nil {
		return err
	}

	game, err := s.registry.Join(c)
	if err != nil {
		return fmt.Errorf("join %q: %w", c.GameName, err)
	}
	if err := game.Deal(c); err != nil {
		return err
	}
	game.AwaitReady()
	return game.Play(c)
}

// register reads the display name and then the game name.
func register(c *engine.Client) error {
	name, err := c.ReadLine()
	if err != nil {
		return fmt.Errorf("%w: reading name: %v", ErrRegistration, err)
	}
	gameName, err := c.ReadLine()
	if err != nil {
		return fmt.Errorf("%w: reading game name: %v", ErrRegistration, err)
	}
	c.Name = name
	c.GameName = gameName
	logger := c.Logger()
	logger.Debug().Str("player", name).Str("game", gameName).Msg("client registered")
	return nil
}
