package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"rats-server/engine"
)

var ErrListen = errors.New("cannot listen")

// Listen binds an IPv4 TCP listener on port. An empty port or "0" picks an
// ephemeral port.
func Listen(port string) (net.Listener, error) {
	if port == "" {
		port = "0"
	}
	listener, err := net.Listen("tcp4", net.JoinHostPort("", port))
	if err != nil {
		return nil, fmt.Errorf("%w on port %q: %v", ErrListen, port, err)
	}
	return listener, nil
}

type TCPServer struct {
	listener  net.Listener
	registry  *engine.Registry
	admission *engine.Admission
	message   string
	log       zerolog.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewTCPServer serves games on an already bound listener. message is sent
// to every client as soon as it connects.
func NewTCPServer(listener net.Listener, registry *engine.Registry, admission *engine.Admission, message string, logger zerolog.Logger) *TCPServer {
	return &TCPServer{
		listener:  listener,
		registry:  registry,
		admission: admission,
		message:   message,
		log:       logger.With().Str("component", "tcp_server").Logger(),
		stopChan:  make(chan struct{}),
	}
}

func (s *TCPServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until Stop is called or ctx is done. Every
// accept first takes an admission slot, so a full server stops accepting
// rather than refusing.
func (s *TCPServer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.stopChan:
			cancel()
		}
	}()

	s.log.Info().Str("addr", s.listener.Addr().String()).Int("max_conns", s.admission.Capacity()).Msg("accepting connections")

	for {
		if err := s.admission.Acquire(ctx); err != nil {
			return nil
		}

		conn, err := s.listener.Accept()
		if err != nil {
			s.admission.Release()
			select {
			case <-s.stopChan:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn().Err(err).Msg("error accepting connection")
			continue
		}

		go s.handleConnection(conn)
	}
}

// Stop closes the listener. Sessions already running are left alone.
func (s *TCPServer) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.log.Warn().Err(err).Msg("error closing listener")
		}
	})
}
