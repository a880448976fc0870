package server

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"rats-server/engine"
)

// StatsReporter prints the counters to the operator each time an event
// arrives on its channel (SIGHUP in the real server).
type StatsReporter struct {
	counters *engine.Counters
	out      io.Writer
	log      zerolog.Logger
}

func NewStatsReporter(counters *engine.Counters, out io.Writer, logger zerolog.Logger) *StatsReporter {
	return &StatsReporter{
		counters: counters,
		out:      out,
		log:      logger.With().Str("component", "stats").Logger(),
	}
}

func (r *StatsReporter) Report() error {
	stats := r.counters.Snapshot()
	_, err := fmt.Fprintf(r.out,
		"Players connected: %d\nTotal connected players: %d\nRunning games: %d\nGames completed: %d\nGames terminated: %d\nTotal tricks: %d\n",
		stats.Connected, stats.TotalConnected, stats.Running, stats.Completed, stats.Terminated, stats.Tricks)
	return err
}

func (r *StatsReporter) Run(ctx context.Context, events <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-events:
			if !ok {
				return
			}
			r.log.Debug().Str("signal", sig.String()).Msg("statistics requested")
			if err := r.Report(); err != nil {
				r.log.Warn().Err(err).Msg("failed to print statistics")
			}
		}
	}
}
