package server

import (
	"bytes"
	"context"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rats-server/engine"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStatsReporter_Report(t *testing.T) {
	counters := engine.NewCounters()
	counters.ClientConnected()
	counters.ClientConnected()
	counters.ClientConnected()
	counters.ClientDisconnected()
	counters.GameStarted()
	counters.GameStarted()
	counters.GameCompleted()
	counters.TrickPlayed()
	counters.TrickPlayed()

	var out bytes.Buffer
	require.NoError(t, NewStatsReporter(counters, &out, zerolog.Nop()).Report())

	assert.Equal(t, "Players connected: 2\n"+
		"Total connected players: 3\n"+
		"Running games: 1\n"+
		"Games completed: 1\n"+
		"Games terminated: 1\n"+
		"Total tricks: 2\n", out.String())
}

func TestStatsReporter_RunReportsOnSignal(t *testing.T) {
	out := &syncBuffer{}
	reporter := NewStatsReporter(engine.NewCounters(), out, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan os.Signal, 1)
	done := make(chan struct{})
	go func() {
		reporter.Run(ctx, events)
		close(done)
	}()

	events <- syscall.SIGHUP
	require.Eventually(t, func() bool {
		return bytes.Count([]byte(out.String()), []byte("\n")) == 6
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), "Players connected: 0\n")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reporter did not stop")
	}
}
