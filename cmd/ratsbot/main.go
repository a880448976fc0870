// Command ratsbot fills a server with automatic players, four per game, and
// reports how each game ended.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"rats-server/client"
)

func main() {
	addr := flag.String("addr", "localhost:4000", "server address")
	games := flag.Int("games", 1, "number of games to fill")
	prefix := flag.String("prefix", "bot", "prefix for game and player names")
	quit := flag.Int("quit", 0, "if > 0, the last player of every game leaves after this many plays")
	timeout := flag.Duration("timeout", 10*time.Second, "dial timeout")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	var (
		wg        sync.WaitGroup
		completed atomic.Int64
		ended     atomic.Int64
		failed    atomic.Int64
	)

	start := time.Now()
	for g := 0; g < *games; g++ {
		game := fmt.Sprintf("%s-game-%d", *prefix, g)
		for p := 0; p < 4; p++ {
			cfg := client.Config{
				Addr: *addr,
				Name: fmt.Sprintf("%s-%d-%d", *prefix, g, p),
				Game: game,
			}
			if p == 3 {
				cfg.QuitAfter = *quit
			}

			wg.Add(1)
			go func(cfg client.Config) {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), *timeout)
				bot, err := client.Dial(ctx, cfg, logger)
				cancel()
				if err != nil {
					logger.Error().Err(err).Str("bot", cfg.Name).Msg("connect failed")
					failed.Add(1)
					return
				}

				result, err := bot.Run()
				switch {
				case err != nil:
					logger.Error().Err(err).Str("bot", cfg.Name).Msg("game failed")
					failed.Add(1)
				case result.Winner != "":
					completed.Add(1)
					logger.Debug().Str("bot", cfg.Name).Str("result", result.Winner).Int("plays", result.Plays).Msg("game over")
				default:
					ended.Add(1)
					logger.Debug().Str("bot", cfg.Name).Str("result", result.Disconnected).Msg("game ended early")
				}
			}(cfg)
		}
	}
	wg.Wait()

	logger.Info().
		Int64("completed_players", completed.Load()).
		Int64("early_end_players", ended.Load()).
		Int64("failed_players", failed.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("done")

	if failed.Load() > 0 {
		os.Exit(1)
	}
}
