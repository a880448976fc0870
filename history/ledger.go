// Package history keeps a queryable record of finished games and their
// tricks for the lifetime of the process. The database is in memory only.
package history

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rats-server/models"
)

var ErrNotFound = errors.New("game not found")

const DefaultLimit = 50

type Ledger struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open creates an empty in-memory ledger.
func Open(log zerolog.Logger) (*Ledger, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&GameRecord{}, &TrickRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate ledger: %w", err)
	}

	return &Ledger{db: db, log: log.With().Str("component", "history").Logger()}, nil
}

func (l *Ledger) RecordTrick(trick models.TrickResult) error {
	cards := make([]string, len(trick.Cards))
	for i, c := range trick.Cards {
		cards[i] = c.String()
	}
	record := TrickRecord{
		GameID: trick.GameID,
		Number: trick.Number,
		Leader: trick.Leader + 1,
		Winner: trick.Winner + 1,
		Cards:  strings.Join(cards, ""),
	}
	if err := l.db.Create(&record).Error; err != nil {
		return fmt.Errorf("record trick %d of %s: %w", trick.Number, trick.GameID, err)
	}
	return nil
}

func (l *Ledger) RecordGame(result models.GameResult) error {
	record := GameRecord{
		GameID:      result.GameID,
		Name:        result.Name,
		Seat1:       result.Players[0],
		Seat2:       result.Players[1],
		Seat3:       result.Players[2],
		Seat4:       result.Players[3],
		Outcome:     string(result.Outcome),
		Team1Tricks: result.TeamTricks[0],
		Team2Tricks: result.TeamTricks[1],
		WinningTeam: result.WinningTeam,
		StartedAt:   result.StartedAt,
		EndedAt:     result.EndedAt,
	}
	if result.DisconnectedSeat >= 0 {
		seat := result.DisconnectedSeat + 1
		record.DisconnectedSeat = &seat
	}
	if err := l.db.Create(&record).Error; err != nil {
		return fmt.Errorf("record game %s: %w", result.GameID, err)
	}
	l.log.Debug().Str("game_id", result.GameID).Str("outcome", record.Outcome).Msg("game recorded")
	return nil
}

// RecentGames returns up to limit games, most recently finished first.
func (l *Ledger) RecentGames(limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var games []GameRecord
	err := l.db.Order("ended_at DESC").Order("id DESC").Limit(limit).Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// GameWithTricks returns a finished game and its tricks in play order.
func (l *Ledger) GameWithTricks(gameID string) (*GameRecord, []TrickRecord, error) {
	var game GameRecord
	err := l.db.Where("game_id = ?", gameID).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get game %s: %w", gameID, err)
	}

	var tricks []TrickRecord
	if err := l.db.Where("game_id = ?", gameID).Order("number ASC").Find(&tricks).Error; err != nil {
		return nil, nil, fmt.Errorf("get tricks of %s: %w", gameID, err)
	}
	return &game, tricks, nil
}

func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
