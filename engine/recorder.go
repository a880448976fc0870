package engine

import "rats-server/models"

// Recorder receives finished tricks and games. Calls are made after the
// game lock has been released.
type Recorder interface {
	RecordTrick(trick models.TrickResult) error
	RecordGame(result models.GameResult) error
}

type nopRecorder struct{}

func (nopRecorder) RecordTrick(models.TrickResult) error { return nil }
func (nopRecorder) RecordGame(models.GameResult) error { return nil }
