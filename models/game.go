package models

import "time"

const SeatsPerGame = 4

// TricksPerGame is the number of tricks in a full hand of 13 cards.
const TricksPerGame = HandSize

type GameState string

const (
	StateIdle      GameState = "idle"
	StateWaiting   GameState = "waiting"
	StateReady     GameState = "ready"
	StatePlaying   GameState = "playing"
	StateCompleted GameState = "completed"
)

// DealMode selects how hands are produced once a game is full.
type DealMode string

const (
	// DealShared shuffles one deck per game and gives every seat its own
	// slice of it.
	DealShared DealMode = "shared"
	// DealPerSeat shuffles a fresh deck for every seat, as older servers did.
	// Hands may then overlap.
	DealPerSeat DealMode = "per-seat"
)

func (m DealMode) Valid() bool {
	return m == DealShared || m == DealPerSeat
}

// TeamOf maps a seat to its team: seats 0 and 2 are team 0, seats 1 and 3
// are team 1.
func TeamOf(seat int) int {
	return seat % 2
}

type Outcome string

const (
	OutcomeCompleted  Outcome = "completed"
	OutcomeTerminated Outcome = "terminated"
)

// Stats is a point in time copy of the server counters.
type Stats struct {
	Connected      int `json:"connected"`
	TotalConnected int `json:"totalConnected"`
	Running        int `json:"running"`
	Completed      int `json:"completed"`
	Terminated     int `json:"terminated"`
	Tricks         int `json:"tricks"`
}

type SeatSummary struct {
	Seat     int    `json:"seat"`
	ClientID string `json:"clientId"`
	Name     string `json:"name"`
}

type GameSummary struct {
	GameID     string        `json:"gameId"`
	Name       string        `json:"name"`
	State      GameState     `json:"state"`
	Seats      []SeatSummary `json:"seats"`
	TeamTricks [2]int        `json:"teamTricks"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// GameResult is handed to a recorder when a game finishes either way.
type GameResult struct {
	GameID           string
	Name             string
	Players          [SeatsPerGame]string
	Outcome          Outcome
	TeamTricks       [2]int
	WinningTeam      int // 1 or 2 as announced, 0 when terminated
	DisconnectedSeat int // -1 unless terminated
	StartedAt        time.Time
	EndedAt          time.Time
}

// TrickResult describes one resolved trick.
type TrickResult struct {
	GameID string
	Number int
	Leader int
	Winner int
	Cards  [SeatsPerGame]Card // indexed by seat
}
