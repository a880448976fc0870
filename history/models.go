package history

import "time"

// GameRecord is one finished game, completed or terminated.
type GameRecord struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	GameID           string    `gorm:"size:36;uniqueIndex" json:"game_id"`
	Name             string    `gorm:"size:255;index" json:"name"`
	Seat1            string    `gorm:"size:255" json:"seat1"`
	Seat2            string    `gorm:"size:255" json:"seat2"`
	Seat3            string    `gorm:"size:255" json:"seat3"`
	Seat4            string    `gorm:"size:255" json:"seat4"`
	Outcome          string    `gorm:"size:16;index" json:"outcome"`
	Team1Tricks      int       `json:"team1_tricks"`
	Team2Tricks      int       `json:"team2_tricks"`
	WinningTeam      int       `json:"winning_team,omitempty"`
	DisconnectedSeat *int      `json:"disconnected_seat,omitempty"`
	StartedAt        time.Time `json:"started_at"`
	EndedAt          time.Time `gorm:"index" json:"ended_at"`
}

// TrickRecord is one resolved trick. Seats are numbered from 1 as on the
// wire; Cards lists the four cards in seat order.
type TrickRecord struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	GameID    string    `gorm:"size:36;index" json:"game_id"`
	Number    int       `json:"number"`
	Leader    int       `json:"leader"`
	Winner    int       `json:"winner"`
	Cards     string    `gorm:"size:16" json:"cards"`
	CreatedAt time.Time `json:"created_at"`
}
