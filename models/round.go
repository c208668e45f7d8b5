package models

import "time"

type RoundStatus string

const (
	RoundPending    RoundStatus = "pending"
	RoundInProgress RoundStatus = "in_progress"
	RoundCompleted  RoundStatus = "completed"
)

type TournamentMatchStatus string

const (
	TournamentMatchScheduled TournamentMatchStatus = "scheduled"
	TournamentMatchCompleted TournamentMatchStatus = "completed"
)

// Round — один тур турнира. Номера строго возрастают с 1 без пропусков.
type Round struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Number       int         `json:"number" db:"number"`
	Status       RoundStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	Matches []TournamentMatch `json:"matches,omitempty" db:"-"`
}

// Completed reports whether every match of the round has a recorded score.
func (r *Round) Completed() bool {
	if len(r.Matches) == 0 {
		return r.Status == RoundCompleted
	}
	for i := range r.Matches {
		if r.Matches[i].Status != TournamentMatchCompleted {
			return false
		}
	}
	return true
}

// TournamentMatch — матч 2 на 2 в рамках раунда. Счёт отсутствует,
// пока администратор его не внесёт.
type TournamentMatch struct {
	ID           int                   `json:"id" db:"id"`
	TournamentID int                   `json:"tournament_id" db:"tournament_id"`
	RoundID      int                   `json:"round_id" db:"round_id"`
	RoundNumber  int                   `json:"round_number" db:"round_number"`
	Court        int                   `json:"court" db:"court"`
	Team1Player1 int                   `json:"team1_player1" db:"team1_player1"`
	Team1Player2 int                   `json:"team1_player2" db:"team1_player2"`
	Team2Player1 int                   `json:"team2_player1" db:"team2_player1"`
	Team2Player2 int                   `json:"team2_player2" db:"team2_player2"`
	Team1Score   *int                  `json:"team1_score,omitempty" db:"team1_score"`
	Team2Score   *int                  `json:"team2_score,omitempty" db:"team2_score"`
	Status       TournamentMatchStatus `json:"status" db:"status"`
}

// Players returns the four participants of the match.
func (m *TournamentMatch) Players() [4]int {
	return [4]int{m.Team1Player1, m.Team1Player2, m.Team2Player1, m.Team2Player2}
}
