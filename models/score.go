package models

import (
	"time"
)

// SetScore — счёт одного сета. Тай-брейк хранится парой и имеет смысл
// только при 7-6 или 6-7 по геймам.
type SetScore struct {
	Number        int  `json:"number" db:"set_number"`
	Team1Games    int  `json:"team1_games" db:"team1_games"`
	Team2Games    int  `json:"team2_games" db:"team2_games"`
	Team1Tiebreak *int `json:"team1_tiebreak,omitempty" db:"team1_tiebreak"`
	Team2Tiebreak *int `json:"team2_tiebreak,omitempty" db:"team2_tiebreak"`
}

// HasTiebreak reports whether the set carries a tiebreak pair.
func (s SetScore) HasTiebreak() bool {
	return s.Team1Tiebreak != nil || s.Team2Tiebreak != nil
}

// TiebreakAllowed reports whether the game score admits a tiebreak at all.
func (s SetScore) TiebreakAllowed() bool {
	return (s.Team1Games == 7 && s.Team2Games == 6) || (s.Team1Games == 6 && s.Team2Games == 7)
}

// Winner возвращает сторону, выигравшую сет, или TeamUnassigned при равенстве.
func (s SetScore) Winner() Team {
	switch {
	case s.Team1Games > s.Team2Games:
		return TeamOne
	case s.Team2Games > s.Team1Games:
		return TeamTwo
	default:
		return TeamUnassigned
	}
}

// TeamAssignment — финальное распределение четырёх игроков по сторонам,
// фиксируется при подаче счёта и больше не меняется.
type TeamAssignment struct {
	Team1 [2]int `json:"team1"`
	Team2 [2]int `json:"team2"`
}

func (a TeamAssignment) Contains(playerID int) (Team, bool) {
	if a.Team1[0] == playerID || a.Team1[1] == playerID {
		return TeamOne, true
	}
	if a.Team2[0] == playerID || a.Team2[1] == playerID {
		return TeamTwo, true
	}
	return TeamUnassigned, false
}

// ScoreSubmission существует только пока матч в pending_confirmation.
type ScoreSubmission struct {
	ID              string         `json:"id" db:"id"`
	MatchID         int            `json:"match_id" db:"match_id"`
	SubmitterID     int            `json:"submitter_id" db:"submitter_id"`
	Teams           TeamAssignment `json:"teams" db:"-"`
	Sets            []SetScore     `json:"sets" db:"-"`
	SubmittedAt     time.Time      `json:"submitted_at" db:"submitted_at"`
	ConfirmDeadline time.Time      `json:"confirm_deadline" db:"confirm_deadline"`
}

// SetsWonBy counts sets taken by the given side across the submitted sets.
func SetsWonBy(sets []SetScore, team Team) int {
	won := 0
	for _, s := range sets {
		if s.Winner() == team {
			won++
		}
	}
	return won
}
