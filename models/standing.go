package models

import "time"

// Standing — агрегированный результат игрока в турнире. Пересчитывается
// из завершённых матчей; в БД хранится только как кэш.
type Standing struct {
	TournamentID  int       `json:"tournament_id" db:"tournament_id"`
	PlayerID      int       `json:"player_id" db:"player_id"`
	Points        int       `json:"points" db:"points"`
	Wins          int       `json:"wins" db:"wins"`
	Losses        int       `json:"losses" db:"losses"`
	PointsFor     int       `json:"points_for" db:"points_for"`
	PointsAgainst int       `json:"points_against" db:"points_against"`
	Position      int       `json:"position" db:"position"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}

// Diff — разница набранных и пропущенных очков, первый тай-брейкер.
func (s Standing) Diff() int {
	return s.PointsFor - s.PointsAgainst
}
