package models

import "time"

// Границы рейтинга. Рейтинг никогда не выходит за эти пределы.
const (
	RatingFloor   = 0
	RatingCeiling = 5000
	InitialRating = 1500
)

type PlayerRoleGlobal string

const (
	GlobalRolePlayer PlayerRoleGlobal = "player"
	GlobalRoleAdmin  PlayerRoleGlobal = "admin"
)

// Player представляет игрока. Ядро читает и пишет только рейтинг и историю,
// остальными полями владеет реестр игроков.
type Player struct {
	ID           int              `json:"id" db:"id"`
	FirstName    string           `json:"first_name" db:"first_name"`
	LastName     string           `json:"last_name" db:"last_name"`
	Email        string           `json:"email" db:"email"`
	PasswordHash string           `json:"-" db:"password_hash"`
	Role         PlayerRoleGlobal `json:"role" db:"role"`
	Rating       int              `json:"rating" db:"rating"`
	AvatarKey    *string          `json:"-" db:"avatar_key"`
	AvatarURL    *string          `json:"avatar_url,omitempty" db:"-"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}

// RatingHistoryEntry — одна запись истории рейтинга. Ровно одно из
// MatchID / TournamentID заполнено в зависимости от источника изменения.
type RatingHistoryEntry struct {
	ID           int       `json:"id" db:"id"`
	PlayerID     int       `json:"player_id" db:"player_id"`
	MatchID      *int      `json:"match_id,omitempty" db:"match_id"`
	TournamentID *int      `json:"tournament_id,omitempty" db:"tournament_id"`
	OldRating    int       `json:"old_rating" db:"old_rating"`
	NewRating    int       `json:"new_rating" db:"new_rating"`
	Change       int       `json:"change" db:"change"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
