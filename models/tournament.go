package models

import "time"

// TournamentFormat представляет форматы турнира, соответствующие ENUM в БД.
type TournamentFormat string

const (
	FormatAmericano         TournamentFormat = "americano"
	FormatMexicano          TournamentFormat = "mexicano"
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatRoundRobinPlayoff TournamentFormat = "round_robin_playoff"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatAmericano, FormatMexicano, FormatRoundRobin, FormatRoundRobinPlayoff:
		return true
	}
	return false
}

// RoundsPregenerated reports whether every round is produced at start.
// Mexicano is the only format re-seeded round by round.
func (f TournamentFormat) RoundsPregenerated() bool {
	return f != FormatMexicano
}

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	TournamentRegistration TournamentStatus = "registration"
	TournamentInProgress   TournamentStatus = "in_progress"
	TournamentCompleted    TournamentStatus = "completed"
	TournamentCanceled     TournamentStatus = "canceled"
)

var tournamentTransitions = map[TournamentStatus][]TournamentStatus{
	TournamentRegistration: {TournamentInProgress, TournamentCanceled},
	TournamentInProgress:   {TournamentCompleted, TournamentCanceled},
	TournamentCompleted:    {},
	TournamentCanceled:     {},
}

func (s TournamentStatus) CanTransitionTo(next TournamentStatus) bool {
	for _, allowed := range tournamentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Tournament представляет турнир.
type Tournament struct {
	ID               int              `json:"id" db:"id"`
	Name             string           `json:"name" db:"name"`
	Format           TournamentFormat `json:"format" db:"format"`
	OrganizerID      int              `json:"organizer_id" db:"organizer_id"`
	PointsPerMatch   int              `json:"points_per_match" db:"points_per_match"`
	MaxTeams         int              `json:"max_teams" db:"max_teams"`
	Status           TournamentStatus `json:"status" db:"status"`
	CurrentRound     int              `json:"current_round" db:"current_round"`
	RatingMultiplier float64          `json:"rating_multiplier" db:"rating_multiplier"`
	StartDate        time.Time        `json:"start_date" db:"start_date"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	LogoKey          *string          `json:"-" db:"logo_key"`
	LogoURL          *string          `json:"logo_url,omitempty" db:"-"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Registrations []Registration `json:"registrations,omitempty" db:"-"`
	Rounds        []Round        `json:"rounds,omitempty" db:"-"`
	Standings     []Standing     `json:"standings,omitempty" db:"-"`
}

// Registration — фиксированная пара на турнир. В мексикано пары
// пересобираются каждый раунд, но регистрация всё равно парная.
type Registration struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Player1ID    int       `json:"player1_id" db:"player1_id"`
	Player2ID    int       `json:"player2_id" db:"player2_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Player1 *Player `json:"player1,omitempty" db:"-"`
	Player2 *Player `json:"player2,omitempty" db:"-"`
}

// PlayerIDs returns all registered players of the tournament in
// registration order.
func PlayerIDs(regs []Registration) []int {
	ids := make([]int, 0, len(regs)*2)
	for _, r := range regs {
		ids = append(ids, r.Player1ID, r.Player2ID)
	}
	return ids
}
