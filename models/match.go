package models

import (
	"time"
)

// MatchStatus представляет статусы матча, соответствующие ENUM в БД.
type MatchStatus string

const (
	MatchStatusRecruiting          MatchStatus = "recruiting"
	MatchStatusFull                MatchStatus = "full"
	MatchStatusPendingConfirmation MatchStatus = "pending_confirmation"
	MatchStatusCompleted           MatchStatus = "completed"
	MatchStatusCanceled            MatchStatus = "canceled"
)

// matchTransitions — закрытая таблица переходов. Любой переход вне таблицы невалиден.
var matchTransitions = map[MatchStatus][]MatchStatus{
	MatchStatusRecruiting:          {MatchStatusFull, MatchStatusCanceled},
	MatchStatusFull:                {MatchStatusRecruiting, MatchStatusPendingConfirmation, MatchStatusCanceled},
	MatchStatusPendingConfirmation: {MatchStatusCompleted},
	MatchStatusCompleted:           {},
	MatchStatusCanceled:            {},
}

func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	for _, allowed := range matchTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s MatchStatus) IsTerminal() bool {
	return len(matchTransitions[s]) == 0
}

// PlayerRole представляет роль игрока в составе матча.
type PlayerRole string

const (
	RoleCreator  PlayerRole = "creator"
	RoleInvited  PlayerRole = "invited"
	RolePending  PlayerRole = "pending"
	RoleApproved PlayerRole = "approved"
)

// CountsApproved reports whether the role occupies one of the four match slots.
// The creator never goes through the pending queue.
func (r PlayerRole) CountsApproved() bool {
	return r == RoleApproved || r == RoleCreator
}

// Team — сторона корта: 0 пока не распределена.
type Team int

const (
	TeamUnassigned Team = 0
	TeamOne        Team = 1
	TeamTwo        Team = 2
)

type MatchPlayer struct {
	PlayerID int        `json:"player_id"`
	Role     PlayerRole `json:"role"`
	Team     Team       `json:"team"`

	Player *Player `json:"player,omitempty" db:"-"`
}

// MaxMatchPlayers — padel is always two on two.
const MaxMatchPlayers = 4

type Match struct {
	ID              int              `json:"id" db:"id"`
	CreatorID       int              `json:"creator_id" db:"creator_id"`
	StartTime       time.Time        `json:"start_time" db:"start_time"`
	DurationMinutes int              `json:"duration_minutes" db:"duration_minutes"`
	// OpenJoin: игроки занимают слот сразу, без одобрения создателя.
	OpenJoin        bool             `json:"open_join" db:"open_join"`
	Status          MatchStatus      `json:"status" db:"status"`
	Roster          []MatchPlayer    `json:"roster" db:"-"`
	Sets            []SetScore       `json:"sets,omitempty" db:"-"`
	Submission      *ScoreSubmission `json:"submission,omitempty" db:"-"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

// RosterEntry возвращает запись игрока в составе, если он там есть.
func (m *Match) RosterEntry(playerID int) (*MatchPlayer, bool) {
	for i := range m.Roster {
		if m.Roster[i].PlayerID == playerID {
			return &m.Roster[i], true
		}
	}
	return nil, false
}

func (m *Match) HasPlayer(playerID int) bool {
	_, ok := m.RosterEntry(playerID)
	return ok
}

// ApprovedCount counts the occupied slots (creator included).
func (m *Match) ApprovedCount() int {
	count := 0
	for i := range m.Roster {
		if m.Roster[i].Role.CountsApproved() {
			count++
		}
	}
	return count
}

// ApprovedIDs returns the players occupying slots, in roster order.
func (m *Match) ApprovedIDs() []int {
	ids := make([]int, 0, MaxMatchPlayers)
	for i := range m.Roster {
		if m.Roster[i].Role.CountsApproved() {
			ids = append(ids, m.Roster[i].PlayerID)
		}
	}
	return ids
}

func (m *Match) IsFull() bool {
	return m.ApprovedCount() >= MaxMatchPlayers
}
