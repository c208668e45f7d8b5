// Package rounds produces per-round court pairings for the supported
// tournament formats. Generators are pure: they see registrations and
// (for Mexicano) the live ranking, and emit planned matches that the
// service layer persists.
package rounds

import (
	"github.com/courtside/padel-system/models"
)

// PlannedMatch — запланированный матч 2 на 2 на конкретном корте.
type PlannedMatch struct {
	Court int
	Team1 [2]int
	Team2 [2]int
}

// GenerateParams carries everything a generator may need. Teams is the
// registration list as fixed pairs; Ranked is the player ranking from
// the latest standings and is only consulted by Mexicano.
type GenerateParams struct {
	Tournament *models.Tournament
	Teams      [][2]int
	Ranked     []int
}

// Generator produces the rounds that can be planned right now: every
// remaining round for pre-generated formats, exactly one round for
// formats re-seeded from standings.
type Generator interface {
	NextRounds(params GenerateParams) ([][]PlannedMatch, error)

	FormatName() string
}

// ForFormat picks the generator for a tournament format.
func ForFormat(format models.TournamentFormat) (Generator, bool) {
	switch format {
	case models.FormatAmericano:
		return NewAmericanoGenerator(), true
	case models.FormatMexicano:
		return NewMexicanoGenerator(), true
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(false), true
	case models.FormatRoundRobinPlayoff:
		return NewRoundRobinGenerator(true), true
	}
	return nil, false
}

// Participants lists every player id covered by a planned round.
func Participants(round []PlannedMatch) []int {
	ids := make([]int, 0, len(round)*4)
	for _, m := range round {
		ids = append(ids, m.Team1[0], m.Team1[1], m.Team2[0], m.Team2[1])
	}
	return ids
}
