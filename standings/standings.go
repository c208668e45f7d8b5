// Package standings derives ranked tournament tables from completed
// tournament matches. Computation is pure and deterministic: the same
// matches and ratings always produce the same table, so the result can
// be cached and thrown away freely.
package standings

import (
	"sort"
	"time"

	"github.com/courtside/padel-system/models"
)

// Compute accumulates per-player points, wins, losses and score totals
// from the completed matches of a tournament, then ranks the table.
// Matches without a recorded score are skipped. ratings feeds the
// third tie-breaker and may be nil; every player present in ratings
// gets a row even before playing, so a player sitting out a round
// never drops off the table.
func Compute(tournamentID int, matches []models.TournamentMatch, ratings map[int]int) []models.Standing {
	byPlayer := make(map[int]*models.Standing, len(ratings))
	for playerID := range ratings {
		byPlayer[playerID] = &models.Standing{TournamentID: tournamentID, PlayerID: playerID}
	}

	get := func(playerID int) *models.Standing {
		s, ok := byPlayer[playerID]
		if !ok {
			s = &models.Standing{TournamentID: tournamentID, PlayerID: playerID}
			byPlayer[playerID] = s
		}
		return s
	}

	for i := range matches {
		m := &matches[i]
		if m.Status != models.TournamentMatchCompleted || m.Team1Score == nil || m.Team2Score == nil {
			continue
		}
		s1, s2 := *m.Team1Score, *m.Team2Score

		for _, id := range [2]int{m.Team1Player1, m.Team1Player2} {
			accumulate(get(id), s1, s2)
		}
		for _, id := range [2]int{m.Team2Player1, m.Team2Player2} {
			accumulate(get(id), s2, s1)
		}
	}

	table := make([]models.Standing, 0, len(byPlayer))
	now := time.Now()
	for _, s := range byPlayer {
		s.UpdatedAt = now
		table = append(table, *s)
	}

	Sort(table, ratings)
	for i := range table {
		table[i].Position = i + 1
	}
	return table
}

// Sort orders a table in place: points desc, then point differential
// desc, then rating desc, then player id asc. The final key makes the
// order total — two rows never compare equal.
func Sort(table []models.Standing, ratings map[int]int) {
	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Diff() != b.Diff() {
			return a.Diff() > b.Diff()
		}
		if ratings[a.PlayerID] != ratings[b.PlayerID] {
			return ratings[a.PlayerID] > ratings[b.PlayerID]
		}
		return a.PlayerID < b.PlayerID
	})
}

func accumulate(s *models.Standing, scored, conceded int) {
	s.Points += scored
	s.PointsFor += scored
	s.PointsAgainst += conceded
	if scored > conceded {
		s.Wins++
	} else if scored < conceded {
		s.Losses++
	}
}
