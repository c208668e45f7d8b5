package standings

import (
	"testing"

	"github.com/courtside/padel-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completed(t1p1, t1p2, t2p1, t2p2, s1, s2 int) models.TournamentMatch {
	return models.TournamentMatch{
		Team1Player1: t1p1, Team1Player2: t1p2,
		Team2Player1: t2p1, Team2Player2: t2p2,
		Team1Score: &s1, Team2Score: &s2,
		Status: models.TournamentMatchCompleted,
	}
}

func TestComputeAccumulates(t *testing.T) {
	matches := []models.TournamentMatch{
		completed(1, 2, 3, 4, 16, 8),
		completed(1, 3, 2, 4, 10, 14),
	}

	table := Compute(7, matches, nil)
	require.Len(t, table, 4)

	byID := make(map[int]models.Standing)
	for _, s := range table {
		byID[s.PlayerID] = s
	}

	assert.Equal(t, 26, byID[1].Points)
	assert.Equal(t, 1, byID[1].Wins)
	assert.Equal(t, 1, byID[1].Losses)
	assert.Equal(t, 26, byID[1].PointsFor)
	assert.Equal(t, 22, byID[1].PointsAgainst)

	assert.Equal(t, 22, byID[4].Points)
	assert.Equal(t, 2, byID[4].Wins)
	assert.Equal(t, 7, byID[4].TournamentID)
}

func TestComputeSkipsUnscoredMatches(t *testing.T) {
	matches := []models.TournamentMatch{
		completed(1, 2, 3, 4, 16, 8),
		{Team1Player1: 1, Team1Player2: 3, Team2Player1: 2, Team2Player2: 4, Status: models.TournamentMatchScheduled},
	}

	table := Compute(1, matches, nil)
	require.Len(t, table, 4)
	for _, s := range table {
		assert.Equal(t, 1, s.Wins+s.Losses)
	}
}

func TestComputeSeedsPlayersWithoutMatches(t *testing.T) {
	matches := []models.TournamentMatch{completed(1, 2, 3, 4, 16, 8)}
	ratings := map[int]int{1: 1500, 2: 1500, 3: 1500, 4: 1500, 5: 1600}

	table := Compute(1, matches, ratings)
	require.Len(t, table, 5, "player sitting the round out keeps a row")

	last := table[len(table)-1]
	assert.Equal(t, 5, last.PlayerID)
	assert.Zero(t, last.Points)
}

func TestSortTotalOrder(t *testing.T) {
	// Players 30 and 10 are tied on every sortable stat; the player id
	// has to break the tie, deterministically.
	table := []models.Standing{
		{PlayerID: 30, Points: 20, PointsFor: 20, PointsAgainst: 10},
		{PlayerID: 10, Points: 20, PointsFor: 20, PointsAgainst: 10},
		{PlayerID: 5, Points: 24, PointsFor: 24, PointsAgainst: 6},
		{PlayerID: 7, Points: 20, PointsFor: 22, PointsAgainst: 10},
	}

	Sort(table, map[int]int{30: 1500, 10: 1500})
	assert.Equal(t, []int{5, 7, 10, 30}, []int{table[0].PlayerID, table[1].PlayerID, table[2].PlayerID, table[3].PlayerID})
}

func TestSortRatingTiebreak(t *testing.T) {
	table := []models.Standing{
		{PlayerID: 1, Points: 12, PointsFor: 12, PointsAgainst: 12},
		{PlayerID: 2, Points: 12, PointsFor: 12, PointsAgainst: 12},
	}

	Sort(table, map[int]int{1: 1400, 2: 1900})
	assert.Equal(t, 2, table[0].PlayerID, "higher rated player ranks first on full tie")
}

func TestComputePositionsAreOneIndexed(t *testing.T) {
	matches := []models.TournamentMatch{completed(1, 2, 3, 4, 20, 4)}
	table := Compute(1, matches, nil)

	for i, s := range table {
		assert.Equal(t, i+1, s.Position)
	}
	assert.Equal(t, 1, table[0].Position)
}
