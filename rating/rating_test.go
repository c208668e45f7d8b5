package rating

import (
	"testing"

	"github.com/courtside/padel-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(n, g1, g2 int) models.SetScore {
	return models.SetScore{Number: n, Team1Games: g1, Team2Games: g2}
}

func TestComputeMatchDeltasEqualTeams(t *testing.T) {
	// Both teams average 1500: expectancy 0.5, so a straight win is
	// worth exactly K/2 = 16 points per player.
	teamA := [2]PlayerRating{{PlayerID: 1, Rating: 1500}, {PlayerID: 2, Rating: 1500}}
	teamB := [2]PlayerRating{{PlayerID: 3, Rating: 1400}, {PlayerID: 4, Rating: 1600}}

	deltas, err := ComputeMatchDeltas(teamA, teamB, []models.SetScore{set(1, 6, 3), set(2, 6, 4)}, 1)
	require.NoError(t, err)
	require.Len(t, deltas, 4)

	assert.Equal(t, 16, deltas[0].Change)
	assert.Equal(t, 16, deltas[1].Change)
	assert.Equal(t, -16, deltas[2].Change)
	assert.Equal(t, -16, deltas[3].Change)
	assert.Equal(t, 1516, deltas[0].NewRating)
	assert.Equal(t, 1384, deltas[2].NewRating)
}

func TestComputeMatchDeltasZeroSum(t *testing.T) {
	tests := []struct {
		name       string
		teamA      [2]PlayerRating
		teamB      [2]PlayerRating
		sets       []models.SetScore
		multiplier float64
	}{
		{
			name:       "underdog wins",
			teamA:      [2]PlayerRating{{1, 1200}, {2, 1300}},
			teamB:      [2]PlayerRating{{3, 1800}, {4, 1700}},
			sets:       []models.SetScore{set(1, 6, 4), set(2, 3, 6), set(3, 7, 5)},
			multiplier: 1,
		},
		{
			name:       "favourite wins with multiplier",
			teamA:      [2]PlayerRating{{1, 2100}, {2, 1900}},
			teamB:      [2]PlayerRating{{3, 1500}, {4, 1500}},
			sets:       []models.SetScore{set(1, 6, 0), set(2, 6, 1)},
			multiplier: 1.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deltas, err := ComputeMatchDeltas(tt.teamA, tt.teamB, tt.sets, tt.multiplier)
			require.NoError(t, err)

			sum := 0
			for _, d := range deltas {
				sum += d.Change
			}
			assert.Zero(t, sum, "rating exchange must be zero-sum away from the clamp")
			assert.Equal(t, deltas[0].Change, deltas[1].Change, "teammates share the delta")
			assert.Equal(t, deltas[2].Change, deltas[3].Change, "teammates share the delta")
		})
	}
}

func TestComputeMatchDeltasClampsAtFloor(t *testing.T) {
	// A player at rating 5 losing cannot go below the floor; the other
	// side still gains the full amount. This is the one documented
	// exception to the zero-sum invariant.
	teamA := [2]PlayerRating{{1, 1500}, {2, 1500}}
	teamB := [2]PlayerRating{{3, 5}, {4, 1500}}

	deltas, err := ComputeMatchDeltas(teamA, teamB, []models.SetScore{set(1, 6, 0)}, 1)
	require.NoError(t, err)

	assert.Equal(t, models.RatingFloor, deltas[2].NewRating)
	assert.Equal(t, -5, deltas[2].Change)
	assert.Equal(t, deltas[3].Change, deltas[0].Change*-1, "unclamped loser mirrors the winners")
}

func TestComputeMatchDeltasClampsAtCeiling(t *testing.T) {
	teamA := [2]PlayerRating{{1, 4998}, {2, 1000}}
	teamB := [2]PlayerRating{{3, 1500}, {4, 1500}}

	deltas, err := ComputeMatchDeltas(teamA, teamB, []models.SetScore{set(1, 6, 2)}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.RatingCeiling, deltas[0].NewRating)
	assert.LessOrEqual(t, deltas[0].Change, deltas[1].Change)
}

func TestComputeMatchDeltasRejectsDraw(t *testing.T) {
	teamA := [2]PlayerRating{{1, 1500}, {2, 1500}}
	teamB := [2]PlayerRating{{3, 1500}, {4, 1500}}

	_, err := ComputeMatchDeltas(teamA, teamB, []models.SetScore{set(1, 6, 4), set(2, 4, 6)}, 1)
	assert.Error(t, err)
}

func TestComputeMatchDeltasRejectsEmptySets(t *testing.T) {
	teamA := [2]PlayerRating{{1, 1500}, {2, 1500}}
	teamB := [2]PlayerRating{{3, 1500}, {4, 1500}}

	_, err := ComputeMatchDeltas(teamA, teamB, nil, 1)
	assert.Error(t, err)

	_, err = ComputeMatchDeltas(teamA, teamB, []models.SetScore{set(1, 6, 4)}, 0)
	assert.Error(t, err)
}

func TestExpectedScoreSymmetry(t *testing.T) {
	e := ExpectedScore(1500, 1500)
	assert.InDelta(t, 0.5, e, 1e-9)

	strong := ExpectedScore(1700, 1500)
	weak := ExpectedScore(1500, 1700)
	assert.InDelta(t, 1.0, strong+weak, 1e-9)
	assert.Greater(t, strong, weak)
}

func TestComputePointDeltasEqualTeamsWin(t *testing.T) {
	teamA := [2]PlayerRating{{1, 1500}, {2, 1500}}
	teamB := [2]PlayerRating{{3, 1500}, {4, 1500}}

	deltas, err := ComputePointDeltas(teamA, teamB, 16, 8, 1)
	require.NoError(t, err)
	require.Len(t, deltas, 4)

	for _, d := range deltas[:2] {
		assert.Equal(t, 16, d.Change)
	}
	for _, d := range deltas[2:] {
		assert.Equal(t, -16, d.Change)
	}
}

func TestComputePointDeltasDraw(t *testing.T) {
	teamA := [2]PlayerRating{{1, 1500}, {2, 1500}}
	teamB := [2]PlayerRating{{3, 1500}, {4, 1500}}

	deltas, err := ComputePointDeltas(teamA, teamB, 12, 12, 1)
	require.NoError(t, err)
	for _, d := range deltas {
		assert.Zero(t, d.Change, "equal ratings and a draw exchange nothing")
	}
}

func TestComputePointDeltasDrawFavoritesLose(t *testing.T) {
	// Фавориты, сыгравшие вничью, недобирают до ожидания и теряют очки.
	teamA := [2]PlayerRating{{1, 1800}, {2, 1800}}
	teamB := [2]PlayerRating{{3, 1400}, {4, 1400}}

	deltas, err := ComputePointDeltas(teamA, teamB, 12, 12, 1)
	require.NoError(t, err)
	assert.Negative(t, deltas[0].Change)
	assert.Positive(t, deltas[2].Change)
}

func TestComputePointDeltasMultiplier(t *testing.T) {
	teamA := [2]PlayerRating{{1, 1500}, {2, 1500}}
	teamB := [2]PlayerRating{{3, 1500}, {4, 1500}}

	base, err := ComputePointDeltas(teamA, teamB, 16, 8, 1)
	require.NoError(t, err)
	doubled, err := ComputePointDeltas(teamA, teamB, 16, 8, 2)
	require.NoError(t, err)

	assert.Equal(t, base[0].Change*2, doubled[0].Change)

	_, err = ComputePointDeltas(teamA, teamB, 16, 8, 0)
	assert.Error(t, err)
}
