package rounds

import (
	"fmt"
	"testing"

	"github.com/courtside/padel-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairKey(a, b [2]int) string {
	// Team identity is its player pair; order between teams must not matter.
	ka := fmt.Sprintf("%d-%d", a[0], a[1])
	kb := fmt.Sprintf("%d-%d", b[0], b[1])
	if ka < kb {
		return ka + "|" + kb
	}
	return kb + "|" + ka
}

func teams(n int) [][2]int {
	out := make([][2]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, [2]int{i*2 + 1, i*2 + 2})
	}
	return out
}

func TestAmericanoFullRoundRobinEven(t *testing.T) {
	g := NewAmericanoGenerator()
	schedule, err := g.NextRounds(GenerateParams{Teams: teams(6)})
	require.NoError(t, err)
	require.Len(t, schedule, 5, "6 teams play 5 rounds")

	seen := make(map[string]int)
	for _, round := range schedule {
		assert.Len(t, round, 3, "every round fills 3 courts")

		players := Participants(round)
		assert.Len(t, players, 12, "all 12 players covered each round")
		unique := make(map[int]struct{})
		for _, id := range players {
			unique[id] = struct{}{}
		}
		assert.Len(t, unique, 12, "a player appears at most once per round")

		for _, m := range round {
			seen[pairKey(m.Team1, m.Team2)]++
		}
	}

	assert.Len(t, seen, 15, "every team pair meets exactly once")
	for key, count := range seen {
		assert.Equal(t, 1, count, "pairing %s repeated before exhaustion", key)
	}
}

func TestAmericanoOddTeamCountGetsByes(t *testing.T) {
	g := NewAmericanoGenerator()
	schedule, err := g.NextRounds(GenerateParams{Teams: teams(5)})
	require.NoError(t, err)
	require.Len(t, schedule, 5, "5 teams need 5 rounds with a rotating bye")

	byes := make(map[int]int) // first player of the team that sat out
	for _, round := range schedule {
		require.Len(t, round, 2)
		playing := make(map[int]struct{})
		for _, id := range Participants(round) {
			playing[id] = struct{}{}
		}
		for _, team := range teams(5) {
			if _, ok := playing[team[0]]; !ok {
				byes[team[0]]++
			}
		}
	}

	assert.Len(t, byes, 5, "every team sits out exactly once")
	for _, count := range byes {
		assert.Equal(t, 1, count)
	}
}

func TestAmericanoRejectsTooFewTeams(t *testing.T) {
	g := NewAmericanoGenerator()
	_, err := g.NextRounds(GenerateParams{Teams: teams(1)})
	assert.Error(t, err)
}

func TestRoundRobinPlayoffAppendsOneRound(t *testing.T) {
	g := NewRoundRobinGenerator(true)
	schedule, err := g.NextRounds(GenerateParams{Teams: teams(4)})
	require.NoError(t, err)
	require.Len(t, schedule, 4, "3 league rounds plus the playoff round")

	playoff := schedule[len(schedule)-1]
	require.Len(t, playoff, 2)
	assert.Equal(t, [2]int{1, 2}, playoff[0].Team1)
	assert.Equal(t, [2]int{3, 4}, playoff[0].Team2)
	assert.Equal(t, 1, playoff[0].Court)
	assert.Equal(t, 2, playoff[1].Court)
}

func TestForFormat(t *testing.T) {
	for _, format := range []models.TournamentFormat{
		models.FormatAmericano,
		models.FormatMexicano,
		models.FormatRoundRobin,
		models.FormatRoundRobinPlayoff,
	} {
		g, ok := ForFormat(format)
		require.True(t, ok, "no generator for %s", format)
		assert.NotEmpty(t, g.FormatName())
	}

	_, ok := ForFormat(models.TournamentFormat("padelmania"))
	assert.False(t, ok)
}
