package rounds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinMatchesAmericanoSchedule(t *testing.T) {
	teams := [][2]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}}

	plain, err := NewRoundRobinGenerator(false).NextRounds(GenerateParams{Teams: teams})
	require.NoError(t, err)
	americano, err := NewAmericanoGenerator().NextRounds(GenerateParams{Teams: teams})
	require.NoError(t, err)

	assert.Equal(t, americano, plain, "league phase is the same circle schedule")
}

func TestRoundRobinPlayoffAppendsRound(t *testing.T) {
	teams := [][2]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}}

	playoff, err := NewRoundRobinGenerator(true).NextRounds(GenerateParams{Teams: teams})
	require.NoError(t, err)
	plain, err := NewRoundRobinGenerator(false).NextRounds(GenerateParams{Teams: teams})
	require.NoError(t, err)

	require.Len(t, playoff, len(plain)+1)

	final := playoff[len(playoff)-1]
	require.Len(t, final, 2)
	assert.Equal(t, [2]int{1, 2}, final[0].Team1)
	assert.Equal(t, [2]int{3, 4}, final[0].Team2)
	assert.Equal(t, [2]int{5, 6}, final[1].Team1)
	assert.Equal(t, [2]int{7, 8}, final[1].Team2)
}

func TestPlayoffRoundOddTeamSitsOut(t *testing.T) {
	round, err := PlayoffRound([][2]int{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	require.Len(t, round, 1, "trailing unpaired team gets no playoff match")
	assert.Equal(t, 1, round[0].Court)

	_, err = PlayoffRound([][2]int{{1, 2}})
	assert.Error(t, err)
}
