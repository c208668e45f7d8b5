package rounds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairByRankingEightPlayers(t *testing.T) {
	ranked := []int{11, 22, 33, 44, 55, 66, 77, 88}

	round, err := PairByRanking(ranked)
	require.NoError(t, err)
	require.Len(t, round, 2)

	// Top block: leader partners rank 4 against ranks 2 and 3.
	assert.Equal(t, [2]int{11, 44}, round[0].Team1)
	assert.Equal(t, [2]int{22, 33}, round[0].Team2)
	assert.Equal(t, 1, round[0].Court)

	assert.Equal(t, [2]int{55, 88}, round[1].Team1)
	assert.Equal(t, [2]int{66, 77}, round[1].Team2)
	assert.Equal(t, 2, round[1].Court)

	players := Participants(round)
	assert.Len(t, players, 8, "all 8 players covered exactly once")
}

func TestPairByRankingLeftoversSitOut(t *testing.T) {
	ranked := []int{1, 2, 3, 4, 5, 6}

	round, err := PairByRanking(ranked)
	require.NoError(t, err)
	require.Len(t, round, 1, "only one complete block of four")

	playing := make(map[int]struct{})
	for _, id := range Participants(round) {
		playing[id] = struct{}{}
	}
	_, five := playing[5]
	_, six := playing[6]
	assert.False(t, five, "bottom leftover players sit the round out")
	assert.False(t, six)
}

func TestPairByRankingReflectsFreshOrder(t *testing.T) {
	// After a round the order changes; the new leader must be paired
	// from the new order, not from any earlier snapshot.
	before := []int{1, 2, 3, 4}
	after := []int{3, 1, 4, 2}

	r1, err := PairByRanking(before)
	require.NoError(t, err)
	r2, err := PairByRanking(after)
	require.NoError(t, err)

	assert.Equal(t, [2]int{1, 4}, r1[0].Team1)
	assert.Equal(t, [2]int{3, 2}, r2[0].Team1, "new leader pairs with the new rank four")
	assert.Equal(t, [2]int{1, 4}, r2[0].Team2)
}

func TestPairByRankingValidation(t *testing.T) {
	_, err := PairByRanking([]int{1, 2, 3})
	assert.Error(t, err, "fewer than four players")

	_, err = PairByRanking([]int{1, 2, 3, 1})
	assert.Error(t, err, "duplicate player in ranking")
}

func TestMexicanoGeneratorEmitsSingleRound(t *testing.T) {
	g := NewMexicanoGenerator()
	schedule, err := g.NextRounds(GenerateParams{Ranked: []int{1, 2, 3, 4, 5, 6, 7, 8}})
	require.NoError(t, err)
	require.Len(t, schedule, 1, "mexicano plans one round at a time")
	assert.Len(t, schedule[0], 2)
}
