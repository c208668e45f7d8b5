package rounds

import (
	"fmt"
)

// MexicanoGenerator re-pairs players every round from the current
// ranking: consecutive blocks of four, with ranks 1+4 against 2+3
// inside each block to balance team strength. The ranking must be
// recomputed from the just-finished round before calling it again.
type MexicanoGenerator struct{}

func NewMexicanoGenerator() *MexicanoGenerator {
	return &MexicanoGenerator{}
}

func (g *MexicanoGenerator) FormatName() string {
	return "Mexicano"
}

// NextRounds emits exactly one round. Players beyond the last complete
// block of four sit the round out.
func (g *MexicanoGenerator) NextRounds(params GenerateParams) ([][]PlannedMatch, error) {
	round, err := PairByRanking(params.Ranked)
	if err != nil {
		return nil, err
	}
	return [][]PlannedMatch{round}, nil
}

// PairByRanking groups a ranked player list into court pairings. The
// input order is authoritative: index 0 is the tournament leader.
func PairByRanking(ranked []int) ([]PlannedMatch, error) {
	if len(ranked) < 4 {
		return nil, fmt.Errorf("rounds: mexicano needs at least 4 players, got %d", len(ranked))
	}
	seen := make(map[int]struct{}, len(ranked))
	for _, id := range ranked {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("rounds: player %d appears twice in the ranking", id)
		}
		seen[id] = struct{}{}
	}

	blocks := len(ranked) / 4
	round := make([]PlannedMatch, 0, blocks)
	for b := 0; b < blocks; b++ {
		block := ranked[b*4 : b*4+4]
		round = append(round, PlannedMatch{
			Court: b + 1,
			Team1: [2]int{block[0], block[3]},
			Team2: [2]int{block[1], block[2]},
		})
	}
	return round, nil
}
