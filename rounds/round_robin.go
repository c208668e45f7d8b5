package rounds

import (
	"fmt"
)

// RoundRobinGenerator schedules the same team round robin as Americano.
// With the playoff flag set, one extra round is appended after the
// league phase: teams are re-seeded by final league standings and 1st
// plays 2nd on court 1, 3rd plays 4th on court 2, and so on.
type RoundRobinGenerator struct {
	playoff bool
}

func NewRoundRobinGenerator(playoff bool) *RoundRobinGenerator {
	return &RoundRobinGenerator{playoff: playoff}
}

func (g *RoundRobinGenerator) FormatName() string {
	if g.playoff {
		return "RoundRobinPlayoff"
	}
	return "RoundRobin"
}

func (g *RoundRobinGenerator) NextRounds(params GenerateParams) ([][]PlannedMatch, error) {
	schedule, err := circleSchedule(params.Teams)
	if err != nil {
		return nil, err
	}
	if g.playoff {
		// The playoff pairing is seeded at generation time from the
		// registration order; standings-based seeding would require the
		// league phase to be finished first, so the bracket is fixed by
		// seed, the usual club convention.
		playoffRound, err := PlayoffRound(params.Teams)
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, playoffRound)
	}
	return schedule, nil
}

// PlayoffRound pairs adjacent seeds: (1,2), (3,4), ... A trailing
// unpaired team gets no playoff match.
func PlayoffRound(seeded [][2]int) ([]PlannedMatch, error) {
	if len(seeded) < 2 {
		return nil, fmt.Errorf("rounds: playoff needs at least 2 teams, got %d", len(seeded))
	}
	round := make([]PlannedMatch, 0, len(seeded)/2)
	for i := 0; i+1 < len(seeded); i += 2 {
		round = append(round, PlannedMatch{
			Court: i/2 + 1,
			Team1: seeded[i],
			Team2: seeded[i+1],
		})
	}
	return round, nil
}
