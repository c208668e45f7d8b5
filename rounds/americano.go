package rounds

import (
	"fmt"
)

const byeTeam = -1

// AmericanoGenerator schedules a full round robin across fixed teams
// using the classic circle method: one team anchored, the rest rotating
// one position per round. No pairing repeats before every other pairing
// has been played, which also holds for any prefix of the schedule.
type AmericanoGenerator struct{}

func NewAmericanoGenerator() *AmericanoGenerator {
	return &AmericanoGenerator{}
}

func (g *AmericanoGenerator) FormatName() string {
	return "Americano"
}

// NextRounds pre-generates the whole schedule. With an odd team count a
// bye slot is added and the team drawn against it sits the round out.
func (g *AmericanoGenerator) NextRounds(params GenerateParams) ([][]PlannedMatch, error) {
	return circleSchedule(params.Teams)
}

func circleSchedule(teams [][2]int) ([][]PlannedMatch, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("rounds: not enough teams (found %d, min 2 required)", len(teams))
	}

	// Circle positions hold indices into teams; -1 is the bye slot.
	positions := make([]int, 0, len(teams)+1)
	for i := range teams {
		positions = append(positions, i)
	}
	if len(positions)%2 != 0 {
		positions = append(positions, byeTeam)
	}

	n := len(positions)
	roundCount := n - 1
	schedule := make([][]PlannedMatch, 0, roundCount)

	for r := 0; r < roundCount; r++ {
		round := make([]PlannedMatch, 0, n/2)
		court := 1
		for i := 0; i < n/2; i++ {
			home, away := positions[i], positions[n-1-i]
			if home == byeTeam || away == byeTeam {
				continue
			}
			round = append(round, PlannedMatch{
				Court: court,
				Team1: teams[home],
				Team2: teams[away],
			})
			court++
		}
		schedule = append(schedule, round)

		// Rotate everything except the anchor at position 0.
		last := positions[n-1]
		copy(positions[2:], positions[1:n-1])
		positions[1] = last
	}

	return schedule, nil
}
