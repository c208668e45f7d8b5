// Package rating computes Elo-style rating exchanges for completed
// padel matches. The whole package is pure: callers load current
// ratings, feed them in, and persist the resulting deltas themselves.
package rating

import (
	"fmt"
	"math"

	"github.com/courtside/padel-system/models"
)

// KFactor scales the magnitude of a single rating exchange.
const KFactor = 32

// PlayerRating binds a player id to the rating loaded for them at the
// moment of computation.
type PlayerRating struct {
	PlayerID int
	Rating   int
}

// Delta is the per-player result of one rated match.
type Delta struct {
	PlayerID  int
	OldRating int
	NewRating int
	Change    int
}

// TeamAverage — командный рейтинг, среднее арифметическое двух игроков.
func TeamAverage(team [2]PlayerRating) float64 {
	return float64(team[0].Rating+team[1].Rating) / 2
}

// ExpectedScore returns the classic Elo expectancy for a team rated
// ratingA against a team rated ratingB.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1 / (1 + math.Pow(10, (ratingB-ratingA)/400))
}

// ComputeMatchDeltas derives the rating exchange for a completed 2v2
// match. Both members of a team receive the identical delta; team A's
// delta is the exact negation of team B's before clamping. Clamping at
// the rating floor/ceiling is the only place where the exchange may
// become asymmetric.
//
// Draws are not a thing here: a submitted match always has a winner,
// so the outcome score is 1 or 0 per team.
func ComputeMatchDeltas(teamA, teamB [2]PlayerRating, sets []models.SetScore, multiplier float64) ([]Delta, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("rating: cannot rate a match without sets")
	}
	if multiplier <= 0 {
		return nil, fmt.Errorf("rating: multiplier must be positive, got %v", multiplier)
	}

	setsA := models.SetsWonBy(sets, models.TeamOne)
	setsB := models.SetsWonBy(sets, models.TeamTwo)
	if setsA == setsB {
		return nil, fmt.Errorf("rating: match has no winner (%d-%d in sets)", setsA, setsB)
	}

	var scoreA float64
	if setsA > setsB {
		scoreA = 1
	}
	return computeDeltas(teamA, teamB, scoreA, multiplier), nil
}

// ComputePointDeltas rates a tournament match decided on points rather
// than sets. Unlike regular matches these can end level, in which case
// the outcome score is 0.5 and the exchange only reflects the rating gap.
func ComputePointDeltas(teamA, teamB [2]PlayerRating, pointsA, pointsB int, multiplier float64) ([]Delta, error) {
	if pointsA < 0 || pointsB < 0 {
		return nil, fmt.Errorf("rating: negative points %d-%d", pointsA, pointsB)
	}
	if multiplier <= 0 {
		return nil, fmt.Errorf("rating: multiplier must be positive, got %v", multiplier)
	}

	scoreA := 0.5
	switch {
	case pointsA > pointsB:
		scoreA = 1
	case pointsA < pointsB:
		scoreA = 0
	}
	return computeDeltas(teamA, teamB, scoreA, multiplier), nil
}

func computeDeltas(teamA, teamB [2]PlayerRating, scoreA, multiplier float64) []Delta {
	expectedA := ExpectedScore(TeamAverage(teamA), TeamAverage(teamB))
	change := int(math.Round(KFactor * multiplier * (scoreA - expectedA)))

	deltas := make([]Delta, 0, 4)
	for _, p := range teamA {
		deltas = append(deltas, applyChange(p, change))
	}
	for _, p := range teamB {
		deltas = append(deltas, applyChange(p, -change))
	}
	return deltas
}

// applyChange clamps the resulting rating into the legal domain and
// adjusts the recorded change accordingly.
func applyChange(p PlayerRating, change int) Delta {
	newRating := p.Rating + change
	if newRating < models.RatingFloor {
		newRating = models.RatingFloor
	}
	if newRating > models.RatingCeiling {
		newRating = models.RatingCeiling
	}
	return Delta{
		PlayerID:  p.PlayerID,
		OldRating: p.Rating,
		NewRating: newRating,
		Change:    newRating - p.Rating,
	}
}
