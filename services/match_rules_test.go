package services

import (
	"testing"
	"time"

	"github.com/courtside/padel-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recruitingMatch(creatorID int) *models.Match {
	return &models.Match{
		ID:        1,
		CreatorID: creatorID,
		Status:    models.MatchStatusRecruiting,
		Roster:    []models.MatchPlayer{{PlayerID: creatorID, Role: models.RoleCreator}},
	}
}

func fullMatch(creatorID int) *models.Match {
	m := recruitingMatch(creatorID)
	for _, id := range []int{creatorID + 1, creatorID + 2, creatorID + 3} {
		m.Roster = append(m.Roster, models.MatchPlayer{PlayerID: id, Role: models.RoleApproved})
	}
	m.Status = models.MatchStatusFull
	return m
}

func completeSets(winner models.Team) []models.SetScore {
	if winner == models.TeamOne {
		return []models.SetScore{
			{Number: 1, Team1Games: 6, Team2Games: 3},
			{Number: 2, Team1Games: 6, Team2Games: 4},
		}
	}
	return []models.SetScore{
		{Number: 1, Team1Games: 3, Team2Games: 6},
		{Number: 2, Team1Games: 4, Team2Games: 6},
	}
}

func TestJoinRulesPendingByDefault(t *testing.T) {
	m := recruitingMatch(1)

	becameFull, err := joinRules(m, 2)
	require.NoError(t, err)
	assert.False(t, becameFull)

	entry, ok := m.RosterEntry(2)
	require.True(t, ok)
	assert.Equal(t, models.RolePending, entry.Role)
	assert.Equal(t, 1, m.ApprovedCount(), "pending player does not take a slot")
}

func TestJoinRulesOpenJoinTakesSlot(t *testing.T) {
	m := recruitingMatch(1)
	m.OpenJoin = true

	for _, id := range []int{2, 3} {
		becameFull, err := joinRules(m, id)
		require.NoError(t, err)
		assert.False(t, becameFull)
	}

	becameFull, err := joinRules(m, 4)
	require.NoError(t, err)
	assert.True(t, becameFull, "fourth approved player fills the match")

	_, err = joinRules(m, 5)
	assert.ErrorIs(t, err, ErrMatchFull)
}

func TestJoinRulesOpenJoinFull(t *testing.T) {
	m := fullMatch(1)
	m.Status = models.MatchStatusRecruiting // напрямую такое не случается, но правило должно держать
	m.OpenJoin = true

	_, err := joinRules(m, 9)
	assert.ErrorIs(t, err, ErrMatchFull)
}

func TestJoinRulesDuplicate(t *testing.T) {
	m := recruitingMatch(1)
	_, err := joinRules(m, 1)
	assert.ErrorIs(t, err, ErrAlreadyInMatch)
}

func TestApproveRules(t *testing.T) {
	m := recruitingMatch(1)
	for _, id := range []int{2, 3, 4} {
		_, err := joinRules(m, id)
		require.NoError(t, err)
	}

	_, err := approveRules(m, 2, 3)
	assert.ErrorIs(t, err, ErrNotMatchCreator)

	for i, id := range []int{2, 3} {
		becameFull, err := approveRules(m, 1, id)
		require.NoError(t, err)
		assert.False(t, becameFull, "approval %d keeps the match open", i)
	}

	becameFull, err := approveRules(m, 1, 4)
	require.NoError(t, err)
	assert.True(t, becameFull)
}

func TestApproveRulesBeyondCapacity(t *testing.T) {
	m := fullMatch(1)
	m.Status = models.MatchStatusRecruiting
	m.Roster = append(m.Roster, models.MatchPlayer{PlayerID: 9, Role: models.RolePending})

	_, err := approveRules(m, 1, 9)
	assert.ErrorIs(t, err, ErrMatchFull)
}

func TestRejectRules(t *testing.T) {
	m := recruitingMatch(1)
	_, err := joinRules(m, 2)
	require.NoError(t, err)

	require.NoError(t, rejectRules(m, 1, 2))
	assert.False(t, m.HasPlayer(2))

	_, err = joinRules(m, 3)
	require.NoError(t, err)
	_, err = approveRules(m, 1, 3)
	require.NoError(t, err)
	assert.ErrorIs(t, rejectRules(m, 1, 3), ErrAlreadyInMatch, "approved player leaves, not rejected")
}

func TestLeaveRulesRevertsFullMatch(t *testing.T) {
	m := fullMatch(1)

	revert, err := leaveRules(m, 4)
	require.NoError(t, err)
	assert.True(t, revert, "losing an approved player reopens recruiting")
	assert.False(t, m.HasPlayer(4))
}

func TestLeaveRulesCreatorForbidden(t *testing.T) {
	m := recruitingMatch(1)
	_, err := leaveRules(m, 1)
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestLeaveRulesNonParticipant(t *testing.T) {
	m := recruitingMatch(1)
	_, err := leaveRules(m, 42)
	assert.ErrorIs(t, err, ErrNotMatchParticipant)
}

func TestSubmitRules(t *testing.T) {
	m := fullMatch(1)
	now := time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC)
	teams := models.TeamAssignment{Team1: [2]int{1, 2}, Team2: [2]int{3, 4}}

	sub, err := submitRules(m, 1, teams, completeSets(models.TeamOne), now, ConfirmTimeout)
	require.NoError(t, err)

	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, m.ID, sub.MatchID)
	assert.Equal(t, 1, sub.SubmitterID)
	assert.Equal(t, now, sub.SubmittedAt)
	assert.Equal(t, now.Add(7*24*time.Hour), sub.ConfirmDeadline)
}

func TestSubmitRulesStatusGuards(t *testing.T) {
	recruiting := recruitingMatch(1)
	teams := models.TeamAssignment{Team1: [2]int{1, 2}, Team2: [2]int{3, 4}}

	_, err := submitRules(recruiting, 1, teams, completeSets(models.TeamOne), time.Now(), ConfirmTimeout)
	assert.ErrorIs(t, err, ErrMatchNotFull)

	pending := fullMatch(1)
	pending.Status = models.MatchStatusPendingConfirmation
	_, err = submitRules(pending, 1, teams, completeSets(models.TeamOne), time.Now(), ConfirmTimeout)
	assert.ErrorIs(t, err, ErrSubmissionPending)
}

func TestSubmitRulesRejectsOutsider(t *testing.T) {
	m := fullMatch(1)
	teams := models.TeamAssignment{Team1: [2]int{1, 2}, Team2: [2]int{3, 4}}

	_, err := submitRules(m, 99, teams, completeSets(models.TeamOne), time.Now(), ConfirmTimeout)
	assert.ErrorIs(t, err, ErrNotMatchParticipant)
}

func TestSubmitRulesRejectsBadSplit(t *testing.T) {
	m := fullMatch(1)

	cases := map[string]models.TeamAssignment{
		"duplicate player": {Team1: [2]int{1, 1}, Team2: [2]int{3, 4}},
		"outsider":         {Team1: [2]int{1, 2}, Team2: [2]int{3, 99}},
	}
	for name, teams := range cases {
		_, err := submitRules(m, 1, teams, completeSets(models.TeamOne), time.Now(), ConfirmTimeout)
		assert.ErrorIs(t, err, ErrInvalidTeamSplit, name)
	}
}

func TestValidateSets(t *testing.T) {
	tb := func(v int) *int { return &v }

	assert.ErrorIs(t, validateSets(nil), ErrNoCompleteSets)
	assert.ErrorIs(t, validateSets([]models.SetScore{{Team1Games: 6, Team2Games: 6}}), ErrNoCompleteSets)

	// Счёт 1-1 по сетам — матча без победителя не бывает.
	drawn := []models.SetScore{
		{Team1Games: 6, Team2Games: 3},
		{Team1Games: 3, Team2Games: 6},
	}
	assert.ErrorIs(t, validateSets(drawn), ErrNoCompleteSets)

	badTiebreak := []models.SetScore{{Team1Games: 6, Team2Games: 4, Team1Tiebreak: tb(7), Team2Tiebreak: tb(5)}}
	assert.ErrorIs(t, validateSets(badTiebreak), ErrInvalidTiebreak)

	halfTiebreak := []models.SetScore{{Team1Games: 7, Team2Games: 6, Team1Tiebreak: tb(7)}}
	assert.ErrorIs(t, validateSets(halfTiebreak), ErrInvalidTiebreak)

	valid := []models.SetScore{{Team1Games: 7, Team2Games: 6, Team1Tiebreak: tb(7), Team2Tiebreak: tb(5)}}
	assert.NoError(t, validateSets(valid))
}

func TestConfirmRules(t *testing.T) {
	m := fullMatch(1)
	m.Status = models.MatchStatusPendingConfirmation
	m.Submission = &models.ScoreSubmission{
		SubmitterID: 1,
		Teams:       models.TeamAssignment{Team1: [2]int{1, 2}, Team2: [2]int{3, 4}},
	}

	_, err := confirmRules(m, 2)
	assert.ErrorIs(t, err, ErrSameTeamConfirm, "submitter's partner cannot confirm")

	done, err := confirmRules(m, 3)
	require.NoError(t, err)
	assert.False(t, done)

	_, err = confirmRules(m, 42)
	assert.ErrorIs(t, err, ErrNotMatchParticipant)
}

func TestConfirmRulesIdempotentAfterCompletion(t *testing.T) {
	m := fullMatch(1)
	m.Status = models.MatchStatusCompleted

	done, err := confirmRules(m, 3)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestConfirmRulesNoSubmission(t *testing.T) {
	m := fullMatch(1)
	_, err := confirmRules(m, 3)
	assert.ErrorIs(t, err, ErrMatchNotAwaitingConfirmation)
}

func TestDeleteRules(t *testing.T) {
	m := recruitingMatch(1)
	assert.NoError(t, deleteRules(m, 1, false))
	assert.ErrorIs(t, deleteRules(m, 2, false), ErrNotMatchCreator)
	assert.NoError(t, deleteRules(m, 2, true), "admin can delete any match")

	m.Status = models.MatchStatusPendingConfirmation
	assert.ErrorIs(t, deleteRules(m, 1, false), ErrScoreInFlight)

	m.Status = models.MatchStatusCompleted
	assert.ErrorIs(t, deleteRules(m, 1, false), ErrMatchScoringStarted)
}

func TestScheduleRules(t *testing.T) {
	m := recruitingMatch(1)
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, scheduleRules(m, 1, now.Add(time.Hour), now))
	assert.ErrorIs(t, scheduleRules(m, 1, now.Add(-time.Hour), now), ErrMatchTimeNotFuture)
	assert.ErrorIs(t, scheduleRules(m, 2, now.Add(time.Hour), now), ErrNotMatchCreator)

	m.Status = models.MatchStatusCompleted
	assert.ErrorIs(t, scheduleRules(m, 1, now.Add(time.Hour), now), ErrMatchScoringStarted)
}
