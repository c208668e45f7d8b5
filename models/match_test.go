package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to MatchStatus
	}{
		{MatchStatusRecruiting, MatchStatusFull},
		{MatchStatusRecruiting, MatchStatusCanceled},
		{MatchStatusFull, MatchStatusRecruiting},
		{MatchStatusFull, MatchStatusPendingConfirmation},
		{MatchStatusFull, MatchStatusCanceled},
		{MatchStatusPendingConfirmation, MatchStatusCompleted},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s must be allowed", tc.from, tc.to)
	}

	forbidden := []struct {
		from, to MatchStatus
	}{
		{MatchStatusRecruiting, MatchStatusCompleted},
		{MatchStatusRecruiting, MatchStatusPendingConfirmation},
		{MatchStatusPendingConfirmation, MatchStatusRecruiting},
		{MatchStatusCompleted, MatchStatusRecruiting},
		{MatchStatusCanceled, MatchStatusRecruiting},
	}
	for _, tc := range forbidden {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s must be rejected", tc.from, tc.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, MatchStatusCompleted.IsTerminal())
	assert.True(t, MatchStatusCanceled.IsTerminal())
	assert.False(t, MatchStatusFull.IsTerminal())
}

func TestApprovedCountIncludesCreator(t *testing.T) {
	m := &Match{Roster: []MatchPlayer{
		{PlayerID: 1, Role: RoleCreator},
		{PlayerID: 2, Role: RoleApproved},
		{PlayerID: 3, Role: RolePending},
	}}

	assert.Equal(t, 2, m.ApprovedCount())
	assert.Equal(t, []int{1, 2}, m.ApprovedIDs())
	assert.False(t, m.IsFull())
}
