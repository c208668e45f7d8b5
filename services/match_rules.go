package services

import (
	"time"

	"github.com/courtside/padel-system/models"
	"github.com/google/uuid"
)

// Правила жизненного цикла матча. Чистые функции над загруженным
// агрегатом: сервис держит блокировку строки и сохраняет изменения,
// правила решают, допустим ли переход.

func validateSets(sets []models.SetScore) error {
	if len(sets) == 0 {
		return ErrNoCompleteSets
	}
	for _, s := range sets {
		if s.Team1Games < 0 || s.Team2Games < 0 {
			return ErrNoCompleteSets
		}
		if s.Winner() == models.TeamUnassigned {
			// Каждый поданный сет должен быть доигран.
			return ErrNoCompleteSets
		}
		if s.HasTiebreak() {
			if s.Team1Tiebreak == nil || s.Team2Tiebreak == nil || !s.TiebreakAllowed() {
				return ErrInvalidTiebreak
			}
		}
	}
	// Матч в целом обязан иметь победителя: ничьих в подаче счёта нет.
	if models.SetsWonBy(sets, models.TeamOne) == models.SetsWonBy(sets, models.TeamTwo) {
		return ErrNoCompleteSets
	}
	return nil
}

// validateTeamSplit проверяет, что распределение покрывает ровно четырёх
// одобренных игроков матча, каждого по одному разу.
func validateTeamSplit(m *models.Match, teams models.TeamAssignment) error {
	ids := [4]int{teams.Team1[0], teams.Team1[1], teams.Team2[0], teams.Team2[1]}
	seen := make(map[int]struct{}, 4)
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return ErrInvalidTeamSplit
		}
		seen[id] = struct{}{}

		entry, ok := m.RosterEntry(id)
		if !ok || !entry.Role.CountsApproved() {
			return ErrInvalidTeamSplit
		}
	}
	if m.ApprovedCount() != models.MaxMatchPlayers {
		return ErrInvalidTeamSplit
	}
	return nil
}

func joinRules(m *models.Match, playerID int) (becameFull bool, err error) {
	if m.Status != models.MatchStatusRecruiting {
		return false, ErrMatchNotRecruiting
	}
	if m.HasPlayer(playerID) {
		return false, ErrAlreadyInMatch
	}

	role := models.RolePending
	if m.OpenJoin {
		if m.IsFull() {
			return false, ErrMatchFull
		}
		role = models.RoleApproved
	}
	m.Roster = append(m.Roster, models.MatchPlayer{PlayerID: playerID, Role: role})
	return m.IsFull(), nil
}

func approveRules(m *models.Match, actorID, playerID int) (becameFull bool, err error) {
	if actorID != m.CreatorID {
		return false, ErrNotMatchCreator
	}
	if m.Status != models.MatchStatusRecruiting {
		return false, ErrMatchNotRecruiting
	}
	entry, ok := m.RosterEntry(playerID)
	if !ok {
		return false, ErrPlayerNotFound
	}
	if entry.Role.CountsApproved() {
		return false, ErrAlreadyInMatch
	}
	if m.IsFull() {
		return false, ErrMatchFull
	}
	entry.Role = models.RoleApproved
	return m.IsFull(), nil
}

func rejectRules(m *models.Match, actorID, playerID int) error {
	if actorID != m.CreatorID {
		return ErrNotMatchCreator
	}
	if m.Status != models.MatchStatusRecruiting {
		return ErrMatchNotRecruiting
	}
	entry, ok := m.RosterEntry(playerID)
	if !ok {
		return ErrPlayerNotFound
	}
	if entry.Role.CountsApproved() {
		// Одобренный игрок снимается только через leave.
		return ErrAlreadyInMatch
	}
	removeFromRoster(m, playerID)
	return nil
}

func leaveRules(m *models.Match, playerID int) (revertToRecruiting bool, err error) {
	if m.Status != models.MatchStatusRecruiting && m.Status != models.MatchStatusFull {
		return false, ErrMatchScoringStarted
	}
	if playerID == m.CreatorID {
		// Создатель не покидает свой матч, он его удаляет.
		return false, ErrForbiddenOperation
	}
	entry, ok := m.RosterEntry(playerID)
	if !ok {
		return false, ErrNotMatchParticipant
	}
	wasApproved := entry.Role.CountsApproved()
	removeFromRoster(m, playerID)
	return wasApproved && m.Status == models.MatchStatusFull, nil
}

func submitRules(m *models.Match, submitterID int, teams models.TeamAssignment, sets []models.SetScore, now time.Time, deadline time.Duration) (*models.ScoreSubmission, error) {
	switch m.Status {
	case models.MatchStatusFull:
	case models.MatchStatusPendingConfirmation:
		return nil, ErrSubmissionPending
	case models.MatchStatusRecruiting:
		return nil, ErrMatchNotFull
	default:
		return nil, ErrMatchScoringStarted
	}
	if m.Submission != nil {
		return nil, ErrSubmissionPending
	}

	entry, ok := m.RosterEntry(submitterID)
	if !ok || !entry.Role.CountsApproved() {
		return nil, ErrNotMatchParticipant
	}
	if err := validateTeamSplit(m, teams); err != nil {
		return nil, err
	}
	if err := validateSets(sets); err != nil {
		return nil, err
	}

	return &models.ScoreSubmission{
		ID:              uuid.NewString(),
		MatchID:         m.ID,
		SubmitterID:     submitterID,
		Teams:           teams,
		Sets:            sets,
		SubmittedAt:     now,
		ConfirmDeadline: now.Add(deadline),
	}, nil
}

// confirmRules validates a confirmation attempt. alreadyCompleted makes
// repeated confirms a no-op instead of an error.
func confirmRules(m *models.Match, confirmerID int) (alreadyCompleted bool, err error) {
	if m.Status == models.MatchStatusCompleted {
		return true, nil
	}
	if m.Status != models.MatchStatusPendingConfirmation || m.Submission == nil {
		return false, ErrMatchNotAwaitingConfirmation
	}

	entry, ok := m.RosterEntry(confirmerID)
	if !ok || !entry.Role.CountsApproved() {
		return false, ErrNotMatchParticipant
	}

	confirmerTeam, _ := m.Submission.Teams.Contains(confirmerID)
	submitterTeam, _ := m.Submission.Teams.Contains(m.Submission.SubmitterID)
	if confirmerTeam == submitterTeam {
		return false, ErrSameTeamConfirm
	}
	return false, nil
}

func deleteRules(m *models.Match, actorID int, isAdmin bool) error {
	if actorID != m.CreatorID && !isAdmin {
		return ErrNotMatchCreator
	}
	switch m.Status {
	case models.MatchStatusRecruiting, models.MatchStatusFull:
		return nil
	case models.MatchStatusPendingConfirmation:
		return ErrScoreInFlight
	default:
		return ErrMatchScoringStarted
	}
}

func scheduleRules(m *models.Match, actorID int, startTime time.Time, now time.Time) error {
	if actorID != m.CreatorID {
		return ErrNotMatchCreator
	}
	if m.Status != models.MatchStatusRecruiting && m.Status != models.MatchStatusFull {
		return ErrMatchScoringStarted
	}
	if !startTime.After(now) {
		return ErrMatchTimeNotFuture
	}
	return nil
}

func removeFromRoster(m *models.Match, playerID int) {
	for i := range m.Roster {
		if m.Roster[i].PlayerID == playerID {
			m.Roster = append(m.Roster[:i], m.Roster[i+1:]...)
			return
		}
	}
}
