package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtside/padel-system/models"
	"github.com/courtside/padel-system/rating"
	"github.com/courtside/padel-system/repositories"
	"github.com/jonboulle/clockwork"
)

// ConfirmTimeout — сколько подача счёта ждёт подтверждения соперников,
// прежде чем sweep подтвердит её принудительно.
const ConfirmTimeout = 7 * 24 * time.Hour

const defaultMatchDuration = 90 // minutes

type CreateMatchInput struct {
	CreatorID       int
	StartTime       time.Time
	DurationMinutes int
	OpenJoin        bool
}

type RecordPastMatchInput struct {
	CreatorID       int
	StartTime       time.Time
	DurationMinutes int
	// PlayerIDs — все четыре участника, включая создателя.
	PlayerIDs [4]int
}

type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	RecordPast(ctx context.Context, input RecordPastMatchInput) (*models.Match, error)
	Get(ctx context.Context, id int) (*models.Match, error)
	UpdateSchedule(ctx context.Context, matchID, actorID int, startTime time.Time, durationMinutes int) (*models.Match, error)
	Delete(ctx context.Context, matchID, actorID int, isAdmin bool) error

	Join(ctx context.Context, matchID, playerID int) (*models.Match, error)
	Leave(ctx context.Context, matchID, playerID int) (*models.Match, error)
	Approve(ctx context.Context, matchID, actorID, playerID int) (*models.Match, error)
	Reject(ctx context.Context, matchID, actorID, playerID int) (*models.Match, error)

	SubmitScore(ctx context.Context, matchID, submitterID int, teams models.TeamAssignment, sets []models.SetScore) (*models.Match, error)
	ConfirmScore(ctx context.Context, matchID, confirmerID int) (*models.Match, error)
	// ForceConfirm закрывает просроченную подачу штатным путём подтверждения.
	// Для уже завершённого матча — no-op, не ошибка.
	ForceConfirm(ctx context.Context, matchID int) error
	SweepExpiredConfirmations(ctx context.Context) error
}

type matchService struct {
	db          *sql.DB
	matchRepo   repositories.MatchRepository
	playerRepo  repositories.PlayerRepository
	historyRepo repositories.RatingHistoryRepository
	clock       clockwork.Clock
	logger      *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	historyRepo repositories.RatingHistoryRepository,
	clock clockwork.Clock,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:          db,
		matchRepo:   matchRepo,
		playerRepo:  playerRepo,
		historyRepo: historyRepo,
		clock:       clock,
		logger:      logger,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if !input.StartTime.After(s.clock.Now()) {
		return nil, ErrMatchTimeNotFuture
	}
	if input.DurationMinutes <= 0 {
		input.DurationMinutes = defaultMatchDuration
	}

	match := &models.Match{
		CreatorID:       input.CreatorID,
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		OpenJoin:        input.OpenJoin,
		Status:          models.MatchStatusRecruiting,
		Roster:          []models.MatchPlayer{{PlayerID: input.CreatorID, Role: models.RoleCreator}},
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.matchRepo.Create(ctx, tx, match)
	})
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrMatchCreatorInvalid, ErrPlayerNotFound)
	}
	return match, nil
}

func (s *matchService) RecordPast(ctx context.Context, input RecordPastMatchInput) (*models.Match, error) {
	seen := make(map[int]struct{}, 4)
	creatorIncluded := false
	for _, id := range input.PlayerIDs {
		if _, dup := seen[id]; dup {
			return nil, ErrPastMatchRosterSize
		}
		seen[id] = struct{}{}
		if id == input.CreatorID {
			creatorIncluded = true
		}
	}
	if !creatorIncluded {
		return nil, ErrPastMatchRosterSize
	}
	if input.DurationMinutes <= 0 {
		input.DurationMinutes = defaultMatchDuration
	}

	match := &models.Match{
		CreatorID:       input.CreatorID,
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		Status:          models.MatchStatusFull,
	}
	for _, id := range input.PlayerIDs {
		role := models.RoleApproved
		if id == input.CreatorID {
			role = models.RoleCreator
		}
		match.Roster = append(match.Roster, models.MatchPlayer{PlayerID: id, Role: role})
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.matchRepo.Create(ctx, tx, match)
	})
	if err != nil {
		return nil, mapRepoNotFound(err, repositories.ErrMatchRosterRefInvalid, ErrPlayerNotFound)
	}
	return match, nil
}

func (s *matchService) Get(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapMatchErr(err)
	}
	return match, nil
}

func (s *matchService) UpdateSchedule(ctx context.Context, matchID, actorID int, startTime time.Time, durationMinutes int) (*models.Match, error) {
	if durationMinutes <= 0 {
		durationMinutes = defaultMatchDuration
	}
	var match *models.Match
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		match, err = s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			return mapMatchErr(err)
		}
		if err := scheduleRules(match, actorID, startTime, s.clock.Now()); err != nil {
			return err
		}
		match.StartTime = startTime
		match.DurationMinutes = durationMinutes
		return s.matchRepo.UpdateSchedule(ctx, tx, matchID, startTime, durationMinutes)
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) Delete(ctx context.Context, matchID, actorID int, isAdmin bool) error {
	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			return mapMatchErr(err)
		}
		if err := deleteRules(match, actorID, isAdmin); err != nil {
			return err
		}
		return s.matchRepo.Delete(ctx, tx, matchID)
	})
}

func (s *matchService) Join(ctx context.Context, matchID, playerID int) (*models.Match, error) {
	return s.mutate(ctx, matchID, func(tx *sql.Tx, match *models.Match) error {
		becameFull, err := joinRules(match, playerID)
		if err != nil {
			return err
		}
		added := match.Roster[len(match.Roster)-1]
		if err := s.matchRepo.AddPlayer(ctx, tx, matchID, added); err != nil {
			return mapRepoNotFound(err, repositories.ErrMatchPlayerConflict, ErrAlreadyInMatch)
		}
		if becameFull {
			match.Status = models.MatchStatusFull
			return s.matchRepo.UpdateStatus(ctx, tx, matchID, models.MatchStatusFull)
		}
		return nil
	})
}

func (s *matchService) Leave(ctx context.Context, matchID, playerID int) (*models.Match, error) {
	return s.mutate(ctx, matchID, func(tx *sql.Tx, match *models.Match) error {
		revert, err := leaveRules(match, playerID)
		if err != nil {
			return err
		}
		if err := s.matchRepo.RemovePlayer(ctx, tx, matchID, playerID); err != nil {
			return err
		}
		if revert {
			match.Status = models.MatchStatusRecruiting
			return s.matchRepo.UpdateStatus(ctx, tx, matchID, models.MatchStatusRecruiting)
		}
		return nil
	})
}

func (s *matchService) Approve(ctx context.Context, matchID, actorID, playerID int) (*models.Match, error) {
	return s.mutate(ctx, matchID, func(tx *sql.Tx, match *models.Match) error {
		becameFull, err := approveRules(match, actorID, playerID)
		if err != nil {
			return err
		}
		if err := s.matchRepo.UpdatePlayerRole(ctx, tx, matchID, playerID, models.RoleApproved); err != nil {
			return err
		}
		if becameFull {
			match.Status = models.MatchStatusFull
			return s.matchRepo.UpdateStatus(ctx, tx, matchID, models.MatchStatusFull)
		}
		return nil
	})
}

func (s *matchService) Reject(ctx context.Context, matchID, actorID, playerID int) (*models.Match, error) {
	return s.mutate(ctx, matchID, func(tx *sql.Tx, match *models.Match) error {
		if err := rejectRules(match, actorID, playerID); err != nil {
			return err
		}
		return s.matchRepo.RemovePlayer(ctx, tx, matchID, playerID)
	})
}

func (s *matchService) SubmitScore(ctx context.Context, matchID, submitterID int, teams models.TeamAssignment, sets []models.SetScore) (*models.Match, error) {
	return s.mutate(ctx, matchID, func(tx *sql.Tx, match *models.Match) error {
		submission, err := submitRules(match, submitterID, teams, sets, s.clock.Now(), ConfirmTimeout)
		if err != nil {
			return err
		}
		if err := s.matchRepo.CreateSubmission(ctx, tx, submission); err != nil {
			return mapRepoNotFound(err, repositories.ErrSubmissionConflict, ErrSubmissionPending)
		}
		match.Submission = submission
		match.Status = models.MatchStatusPendingConfirmation
		return s.matchRepo.UpdateStatus(ctx, tx, matchID, models.MatchStatusPendingConfirmation)
	})
}

func (s *matchService) ConfirmScore(ctx context.Context, matchID, confirmerID int) (*models.Match, error) {
	return s.mutate(ctx, matchID, func(tx *sql.Tx, match *models.Match) error {
		alreadyCompleted, err := confirmRules(match, confirmerID)
		if err != nil {
			return err
		}
		if alreadyCompleted {
			return nil
		}
		return s.finalize(ctx, tx, match)
	})
}

func (s *matchService) ForceConfirm(ctx context.Context, matchID int) error {
	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			return mapMatchErr(err)
		}
		if match.Status == models.MatchStatusCompleted {
			return nil
		}
		if match.Status != models.MatchStatusPendingConfirmation || match.Submission == nil {
			return ErrMatchNotAwaitingConfirmation
		}
		return s.finalize(ctx, tx, match)
	})
}

func (s *matchService) SweepExpiredConfirmations(ctx context.Context) error {
	matchIDs, err := s.matchRepo.ListExpiredSubmissionMatches(ctx, s.clock.Now())
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	for _, matchID := range matchIDs {
		if err := s.ForceConfirm(ctx, matchID); err != nil {
			// Один застрявший матч не должен останавливать остальные.
			s.logger.ErrorContext(ctx, "sweep: force confirm failed",
				slog.Int("match_id", matchID), slog.Any("error", err))
			continue
		}
		s.logger.InfoContext(ctx, "sweep: auto-confirmed expired score submission",
			slog.Int("match_id", matchID))
	}
	return nil
}

// mutate загружает матч под блокировкой, применяет fn и перечитывает результат.
func (s *matchService) mutate(ctx context.Context, matchID int, fn func(tx *sql.Tx, match *models.Match) error) (*models.Match, error) {
	var match *models.Match
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		match, err = s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			return mapMatchErr(err)
		}
		return fn(tx, match)
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// finalize выполняет завершение матча: пересчёт рейтингов, история,
// фиксация сетов и составов, статус completed. Вызывается только под
// блокировкой строки матча.
func (s *matchService) finalize(ctx context.Context, tx *sql.Tx, match *models.Match) error {
	sub := match.Submission
	ids := []int{sub.Teams.Team1[0], sub.Teams.Team1[1], sub.Teams.Team2[0], sub.Teams.Team2[1]}

	players, err := s.playerRepo.ListByIDs(ctx, tx, ids)
	if err != nil {
		return mapPlayerErr(err)
	}
	byID := make(map[int]*models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	teamA := [2]rating.PlayerRating{
		{PlayerID: sub.Teams.Team1[0], Rating: byID[sub.Teams.Team1[0]].Rating},
		{PlayerID: sub.Teams.Team1[1], Rating: byID[sub.Teams.Team1[1]].Rating},
	}
	teamB := [2]rating.PlayerRating{
		{PlayerID: sub.Teams.Team2[0], Rating: byID[sub.Teams.Team2[0]].Rating},
		{PlayerID: sub.Teams.Team2[1], Rating: byID[sub.Teams.Team2[1]].Rating},
	}

	deltas, err := rating.ComputeMatchDeltas(teamA, teamB, sub.Sets, 1)
	if err != nil {
		return fmt.Errorf("failed to compute rating changes for match %d: %w", match.ID, err)
	}

	for _, d := range deltas {
		if err := s.playerRepo.UpdateRating(ctx, tx, d.PlayerID, d.NewRating); err != nil {
			return err
		}
		matchID := match.ID
		entry := &models.RatingHistoryEntry{
			PlayerID:  d.PlayerID,
			MatchID:   &matchID,
			OldRating: d.OldRating,
			NewRating: d.NewRating,
			Change:    d.Change,
		}
		if err := s.historyRepo.Create(ctx, tx, entry); err != nil {
			return err
		}
	}

	for _, id := range sub.Teams.Team1 {
		if err := s.matchRepo.UpdatePlayerTeam(ctx, tx, match.ID, id, models.TeamOne); err != nil {
			return err
		}
	}
	for _, id := range sub.Teams.Team2 {
		if err := s.matchRepo.UpdatePlayerTeam(ctx, tx, match.ID, id, models.TeamTwo); err != nil {
			return err
		}
	}

	if err := s.matchRepo.ReplaceSets(ctx, tx, match.ID, sub.Sets); err != nil {
		return err
	}
	if err := s.matchRepo.DeleteSubmission(ctx, tx, match.ID); err != nil {
		return err
	}

	match.Sets = sub.Sets
	match.Submission = nil
	match.Status = models.MatchStatusCompleted
	return s.matchRepo.UpdateStatus(ctx, tx, match.ID, models.MatchStatusCompleted)
}
