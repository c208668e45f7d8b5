package services

import (
	"context"
	"testing"

	"github.com/courtside/padel-system/models"
	"github.com/courtside/padel-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Заглушки покрывают только методы, которые вызывает advanceRound;
// остальное наследуется от встроенного интерфейса и в тестах не нужно.
type stubRoundRepo struct {
	repositories.RoundRepository
	byNumber      map[int]*models.Round
	statusUpdates map[int]models.RoundStatus
}

func (r *stubRoundRepo) GetByNumber(_ context.Context, _ repositories.SQLExecutor, _, number int) (*models.Round, error) {
	round, ok := r.byNumber[number]
	if !ok {
		return nil, repositories.ErrRoundNotFound
	}
	return round, nil
}

func (r *stubRoundRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, roundID int, status models.RoundStatus) error {
	if r.statusUpdates == nil {
		r.statusUpdates = map[int]models.RoundStatus{}
	}
	r.statusUpdates[roundID] = status
	return nil
}

type stubTournamentRepo struct {
	repositories.TournamentRepository
	currentRound int
	calls        int
}

func (r *stubTournamentRepo) UpdateCurrentRound(_ context.Context, _ repositories.SQLExecutor, _, round int) error {
	r.currentRound = round
	r.calls++
	return nil
}

func progressionService(roundRepo *stubRoundRepo, tournamentRepo *stubTournamentRepo) *tournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		roundRepo:      roundRepo,
	}
}

func TestAdvanceRoundActivatesNextPregeneratedRound(t *testing.T) {
	roundRepo := &stubRoundRepo{byNumber: map[int]*models.Round{
		2: {ID: 12, TournamentID: 7, Number: 2, Status: models.RoundPending},
	}}
	tournamentRepo := &stubTournamentRepo{}
	svc := progressionService(roundRepo, tournamentRepo)

	tournament := &models.Tournament{ID: 7, CurrentRound: 1}
	err := svc.advanceRound(context.Background(), nil, tournament, 1)
	require.NoError(t, err)

	assert.Equal(t, models.RoundInProgress, roundRepo.statusUpdates[12])
	assert.Equal(t, 2, tournamentRepo.currentRound)
	assert.Equal(t, 2, tournament.CurrentRound)
}

func TestAdvanceRoundStopsAfterLastRound(t *testing.T) {
	roundRepo := &stubRoundRepo{byNumber: map[int]*models.Round{}}
	tournamentRepo := &stubTournamentRepo{}
	svc := progressionService(roundRepo, tournamentRepo)

	tournament := &models.Tournament{ID: 7, CurrentRound: 3}
	err := svc.advanceRound(context.Background(), nil, tournament, 3)
	require.NoError(t, err)

	assert.Zero(t, tournamentRepo.calls)
	assert.Equal(t, 3, tournament.CurrentRound)
	assert.Empty(t, roundRepo.statusUpdates)
}

func TestAdvanceRoundIgnoresCorrectionsInEarlierRounds(t *testing.T) {
	roundRepo := &stubRoundRepo{byNumber: map[int]*models.Round{
		3: {ID: 13, TournamentID: 7, Number: 3, Status: models.RoundPending},
	}}
	tournamentRepo := &stubTournamentRepo{}
	svc := progressionService(roundRepo, tournamentRepo)

	// Организатор правит счёт в раунде 1, пока идёт раунд 2.
	tournament := &models.Tournament{ID: 7, CurrentRound: 2}
	err := svc.advanceRound(context.Background(), nil, tournament, 1)
	require.NoError(t, err)

	assert.Zero(t, tournamentRepo.calls)
	assert.Equal(t, 2, tournament.CurrentRound)
	assert.Empty(t, roundRepo.statusUpdates)
}

func TestAdvanceRoundSkipsStatusWriteForActiveRound(t *testing.T) {
	roundRepo := &stubRoundRepo{byNumber: map[int]*models.Round{
		2: {ID: 12, TournamentID: 7, Number: 2, Status: models.RoundInProgress},
	}}
	tournamentRepo := &stubTournamentRepo{}
	svc := progressionService(roundRepo, tournamentRepo)

	tournament := &models.Tournament{ID: 7, CurrentRound: 1}
	err := svc.advanceRound(context.Background(), nil, tournament, 1)
	require.NoError(t, err)

	assert.Empty(t, roundRepo.statusUpdates)
	assert.Equal(t, 2, tournament.CurrentRound)
}
