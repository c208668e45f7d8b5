package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/courtside/padel-system/cache"
	"github.com/courtside/padel-system/models"
	"github.com/courtside/padel-system/rating"
	"github.com/courtside/padel-system/repositories"
	"github.com/courtside/padel-system/rounds"
	"github.com/courtside/padel-system/standings"
	"github.com/courtside/padel-system/storage"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

type CreateTournamentInput struct {
	Name             string
	Format           models.TournamentFormat
	OrganizerID      int
	PointsPerMatch   int
	MaxTeams         int
	RatingMultiplier float64
	StartDate        time.Time
}

// LiveSnapshot — то, что отдаётся live-эндпоинтом и уходит в Redis.
type LiveSnapshot struct {
	Tournament   *models.Tournament `json:"tournament"`
	CurrentRound *models.Round      `json:"current_round,omitempty"`
	Standings    []models.Standing  `json:"standings"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	Get(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tournament, error)

	Register(ctx context.Context, tournamentID, player1ID, player2ID int) (*models.Registration, error)
	Start(ctx context.Context, tournamentID, actorID int, isAdmin bool) (*models.Tournament, error)
	// NextRound generates one more round from the current standings.
	// Only formats re-seeded round by round support it.
	NextRound(ctx context.Context, tournamentID, actorID int, isAdmin bool) (*models.Round, error)
	RecordScore(ctx context.Context, tournamentID, matchID, actorID int, isAdmin bool, score1, score2 int) (*models.TournamentMatch, error)
	Complete(ctx context.Context, tournamentID, actorID int, isAdmin bool) (*models.Tournament, error)
	Cancel(ctx context.Context, tournamentID, actorID int, isAdmin bool) error

	// CloseExpiredRegistrations auto-starts tournaments whose start date
	// passed, or cancels them when too few teams registered.
	CloseExpiredRegistrations(ctx context.Context) error

	Standings(ctx context.Context, tournamentID int) ([]models.Standing, error)
	Live(ctx context.Context, tournamentID int) (*LiveSnapshot, error)
	UploadLogo(ctx context.Context, tournamentID, actorID int, isAdmin bool, contentType string, file io.Reader) (string, error)
}

type tournamentService struct {
	db               *sql.DB
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	roundRepo        repositories.RoundRepository
	standingRepo     repositories.StandingRepository
	playerRepo       repositories.PlayerRepository
	historyRepo      repositories.RatingHistoryRepository
	cache            *cache.Cache
	hub              *rounds.Hub
	uploader         storage.FileUploader
	clock            clockwork.Clock
	logger           *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	roundRepo repositories.RoundRepository,
	standingRepo repositories.StandingRepository,
	playerRepo repositories.PlayerRepository,
	historyRepo repositories.RatingHistoryRepository,
	liveCache *cache.Cache,
	hub *rounds.Hub,
	uploader storage.FileUploader,
	clock clockwork.Clock,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:               db,
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		roundRepo:        roundRepo,
		standingRepo:     standingRepo,
		playerRepo:       playerRepo,
		historyRepo:      historyRepo,
		cache:            liveCache,
		hub:              hub,
		uploader:         uploader,
		clock:            clock,
		logger:           logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if !input.Format.Valid() {
		return nil, ErrInvalidFormat
	}
	if input.PointsPerMatch <= 0 {
		return nil, ErrInvalidPointsPerMatch
	}
	if input.MaxTeams < 2 {
		return nil, ErrInvalidCapacity
	}
	if input.RatingMultiplier == 0 {
		input.RatingMultiplier = 1
	}
	if input.RatingMultiplier < 0 {
		return nil, fmt.Errorf("%w: rating multiplier must be positive", ErrValidationFailed)
	}

	tournament := &models.Tournament{
		Name:             input.Name,
		Format:           input.Format,
		OrganizerID:      input.OrganizerID,
		PointsPerMatch:   input.PointsPerMatch,
		MaxTeams:         input.MaxTeams,
		Status:           models.TournamentRegistration,
		RatingMultiplier: input.RatingMultiplier,
		StartDate:        input.StartDate,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, mapRepoNotFound(err, repositories.ErrTournamentOrganizerInvalid, ErrPlayerNotFound)
	}
	return tournament, nil
}

func (s *tournamentService) Get(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentErr(err)
	}

	// Связанные сущности тянем параллельно.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		regs, err := s.registrationRepo.ListByTournament(gctx, s.db, id)
		if err != nil {
			return err
		}
		tournament.Registrations = regs
		return nil
	})
	g.Go(func() error {
		rnds, err := s.roundRepo.ListByTournament(gctx, s.db, id)
		if err != nil {
			return err
		}
		tournament.Rounds = rnds
		return nil
	})
	g.Go(func() error {
		table, err := s.standingRepo.ListByTournament(gctx, id)
		if err != nil {
			return err
		}
		tournament.Standings = table
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.attachLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, limit, offset int) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, t := range tournaments {
		s.attachLogoURL(t)
	}
	return tournaments, nil
}

func (s *tournamentService) Register(ctx context.Context, tournamentID, player1ID, player2ID int) (*models.Registration, error) {
	if player1ID == player2ID {
		return nil, ErrPartnerRequired
	}

	registration := &models.Registration{
		TournamentID: tournamentID,
		Player1ID:    player1ID,
		Player2ID:    player2ID,
	}
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if err != nil {
			return mapTournamentErr(err)
		}
		if tournament.Status != models.TournamentRegistration {
			return ErrRegistrationClosed
		}

		count, err := s.registrationRepo.CountByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		if count >= tournament.MaxTeams {
			return ErrTournamentFull
		}

		for _, playerID := range []int{player1ID, player2ID} {
			taken, err := s.registrationRepo.PlayerRegistered(ctx, tx, tournamentID, playerID)
			if err != nil {
				return err
			}
			if taken {
				return ErrRegistrationConflict
			}
		}

		if err := s.registrationRepo.Create(ctx, tx, registration); err != nil {
			switch {
			case errors.Is(err, repositories.ErrRegistrationConflict):
				return ErrRegistrationConflict
			case errors.Is(err, repositories.ErrRegistrationSamePlayers):
				return ErrPartnerRequired
			case errors.Is(err, repositories.ErrRegistrationRefInvalid):
				return ErrPlayerNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registration, nil
}

func (s *tournamentService) Start(ctx context.Context, tournamentID, actorID int, isAdmin bool) (*models.Tournament, error) {
	var tournament *models.Tournament
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		tournament, err = s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if err != nil {
			return mapTournamentErr(err)
		}
		if err := requireOrganizer(tournament, actorID, isAdmin); err != nil {
			return err
		}
		if tournament.Status != models.TournamentRegistration {
			return ErrRegistrationClosed
		}

		regs, err := s.registrationRepo.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		if len(regs) < 2 {
			return fmt.Errorf("%w: at least two registered teams required", ErrValidationFailed)
		}

		generator, ok := rounds.ForFormat(tournament.Format)
		if !ok {
			return ErrInvalidFormat
		}

		params := rounds.GenerateParams{
			Tournament: tournament,
			Teams:      registrationTeams(regs),
		}
		if !tournament.Format.RoundsPregenerated() {
			// Первый круг мексикано сеется по текущему рейтингу.
			ranked, err := s.rankByRating(ctx, tx, regs)
			if err != nil {
				return err
			}
			params.Ranked = ranked
		}

		planned, err := generator.NextRounds(params)
		if err != nil {
			return err
		}

		for i, plannedRound := range planned {
			status := models.RoundPending
			if i == 0 {
				status = models.RoundInProgress
			}
			if err := s.persistRound(ctx, tx, tournament, i+1, status, plannedRound); err != nil {
				return err
			}
		}

		if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.TournamentInProgress); err != nil {
			return err
		}
		if err := s.tournamentRepo.UpdateCurrentRound(ctx, tx, tournamentID, 1); err != nil {
			return err
		}
		tournament.Status = models.TournamentInProgress
		tournament.CurrentRound = 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, tournamentID)
	s.broadcast(tournamentID, rounds.EventRoundGenerated, map[string]any{"round": 1})
	s.logger.InfoContext(ctx, "tournament started",
		slog.Int("tournament_id", tournamentID), slog.String("format", string(tournament.Format)))
	return tournament, nil
}

func (s *tournamentService) NextRound(ctx context.Context, tournamentID, actorID int, isAdmin bool) (*models.Round, error) {
	var created *models.Round
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if err != nil {
			return mapTournamentErr(err)
		}
		if err := requireOrganizer(tournament, actorID, isAdmin); err != nil {
			return err
		}
		if tournament.Status != models.TournamentInProgress {
			return ErrTournamentNotActive
		}
		if tournament.Format.RoundsPregenerated() {
			return ErrNextRoundUnsupported
		}

		current, err := s.roundRepo.GetByNumber(ctx, tx, tournamentID, tournament.CurrentRound)
		if err != nil {
			return mapRepoNotFound(err, repositories.ErrRoundNotFound, ErrRoundNotFound)
		}
		if !current.Completed() {
			return ErrRoundIncomplete
		}

		regs, err := s.registrationRepo.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		ranked, err := s.rankByStandings(ctx, tx, tournamentID, regs)
		if err != nil {
			return err
		}

		generator, _ := rounds.ForFormat(tournament.Format)
		planned, err := generator.NextRounds(rounds.GenerateParams{
			Tournament: tournament,
			Teams:      registrationTeams(regs),
			Ranked:     ranked,
		})
		if err != nil {
			return err
		}
		if len(planned) != 1 {
			return fmt.Errorf("generator for %s produced %d rounds, want 1", tournament.Format, len(planned))
		}

		number := tournament.CurrentRound + 1
		if err := s.persistRound(ctx, tx, tournament, number, models.RoundInProgress, planned[0]); err != nil {
			return err
		}
		if err := s.tournamentRepo.UpdateCurrentRound(ctx, tx, tournamentID, number); err != nil {
			return err
		}

		created, err = s.roundRepo.GetByNumber(ctx, tx, tournamentID, number)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, tournamentID)
	s.broadcast(tournamentID, rounds.EventRoundGenerated, created)
	return created, nil
}

func (s *tournamentService) RecordScore(ctx context.Context, tournamentID, matchID, actorID int, isAdmin bool, score1, score2 int) (*models.TournamentMatch, error) {
	var (
		match *models.TournamentMatch
		table []models.Standing
	)
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if err != nil {
			return mapTournamentErr(err)
		}
		if err := requireOrganizer(tournament, actorID, isAdmin); err != nil {
			return err
		}
		if tournament.Status != models.TournamentInProgress {
			return ErrTournamentNotActive
		}
		if score1 < 0 || score2 < 0 || score1+score2 != tournament.PointsPerMatch {
			return ErrScoreSumMismatch
		}

		match, err = s.roundRepo.GetMatchByID(ctx, tx, matchID)
		if err != nil {
			return mapRepoNotFound(err, repositories.ErrTournamentMatchNotFound, ErrNotFound)
		}
		if match.TournamentID != tournamentID {
			return ErrNotFound
		}

		if err := s.roundRepo.UpdateMatchScore(ctx, tx, matchID, score1, score2); err != nil {
			return err
		}
		match.Team1Score = &score1
		match.Team2Score = &score2
		match.Status = models.TournamentMatchCompleted

		remaining, err := s.roundRepo.CountScheduledMatches(ctx, tx, match.RoundID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := s.roundRepo.UpdateStatus(ctx, tx, match.RoundID, models.RoundCompleted); err != nil {
				return err
			}
			if err := s.advanceRound(ctx, tx, tournament, match.RoundNumber); err != nil {
				return err
			}
		}

		table, err = s.recomputeStandings(ctx, tx, tournamentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, tournamentID)
	s.broadcast(tournamentID, rounds.EventScoreRecorded, match)
	s.broadcast(tournamentID, rounds.EventStandings, table)
	return match, nil
}

func (s *tournamentService) Complete(ctx context.Context, tournamentID, actorID int, isAdmin bool) (*models.Tournament, error) {
	var tournament *models.Tournament
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		tournament, err = s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if err != nil {
			return mapTournamentErr(err)
		}
		if err := requireOrganizer(tournament, actorID, isAdmin); err != nil {
			return err
		}
		if tournament.Status != models.TournamentInProgress {
			return ErrTournamentNotActive
		}

		matches, err := s.roundRepo.ListMatchesByTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		for i := range matches {
			if matches[i].Status != models.TournamentMatchCompleted {
				return ErrRoundsRemaining
			}
		}

		if err := s.applyTournamentRatings(ctx, tx, tournament, matches); err != nil {
			return err
		}
		if _, err := s.recomputeStandings(ctx, tx, tournamentID); err != nil {
			return err
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.TournamentCompleted); err != nil {
			return err
		}
		tournament.Status = models.TournamentCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, tournamentID)
	s.broadcast(tournamentID, rounds.EventCompleted, tournament)
	s.logger.InfoContext(ctx, "tournament completed", slog.Int("tournament_id", tournamentID))
	return tournament, nil
}

func (s *tournamentService) Cancel(ctx context.Context, tournamentID, actorID int, isAdmin bool) error {
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if err != nil {
			return mapTournamentErr(err)
		}
		if err := requireOrganizer(tournament, actorID, isAdmin); err != nil {
			return err
		}
		if !tournament.Status.CanTransitionTo(models.TournamentCanceled) {
			return ErrTournamentNotActive
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.TournamentCanceled)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, tournamentID)
	return nil
}

func (s *tournamentService) CloseExpiredRegistrations(ctx context.Context) error {
	due, err := s.tournamentRepo.ListDueToStart(ctx, s.clock.Now())
	if err != nil {
		return fmt.Errorf("registration sweep: %w", err)
	}

	for _, t := range due {
		if _, err := s.Start(ctx, t.ID, t.OrganizerID, true); err != nil {
			if errors.Is(err, ErrValidationFailed) {
				// Не набралось двух команд к дате старта — отменяем.
				if cancelErr := s.Cancel(ctx, t.ID, t.OrganizerID, true); cancelErr != nil {
					s.logger.ErrorContext(ctx, "registration sweep: cancel failed",
						slog.Int("tournament_id", t.ID), slog.Any("error", cancelErr))
				} else {
					s.logger.InfoContext(ctx, "registration sweep: tournament canceled, not enough teams",
						slog.Int("tournament_id", t.ID))
				}
				continue
			}
			s.logger.ErrorContext(ctx, "registration sweep: auto-start failed",
				slog.Int("tournament_id", t.ID), slog.Any("error", err))
			continue
		}
		s.logger.InfoContext(ctx, "registration sweep: tournament auto-started",
			slog.Int("tournament_id", t.ID))
	}
	return nil
}

func (s *tournamentService) Standings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	key := cache.StandingsKey(tournamentID)
	var table []models.Standing
	if s.cache.Get(ctx, key, &table) {
		return table, nil
	}

	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapTournamentErr(err)
	}
	table, err := s.standingRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, table)
	return table, nil
}

func (s *tournamentService) Live(ctx context.Context, tournamentID int) (*LiveSnapshot, error) {
	key := cache.LiveKey(tournamentID)
	var cached LiveSnapshot
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, mapTournamentErr(err)
	}
	s.attachLogoURL(tournament)

	snapshot := &LiveSnapshot{Tournament: tournament}
	g, gctx := errgroup.WithContext(ctx)
	if tournament.CurrentRound > 0 {
		g.Go(func() error {
			round, err := s.roundRepo.GetByNumber(gctx, s.db, tournamentID, tournament.CurrentRound)
			if err != nil {
				return mapRepoNotFound(err, repositories.ErrRoundNotFound, ErrRoundNotFound)
			}
			snapshot.CurrentRound = round
			return nil
		})
	}
	g.Go(func() error {
		table, err := s.standingRepo.ListByTournament(gctx, tournamentID)
		if err != nil {
			return err
		}
		snapshot.Standings = table
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, snapshot)
	return snapshot, nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, tournamentID, actorID int, isAdmin bool, contentType string, file io.Reader) (string, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return "", mapTournamentErr(err)
	}
	if err := requireOrganizer(tournament, actorID, isAdmin); err != nil {
		return "", err
	}

	key := fmt.Sprintf("tournaments/%d/logo", tournamentID)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload tournament logo: %w", err)
	}
	if err := s.tournamentRepo.UpdateLogoKey(ctx, tournamentID, &result.Key); err != nil {
		return "", err
	}
	s.invalidate(ctx, tournamentID)
	return result.Location, nil
}

// ---- внутренняя кухня ----

func requireOrganizer(t *models.Tournament, actorID int, isAdmin bool) error {
	if isAdmin || t.OrganizerID == actorID {
		return nil
	}
	return ErrForbiddenOperation
}

func registrationTeams(regs []models.Registration) [][2]int {
	teams := make([][2]int, 0, len(regs))
	for _, r := range regs {
		teams = append(teams, [2]int{r.Player1ID, r.Player2ID})
	}
	return teams
}

func (s *tournamentService) persistRound(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, number int, status models.RoundStatus, planned []rounds.PlannedMatch) error {
	round := &models.Round{
		TournamentID: tournament.ID,
		Number:       number,
		Status:       status,
	}
	if err := s.roundRepo.Create(ctx, tx, round); err != nil {
		return mapRepoNotFound(err, repositories.ErrRoundNumberConflict, ErrRoundAlreadyGenerated)
	}

	matches := make([]*models.TournamentMatch, 0, len(planned))
	for _, pm := range planned {
		matches = append(matches, &models.TournamentMatch{
			TournamentID: tournament.ID,
			RoundID:      round.ID,
			RoundNumber:  number,
			Court:        pm.Court,
			Team1Player1: pm.Team1[0],
			Team1Player2: pm.Team1[1],
			Team2Player1: pm.Team2[0],
			Team2Player2: pm.Team2[1],
			Status:       models.TournamentMatchScheduled,
		})
	}
	return s.roundRepo.CreateMatches(ctx, tx, matches)
}

// advanceRound переводит турнир на следующий заранее сгенерированный
// раунд, когда закрылся текущий. Для Mexicano следующего раунда ещё
// нет в базе, поэтому отсутствие раунда не ошибка: его создаст
// NextRound. Поздние правки счёта в уже закрытых раундах номер тура
// не трогают.
func (s *tournamentService) advanceRound(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, completedNumber int) error {
	if completedNumber != tournament.CurrentRound {
		return nil
	}
	next, err := s.roundRepo.GetByNumber(ctx, tx, tournament.ID, completedNumber+1)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil
		}
		return err
	}
	if next.Status == models.RoundPending {
		if err := s.roundRepo.UpdateStatus(ctx, tx, next.ID, models.RoundInProgress); err != nil {
			return err
		}
	}
	if err := s.tournamentRepo.UpdateCurrentRound(ctx, tx, tournament.ID, next.Number); err != nil {
		return err
	}
	tournament.CurrentRound = next.Number
	return nil
}

// rankByRating сортирует всех зарегистрированных игроков по рейтингу
// (при равенстве — по id, чтобы порядок был детерминирован).
func (s *tournamentService) rankByRating(ctx context.Context, tx *sql.Tx, regs []models.Registration) ([]int, error) {
	players, err := s.playerRepo.ListByIDs(ctx, tx, models.PlayerIDs(regs))
	if err != nil {
		return nil, mapPlayerErr(err)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Rating != players[j].Rating {
			return players[i].Rating > players[j].Rating
		}
		return players[i].ID < players[j].ID
	})
	ranked := make([]int, 0, len(players))
	for _, p := range players {
		ranked = append(ranked, p.ID)
	}
	return ranked, nil
}

// rankByStandings возвращает игроков в порядке текущей таблицы.
func (s *tournamentService) rankByStandings(ctx context.Context, tx *sql.Tx, tournamentID int, regs []models.Registration) ([]int, error) {
	matches, err := s.roundRepo.ListMatchesByTournament(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	players, err := s.playerRepo.ListByIDs(ctx, tx, models.PlayerIDs(regs))
	if err != nil {
		return nil, mapPlayerErr(err)
	}
	table := standings.Compute(tournamentID, matches, repositories.PlayerRatings(players))

	ranked := make([]int, 0, len(table))
	for _, row := range table {
		ranked = append(ranked, row.PlayerID)
	}
	return ranked, nil
}

func (s *tournamentService) recomputeStandings(ctx context.Context, tx *sql.Tx, tournamentID int) ([]models.Standing, error) {
	matches, err := s.roundRepo.ListMatchesByTournament(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	regs, err := s.registrationRepo.ListByTournament(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	players, err := s.playerRepo.ListByIDs(ctx, tx, models.PlayerIDs(regs))
	if err != nil {
		return nil, mapPlayerErr(err)
	}

	table := standings.Compute(tournamentID, matches, repositories.PlayerRatings(players))
	if err := s.standingRepo.ReplaceForTournament(ctx, tx, tournamentID, table); err != nil {
		return nil, err
	}
	return table, nil
}

// applyTournamentRatings проигрывает Эло по всем матчам турнира в порядке
// раундов: каждый матч считается от рейтингов после предыдущего.
func (s *tournamentService) applyTournamentRatings(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, matches []models.TournamentMatch) error {
	regs, err := s.registrationRepo.ListByTournament(ctx, tx, tournament.ID)
	if err != nil {
		return err
	}
	players, err := s.playerRepo.ListByIDs(ctx, tx, models.PlayerIDs(regs))
	if err != nil {
		return mapPlayerErr(err)
	}
	working := repositories.PlayerRatings(players)

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].RoundNumber != matches[j].RoundNumber {
			return matches[i].RoundNumber < matches[j].RoundNumber
		}
		return matches[i].ID < matches[j].ID
	})

	tournamentID := tournament.ID
	for i := range matches {
		m := &matches[i]
		if m.Team1Score == nil || m.Team2Score == nil {
			continue
		}
		teamA := [2]rating.PlayerRating{
			{PlayerID: m.Team1Player1, Rating: working[m.Team1Player1]},
			{PlayerID: m.Team1Player2, Rating: working[m.Team1Player2]},
		}
		teamB := [2]rating.PlayerRating{
			{PlayerID: m.Team2Player1, Rating: working[m.Team2Player1]},
			{PlayerID: m.Team2Player2, Rating: working[m.Team2Player2]},
		}
		deltas, err := rating.ComputePointDeltas(teamA, teamB, *m.Team1Score, *m.Team2Score, tournament.RatingMultiplier)
		if err != nil {
			return fmt.Errorf("failed to rate tournament match %d: %w", m.ID, err)
		}
		for _, d := range deltas {
			working[d.PlayerID] = d.NewRating
			entry := &models.RatingHistoryEntry{
				PlayerID:     d.PlayerID,
				TournamentID: &tournamentID,
				OldRating:    d.OldRating,
				NewRating:    d.NewRating,
				Change:       d.Change,
			}
			if err := s.historyRepo.Create(ctx, tx, entry); err != nil {
				return err
			}
		}
	}

	for _, p := range players {
		final := working[p.ID]
		if final == p.Rating {
			continue
		}
		if err := s.playerRepo.UpdateRating(ctx, tx, p.ID, final); err != nil {
			return err
		}
	}
	return nil
}

func (s *tournamentService) attachLogoURL(t *models.Tournament) {
	if t.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*t.LogoKey)
	if url != "" {
		t.LogoURL = &url
	}
}

func (s *tournamentService) invalidate(ctx context.Context, tournamentID int) {
	s.cache.Invalidate(ctx, cache.LiveKey(tournamentID), cache.StandingsKey(tournamentID))
}

func (s *tournamentService) broadcast(tournamentID int, event string, payload any) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(strconv.Itoa(tournamentID), event, payload)
}
