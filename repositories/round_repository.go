package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/padel-system/models"
	"github.com/lib/pq"
)

var (
	ErrRoundNotFound           = errors.New("round not found")
	ErrRoundNumberConflict     = errors.New("round number already exists for tournament")
	ErrTournamentMatchNotFound = errors.New("tournament match not found")
)

type RoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.Round) error
	GetByNumber(ctx context.Context, exec SQLExecutor, tournamentID, number int) (*models.Round, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Round, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, roundID int, status models.RoundStatus) error

	CreateMatches(ctx context.Context, exec SQLExecutor, matches []*models.TournamentMatch) error
	GetMatchByID(ctx context.Context, exec SQLExecutor, matchID int) (*models.TournamentMatch, error)
	UpdateMatchScore(ctx context.Context, exec SQLExecutor, matchID, score1, score2 int) error
	ListMatchesByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.TournamentMatch, error)
	CountScheduledMatches(ctx context.Context, exec SQLExecutor, roundID int) (int, error)
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_rounds (tournament_id, number, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		round.TournamentID,
		round.Number,
		round.Status,
	).Scan(&round.ID, &round.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok {
		// Уникальность (tournament_id, number) страхует от двойной генерации раунда.
		if pqErr.Constraint == "tournament_rounds_tournament_id_number_key" {
			return ErrRoundNumberConflict
		}
	}
	return err
}

func (r *postgresRoundRepository) GetByNumber(ctx context.Context, exec SQLExecutor, tournamentID, number int) (*models.Round, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, number, status, created_at
		FROM tournament_rounds
		WHERE tournament_id = $1 AND number = $2`

	round := &models.Round{}
	err := executor.QueryRowContext(ctx, query, tournamentID, number).Scan(
		&round.ID, &round.TournamentID, &round.Number, &round.Status, &round.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to scan round %d of tournament %d: %w", number, tournamentID, err)
	}

	round.Matches, err = r.listMatchesByRound(ctx, executor, round.ID)
	return round, err
}

func (r *postgresRoundRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Round, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, number, status, created_at
		FROM tournament_rounds
		WHERE tournament_id = $1
		ORDER BY number ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	roundsList := make([]models.Round, 0)
	for rows.Next() {
		var round models.Round
		if scanErr := rows.Scan(&round.ID, &round.TournamentID, &round.Number, &round.Status, &round.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan round row: %w", scanErr)
		}
		roundsList = append(roundsList, round)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range roundsList {
		if roundsList[i].Matches, err = r.listMatchesByRound(ctx, executor, roundsList[i].ID); err != nil {
			return nil, err
		}
	}
	return roundsList, nil
}

func (r *postgresRoundRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, roundID int, status models.RoundStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE tournament_rounds SET status = $1 WHERE id = $2`, status, roundID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}

const tournamentMatchColumns = `id, tournament_id, round_id, round_number, court,
	team1_player1, team1_player2, team2_player1, team2_player2, team1_score, team2_score, status`

func scanTournamentMatch(row interface{ Scan(dest ...interface{}) error }, m *models.TournamentMatch) error {
	return row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.RoundID,
		&m.RoundNumber,
		&m.Court,
		&m.Team1Player1,
		&m.Team1Player2,
		&m.Team2Player1,
		&m.Team2Player2,
		&m.Team1Score,
		&m.Team2Score,
		&m.Status,
	)
}

func (r *postgresRoundRepository) CreateMatches(ctx context.Context, exec SQLExecutor, matches []*models.TournamentMatch) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_matches
			(tournament_id, round_id, round_number, court,
			 team1_player1, team1_player2, team2_player1, team2_player2, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	for _, m := range matches {
		err := executor.QueryRowContext(ctx, query,
			m.TournamentID, m.RoundID, m.RoundNumber, m.Court,
			m.Team1Player1, m.Team1Player2, m.Team2Player1, m.Team2Player2, m.Status,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("failed to insert tournament match on court %d: %w", m.Court, err)
		}
	}
	return nil
}

func (r *postgresRoundRepository) GetMatchByID(ctx context.Context, exec SQLExecutor, matchID int) (*models.TournamentMatch, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + tournamentMatchColumns + ` FROM tournament_matches WHERE id = $1`

	match := &models.TournamentMatch{}
	err := scanTournamentMatch(executor.QueryRowContext(ctx, query, matchID), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament match %d: %w", matchID, err)
	}
	return match, nil
}

func (r *postgresRoundRepository) UpdateMatchScore(ctx context.Context, exec SQLExecutor, matchID, score1, score2 int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE tournament_matches
		SET team1_score = $1, team2_score = $2, status = $3
		WHERE id = $4`,
		score1, score2, models.TournamentMatchCompleted, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentMatchNotFound)
}

func (r *postgresRoundRepository) ListMatchesByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.TournamentMatch, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + tournamentMatchColumns + `
		FROM tournament_matches
		WHERE tournament_id = $1
		ORDER BY round_number ASC, court ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.TournamentMatch, 0)
	for rows.Next() {
		var m models.TournamentMatch
		if scanErr := scanTournamentMatch(rows, &m); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresRoundRepository) CountScheduledMatches(ctx context.Context, exec SQLExecutor, roundID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tournament_matches
		WHERE round_id = $1 AND status != $2`,
		roundID, models.TournamentMatchCompleted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count scheduled matches for round %d: %w", roundID, err)
	}
	return count, nil
}

func (r *postgresRoundRepository) listMatchesByRound(ctx context.Context, executor SQLExecutor, roundID int) ([]models.TournamentMatch, error) {
	query := `SELECT ` + tournamentMatchColumns + `
		FROM tournament_matches
		WHERE round_id = $1
		ORDER BY court ASC`

	rows, err := executor.QueryContext(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for round %d: %w", roundID, err)
	}
	defer rows.Close()

	matches := make([]models.TournamentMatch, 0)
	for rows.Next() {
		var m models.TournamentMatch
		if scanErr := scanTournamentMatch(rows, &m); scanErr != nil {
			return nil, fmt.Errorf("failed to scan round match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
