package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/courtside/padel-system/models"
)

var ErrStandingNotFound = errors.New("tournament standing not found")

// StandingRepository persists the standings table purely as a cache:
// the standings package recomputes it from matches, this layer just
// swaps the stored snapshot.
type StandingRepository interface {
	ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, standings []models.Standing) error
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Standing, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStandingRepository) ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, standings []models.Standing) error {
	executor := r.getExecutor(exec)
	if err := r.DeleteByTournament(ctx, executor, tournamentID); err != nil {
		return err
	}

	query := `
		INSERT INTO tournament_standings
			(tournament_id, player_id, points, wins, losses, points_for, points_against, position, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	for _, s := range standings {
		updatedAt := s.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = now
		}
		_, err := executor.ExecContext(ctx, query,
			tournamentID, s.PlayerID, s.Points, s.Wins, s.Losses,
			s.PointsFor, s.PointsAgainst, s.Position, updatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert standing for player %d: %w", s.PlayerID, err)
		}
	}
	return nil
}

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	query := `
		SELECT tournament_id, player_id, points, wins, losses, points_for, points_against, position, updated_at
		FROM tournament_standings
		WHERE tournament_id = $1
		ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	standingsList := make([]models.Standing, 0)
	for rows.Next() {
		var s models.Standing
		if scanErr := rows.Scan(
			&s.TournamentID, &s.PlayerID, &s.Points, &s.Wins, &s.Losses,
			&s.PointsFor, &s.PointsAgainst, &s.Position, &s.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", scanErr)
		}
		standingsList = append(standingsList, s)
	}
	return standingsList, rows.Err()
}

func (r *postgresStandingRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM tournament_standings WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to clear standings for tournament %d: %w", tournamentID, err)
	}
	return nil
}
