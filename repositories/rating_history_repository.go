package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/padel-system/models"
)

var ErrRatingHistoryPlayerInvalid = errors.New("rating history player conflict or invalid")

type RatingHistoryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.RatingHistoryEntry) error
	ListByPlayer(ctx context.Context, playerID int, limit int) ([]*models.RatingHistoryEntry, error)
}

type postgresRatingHistoryRepository struct {
	db *sql.DB
}

func NewPostgresRatingHistoryRepository(db *sql.DB) RatingHistoryRepository {
	return &postgresRatingHistoryRepository{db: db}
}

func (r *postgresRatingHistoryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRatingHistoryRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.RatingHistoryEntry) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO rating_history (player_id, match_id, tournament_id, old_rating, new_rating, change)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		entry.PlayerID,
		entry.MatchID,
		entry.TournamentID,
		entry.OldRating,
		entry.NewRating,
		entry.Change,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert rating history for player %d: %w", entry.PlayerID, err)
	}
	return nil
}

func (r *postgresRatingHistoryRepository) ListByPlayer(ctx context.Context, playerID int, limit int) ([]*models.RatingHistoryEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `
		SELECT id, player_id, match_id, tournament_id, old_rating, new_rating, change, created_at
		FROM rating_history
		WHERE player_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating history for player %d: %w", playerID, err)
	}
	defer rows.Close()

	entries := make([]*models.RatingHistoryEntry, 0)
	for rows.Next() {
		var entry models.RatingHistoryEntry
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.PlayerID,
			&entry.MatchID,
			&entry.TournamentID,
			&entry.OldRating,
			&entry.NewRating,
			&entry.Change,
			&entry.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan rating history row: %w", scanErr)
		}
		entries = append(entries, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating history rows: %w", err)
	}
	return entries, nil
}
