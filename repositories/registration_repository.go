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
	ErrRegistrationNotFound     = errors.New("registration not found")
	ErrRegistrationConflict     = errors.New("player is already registered for this tournament")
	ErrRegistrationRefInvalid   = errors.New("registration player or tournament conflict or invalid")
	ErrRegistrationSamePlayers  = errors.New("registration pair must be two distinct players")
)

type RegistrationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, registration *models.Registration) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Registration, error)
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	// PlayerRegistered reports whether the player already belongs to any
	// pair of the tournament, on either side.
	PlayerRegistered(ctx context.Context, exec SQLExecutor, tournamentID, playerID int) (bool, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, exec SQLExecutor, registration *models.Registration) error {
	if registration.Player1ID == registration.Player2ID {
		return ErrRegistrationSamePlayers
	}
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_registrations (tournament_id, player1_id, player2_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		registration.TournamentID,
		registration.Player1ID,
		registration.Player2ID,
	).Scan(&registration.ID, &registration.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "tournament_registrations_tournament_id_fkey",
			"tournament_registrations_player1_id_fkey",
			"tournament_registrations_player2_id_fkey":
			return ErrRegistrationRefInvalid
		}
		// "23505": частичный уникальный индекс по (tournament_id, player)
		if pqErr.Code == "23505" {
			return ErrRegistrationConflict
		}
	}
	return err
}

func (r *postgresRegistrationRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Registration, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, player1_id, player2_id, created_at
		FROM tournament_registrations
		WHERE tournament_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	registrations := make([]models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if scanErr := rows.Scan(&reg.ID, &reg.TournamentID, &reg.Player1ID, &reg.Player2ID, &reg.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", scanErr)
		}
		registrations = append(registrations, reg)
	}
	return registrations, rows.Err()
}

func (r *postgresRegistrationRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tournament_registrations WHERE tournament_id = $1`,
		tournamentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresRegistrationRepository) PlayerRegistered(ctx context.Context, exec SQLExecutor, tournamentID, playerID int) (bool, error) {
	executor := r.getExecutor(exec)
	var exists bool
	err := executor.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM tournament_registrations
			WHERE tournament_id = $1 AND (player1_id = $2 OR player2_id = $2)
		)`, tournamentID, playerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check registration for player %d: %w", playerID, err)
	}
	return exists, nil
}
