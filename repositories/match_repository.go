package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/courtside/padel-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchPlayerConflict   = errors.New("player already in match roster")
	ErrMatchPlayerNotFound   = errors.New("player not found in match roster")
	ErrSubmissionConflict    = errors.New("score submission already pending for match")
	ErrSubmissionNotFound    = errors.New("score submission not found")
	ErrMatchCreatorInvalid   = errors.New("match creator conflict or invalid")
	ErrMatchRosterRefInvalid = errors.New("match roster player conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// GetByIDForUpdate loads the match under a row lock. Every mutation of
	// a match must go through it inside a transaction: the lock is the
	// per-match mutual exclusion boundary.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	UpdateSchedule(ctx context.Context, exec SQLExecutor, id int, startTime time.Time, durationMinutes int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error

	AddPlayer(ctx context.Context, exec SQLExecutor, matchID int, player models.MatchPlayer) error
	UpdatePlayerRole(ctx context.Context, exec SQLExecutor, matchID, playerID int, role models.PlayerRole) error
	UpdatePlayerTeam(ctx context.Context, exec SQLExecutor, matchID, playerID int, team models.Team) error
	RemovePlayer(ctx context.Context, exec SQLExecutor, matchID, playerID int) error

	CreateSubmission(ctx context.Context, exec SQLExecutor, submission *models.ScoreSubmission) error
	DeleteSubmission(ctx context.Context, exec SQLExecutor, matchID int) error
	ReplaceSets(ctx context.Context, exec SQLExecutor, matchID int, sets []models.SetScore) error
	// ListExpiredSubmissionMatches returns ids of matches whose pending
	// submission passed its confirmation deadline. Used by the sweep.
	ListExpiredSubmissionMatches(ctx context.Context, before time.Time) ([]int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (creator_id, start_time, duration_minutes, open_join, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.CreatorID,
		match.StartTime,
		match.DurationMinutes,
		match.OpenJoin,
		match.Status,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return r.handleMatchError(err)
	}

	for _, mp := range match.Roster {
		if err := r.AddPlayer(ctx, executor, match.ID, mp); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return r.loadMatch(ctx, r.db, id, false)
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	if exec == nil {
		return nil, fmt.Errorf("GetByIDForUpdate requires a transaction executor")
	}
	return r.loadMatch(ctx, exec, id, true)
}

func (r *postgresMatchRepository) loadMatch(ctx context.Context, executor SQLExecutor, id int, forUpdate bool) (*models.Match, error) {
	query := `
		SELECT id, creator_id, start_time, duration_minutes, open_join, status, created_at
		FROM matches
		WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	match := &models.Match{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.CreatorID,
		&match.StartTime,
		&match.DurationMinutes,
		&match.OpenJoin,
		&match.Status,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}

	if match.Roster, err = r.loadRoster(ctx, executor, id); err != nil {
		return nil, err
	}
	if match.Sets, err = r.loadSets(ctx, executor, id); err != nil {
		return nil, err
	}
	if match.Submission, err = r.loadSubmission(ctx, executor, id); err != nil {
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) loadRoster(ctx context.Context, executor SQLExecutor, matchID int) ([]models.MatchPlayer, error) {
	query := `
		SELECT player_id, role, team
		FROM match_players
		WHERE match_id = $1
		ORDER BY joined_at ASC, player_id ASC`

	rows, err := executor.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster for match %d: %w", matchID, err)
	}
	defer rows.Close()

	roster := make([]models.MatchPlayer, 0, models.MaxMatchPlayers)
	for rows.Next() {
		var mp models.MatchPlayer
		if scanErr := rows.Scan(&mp.PlayerID, &mp.Role, &mp.Team); scanErr != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", scanErr)
		}
		roster = append(roster, mp)
	}
	return roster, rows.Err()
}

func (r *postgresMatchRepository) loadSets(ctx context.Context, executor SQLExecutor, matchID int) ([]models.SetScore, error) {
	query := `
		SELECT set_number, team1_games, team2_games, team1_tiebreak, team2_tiebreak
		FROM match_sets
		WHERE match_id = $1
		ORDER BY set_number ASC`

	rows, err := executor.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sets for match %d: %w", matchID, err)
	}
	defer rows.Close()

	sets := make([]models.SetScore, 0)
	for rows.Next() {
		var s models.SetScore
		if scanErr := rows.Scan(&s.Number, &s.Team1Games, &s.Team2Games, &s.Team1Tiebreak, &s.Team2Tiebreak); scanErr != nil {
			return nil, fmt.Errorf("failed to scan set row: %w", scanErr)
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

func (r *postgresMatchRepository) loadSubmission(ctx context.Context, executor SQLExecutor, matchID int) (*models.ScoreSubmission, error) {
	query := `
		SELECT id, match_id, submitter_id,
		       team1_player1, team1_player2, team2_player1, team2_player2,
		       submitted_at, confirm_deadline
		FROM score_submissions
		WHERE match_id = $1`

	sub := &models.ScoreSubmission{}
	err := executor.QueryRowContext(ctx, query, matchID).Scan(
		&sub.ID,
		&sub.MatchID,
		&sub.SubmitterID,
		&sub.Teams.Team1[0],
		&sub.Teams.Team1[1],
		&sub.Teams.Team2[0],
		&sub.Teams.Team2[1],
		&sub.SubmittedAt,
		&sub.ConfirmDeadline,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan submission for match %d: %w", matchID, err)
	}

	setsQuery := `
		SELECT set_number, team1_games, team2_games, team1_tiebreak, team2_tiebreak
		FROM score_submission_sets
		WHERE submission_id = $1
		ORDER BY set_number ASC`
	rows, err := executor.QueryContext(ctx, setsQuery, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission sets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.SetScore
		if scanErr := rows.Scan(&s.Number, &s.Team1Games, &s.Team2Games, &s.Team1Tiebreak, &s.Team2Tiebreak); scanErr != nil {
			return nil, fmt.Errorf("failed to scan submission set row: %w", scanErr)
		}
		sub.Sets = append(sub.Sets, s)
	}
	return sub, rows.Err()
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, exec SQLExecutor, id int, startTime time.Time, durationMinutes int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE matches SET start_time = $1, duration_minutes = $2 WHERE id = $3`,
		startTime, durationMinutes, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) AddPlayer(ctx context.Context, exec SQLExecutor, matchID int, player models.MatchPlayer) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_players (match_id, player_id, role, team)
		VALUES ($1, $2, $3, $4)`

	_, err := executor.ExecContext(ctx, query, matchID, player.PlayerID, player.Role, player.Team)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) UpdatePlayerRole(ctx context.Context, exec SQLExecutor, matchID, playerID int, role models.PlayerRole) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE match_players SET role = $1 WHERE match_id = $2 AND player_id = $3`,
		role, matchID, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchPlayerNotFound)
}

func (r *postgresMatchRepository) UpdatePlayerTeam(ctx context.Context, exec SQLExecutor, matchID, playerID int, team models.Team) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE match_players SET team = $1 WHERE match_id = $2 AND player_id = $3`,
		team, matchID, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchPlayerNotFound)
}

func (r *postgresMatchRepository) RemovePlayer(ctx context.Context, exec SQLExecutor, matchID, playerID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM match_players WHERE match_id = $1 AND player_id = $2`,
		matchID, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchPlayerNotFound)
}

func (r *postgresMatchRepository) CreateSubmission(ctx context.Context, exec SQLExecutor, submission *models.ScoreSubmission) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO score_submissions
			(id, match_id, submitter_id, team1_player1, team1_player2, team2_player1, team2_player2,
			 submitted_at, confirm_deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := executor.ExecContext(ctx, query,
		submission.ID,
		submission.MatchID,
		submission.SubmitterID,
		submission.Teams.Team1[0],
		submission.Teams.Team1[1],
		submission.Teams.Team2[0],
		submission.Teams.Team2[1],
		submission.SubmittedAt,
		submission.ConfirmDeadline,
	)
	if err != nil {
		return r.handleMatchError(err)
	}

	for _, s := range submission.Sets {
		_, err = executor.ExecContext(ctx, `
			INSERT INTO score_submission_sets
				(submission_id, set_number, team1_games, team2_games, team1_tiebreak, team2_tiebreak)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			submission.ID, s.Number, s.Team1Games, s.Team2Games, s.Team1Tiebreak, s.Team2Tiebreak)
		if err != nil {
			return fmt.Errorf("failed to insert submission set %d: %w", s.Number, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) DeleteSubmission(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	// score_submission_sets rows go away via ON DELETE CASCADE.
	result, err := executor.ExecContext(ctx, `DELETE FROM score_submissions WHERE match_id = $1`, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSubmissionNotFound)
}

func (r *postgresMatchRepository) ReplaceSets(ctx context.Context, exec SQLExecutor, matchID int, sets []models.SetScore) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx, `DELETE FROM match_sets WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("failed to clear sets for match %d: %w", matchID, err)
	}
	for _, s := range sets {
		_, err := executor.ExecContext(ctx, `
			INSERT INTO match_sets (match_id, set_number, team1_games, team2_games, team1_tiebreak, team2_tiebreak)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			matchID, s.Number, s.Team1Games, s.Team2Games, s.Team1Tiebreak, s.Team2Tiebreak)
		if err != nil {
			return fmt.Errorf("failed to insert set %d for match %d: %w", s.Number, matchID, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) ListExpiredSubmissionMatches(ctx context.Context, before time.Time) ([]int, error) {
	query := `
		SELECT match_id
		FROM score_submissions
		WHERE confirm_deadline <= $1
		ORDER BY confirm_deadline ASC`

	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired submissions: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("failed to scan expired submission row: %w", scanErr)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		// "23503": foreign_key_violation, "23505": unique_violation
		switch pqErr.Constraint {
		case "matches_creator_id_fkey":
			return ErrMatchCreatorInvalid
		case "match_players_player_id_fkey":
			return ErrMatchRosterRefInvalid
		case "match_players_pkey":
			return ErrMatchPlayerConflict
		case "score_submissions_match_id_key":
			return ErrSubmissionConflict
		}
	}
	return err
}
