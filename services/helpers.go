package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/padel-system/repositories"
)

// runInTx выполняет fn внутри транзакции. Откат при ошибке или панике,
// коммит при успехе — паттерн единый для всех мутаций ядра.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	err = fn(tx)
	return err
}

// mapRepoNotFound переводит "не найдено" из репозитория в сервисную ошибку,
// не трогая остальные.
func mapRepoNotFound(err, repoNotFound, serviceNotFound error) error {
	if errors.Is(err, repoNotFound) {
		return serviceNotFound
	}
	return err
}

func mapPlayerErr(err error) error {
	return mapRepoNotFound(err, repositories.ErrPlayerNotFound, ErrPlayerNotFound)
}

func mapMatchErr(err error) error {
	return mapRepoNotFound(err, repositories.ErrMatchNotFound, ErrMatchNotFound)
}

func mapTournamentErr(err error) error {
	return mapRepoNotFound(err, repositories.ErrTournamentNotFound, ErrTournamentNotFound)
}
