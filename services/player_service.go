package services

import (
	"context"
	"fmt"
	"io"

	"github.com/courtside/padel-system/models"
	"github.com/courtside/padel-system/repositories"
	"github.com/courtside/padel-system/storage"
)

type PlayerService interface {
	Get(ctx context.Context, id int) (*models.Player, error)
	RatingHistory(ctx context.Context, playerID, limit int) ([]*models.RatingHistoryEntry, error)
	UploadAvatar(ctx context.Context, playerID, actorID int, isAdmin bool, contentType string, file io.Reader) (string, error)
}

type playerService struct {
	playerRepo  repositories.PlayerRepository
	historyRepo repositories.RatingHistoryRepository
	uploader    storage.FileUploader
}

func NewPlayerService(playerRepo repositories.PlayerRepository, historyRepo repositories.RatingHistoryRepository, uploader storage.FileUploader) PlayerService {
	return &playerService{
		playerRepo:  playerRepo,
		historyRepo: historyRepo,
		uploader:    uploader,
	}
}

func (s *playerService) Get(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapPlayerErr(err)
	}
	player.PasswordHash = ""
	if player.AvatarKey != nil && s.uploader != nil {
		if url := s.uploader.GetPublicURL(*player.AvatarKey); url != "" {
			player.AvatarURL = &url
		}
	}
	return player, nil
}

func (s *playerService) RatingHistory(ctx context.Context, playerID, limit int) ([]*models.RatingHistoryEntry, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return nil, mapPlayerErr(err)
	}
	return s.historyRepo.ListByPlayer(ctx, playerID, limit)
}

func (s *playerService) UploadAvatar(ctx context.Context, playerID, actorID int, isAdmin bool, contentType string, file io.Reader) (string, error) {
	if !isAdmin && actorID != playerID {
		return "", ErrForbiddenOperation
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return "", mapPlayerErr(err)
	}

	key := fmt.Sprintf("players/%d/avatar", playerID)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	if err := s.playerRepo.UpdateAvatarKey(ctx, playerID, &result.Key); err != nil {
		return "", err
	}
	return result.Location, nil
}
