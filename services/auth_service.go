package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/courtside/padel-system/models"
	"github.com/courtside/padel-system/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	tokenTTL          = 24 * time.Hour
)

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.Player, string, error)
	Login(ctx context.Context, input LoginInput) (*models.Player, string, error)
}

type authService struct {
	playerRepo repositories.PlayerRepository
	jwtSecret  []byte
	clock      clockwork.Clock
}

func NewAuthService(playerRepo repositories.PlayerRepository, jwtSecret []byte, clock clockwork.Clock) AuthService {
	return &authService{
		playerRepo: playerRepo,
		jwtSecret:  jwtSecret,
		clock:      clock,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.Player, string, error) {
	if input.Email == "" {
		return nil, "", ErrEmailRequired
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, "", fmt.Errorf("%w: invalid email format", ErrValidationFailed)
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	player := &models.Player{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         models.GlobalRolePlayer,
		Rating:       models.InitialRating,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerEmailConflict) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create player: %w", err)
	}

	token, err := s.issueToken(player)
	if err != nil {
		return nil, "", err
	}
	player.PasswordHash = ""
	return player, token, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Player, string, error) {
	player, err := s.playerRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find player by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to compare password hash: %w", err)
	}

	token, err := s.issueToken(player)
	if err != nil {
		return nil, "", err
	}
	player.PasswordHash = ""
	return player, token, nil
}

func (s *authService) issueToken(player *models.Player) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"user_id": player.ID,
		"role":    string(player.Role),
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
