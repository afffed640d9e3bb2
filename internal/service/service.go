// Package service orchestrates the repo and the metrics engine: it loads the
// snapshots the pure calculators need, runs them, and writes derived caches
// back to storage.
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/tranxuanbinhn/goalflow-backend/internal/auth"
	"github.com/tranxuanbinhn/goalflow-backend/internal/models"
	"github.com/tranxuanbinhn/goalflow-backend/internal/repo"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	Repo       *repo.Repo
	Auth       *auth.Manager
	TokenTTL   time.Duration
	RefreshTTL time.Duration
}

func New(r *repo.Repo, authManager *auth.Manager) *Service {
	return &Service{Repo: r, Auth: authManager, TokenTTL: time.Hour, RefreshTTL: 7 * 24 * time.Hour}
}

func (s *Service) Register(ctx context.Context, email, name, password string) (string, error) {
	taken, err := s.Repo.EmailExists(ctx, email)
	if err != nil {
		return "", err
	}
	if taken {
		return "", repo.ErrEmailTaken
	}
	hash, err := s.Auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	userID, err := s.Repo.CreateUser(ctx, email, name, hash)
	if err != nil {
		return "", err
	}
	if err := s.Repo.UpsertUserSettings(ctx, userID, models.DefaultDailyGoal, "dark"); err != nil {
		return "", err
	}
	return userID, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (models.User, string, string, error) {
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, "", "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", "", err
	}
	if err := s.Auth.ComparePassword(user.PasswordHash, password); err != nil {
		return models.User{}, "", "", ErrInvalidCredentials
	}
	accessToken, err := s.Auth.GenerateToken(user.ID, user.Email, s.TokenTTL)
	if err != nil {
		return models.User{}, "", "", err
	}
	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return models.User{}, "", "", err
	}
	if err := s.Repo.CreateSession(ctx, user.ID, refreshToken, time.Now().Add(s.RefreshTTL)); err != nil {
		return models.User{}, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.Repo.GetSessionUser(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.Auth.GenerateToken(user.ID, user.Email, s.TokenTTL)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.DeleteSession(ctx, refreshToken)
}

func (s *Service) generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Settings returns the user's preferences, substituting defaults when the
// user never saved any.
func (s *Service) Settings(ctx context.Context, userID string) (models.UserSettings, error) {
	settings, err := s.Repo.GetUserSettings(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return models.UserSettings{UserID: userID, DailyGoal: models.DefaultDailyGoal, Theme: "dark"}, nil
	}
	return settings, err
}

func (s *Service) UpdateSettings(ctx context.Context, userID string, dailyGoal int, theme string) (models.UserSettings, error) {
	if dailyGoal < 1 {
		dailyGoal = models.DefaultDailyGoal
	}
	if err := s.Repo.UpsertUserSettings(ctx, userID, dailyGoal, theme); err != nil {
		return models.UserSettings{}, err
	}
	return s.Repo.GetUserSettings(ctx, userID)
}
