package service

import (
	"context"
	"time"

	"cdrbot/internal/domain"
	"cdrbot/internal/models"

	"github.com/rs/zerolog"
)

type SessionService struct {
	repo   domain.SessionRepository
	logger *zerolog.Logger
}

func NewSessionService(repo domain.SessionRepository, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		repo:   repo,
		logger: logger,
	}
}

// GetSession returns the user's session, starting a fresh one when none is stored.
func (s *SessionService) GetSession(ctx context.Context, userID, chatID int64) (*models.Session, error) {
	session, err := s.repo.Load(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load session")
		return nil, err
	}
	if session == nil {
		return models.NewSession(userID, chatID), nil
	}
	if chatID != 0 {
		session.ChatID = chatID
	}
	return session, nil
}

func (s *SessionService) SaveSession(ctx context.Context, session *models.Session) error {
	if err := s.repo.Save(ctx, session); err != nil {
		s.logger.Error().Err(err).Int64("user_id", session.UserID).Msg("failed to save session")
		return err
	}
	return nil
}

func (s *SessionService) ResetSession(ctx context.Context, userID int64) error {
	return s.repo.Delete(ctx, userID)
}

func (s *SessionService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return s.repo.CheckRateLimit(ctx, userID, limit, window)
}
