package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cdrbot/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Load(ctx context.Context, userID int64) (*models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessionRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, userID, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestSessionService_GetSession(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	logger := zerolog.Nop()
	s := NewSessionService(mockRepo, &logger)
	ctx := context.Background()
	userID := int64(123)

	t.Run("Stored", func(t *testing.T) {
		stored := &models.Session{UserID: userID, ChatID: 1, Scene: models.SceneMenu, Authorized: true}
		mockRepo.On("Load", ctx, userID).Return(stored, nil).Once()

		session, err := s.GetSession(ctx, userID, 2)
		require.NoError(t, err)
		assert.True(t, session.Authorized)
		assert.Equal(t, int64(2), session.ChatID)
	})

	t.Run("Fresh", func(t *testing.T) {
		mockRepo.On("Load", ctx, userID).Return(nil, nil).Once()

		session, err := s.GetSession(ctx, userID, 5)
		require.NoError(t, err)
		assert.Equal(t, models.SceneStart, session.Scene)
		assert.False(t, session.Authorized)
		assert.Equal(t, int64(5), session.ChatID)
	})

	t.Run("Error", func(t *testing.T) {
		mockRepo.On("Load", ctx, userID).Return(nil, errors.New("redis down")).Once()

		session, err := s.GetSession(ctx, userID, 5)
		assert.Error(t, err)
		assert.Nil(t, session)
	})

	mockRepo.AssertExpectations(t)
}

func TestSessionService_SaveAndReset(t *testing.T) {
	mockRepo := new(MockSessionRepository)
	logger := zerolog.Nop()
	s := NewSessionService(mockRepo, &logger)
	ctx := context.Background()

	session := models.NewSession(1, 1)
	mockRepo.On("Save", ctx, session).Return(nil).Once()
	assert.NoError(t, s.SaveSession(ctx, session))

	mockRepo.On("Save", ctx, session).Return(errors.New("fail")).Once()
	assert.Error(t, s.SaveSession(ctx, session))

	mockRepo.On("Delete", ctx, int64(1)).Return(nil).Once()
	assert.NoError(t, s.ResetSession(ctx, 1))

	mockRepo.On("CheckRateLimit", ctx, int64(1), 20, time.Minute).Return(true, nil).Once()
	allowed, err := s.CheckRateLimit(ctx, 1, 20, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)

	mockRepo.AssertExpectations(t)
}
