package repository

import (
	"context"
	"testing"
	"time"

	"cdrbot/internal/config"
	"cdrbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configFor(addr string) config.RedisConfig {
	return config.RedisConfig{Address: addr, PoolSize: 2}
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestMemorySessionRepository(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}
	repo := NewMemorySessionRepository(time.Hour)
	repo.now = clock.Now
	ctx := context.Background()

	t.Run("SaveAndLoad", func(t *testing.T) {
		session := models.NewSession(123, 1)
		session.Recordings = map[string]models.Recording{"1.1": {File: "a.wav"}}
		require.NoError(t, repo.Save(ctx, session))

		got, err := repo.Load(ctx, 123)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, session.Recordings, got.Recordings)

		got.Recordings["2.2"] = models.Recording{File: "b.wav"}
		again, _ := repo.Load(ctx, 123)
		assert.Len(t, again.Recordings, 1, "stored copy is isolated from callers")
	})

	t.Run("LoadTouches", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, models.NewSession(200, 1)))

		clock.now = clock.now.Add(50 * time.Minute)
		got, _ := repo.Load(ctx, 200)
		require.NotNil(t, got)

		clock.now = clock.now.Add(50 * time.Minute)
		got, _ = repo.Load(ctx, 200)
		assert.NotNil(t, got)

		clock.now = clock.now.Add(61 * time.Minute)
		got, _ = repo.Load(ctx, 200)
		assert.Nil(t, got)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, 123))
		got, _ := repo.Load(ctx, 123)
		assert.Nil(t, got)
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, models.NewSession(300, 1)))
		clock.now = clock.now.Add(30 * time.Minute)
		require.NoError(t, repo.Save(ctx, models.NewSession(301, 1)))

		assert.Equal(t, 0, repo.DeleteExpired(clock.now))
		assert.Equal(t, 1, repo.DeleteExpired(clock.now.Add(45*time.Minute)))
		assert.Equal(t, 1, repo.Len())
	})

	t.Run("RateLimit", func(t *testing.T) {
		userID := int64(456)
		allowed, _ := repo.CheckRateLimit(ctx, userID, 2, time.Second)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, userID, 2, time.Second)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, userID, 2, time.Second)
		assert.False(t, allowed)

		clock.now = clock.now.Add(time.Second + 10*time.Millisecond)
		allowed, _ = repo.CheckRateLimit(ctx, userID, 2, time.Second)
		assert.True(t, allowed)
	})
}

func TestMemorySessionRepository_Sweeper(t *testing.T) {
	repo := NewMemorySessionRepository(10 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, repo.Save(ctx, models.NewSession(1, 1)))
	repo.StartSweeper(ctx, 5*time.Millisecond, nil)

	assert.Eventually(t, func() bool { return repo.Len() == 0 }, time.Second, 5*time.Millisecond)
}
