package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) withRecovery(l *zerolog.Logger, handler func()) {
	defer func() {
		if r := recover(); r != nil {
			if b.metrics != nil {
				b.metrics.ErrorsTotal.Inc()
			}
			l.Error().Interface("panic", r).Msg("Recovered from panic in update handler")
		}
	}()
	handler()
}

// allow applies the per-user message rate limit. Limiter errors let the update through.
func (b *Bot) allow(ctx context.Context, userID int64, update tgbotapi.Update) bool {
	window := time.Duration(b.config.Bot.RateLimitWindow) * time.Second
	allowed, err := b.sessions.CheckRateLimit(ctx, userID, b.config.Bot.RateLimitMessages, window)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Rate limit check failed")
		return true
	}
	if allowed {
		return true
	}

	zerolog.Ctx(ctx).Warn().Msg("Rate limit exceeded")
	if b.metrics != nil {
		b.metrics.RateLimited.Inc()
	}
	if update.Message != nil {
		if _, err := b.tgService.SendMessage(ctx, update.Message.Chat.ID, textRateLimited); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("failed to send rate limit notice")
		}
	}
	return false
}
