package bot

import (
	"context"

	"cdrbot/internal/models"

	"github.com/rs/zerolog"
)

// replyError logs a failed request and tells the user to retry later.
// Nothing of the failed report is sent.
func (b *Bot) replyError(ctx context.Context, chatID int64, where string, err error) {
	if b.metrics != nil {
		b.metrics.ErrorsTotal.Inc()
	}
	zerolog.Ctx(ctx).Error().Err(err).Str("where", where).Int64("chat_id", chatID).Msg("request failed")

	if _, sendErr := b.tgService.SendWithoutKeyboard(ctx, chatID, textError, models.ParseModeHTML); sendErr != nil {
		zerolog.Ctx(ctx).Error().Err(sendErr).Msg("failed to send error message")
	}
}
