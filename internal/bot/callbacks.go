package bot

import (
	"context"
	"strings"
	"time"

	"cdrbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil {
		b.answerCallback(ctx, cq.ID, "")
		return
	}
	chatID := cq.Message.Chat.ID

	session, err := b.sessions.GetSession(ctx, cq.From.ID, chatID)
	if err != nil {
		b.answerCallback(ctx, cq.ID, "")
		b.replyError(ctx, chatID, "load session", err)
		return
	}
	if !session.Authorized {
		b.answerCallback(ctx, cq.ID, textAskPin)
		return
	}

	req := &Request{ChatID: chatID, FirstName: cq.From.FirstName, Text: cq.Data, Session: session}

	switch data := cq.Data; {
	case data == callbackNoop:
		b.answerCallback(ctx, cq.ID, "")
		return
	case strings.HasPrefix(data, callbackMonthPfx):
		b.answerCallback(ctx, cq.ID, "")
		err = b.flipCalendar(ctx, req, cq.Message.MessageID, data)
	case strings.HasPrefix(data, callbackDatePfx):
		b.answerCallback(ctx, cq.ID, "")
		err = b.pickDate(ctx, req, strings.TrimPrefix(data, callbackDatePfx))
	default:
		zerolog.Ctx(ctx).Warn().Str("data", data).Msg("unknown callback")
		b.answerCallback(ctx, cq.ID, textWrongCommand)
		return
	}

	if err != nil {
		b.replyError(ctx, chatID, "handle callback", err)
	}
	if err := b.sessions.SaveSession(ctx, session); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to save session")
	}
}

func (b *Bot) answerCallback(ctx context.Context, id, text string) {
	if err := b.tgService.AnswerCallback(ctx, id, text); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to answer callback")
	}
}

func (b *Bot) flipCalendar(ctx context.Context, req *Request, messageID int, data string) error {
	today := b.reports.Today()
	month, ok := parseCalendarMonth(data, today.Location())
	if !ok {
		return nil
	}
	req.Session.CalendarMonth = month.Format(calendarMonthForm)
	kb := GenerateCalendarKeyboard(month.Year(), month.Month(), today)
	_, err := b.tgService.EditMessage(ctx, req.ChatID, messageID, textChooseDate, &kb)
	return err
}

func (b *Bot) pickDate(ctx context.Context, req *Request, value string) error {
	today := b.reports.Today()
	day, err := time.ParseInLocation(models.DateLayout, value, today.Location())
	if err != nil || day.After(today) {
		return b.sendSceneMenu(ctx, req, textBadDate)
	}
	return b.showDate(ctx, req, day, value)
}
