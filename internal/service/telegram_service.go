package service

import (
	"context"

	"cdrbot/internal/domain"
	"cdrbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// TelegramService sends through the Bot API, paced by a token bucket so that
// long multi-chunk reports stay under Telegram's flood limits.
type TelegramService struct {
	bot     domain.TelegramSender
	limiter *rate.Limiter
}

func NewTelegramService(bot domain.TelegramSender, rps float64, burst int) *TelegramService {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst <= 0 {
		burst = 1
	}
	return &TelegramService{
		bot:     bot,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (s *TelegramService) send(ctx context.Context, c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return tgbotapi.Message{}, err
	}
	return s.bot.Send(c)
}

func (s *TelegramService) SendMessage(ctx context.Context, chatID int64, text string) (tgbotapi.Message, error) {
	return s.send(ctx, tgbotapi.NewMessage(chatID, text))
}

func (s *TelegramService) SendHTML(ctx context.Context, chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = models.ParseModeHTML
	msg.DisableWebPagePreview = true
	return s.send(ctx, msg)
}

func (s *TelegramService) SendWithKeyboard(
	ctx context.Context,
	chatID int64,
	text string,
	keyboard tgbotapi.ReplyKeyboardMarkup,
) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return s.send(ctx, msg)
}

// SendWithoutKeyboard sends text and hides the reply keyboard.
func (s *TelegramService) SendWithoutKeyboard(ctx context.Context, chatID int64, text, parseMode string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	return s.send(ctx, msg)
}

func (s *TelegramService) SendWithInlineKeyboard(
	ctx context.Context,
	chatID int64,
	text string,
	keyboard tgbotapi.InlineKeyboardMarkup,
) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return s.send(ctx, msg)
}

func (s *TelegramService) EditMessage(
	ctx context.Context,
	chatID int64,
	messageID int,
	text string,
	keyboard *tgbotapi.InlineKeyboardMarkup,
) (tgbotapi.Message, error) {
	if keyboard != nil {
		msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *keyboard)
		msg.ParseMode = models.ParseModeHTML
		return s.send(ctx, msg)
	}
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = models.ParseModeHTML
	return s.send(ctx, msg)
}

func (s *TelegramService) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := s.bot.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

// SendAudio uploads a call recording, tagged with the caller and call time.
func (s *TelegramService) SendAudio(ctx context.Context, chatID int64, rec models.Recording, data []byte) (tgbotapi.Message, error) {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileBytes{Name: rec.File, Bytes: data})
	audio.Performer = rec.Performer
	audio.Title = rec.Title
	return s.send(ctx, audio)
}

func (s *TelegramService) SendDocument(
	ctx context.Context,
	chatID int64,
	fileName string,
	data []byte,
	caption string,
) (tgbotapi.Message, error) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: fileName, Bytes: data})
	doc.Caption = caption
	return s.send(ctx, doc)
}

func (s *TelegramService) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return s.bot.GetUpdatesChan(config)
}

func (s *TelegramService) GetSelf() tgbotapi.User {
	return s.bot.GetSelf()
}

func (s *TelegramService) StopReceivingUpdates() {
	s.bot.StopReceivingUpdates()
}
