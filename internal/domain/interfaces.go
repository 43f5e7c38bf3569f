package domain

import (
	"context"
	"time"

	"cdrbot/internal/models"
	"cdrbot/internal/report"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CallStore is the read side of the PBX call detail records.
type CallStore interface {
	FindByID(ctx context.Context, id string) ([]models.CallRecord, error)
	GetAllCalls(ctx context.Context, daysAgo int) ([]models.CallRecord, error)
	GetMissedCalls(ctx context.Context) ([]models.CallRecord, error)
	GetCallsOn(ctx context.Context, day time.Time) ([]models.CallRecord, error)
	Location() *time.Location
}

type RecordingStore interface {
	Find(ctx context.Context, name string) ([]byte, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type SessionRepository interface {
	Load(ctx context.Context, userID int64) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type SessionManager interface {
	GetSession(ctx context.Context, userID, chatID int64) (*models.Session, error)
	SaveSession(ctx context.Context, session *models.Session) error
	ResetSession(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type ReportService interface {
	Calls(ctx context.Context, daysAgo int, emptyText string) (*report.Report, error)
	CallsOn(ctx context.Context, day time.Time, emptyText string) (*report.Report, error)
	Missed(ctx context.Context, header, emptyText string) (*report.Report, error)
	RowsOn(ctx context.Context, day time.Time) ([]models.CallRecord, error)
	Recording(ctx context.Context, callID string) (*models.Recording, error)
	Today() time.Time
}

// TelegramSender is the subset of *tgbotapi.BotAPI the bot relies on.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	SendMessage(ctx context.Context, chatID int64, text string) (tgbotapi.Message, error)
	SendHTML(ctx context.Context, chatID int64, text string) (tgbotapi.Message, error)
	SendWithKeyboard(ctx context.Context, chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	SendWithoutKeyboard(ctx context.Context, chatID int64, text string, parseMode string) (tgbotapi.Message, error)
	SendWithInlineKeyboard(ctx context.Context, chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	AnswerCallback(ctx context.Context, callbackID string, text string) error
	SendAudio(ctx context.Context, chatID int64, rec models.Recording, data []byte) (tgbotapi.Message, error)
	SendDocument(ctx context.Context, chatID int64, fileName string, data []byte, caption string) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
