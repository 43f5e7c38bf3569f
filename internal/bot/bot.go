package bot

import (
	"context"
	"os"
	"strings"
	"time"

	"cdrbot/internal/config"
	"cdrbot/internal/domain"
	"cdrbot/internal/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

type Bot struct {
	tgService  domain.TelegramService
	config     *config.Config
	sessions   domain.SessionManager
	reports    domain.ReportService
	recordings domain.RecordingStore
	router     *Router
	metrics    *Metrics
	logger     *zerolog.Logger
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	sessions domain.SessionManager,
	reports domain.ReportService,
	recordings domain.RecordingStore,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	b := &Bot{
		tgService:  tgService,
		config:     config,
		sessions:   sessions,
		reports:    reports,
		recordings: recordings,
		metrics:    metrics,
		logger:     logger,
	}
	b.router = b.routes()
	return b, nil
}

// routes lists commands in priority order; the first match wins.
func (b *Bot) routes() *Router {
	r := NewRouter(
		Route{Name: "menu", Match: Exact("/start", "/menu", textMainMenu, "меню"), Handle: b.handleMenu},
		Route{Name: "repeat", Match: Regexp(`(?i)^повторить\s+(.+)$`), Handle: b.handleRepeat},
		Route{Name: "listen", Match: listenMatcher, Handle: b.handleListen},
		Route{Name: "export", Match: Any(Exact("/export"), Words(`выгруз`, `excel`)), Handle: b.handleExport},
		Route{
			Name:   "print_date",
			Match:  Any(Regexp(`(?i)^/print_date(?:\s+(.*))?$`), Words(`все`, `звонки`, `за\s+дату`)),
			Handle: b.handlePrintDate,
		},
	)
	for _, scene := range reportScenes {
		scene := scene
		r.Add(Route{
			Name:  scene.Name,
			Match: Any(Exact("/"+scene.Name), Words(scene.Words...)),
			Handle: func(ctx context.Context, req *Request) error {
				return b.showScene(ctx, req, scene)
			},
		})
	}
	return r
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().
		Str("username", b.tgService.GetSelf().UserName).
		Strs("routes", b.router.Names()).
		Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

// Stop stops receiving Telegram updates (best-effort).
func (b *Bot) Stop() {
	if b == nil || b.tgService == nil {
		return
	}
	b.tgService.StopReceivingUpdates()
}

func (b *Bot) updateTimeout() time.Duration {
	if b.config.Bot.UpdateTimeout > 0 {
		return time.Duration(b.config.Bot.UpdateTimeout) * time.Second
	}
	return 30 * time.Second
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdatesProcessed.Inc()
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	var userID int64
	if update.Message != nil && update.Message.From != nil {
		userID = update.Message.From.ID
	} else if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		userID = update.CallbackQuery.From.ID
	}
	if userID == 0 {
		return
	}

	// Создаем контекст для обработки каждого обновления
	updateCtx, cancel := context.WithTimeout(ctx, b.updateTimeout())
	defer cancel()
	updateCtx, l := logging.ForUpdate(updateCtx, b.logger, update.UpdateID, userID)

	b.withRecovery(l, func() {
		if !b.allow(updateCtx, userID, update) {
			return
		}

		if update.CallbackQuery != nil {
			b.handleCallbackQuery(updateCtx, update.CallbackQuery)
			return
		}

		b.handleMessage(updateCtx, update.Message)
	})
}

// commandText strips the "@botname" suffix Telegram appends to commands in groups.
func (b *Bot) commandText(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	cmd, rest, _ := strings.Cut(text, " ")
	if at := strings.IndexByte(cmd, '@'); at > 0 {
		cmd = cmd[:at]
	}
	if rest == "" {
		return cmd
	}
	return cmd + " " + rest
}
