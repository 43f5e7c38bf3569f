package bot

import (
	"context"
	"crypto/subtle"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cdrbot/internal/export"
	"cdrbot/internal/models"
	"cdrbot/internal/report"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	session, err := b.sessions.GetSession(ctx, msg.From.ID, chatID)
	if err != nil {
		b.replyError(ctx, chatID, "load session", err)
		return
	}

	req := &Request{
		ChatID:    chatID,
		FirstName: msg.From.FirstName,
		Text:      b.commandText(msg.Text),
		Session:   session,
	}

	if session.Authorized {
		err = b.dispatch(ctx, req)
	} else {
		err = b.handleStart(ctx, req)
	}
	if err != nil {
		b.replyError(ctx, chatID, "handle message", err)
	}

	if err := b.sessions.SaveSession(ctx, session); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to save session")
	}
}

func (b *Bot) dispatch(ctx context.Context, req *Request) error {
	route, args, ok := b.router.Dispatch(req.Text)
	if !ok {
		return b.handleUnknown(ctx, req)
	}
	if b.metrics != nil {
		b.metrics.CommandsRouted.WithLabelValues(route.Name).Inc()
	}
	zerolog.Ctx(ctx).Debug().Str("route", route.Name).Msg("command routed")
	req.Args = args
	return route.Handle(ctx, req)
}

// handleStart is the pin gate for sessions that are not authorized yet.
func (b *Bot) handleStart(ctx context.Context, req *Request) error {
	s := req.Session
	if b.pinMatches(req.Text) {
		s.Authorized = true
		zerolog.Ctx(ctx).Info().Msg("user authorized")
		return b.sendMainMenu(ctx, req, "")
	}

	if !s.Greeted || req.Text == "/start" {
		if !s.Greeted {
			if _, err := b.tgService.SendMessage(ctx, req.ChatID, fmt.Sprintf("Привет, %s!", req.FirstName)); err != nil {
				return err
			}
			s.Greeted = true
		}
		_, err := b.tgService.SendWithoutKeyboard(ctx, req.ChatID, textAskPin, "")
		return err
	}

	_, err := b.tgService.SendMessage(ctx, req.ChatID, textWrongPin)
	return err
}

func (b *Bot) pinMatches(text string) bool {
	pin := b.config.Bot.PinCode
	if pin == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(text)), []byte(pin)) == 1
}

func (b *Bot) handleMenu(ctx context.Context, req *Request) error {
	return b.sendMainMenu(ctx, req, "")
}

func (b *Bot) sendMainMenu(ctx context.Context, req *Request, prefix string) error {
	req.Session.Scene = models.SceneMenu
	req.Session.ResetReport()
	_, err := b.tgService.SendWithKeyboard(ctx, req.ChatID, mainMenuText(prefix), mainMenuKeyboard())
	return err
}

// sendSceneMenu closes a report with the repeat/main menu keyboard.
func (b *Bot) sendSceneMenu(ctx context.Context, req *Request, prefix string) error {
	entry := menuEntry(req.Session.Scene)
	if entry == "" {
		return b.sendMainMenu(ctx, req, prefix)
	}
	text := textChooseAction
	if prefix != "" {
		text = prefix + "\n\n" + text
	}
	_, err := b.tgService.SendWithKeyboard(ctx, req.ChatID, text, sceneKeyboard(entry))
	return err
}

func (b *Bot) handleUnknown(ctx context.Context, req *Request) error {
	return b.sendSceneMenu(ctx, req, textWrongCommand)
}

func (b *Bot) handleRepeat(ctx context.Context, req *Request) error {
	s := req.Session
	if s.Scene == models.SceneDate && s.ReportDate != "" {
		day, err := time.ParseInLocation(models.DateLayout, s.ReportDate, b.reports.Today().Location())
		if err == nil {
			return b.showDate(ctx, req, day, s.ReportDate)
		}
	}
	if scene, ok := sceneByName(s.Scene); ok {
		return b.showScene(ctx, req, scene)
	}
	// "повторить <что-то>" без сохраненной сцены разбираем как обычную команду
	if route, args, ok := b.router.Dispatch(req.Arg(1)); ok && route.Name != "repeat" {
		req.Args = args
		return route.Handle(ctx, req)
	}
	return b.handleUnknown(ctx, req)
}

func (b *Bot) showScene(ctx context.Context, req *Request, scene ReportScene) error {
	var (
		rep *report.Report
		err error
	)
	if scene.MissedOnly {
		rep, err = b.reports.Missed(ctx, scene.Header, scene.NoCalls)
	} else {
		rep, err = b.reports.Calls(ctx, scene.DaysAgo, scene.NoCalls)
	}
	if err != nil {
		return err
	}

	day := b.reports.Today().AddDate(0, 0, -scene.DaysAgo)
	return b.sendReport(ctx, req, scene.Name, day, rep)
}

func (b *Bot) showDate(ctx context.Context, req *Request, day time.Time, when string) error {
	rep, err := b.reports.CallsOn(ctx, day, when+" звонков не было")
	if err != nil {
		return err
	}
	return b.sendReport(ctx, req, models.SceneDate, day, rep)
}

func (b *Bot) sendReport(ctx context.Context, req *Request, scene string, day time.Time, rep *report.Report) error {
	s := req.Session
	s.Scene = scene
	s.ResetReport()
	s.ReportDate = day.Format(models.DateLayout)
	s.Recordings = rep.Recordings

	if b.metrics != nil {
		b.metrics.ReportsBuilt.WithLabelValues(scene).Inc()
	}

	for _, chunk := range rep.Chunks {
		if _, err := b.tgService.SendHTML(ctx, req.ChatID, chunk); err != nil {
			return err
		}
		if b.metrics != nil {
			b.metrics.ChunksSent.Inc()
		}
	}

	zerolog.Ctx(ctx).Info().
		Str("scene", scene).
		Str("date", s.ReportDate).
		Int("groups", len(rep.Groups)).
		Int("chunks", len(rep.Chunks)).
		Msg("report sent")

	return b.sendSceneMenu(ctx, req, "")
}

func (b *Bot) handlePrintDate(ctx context.Context, req *Request) error {
	arg := strings.ToLower(req.Arg(1))
	today := b.reports.Today()

	switch arg {
	case "":
		return b.sendCalendar(ctx, req, today)
	case "today":
		return b.showDate(ctx, req, today, "Сегодня")
	case "yesterday":
		return b.showDate(ctx, req, today.AddDate(0, 0, -1), "Вчера")
	}

	day, err := time.ParseInLocation(models.DateLayout, arg, today.Location())
	if err != nil {
		return b.sendSceneMenu(ctx, req, textBadDate)
	}
	return b.showDate(ctx, req, day, arg)
}

func (b *Bot) sendCalendar(ctx context.Context, req *Request, month time.Time) error {
	req.Session.CalendarMonth = month.Format(calendarMonthForm)
	kb := GenerateCalendarKeyboard(month.Year(), month.Month(), b.reports.Today())
	_, err := b.tgService.SendWithInlineKeyboard(ctx, req.ChatID, textChooseDate, kb)
	return err
}

func (b *Bot) handleListen(ctx context.Context, req *Request) error {
	callID := req.Arg(1)

	rec, ok := req.Session.Recording(callID)
	if !ok {
		found, err := b.reports.Recording(ctx, callID)
		if err != nil {
			return err
		}
		if found == nil {
			return b.recordingMissing(ctx, req, callID)
		}
		rec = *found
	}

	data, err := b.recordings.Find(ctx, filepath.Base(rec.File))
	if err != nil {
		return err
	}
	if data == nil {
		return b.recordingMissing(ctx, req, callID)
	}

	if _, err := b.tgService.SendAudio(ctx, req.ChatID, rec, data); err != nil {
		return err
	}
	if b.metrics != nil {
		b.metrics.RecordingsSent.Inc()
	}
	return b.sendSceneMenu(ctx, req, "")
}

func (b *Bot) recordingMissing(ctx context.Context, req *Request, callID string) error {
	if b.metrics != nil {
		b.metrics.RecordingsMissing.Inc()
	}
	zerolog.Ctx(ctx).Warn().Str("call_id", callID).Msg("recording not found")
	if _, err := b.tgService.SendMessage(ctx, req.ChatID, textFileNotFound); err != nil {
		return err
	}
	return b.sendSceneMenu(ctx, req, "")
}

func (b *Bot) handleExport(ctx context.Context, req *Request) error {
	today := b.reports.Today()
	day := today
	if req.Session.ReportDate != "" {
		if d, err := time.ParseInLocation(models.DateLayout, req.Session.ReportDate, today.Location()); err == nil {
			day = d
		}
	}

	rows, err := b.reports.RowsOn(ctx, day)
	if err != nil {
		return err
	}
	data, err := export.WriteCalls(day, rows)
	if err != nil {
		return err
	}

	caption := fmt.Sprintf("Звонки за %s", day.Format("02.01.2006"))
	if _, err := b.tgService.SendDocument(ctx, req.ChatID, export.FileName(day), data, caption); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("date", day.Format(models.DateLayout)).Int("rows", len(rows)).Msg("calls exported")
	return b.sendSceneMenu(ctx, req, "")
}

func listenMatcher(text string) ([]string, bool) {
	id, ok := report.ParseListenCommand(text)
	if !ok {
		return nil, false
	}
	return []string{strings.TrimSpace(text), id}, true
}
