package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackNoop      = "noop"
	callbackDatePfx   = "cal:date:"
	callbackMonthPfx  = "cal:month:"
	calendarMonthForm = "2006-01"
)

var monthNames = [...]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// GenerateCalendarKeyboard builds a Monday-first month grid. Days after today
// are shown but not selectable.
func GenerateCalendarKeyboard(year int, month time.Month, today time.Time) tgbotapi.InlineKeyboardMarkup {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
	weekdayOffset := int(firstDay.Weekday())
	if weekdayOffset == 0 {
		weekdayOffset = 7 // make Monday-first grid
	}
	daysInMonth := firstDay.AddDate(0, 1, -1).Day()
	todayKey := today.Format("2006-01-02")

	prev := firstDay.AddDate(0, -1, 0)
	next := firstDay.AddDate(0, 1, 0)

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 8)
	nav := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("«", callbackMonthPfx+prev.Format(calendarMonthForm)),
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %d", monthNames[month-1], year), callbackNoop),
	}
	if next.After(today) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(" ", callbackNoop))
	} else {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("»", callbackMonthPfx+next.Format(calendarMonthForm)))
	}
	rows = append(rows, nav)

	// Weekday header
	header := make([]tgbotapi.InlineKeyboardButton, 0, 7)
	for _, wd := range []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"} {
		header = append(header, tgbotapi.NewInlineKeyboardButtonData(wd, callbackNoop))
	}
	rows = append(rows, header)

	day := 1
	first := true
	for day <= daysInMonth {
		row := make([]tgbotapi.InlineKeyboardButton, 0, 7)
		for col := 1; col <= 7; col++ {
			if (first && col < weekdayOffset) || day > daysInMonth {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(" ", callbackNoop))
				continue
			}
			dateStr := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
			label := fmt.Sprintf("%d", day)
			data := callbackDatePfx + dateStr
			switch {
			case dateStr > todayKey:
				label = "·"
				data = callbackNoop
			case dateStr == todayKey:
				label = "[" + label + "]"
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, data))
			day++
		}
		first = false
		rows = append(rows, row)
	}

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// parseCalendarMonth parses "YYYY-MM" from a month navigation callback.
func parseCalendarMonth(data string, loc *time.Location) (time.Time, bool) {
	if !strings.HasPrefix(data, callbackMonthPfx) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(calendarMonthForm, strings.TrimPrefix(data, callbackMonthPfx), loc)
	return t, err == nil
}
