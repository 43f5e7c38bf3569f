package bot

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buttons(rows [][]tgbotapi.InlineKeyboardButton) map[string]string {
	out := make(map[string]string)
	for _, row := range rows {
		for _, b := range row {
			if b.CallbackData != nil {
				out[b.Text] = *b.CallbackData
			}
		}
	}
	return out
}

func TestGenerateCalendarKeyboard(t *testing.T) {
	today := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	kb := GenerateCalendarKeyboard(2024, time.March, today)
	rows := kb.InlineKeyboard

	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, "Март 2024", rows[0][1].Text)
	assert.Equal(t, callbackMonthPfx+"2024-02", *rows[0][0].CallbackData)
	assert.Equal(t, callbackNoop, *rows[0][2].CallbackData, "no navigation into the future")
	assert.Equal(t, "Пн", rows[1][0].Text)

	// 1 March 2024 is a Friday.
	assert.Equal(t, " ", rows[2][3].Text)
	assert.Equal(t, "1", rows[2][4].Text)
	assert.Equal(t, callbackDatePfx+"2024-03-01", *rows[2][4].CallbackData)

	b := buttons(rows)
	assert.Equal(t, callbackDatePfx+"2024-03-10", b["[10]"])
	assert.Equal(t, callbackDatePfx+"2024-03-09", b["9"])
	assert.NotContains(t, b, "11")
	assert.Equal(t, callbackNoop, b["·"])

	assert.Len(t, rows[0], 3)
	for _, row := range rows[1:] {
		assert.Len(t, row, 7)
	}
}

func TestGenerateCalendarKeyboard_PastMonth(t *testing.T) {
	today := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	kb := GenerateCalendarKeyboard(2024, time.February, today)
	rows := kb.InlineKeyboard

	assert.Equal(t, callbackMonthPfx+"2024-03", *rows[0][2].CallbackData)

	b := buttons(rows)
	assert.Equal(t, callbackDatePfx+"2024-02-29", b["29"])
	assert.NotContains(t, b, "·")
}

func TestParseCalendarMonth(t *testing.T) {
	m, ok := parseCalendarMonth(callbackMonthPfx+"2023-12", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), m)

	_, ok = parseCalendarMonth(callbackMonthPfx+"2023-13", time.UTC)
	assert.False(t, ok)

	_, ok = parseCalendarMonth("cal:date:2023-12-01", time.UTC)
	assert.False(t, ok)
}
