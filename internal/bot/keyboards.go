package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	textChooseAction = "Пожалуйста, выберите действие"
	textWrongCommand = "Неправильная команда"
	textMainMenu     = "Главное меню"
	textRepeatPrefix = "Повторить "
	textAskPin       = "Пожалуйста, введите пинкод"
	textWrongPin     = "Неправильный пинкод\nПожалуйста, введите пинкод"
	textFileNotFound = "Файл не найден"
	textChooseDate   = "Выберите дату"
	textBadDate      = "Неправильная дата. Используйте формат ГГГГ-ММ-ДД"
	textRateLimited  = "⚠️ Вы отправляете сообщения слишком часто. Пожалуйста, подождите немного."
	textError        = "<i>Произошла ошибка. Пожалуйста, попробуйте повторить позднее.</i>"
)

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func mainMenuText(prefix string) string {
	var b strings.Builder
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteString("\n\n")
	}
	b.WriteString("Пожалуйста, выберите:\n\n")
	for _, s := range reportScenes {
		fmt.Fprintf(&b, "/%s - %s\n", s.Name, s.Description)
	}
	fmt.Fprintf(&b, "/print_date - %s\n", dateDescription)
	b.WriteString("/export - Выгрузить звонки последнего отчета в Excel")
	return b.String()
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(reportScenes)+1)
	for _, s := range reportScenes {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(capitalize(s.MenuEntry))))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(capitalize(dateMenuEntry))))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func sceneKeyboard(entry string) tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(textRepeatPrefix+entry)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(textMainMenu)),
	)
}
