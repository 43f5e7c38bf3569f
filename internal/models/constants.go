package models

const ParseModeHTML = "HTML"

const (
	SceneStart     = "start"
	SceneMenu      = "menu"
	SceneMissed    = "missed"
	SceneToday     = "today"
	SceneYesterday = "yesterday"
	SceneDate      = "date"
)

const (
	// DefaultSessionTTL время жизни сессии пользователя
	DefaultSessionTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultSessionSweepInterval период очистки просроченных сессий в памяти
	DefaultSessionSweepInterval = 60

	// DefaultShortNumberLen номера такой длины и короче считаются внутренними
	DefaultShortNumberLen = 3

	// DefaultChunkLines максимальное число строк в одном сообщении отчета
	DefaultChunkLines = 30

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах

	// DefaultSendRPS исходящих сообщений в секунду
	DefaultSendRPS = 25

	// DefaultSendBurst допустимый всплеск исходящих сообщений
	DefaultSendBurst = 5

	// DefaultUpdateTimeout таймаут обработки одного обновления
	DefaultUpdateTimeout = 30 // секунд

	// DefaultMonitoringPort порт для /healthz и /metrics
	DefaultMonitoringPort = 9090

	// DateLayout формат даты в командах и сессии
	DateLayout = "2006-01-02"
)
