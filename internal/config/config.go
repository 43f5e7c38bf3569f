package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cdrbot/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	CDR        CDRConfig        `yaml:"cdr"`
	Redis      RedisConfig      `yaml:"redis"`
	Session    SessionConfig    `yaml:"session"`
	Recordings RecordingsConfig `yaml:"recordings"`
	Report     ReportConfig     `yaml:"report"`
	Bot        BotConfig        `yaml:"bot"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
}

type CDRConfig struct {
	Driver          string `yaml:"driver"`
	DSN             string `yaml:"dsn"`
	Table           string `yaml:"table"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // секунды
	Timezone        string `yaml:"timezone"`
}

// Location resolves the configured timezone, falling back to the local one.
func (c CDRConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type SessionConfig struct {
	TTL           int `yaml:"ttl"`            // секунды
	SweepInterval int `yaml:"sweep_interval"` // секунды
}

type RecordingsConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

type ReportConfig struct {
	SelfNumbers    []string `yaml:"self_numbers"`
	ShortNumberLen int      `yaml:"short_number_len"`
	ChunkLines     int      `yaml:"chunk_lines"`
}

type BotConfig struct {
	PinCode           string  `yaml:"pin_code"`
	RateLimitMessages int     `yaml:"rate_limit_messages"`
	RateLimitWindow   int     `yaml:"rate_limit_window"`
	SendRPS           float64 `yaml:"send_rps"`
	SendBurst         int     `yaml:"send_burst"`
	UpdateTimeout     int     `yaml:"update_timeout"`
}

type MonitoringConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

func Load(configPath string) (*Config, error) {
	// Загружаем .env файл если существует
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}

	if c.Bot.PinCode == "" {
		return errors.New("bot pin code is required")
	}

	switch c.CDR.Driver {
	case "mysql", "sqlite3":
	default:
		return fmt.Errorf("unsupported cdr driver %q (use mysql or sqlite3)", c.CDR.Driver)
	}

	if c.CDR.DSN == "" {
		return errors.New("cdr dsn is required")
	}

	if _, err := c.CDR.Location(); err != nil {
		return fmt.Errorf("invalid cdr timezone: %w", err)
	}

	if c.Recordings.Path == "" {
		return errors.New("recordings path is required")
	}

	return ValidateSelfNumbers(c.Report.SelfNumbers)
}

func ValidateSelfNumbers(numbers []string) error {
	seen := make(map[string]bool)
	for _, n := range numbers {
		if strings.TrimSpace(n) != n || n == "" {
			return fmt.Errorf("self number %q must be non-empty without surrounding spaces", n)
		}
		if seen[n] {
			return fmt.Errorf("duplicate self number found: %s", n)
		}
		seen[n] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.CDR.Driver == "" {
		c.CDR.Driver = "mysql"
	}
	if c.CDR.Table == "" {
		c.CDR.Table = "cdr"
	}
	if c.CDR.MaxOpenConns == 0 {
		c.CDR.MaxOpenConns = 5
	}
	if c.CDR.MaxIdleConns == 0 {
		c.CDR.MaxIdleConns = 2
	}
	if c.CDR.ConnMaxLifetime == 0 {
		c.CDR.ConnMaxLifetime = 60 * 60
	}

	if c.Session.TTL == 0 {
		c.Session.TTL = models.DefaultSessionTTL
	}
	if c.Session.SweepInterval == 0 {
		c.Session.SweepInterval = models.DefaultSessionSweepInterval
	}

	if c.Report.ShortNumberLen == 0 {
		c.Report.ShortNumberLen = models.DefaultShortNumberLen
	}
	if c.Report.ChunkLines == 0 {
		c.Report.ChunkLines = models.DefaultChunkLines
	}

	// Bot defaults
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = models.RateLimitMessages
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = models.RateLimitWindow
	}
	if c.Bot.SendRPS == 0 {
		c.Bot.SendRPS = models.DefaultSendRPS
	}
	if c.Bot.SendBurst == 0 {
		c.Bot.SendBurst = models.DefaultSendBurst
	}
	if c.Bot.UpdateTimeout == 0 {
		c.Bot.UpdateTimeout = models.DefaultUpdateTimeout
	}

	if c.Monitoring.Enabled && c.Monitoring.Port == 0 {
		c.Monitoring.Port = models.DefaultMonitoringPort
	}
}
