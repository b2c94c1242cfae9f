package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"WeeklyWatch/internal/collector"
)

const (
	configPathEnv = "WEEKLY_WATCH_CONFIG"

	smtpEmailEnv      = "SMTP_EMAIL"
	smtpPasswordEnv   = "SMTP_PASSWORD"
	smtpServerEnv     = "SMTP_SERVER"
	smtpPortEnv       = "SMTP_PORT"
	mailRecipientsEnv = "MAIL_RECIPIENTS"
	slackTokenEnv     = "SLACK_TOKEN"
	slackChannelEnv   = "SLACK_CHANNEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv   = "TELEGRAM_CHAT_ID"
	gpt4allPathEnv    = "GPT4ALL_PATH"
	openAIKeyEnv      = "OPENAI_API_KEY"
	anthropicKeyEnv   = "ANTHROPIC_API_KEY"
	historyDSNEnv     = "HISTORY_DSN"
	logLevelEnv       = "LOG_LEVEL"

	ChatSlack    = "slack"
	ChatTelegram = "telegram"
)

var (
	// ErrMissing marks a required setting that has no value.
	ErrMissing = errors.New("missing required setting")
	// ErrInvalid marks a setting whose value cannot be used.
	ErrInvalid = errors.New("invalid setting")
)

// Config holds every setting of the weekly watch.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Feeds      FeedsConfig      `yaml:"feeds"`
	Collectors CollectorsConfig `yaml:"collectors"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Audit      AuditConfig      `yaml:"audit"`
	Report     ReportConfig     `yaml:"report"`
	Dispatch   DispatchConfig   `yaml:"dispatch"`
	History    HistoryConfig    `yaml:"history"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SchedulerConfig defines when the weekly run fires.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	PollInterval   time.Duration  `yaml:"pollInterval"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone; empty means process-local.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	return time.Local
}

type FeedsConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type CollectorsConfig struct {
	Parallel bool                  `yaml:"parallel"`
	Tech     TechCollectorConfig   `yaml:"techwatch"`
	Market   MarketCollectorConfig `yaml:"marketwatch"`
	Public   PublicCollectorConfig `yaml:"publicwatch"`
}

type TechCollectorConfig struct {
	Feeds         []string `yaml:"feeds"`
	Limit         int      `yaml:"limit"`
	Keywords      []string `yaml:"keywords"`
	SummaryPrompt string   `yaml:"summaryPrompt"`
	SummaryTokens int      `yaml:"summaryTokens"`
}

type MarketCollectorConfig struct {
	Competitors []collector.Competitor `yaml:"competitors"`
}

type PublicCollectorConfig struct {
	Feed     string   `yaml:"feed"`
	Limit    int      `yaml:"limit"`
	Keywords []string `yaml:"keywords"`
}

// SummarizerConfig selects the text condensation backend.
type SummarizerConfig struct {
	Provider  string        `yaml:"provider"`
	Endpoint  string        `yaml:"endpoint"`
	ModelPath string        `yaml:"modelPath"`
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"apiKey"`
	Timeout   time.Duration `yaml:"timeout"`
}

type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"`
	Dir     string `yaml:"dir"`
}

type ReportConfig struct {
	ArchiveDir string `yaml:"archiveDir"`
	Title      string `yaml:"title"`
	TechLimit  int    `yaml:"techLimit"`
	Format     string `yaml:"format"`
	Author     string `yaml:"author"`
}

// DispatchConfig encapsulates outbound channels.
type DispatchConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Mail    MailConfig    `yaml:"mail"`
	Chat    ChatConfig    `yaml:"chat"`
}

type MailConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Host       string        `yaml:"host"`
	Port       int           `yaml:"port"`
	Sender     string        `yaml:"sender"`
	Password   string        `yaml:"password"`
	Recipients []string      `yaml:"recipients"`
	Subject    string        `yaml:"subject"`
	Body       string        `yaml:"body"`
	TLS        string        `yaml:"tls"`
	Timeout    time.Duration `yaml:"timeout"`
}

type ChatConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Provider string         `yaml:"provider"`
	Slack    SlackConfig    `yaml:"slack"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
	Title   string `yaml:"title"`
	APIURL  string `yaml:"apiUrl"`
}

// TelegramConfig wires all data required to send documents.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   int64  `yaml:"chatId"`
	Caption  string `yaml:"caption"`
}

// HistoryConfig points at the run-history database; empty DSN disables it.
type HistoryConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type MetricsConfig struct {
	ListenAddr string `yaml:"listenAddr"`
}

// Load reads .env (when present), the YAML file at path or
// $WEEKLY_WATCH_CONFIG over built-in defaults, then environment overrides.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.bindTimezone(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides(getenv func(string) string) error {
	var errs []error

	setString := func(env string, dst *string) {
		if v := strings.TrimSpace(getenv(env)); v != "" {
			*dst = v
		}
	}

	setString(smtpEmailEnv, &c.Dispatch.Mail.Sender)
	setString(smtpPasswordEnv, &c.Dispatch.Mail.Password)
	setString(smtpServerEnv, &c.Dispatch.Mail.Host)
	setString(slackTokenEnv, &c.Dispatch.Chat.Slack.Token)
	setString(slackChannelEnv, &c.Dispatch.Chat.Slack.Channel)
	setString(telegramTokenEnv, &c.Dispatch.Chat.Telegram.BotToken)
	setString(gpt4allPathEnv, &c.Summarizer.ModelPath)
	setString(historyDSNEnv, &c.History.DSN)
	setString(logLevelEnv, &c.Logging.Level)

	c.Summarizer.Provider = strings.ToLower(strings.TrimSpace(c.Summarizer.Provider))
	switch c.Summarizer.Provider {
	case "openai":
		setString(openAIKeyEnv, &c.Summarizer.APIKey)
	case "anthropic":
		setString(anthropicKeyEnv, &c.Summarizer.APIKey)
	}

	if v := strings.TrimSpace(getenv(smtpPortEnv)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q is not a port", ErrInvalid, smtpPortEnv, v))
		} else {
			c.Dispatch.Mail.Port = port
		}
	}

	if v := strings.TrimSpace(getenv(telegramChatEnv)); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q is not a chat id", ErrInvalid, telegramChatEnv, v))
		} else {
			c.Dispatch.Chat.Telegram.ChatID = id
		}
	}

	if v := getenv(mailRecipientsEnv); strings.TrimSpace(v) != "" {
		c.Dispatch.Mail.Recipients = splitList(v)
	}

	return errors.Join(errs...)
}

func (c *Config) bindTimezone() error {
	if c.Scheduler.Timezone == "" {
		c.Scheduler.location = time.Local
		return nil
	}
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalid, c.Scheduler.Timezone)
	}
	c.Scheduler.location = loc
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Default returns the settings of a stock deployment.
func Default() Config {
	competitors := make([]collector.Competitor, len(collector.DefaultCompetitors))
	copy(competitors, collector.DefaultCompetitors)

	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Scheduler: SchedulerConfig{
			CronExpression: "0 9 * * 1",
			PollInterval:   time.Minute,
		},
		Feeds: FeedsConfig{Timeout: 30 * time.Second},
		Collectors: CollectorsConfig{
			Tech: TechCollectorConfig{
				Feeds: []string{
					"https://pubmed.ncbi.nlm.nih.gov/rss/search/1P5xyB4cY7nR?term=brain+tumor+MRI&limit=20&sort=date",
				},
				Limit:         collector.DefaultTechLimit,
				Keywords:      append([]string(nil), collector.DefaultTechKeywords...),
				SummaryPrompt: collector.DefaultSummaryPrompt,
				SummaryTokens: collector.DefaultSummaryTokens,
			},
			Market: MarketCollectorConfig{Competitors: competitors},
			Public: PublicCollectorConfig{
				Feed:     "https://www.boamp.fr/rss",
				Limit:    collector.DefaultPublicLimit,
				Keywords: append([]string(nil), collector.DefaultPublicKeywords...),
			},
		},
		Summarizer: SummarizerConfig{
			Provider: "local",
			Timeout:  time.Minute,
		},
		Audit:  AuditConfig{Enabled: true, Format: "csv", Dir: "."},
		Report: ReportConfig{ArchiveDir: "historique_reports", TechLimit: 10, Format: "pdf"},
		Dispatch: DispatchConfig{
			Timeout: 2 * time.Minute,
			Mail: MailConfig{
				Enabled: true,
				Port:    587,
				TLS:     "mandatory",
				Timeout: 30 * time.Second,
			},
			Chat: ChatConfig{
				Enabled:  true,
				Provider: ChatSlack,
				Slack:    SlackConfig{Channel: "#general"},
			},
		},
		History: HistoryConfig{Driver: "sqlite"},
	}
}
