package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/ports"
)

const DefaultCaption = "Weekly AI watch report"

// Settings address the bot and the destination chat.
type Settings struct {
	Token   string
	ChatID  int64
	Caption string
	// Endpoint is a printf pattern taking the token and the method name.
	Endpoint string
	Timeout  time.Duration
	// Debug makes the SDK log its requests through tgbotapi.SetLogger.
	Debug bool
}

// Channel posts the weekly document to a Telegram chat with sendDocument.
type Channel struct {
	settings Settings
	client   *http.Client
	logger   *slog.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

var _ ports.Channel = (*Channel)(nil)

func NewChannel(settings Settings, logger *slog.Logger) *Channel {
	if settings.Caption == "" {
		settings.Caption = DefaultCaption
	}
	if settings.Endpoint == "" {
		settings.Endpoint = tgbotapi.APIEndpoint
	}
	if settings.Timeout <= 0 {
		settings.Timeout = time.Minute
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Channel{
		settings: settings,
		client:   &http.Client{Timeout: settings.Timeout},
		logger:   logger,
	}
}

func (c *Channel) Name() string { return "telegram" }

func (c *Channel) Send(ctx context.Context, report domain.Report) error {
	if c.settings.Token == "" || c.settings.ChatID == 0 {
		return fmt.Errorf("telegram channel misconfigured")
	}
	if _, err := os.Stat(report.Path); err != nil {
		return fmt.Errorf("report document: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bot, err := c.connect()
	if err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(c.settings.ChatID, tgbotapi.FilePath(report.Path))
	doc.Caption = c.settings.Caption

	msg, err := bot.Send(doc)
	if err != nil {
		return fmt.Errorf("telegram sendDocument: %w", err)
	}

	c.logger.Info("chat alert sent", "chat_id", c.settings.ChatID, "message_id", msg.MessageID)
	return nil
}

// connect creates the bot on first use; the constructor calls getMe, so a
// failed handshake is retried on the next send.
func (c *Channel) connect() (*tgbotapi.BotAPI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bot != nil {
		return c.bot, nil
	}

	bot, err := tgbotapi.NewBotAPIWithClient(c.settings.Token, c.settings.Endpoint, c.client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	bot.Debug = c.settings.Debug
	c.bot = bot
	return bot, nil
}
