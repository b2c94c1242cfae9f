package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate reports every unusable setting at once so startup fails fast.
func (c Config) Validate() error {
	var errs []error
	missing := func(what string) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissing, what))
	}
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if _, err := cron.ParseStandard(c.Scheduler.CronExpression); err != nil {
		invalid("scheduler.cronExpression %q: %v", c.Scheduler.CronExpression, err)
	}

	if len(c.Collectors.Tech.Feeds) == 0 {
		missing("collectors.techwatch.feeds")
	}
	if c.Collectors.Public.Feed == "" {
		missing("collectors.publicwatch.feed")
	}

	switch strings.ToLower(c.Summarizer.Provider) {
	case "", "none":
	case "local":
		if c.Summarizer.ModelPath == "" && c.Summarizer.Model == "" {
			missing("summarizer model path (" + gpt4allPathEnv + ")")
		}
	case "openai":
		if c.Summarizer.APIKey == "" {
			missing("summarizer api key (" + openAIKeyEnv + ")")
		}
	case "anthropic":
		if c.Summarizer.APIKey == "" {
			missing("summarizer api key (" + anthropicKeyEnv + ")")
		}
	default:
		invalid("summarizer.provider %q", c.Summarizer.Provider)
	}

	switch strings.ToLower(c.Audit.Format) {
	case "", "csv", "xlsx":
	default:
		invalid("audit.format %q", c.Audit.Format)
	}

	switch strings.ToLower(c.Report.Format) {
	case "", "pdf", "markdown":
	default:
		invalid("report.format %q", c.Report.Format)
	}

	if mail := c.Dispatch.Mail; mail.Enabled {
		if mail.Sender == "" {
			missing("mail sender (" + smtpEmailEnv + ")")
		}
		if mail.Password == "" {
			missing("mail password (" + smtpPasswordEnv + ")")
		}
		if mail.Host == "" {
			missing("mail host (" + smtpServerEnv + ")")
		}
		if mail.Port <= 0 || mail.Port > 65535 {
			invalid("mail port %d (%s)", mail.Port, smtpPortEnv)
		}
		if len(mail.Recipients) == 0 {
			missing("mail recipients (" + mailRecipientsEnv + ")")
		}
	}

	if chat := c.Dispatch.Chat; chat.Enabled {
		switch strings.ToLower(chat.Provider) {
		case "", ChatSlack:
			if chat.Slack.Token == "" {
				missing("slack token (" + slackTokenEnv + ")")
			}
			if chat.Slack.Channel == "" {
				missing("slack channel (" + slackChannelEnv + ")")
			}
		case ChatTelegram:
			if chat.Telegram.BotToken == "" {
				missing("telegram bot token (" + telegramTokenEnv + ")")
			}
			if chat.Telegram.ChatID == 0 {
				missing("telegram chat id (" + telegramChatEnv + ")")
			}
		default:
			invalid("dispatch.chat.provider %q", chat.Provider)
		}
	}

	if c.History.DSN != "" {
		switch c.History.Driver {
		case "sqlite", "postgres":
		default:
			invalid("history.driver %q", c.History.Driver)
		}
	}

	return errors.Join(errs...)
}
