package slack

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/slack-go/slack"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/ports"
)

const DefaultTitle = "Weekly AI watch report"

// ErrEmptyDocument is returned when the report file is missing or empty.
var ErrEmptyDocument = errors.New("report document is empty")

// ErrChannelNotFound is returned when a #name matches no conversation the
// token can see.
var ErrChannelNotFound = errors.New("slack channel not found")

const conversationsPageSize = 200

// Settings select the workspace channel and the uploaded file title.
type Settings struct {
	Token   string
	Channel string
	Title   string
	// APIURL overrides the Slack Web API base, e.g. for a test double.
	APIURL string
	// Debug routes SDK request logs to DebugLog.
	Debug    bool
	DebugLog *log.Logger
}

type uploader interface {
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
}

// Channel uploads the weekly document to a Slack channel. The channel may be
// configured as an ID (C0123) or as a #name, resolved once on first send.
type Channel struct {
	channel string
	title   string
	api     uploader
	logger  *slog.Logger

	mu        sync.Mutex
	channelID string
}

var _ ports.Channel = (*Channel)(nil)

func NewChannel(settings Settings, logger *slog.Logger) *Channel {
	if settings.Title == "" {
		settings.Title = DefaultTitle
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var opts []slack.Option
	if settings.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(settings.APIURL))
	}
	if settings.Debug && settings.DebugLog != nil {
		opts = append(opts, slack.OptionDebug(true), slack.OptionLog(settings.DebugLog))
	}

	return &Channel{
		channel: settings.Channel,
		title:   settings.Title,
		api:     slack.New(settings.Token, opts...),
		logger:  logger,
	}
}

func (c *Channel) Name() string { return "slack" }

// Send streams the document through the files upload v2 flow.
func (c *Channel) Send(ctx context.Context, report domain.Report) error {
	f, err := os.Open(report.Path)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat report: %w", err)
	}
	if info.Size() == 0 {
		return ErrEmptyDocument
	}

	channelID, err := c.resolveChannel(ctx)
	if err != nil {
		return err
	}

	summary, err := c.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Reader:   f,
		FileSize: int(info.Size()),
		Filename: filepath.Base(report.Path),
		Title:    c.title,
		Channel:  channelID,
	})
	if err != nil {
		return fmt.Errorf("slack upload: %w", err)
	}

	c.logger.Info("chat alert sent", "channel", c.channel, "file_id", summary.ID)
	return nil
}

// resolveChannel maps a #name to its conversation ID; the upload API only
// accepts IDs.
func (c *Channel) resolveChannel(ctx context.Context) (string, error) {
	name, isName := strings.CutPrefix(c.channel, "#")
	if !isName {
		return c.channel, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channelID != "" {
		return c.channelID, nil
	}

	params := &slack.GetConversationsParameters{
		ExcludeArchived: true,
		Limit:           conversationsPageSize,
		Types:           []string{"public_channel", "private_channel"},
	}
	for {
		channels, cursor, err := c.api.GetConversationsContext(ctx, params)
		if err != nil {
			return "", fmt.Errorf("list slack channels: %w", err)
		}
		for _, ch := range channels {
			if ch.Name == name {
				c.channelID = ch.ID
				return ch.ID, nil
			}
		}
		if cursor == "" {
			return "", fmt.Errorf("%w: %s", ErrChannelNotFound, c.channel)
		}
		params.Cursor = cursor
	}
}
