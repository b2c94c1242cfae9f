package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"

	"WeeklyWatch/internal/collector"
	"WeeklyWatch/internal/config"
	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/infrastructure/audit"
	"WeeklyWatch/internal/infrastructure/email"
	"WeeklyWatch/internal/infrastructure/feed"
	"WeeklyWatch/internal/infrastructure/llm"
	"WeeklyWatch/internal/infrastructure/pdf"
	"WeeklyWatch/internal/infrastructure/scheduler"
	"WeeklyWatch/internal/infrastructure/slack"
	"WeeklyWatch/internal/infrastructure/storage"
	"WeeklyWatch/internal/infrastructure/telegram"
	"WeeklyWatch/internal/logging"
	"WeeklyWatch/internal/metrics"
	"WeeklyWatch/internal/ports"
	"WeeklyWatch/internal/report"
	"WeeklyWatch/internal/usecase"
	"WeeklyWatch/pkg/logger"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	history  *storage.HistoryRepository
	db       *sql.DB
	registry *prometheus.Registry
	now      func() time.Time
}

// New builds every adapter from cfg. Nothing talks to the network yet except
// the history database migration.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	debug := logging.IsDebug(cfg.Logging.Level)

	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)

	summarizer, err := llm.New(llm.Settings{
		Provider:  cfg.Summarizer.Provider,
		Endpoint:  cfg.Summarizer.Endpoint,
		ModelPath: cfg.Summarizer.ModelPath,
		Model:     cfg.Summarizer.Model,
		APIKey:    cfg.Summarizer.APIKey,
		Timeout:   cfg.Summarizer.Timeout,
	})
	if err != nil {
		return nil, err
	}

	reader := feed.NewReader(&http.Client{Timeout: cfg.Feeds.Timeout})

	tech := collector.NewTechWatch(collector.TechWatchConfig{
		Feeds:         cfg.Collectors.Tech.Feeds,
		Limit:         cfg.Collectors.Tech.Limit,
		Keywords:      cfg.Collectors.Tech.Keywords,
		SummaryPrompt: cfg.Collectors.Tech.SummaryPrompt,
		SummaryTokens: cfg.Collectors.Tech.SummaryTokens,
	}, reader, summarizer, baseLogger.With("component", "collector.techwatch"))
	tech.OnSummaryFailure(m.ObserveSummarizeFailure)

	registry := collector.NewRegistry(
		tech,
		collector.NewMarketWatch(cfg.Collectors.Market.Competitors),
		collector.NewPublicWatch(collector.PublicWatchConfig{
			Feed:     cfg.Collectors.Public.Feed,
			Limit:    cfg.Collectors.Public.Limit,
			Keywords: cfg.Collectors.Public.Keywords,
		}, reader),
	)

	var auditor ports.AuditExporter
	if cfg.Audit.Enabled {
		if auditor, err = audit.New(cfg.Audit.Format, cfg.Audit.Dir); err != nil {
			return nil, err
		}
	}

	compiler := report.NewCompiler(report.Options{
		ArchiveDir: cfg.Report.ArchiveDir,
		Title:      cfg.Report.Title,
		TechLimit:  cfg.Report.TechLimit,
	}, newRenderer(cfg.Report), baseLogger.With("component", "report"))

	channels, err := buildChannels(cfg, baseLogger, debug)
	if err != nil {
		return nil, err
	}

	app := &Application{
		cfg:      cfg,
		logger:   baseLogger,
		registry: promRegistry,
		now:      time.Now,
	}

	var recorder ports.RunRecorder
	if cfg.History.DSN != "" {
		db, err := storage.Open(cfg.History.Driver, cfg.History.DSN)
		if err != nil {
			return nil, err
		}
		repo := storage.NewHistoryRepository(db, cfg.History.Driver)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		app.db, app.history, recorder = db, repo, repo
	}

	app.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Collectors: registry,
		Auditor:    auditor,
		Compiler:   compiler,
		Dispatcher: usecase.NewDispatcher(channels, cfg.Dispatch.Timeout, baseLogger.With("component", "dispatcher"), m),
		History:    recorder,
		Metrics:    m,
		Logger:     baseLogger.With("component", "pipeline"),
		Parallel:   cfg.Collectors.Parallel,
	})

	return app, nil
}

func newRenderer(cfg config.ReportConfig) report.Renderer {
	if strings.EqualFold(cfg.Format, "markdown") {
		return report.TextRenderer{}
	}
	return pdf.Renderer{Author: cfg.Author}
}

// buildChannels returns the enabled channels, email first.
func buildChannels(cfg config.Config, base *slog.Logger, debug bool) ([]ports.Channel, error) {
	var channels []ports.Channel

	if mc := cfg.Dispatch.Mail; mc.Enabled {
		ch, err := email.NewChannel(email.Settings{
			Host:       mc.Host,
			Port:       mc.Port,
			Sender:     mc.Sender,
			Password:   mc.Password,
			Recipients: mc.Recipients,
			Subject:    mc.Subject,
			Body:       mc.Body,
			TLS:        mc.TLS,
			Timeout:    mc.Timeout,
		}, base.With("component", "channel.email"))
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}

	cc := cfg.Dispatch.Chat
	if !cc.Enabled {
		return channels, nil
	}

	switch strings.ToLower(cc.Provider) {
	case "", config.ChatSlack:
		channels = append(channels, slack.NewChannel(slack.Settings{
			Token:    cc.Slack.Token,
			Channel:  cc.Slack.Channel,
			Title:    cc.Slack.Title,
			APIURL:   cc.Slack.APIURL,
			Debug:    debug,
			DebugLog: logger.New(base, "slack"),
		}, base.With("component", "channel.slack")))
	case config.ChatTelegram:
		if debug {
			if err := tgbotapi.SetLogger(logger.New(base, "telegram")); err != nil {
				return nil, fmt.Errorf("telegram logger: %w", err)
			}
		}
		channels = append(channels, telegram.NewChannel(telegram.Settings{
			Token:   cc.Telegram.BotToken,
			ChatID:  cc.Telegram.ChatID,
			Caption: cc.Telegram.Caption,
			Timeout: cfg.Dispatch.Timeout,
			Debug:   debug,
		}, base.With("component", "channel.telegram")))
	default:
		return nil, fmt.Errorf("unknown chat provider %q", cc.Provider)
	}

	return channels, nil
}

// Run serves metrics (when configured) and blocks in the weekly loop until
// ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	loc := a.cfg.Scheduler.Location()
	trigger, err := scheduler.NewTrigger(a.cfg.Scheduler.CronExpression, loc, a.now())
	if err != nil {
		return err
	}

	metricsErr := make(chan error, 1)
	if addr := a.cfg.Metrics.ListenAddr; addr != "" {
		go func() {
			err := metrics.Serve(ctx, addr, a.registry, a.logger.With("component", "metrics"))
			if err != nil {
				a.logger.Error("metrics server stopped", "error", err)
			}
			metricsErr <- err
		}()
	}

	loop := scheduler.NewLoop(trigger, a.cfg.Scheduler.PollInterval, a.logger.With("component", "scheduler"),
		scheduler.WithClock(func() time.Time { return a.now().In(loc) }))
	runErr := usecase.NewScheduler(loop, a.pipeline, a.logger.With("component", "scheduler")).Run(ctx)

	if a.cfg.Metrics.ListenAddr != "" {
		if err := <-metricsErr; err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	return runErr
}

// RunOnce executes a single pipeline run dated now.
func (a *Application) RunOnce(ctx context.Context) (usecase.RunSummary, error) {
	return a.pipeline.Run(ctx, a.now().In(a.cfg.Scheduler.Location()))
}

// History lists the most recent runs, newest first.
func (a *Application) History(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if a.history == nil {
		return nil, errors.New("run history is disabled (set history.dsn or HISTORY_DSN)")
	}
	return a.history.Recent(ctx, limit)
}

// Close releases the history database.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
