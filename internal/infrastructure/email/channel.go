package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	mail "github.com/wneessen/go-mail"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/ports"
)

const (
	DefaultSubject = "Weekly AI watch report - brain tumours"
	DefaultBody    = "The weekly report is attached."
	DefaultTimeout = 30 * time.Second
)

// ErrNoAttachment is returned when the report has no document to attach.
var ErrNoAttachment = errors.New("report document path is empty")

// Settings describe the SMTP relay and the message envelope.
type Settings struct {
	Host       string
	Port       int
	Sender     string
	Password   string
	Recipients []string
	Subject    string
	Body       string
	TLS        string
	Timeout    time.Duration
}

// deliverer is satisfied by *mail.Client.
type deliverer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Channel mails the weekly document as an attachment.
type Channel struct {
	settings Settings
	client   deliverer
	logger   *slog.Logger
}

var _ ports.Channel = (*Channel)(nil)

// NewChannel prepares an SMTP client with PLAIN-or-discovered auth and the
// configured STARTTLS policy. No connection is made until Send.
func NewChannel(settings Settings, logger *slog.Logger) (*Channel, error) {
	if settings.Subject == "" {
		settings.Subject = DefaultSubject
	}
	if settings.Body == "" {
		settings.Body = DefaultBody
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	policy, err := ParseTLSPolicy(settings.TLS)
	if err != nil {
		return nil, err
	}

	opts := []mail.Option{
		mail.WithPort(settings.Port),
		mail.WithTimeout(settings.Timeout),
		mail.WithTLSPolicy(policy),
	}
	if settings.Password != "" {
		auth := mail.SMTPAuthPlain
		if policy != mail.TLSMandatory {
			auth = mail.SMTPAuthAutoDiscover
		}
		opts = append(opts,
			mail.WithSMTPAuth(auth),
			mail.WithUsername(settings.Sender),
			mail.WithPassword(settings.Password),
		)
	}

	client, err := mail.NewClient(settings.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &Channel{settings: settings, client: client, logger: logger}, nil
}

// ParseTLSPolicy maps mandatory, opportunistic or none to a go-mail policy.
func ParseTLSPolicy(value string) (mail.TLSPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "mandatory", "starttls":
		return mail.TLSMandatory, nil
	case "opportunistic":
		return mail.TLSOpportunistic, nil
	case "none", "off":
		return mail.NoTLS, nil
	default:
		return mail.TLSMandatory, fmt.Errorf("unknown smtp tls policy %q", value)
	}
}

func (c *Channel) Name() string { return "email" }

func (c *Channel) Send(ctx context.Context, report domain.Report) error {
	msg, err := c.buildMessage(report.Path)
	if err != nil {
		return err
	}

	if err := c.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	c.logger.Info("email sent", "recipients", len(c.settings.Recipients), "attachment", filepath.Base(report.Path))
	return nil
}

func (c *Channel) buildMessage(path string) (*mail.Msg, error) {
	if path == "" {
		return nil, ErrNoAttachment
	}

	msg := mail.NewMsg()
	if err := msg.From(c.settings.Sender); err != nil {
		return nil, fmt.Errorf("mail sender: %w", err)
	}
	if err := msg.To(c.settings.Recipients...); err != nil {
		return nil, fmt.Errorf("mail recipients: %w", err)
	}
	msg.Subject(c.settings.Subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, c.settings.Body)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	if err := msg.AttachReader(filepath.Base(path), f, mail.WithFileContentType(mail.TypeAppOctetStream)); err != nil {
		return nil, fmt.Errorf("attach report: %w", err)
	}

	return msg, nil
}
