package email

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mail "github.com/wneessen/go-mail"

	"WeeklyWatch/internal/domain"
)

type recordingDeliverer struct {
	sent []*mail.Msg
	err  error
}

func (r *recordingDeliverer) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	r.sent = append(r.sent, messages...)
	return r.err
}

func newTestChannel(t *testing.T, d deliverer) *Channel {
	t.Helper()

	ch, err := NewChannel(Settings{
		Host:       "smtp.example.com",
		Port:       587,
		Sender:     "watch@example.com",
		Password:   "secret",
		Recipients: []string{"a@example.com", "b@example.com"},
	}, nil)
	require.NoError(t, err)
	ch.client = d
	return ch
}

func writeReport(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "weekly_report_06-10-2025.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.3 test"), 0o644))
	return path
}

func TestSendAttachesReport(t *testing.T) {
	t.Parallel()

	d := &recordingDeliverer{}
	ch := newTestChannel(t, d)

	require.NoError(t, ch.Send(context.Background(), domain.Report{Path: writeReport(t)}))
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	var to []string
	for _, addr := range msg.GetTo() {
		to = append(to, addr.Address)
	}
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, to)
	assert.Equal(t, []string{DefaultSubject}, msg.GetGenHeader(mail.HeaderSubject))

	attachments := msg.GetAttachments()
	require.Len(t, attachments, 1)
	assert.Equal(t, "weekly_report_06-10-2025.pdf", attachments[0].Name)
	assert.Equal(t, mail.TypeAppOctetStream, attachments[0].ContentType)
}

func TestSendPropagatesRelayFailure(t *testing.T) {
	t.Parallel()

	d := &recordingDeliverer{err: errors.New("535 authentication failed")}
	ch := newTestChannel(t, d)

	err := ch.Send(context.Background(), domain.Report{Path: writeReport(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535")
	assert.Len(t, d.sent, 1)
}

func TestSendWithoutDocument(t *testing.T) {
	t.Parallel()

	d := &recordingDeliverer{}
	ch := newTestChannel(t, d)

	assert.ErrorIs(t, ch.Send(context.Background(), domain.Report{}), ErrNoAttachment)

	err := ch.Send(context.Background(), domain.Report{Path: filepath.Join(t.TempDir(), "missing.pdf")})
	require.Error(t, err)
	assert.Empty(t, d.sent)
}

func TestParseTLSPolicy(t *testing.T) {
	t.Parallel()

	cases := map[string]mail.TLSPolicy{
		"":              mail.TLSMandatory,
		"mandatory":     mail.TLSMandatory,
		"Opportunistic": mail.TLSOpportunistic,
		"none":          mail.NoTLS,
	}
	for in, want := range cases {
		got, err := ParseTLSPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTLSPolicy("ssl3")
	assert.Error(t, err)
}
