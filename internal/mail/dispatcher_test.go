package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dom/blog-website/internal/domain"
	"github.com/dom/blog-website/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	err  error
	sent []Message
}

func (s *stubSender) Name() string { return "stub" }

func (s *stubSender) Send(_ context.Context, msg Message) error {
	s.sent = append(s.sent, msg)
	return s.err
}

type memoryDeliveries struct {
	items []*domain.MailDelivery
}

func (m *memoryDeliveries) Create(_ context.Context, d *domain.MailDelivery) error {
	m.items = append(m.items, d)
	return nil
}

func TestDispatcher_Modes(t *testing.T) {
	failure := errors.New("provider down")

	tests := []struct {
		name       string
		sendErr    error
		mode       Mode
		wantErr    bool
		wantStatus domain.MailDeliveryStatus
	}{
		{name: "best effort success", mode: BestEffort, wantStatus: domain.MailDeliverySent},
		{name: "required success", mode: Required, wantStatus: domain.MailDeliverySent},
		{name: "best effort failure is swallowed", sendErr: failure, mode: BestEffort, wantStatus: domain.MailDeliveryFailed},
		{name: "required failure is returned", sendErr: failure, mode: Required, wantErr: true, wantStatus: domain.MailDeliveryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &stubSender{err: tt.sendErr}
			deliveries := &memoryDeliveries{}
			d := NewDispatcher(sender, deliveries, logging.Discard())

			msg, err := VerificationMessage("ada@example.com", "Ada", "123456", 15*time.Minute)
			require.NoError(t, err)

			err = d.Dispatch(context.Background(), msg, tt.mode)
			if tt.wantErr {
				assert.ErrorIs(t, err, failure)
			} else {
				assert.NoError(t, err)
			}

			require.Len(t, sender.sent, 1)
			require.Len(t, deliveries.items, 1)
			got := deliveries.items[0]
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, "verification", got.Kind)
			assert.Equal(t, "ada@example.com", got.Recipient)
			assert.Equal(t, "stub", got.Metadata["provider"])
			assert.Equal(t, tt.mode.String(), got.Metadata["mode"])
			for _, v := range got.Metadata {
				assert.NotContains(t, v, "123456")
			}
		})
	}
}

func TestDispatcher_WithoutDeliveryLog(t *testing.T) {
	d := NewDispatcher(&stubSender{}, nil, logging.Discard())
	msg, err := WelcomeMessage("ada@example.com", "Ada")
	require.NoError(t, err)

	assert.NoError(t, d.Dispatch(context.Background(), msg, Required))
}

func TestTemplates(t *testing.T) {
	msg, err := VerificationMessage("ada@example.com", "<Ada>", "654321", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, KindVerification, msg.Kind)
	assert.Contains(t, msg.HTML, "654321")
	assert.Contains(t, msg.HTML, "15 minutes")
	assert.Contains(t, msg.HTML, "&lt;Ada&gt;")
	assert.Contains(t, msg.Text, "654321")
	assert.Contains(t, msg.Text, "<Ada>")

	welcome, err := WelcomeMessage("ada@example.com", "Ada")
	require.NoError(t, err)
	assert.Equal(t, KindWelcome, welcome.Kind)
	assert.Contains(t, welcome.HTML, "Welcome, Ada!")
}
