package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/dom/blog-website/internal/domain"
	"github.com/dom/blog-website/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type Mode int

const (
	// BestEffort logs a failed send and reports success to the caller.
	BestEffort Mode = iota
	// Required returns the send failure to the caller.
	Required
)

func (m Mode) String() string {
	if m == Required {
		return "required"
	}
	return "best_effort"
}

type Dispatcher struct {
	sender     Sender
	deliveries repository.MailDeliveryRepository
	log        *logrus.Logger
}

// NewDispatcher builds a dispatcher. deliveries may be nil to skip the delivery log.
func NewDispatcher(sender Sender, deliveries repository.MailDeliveryRepository, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, deliveries: deliveries, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg Message, mode Mode) error {
	sendErr := d.sender.Send(ctx, msg)
	d.record(ctx, msg, mode, sendErr)

	if sendErr == nil {
		return nil
	}

	entry := d.log.WithFields(logrus.Fields{
		"kind":     msg.Kind,
		"to":       msg.To,
		"provider": d.sender.Name(),
		"mode":     mode.String(),
	}).WithError(sendErr)

	if mode == BestEffort {
		entry.Warn("[Dispatcher.Dispatch] mail not sent")
		return nil
	}
	entry.Error("[Dispatcher.Dispatch] mail not sent")
	return fmt.Errorf("send %s mail: %w", msg.Kind, sendErr)
}

func (d *Dispatcher) record(ctx context.Context, msg Message, mode Mode, sendErr error) {
	if d.deliveries == nil {
		return
	}

	delivery := &domain.MailDelivery{
		ID:        uuid.New(),
		Kind:      string(msg.Kind),
		Recipient: msg.To,
		Status:    domain.MailDeliverySent,
		Metadata: datatypes.JSONMap{
			"subject":  msg.Subject,
			"provider": d.sender.Name(),
			"mode":     mode.String(),
		},
		CreatedAt: time.Now(),
	}
	if sendErr != nil {
		delivery.Status = domain.MailDeliveryFailed
		delivery.Error = sendErr.Error()
	}

	if err := d.deliveries.Create(ctx, delivery); err != nil {
		d.log.WithError(err).Error("[Dispatcher.record] failed to store mail delivery")
	}
}
