package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MailDeliveryStatus string

const (
	MailDeliverySent   MailDeliveryStatus = "sent"
	MailDeliveryFailed MailDeliveryStatus = "failed"
)

// MailDelivery records one outbound e-mail attempt. It never holds message bodies.
type MailDelivery struct {
	ID        uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	Kind      string             `json:"kind" gorm:"not null"`
	Recipient string             `json:"recipient" gorm:"not null"`
	Status    MailDeliveryStatus `json:"status" gorm:"not null"`
	Error     string             `json:"error"`
	Metadata  datatypes.JSONMap  `json:"metadata" gorm:"type:jsonb"`
	CreatedAt time.Time          `json:"createdAt"`
}

// TableName returns the table name for GORM
func (MailDelivery) TableName() string {
	return "mail_deliveries"
}
