package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationLog records every customer message attempt, sent or failed.
type NotificationLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID `gorm:"type:uuid;index;not null" json:"tenantId"`
	CustomerID     uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	ServiceOrderID uuid.UUID `gorm:"type:uuid;index;not null" json:"serviceOrderId"`

	Type         string    `gorm:"type:varchar(30)" json:"type"`    // order_ready, approval_reminder
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"errorMessage"`
	SentAt       time.Time `json:"sentAt"`

	CreatedAt time.Time `json:"createdAt"`
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
