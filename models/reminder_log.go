// models/reminder_log.go
package models

import (
	"time"
)

const (
	ReminderStatusSent   = "sent"
	ReminderStatusFailed = "failed"

	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"
)

type ReminderLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AppointmentID uint      `gorm:"index;not null" json:"appointmentId"`
	CustomerID    uint      `gorm:"index;not null" json:"customerId"`
	Channel       string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	Message       string    `gorm:"type:text" json:"message"`
	Status        string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage  string    `gorm:"type:text" json:"errorMessage,omitempty"`
	SentAt        time.Time `json:"sentAt"`
}
