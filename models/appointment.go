package models

import "time"

type Appointment struct {
	ID    uint      `gorm:"primaryKey" json:"id"`
	Start time.Time `gorm:"not null" json:"start"`
	End   time.Time `gorm:"not null;index" json:"end"`
	Kind  string    `json:"kind"`

	CustomerID uint      `gorm:"index;not null" json:"customerId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}
