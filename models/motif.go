package models

import (
	"slices"

	"gorm.io/datatypes"
)

type Motif struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Position    string `json:"position"`
	Deposit     int    `gorm:"default:0" json:"deposit"`
	Payment     int    `gorm:"default:0" json:"payment"`
	Quantity    int    `gorm:"default:0" json:"quantity"`

	CustomerID *uint     `gorm:"index" json:"customerId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"-"`

	// Attachments lists the filenames stored under the motif's attachment
	// directory. Only the attachment service writes it.
	Attachments datatypes.JSONSlice[string] `json:"attachments"`
}

// HasAttachment reports whether name is listed on the motif.
func (m *Motif) HasAttachment(name string) bool {
	return slices.Contains(m.Attachments, name)
}
