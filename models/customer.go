package models

type Customer struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	// HasWA marks customers reachable over WhatsApp.
	HasWA bool `gorm:"column:has_wa;default:false" json:"hasWA"`
}
