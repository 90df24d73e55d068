package repository

import (
	"time"

	"crml-backend/models"

	"gorm.io/gorm"
)

// AppointmentQuery narrows appointment lists. All criteria are optional and
// combine conjunctively; Limit is applied after the predicates.
type AppointmentQuery struct {
	CustomerID *uint      `form:"customerId"`
	Limit      *int       `form:"limit" binding:"omitempty,min=0"`
	After      *time.Time `form:"after" time_format:"2006-01-02T15:04:05Z07:00"`
}

func (q AppointmentQuery) Scopes() []Scope {
	var scopes []Scope
	if q.CustomerID != nil {
		customerID := *q.CustomerID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("customer_id = ?", customerID)
		})
	}
	if q.After != nil {
		after := *q.After
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(`"end" > ?`, after)
		})
	}
	if q.Limit != nil {
		limit := *q.Limit
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Limit(limit)
		})
	}
	return scopes
}

var _ Repository[models.Appointment] = (*AppointmentRepository)(nil)

type AppointmentRepository struct {
	crud[models.Appointment]
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{crud[models.Appointment]{
		db:    db,
		getID: func(a *models.Appointment) uint { return a.ID },
		setID: func(a *models.Appointment, id uint) { a.ID = id },
	}}
}
