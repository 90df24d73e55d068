package repository

import (
	"context"
	"fmt"

	"crml-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MotifQuery narrows motif lists.
type MotifQuery struct {
	CustomerID *uint `form:"customerId"`
}

func (q MotifQuery) Scopes() []Scope {
	var scopes []Scope
	if q.CustomerID != nil {
		customerID := *q.CustomerID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("customer_id = ?", customerID)
		})
	}
	return scopes
}

var _ Repository[models.Motif] = (*MotifRepository)(nil)

// MotifRepository never writes the attachments column through Update; the
// list is owned by the attachment service and changed with SetAttachments.
type MotifRepository struct {
	crud[models.Motif]
}

func NewMotifRepository(db *gorm.DB) *MotifRepository {
	return &MotifRepository{crud[models.Motif]{
		db:    db,
		getID: func(m *models.Motif) uint { return m.ID },
		setID: func(m *models.Motif, id uint) { m.ID = id },
		omit:  []string{"Attachments"},
	}}
}

// Create starts every motif with an empty attachment list.
func (r *MotifRepository) Create(ctx context.Context, motif *models.Motif) (*models.Motif, error) {
	motif.Attachments = datatypes.JSONSlice[string]{}
	return r.crud.Create(ctx, motif)
}

// SetAttachments overwrites the attachment list of the motif.
func (r *MotifRepository) SetAttachments(ctx context.Context, id uint, attachments []string) error {
	if attachments == nil {
		attachments = []string{}
	}
	res := r.db.WithContext(ctx).Model(&models.Motif{}).
		Where("id = ?", id).
		Update("attachments", datatypes.JSONSlice[string](attachments))
	if res.Error != nil {
		return fmt.Errorf("set attachments %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
