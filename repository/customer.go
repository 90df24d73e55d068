package repository

import (
	"strings"

	"crml-backend/models"

	"gorm.io/gorm"
)

// CustomerQuery narrows customer lists.
type CustomerQuery struct {
	// Name keeps customers whose name contains it. Blank means no constraint.
	Name string `form:"name"`
}

func (q CustomerQuery) Scopes() []Scope {
	var scopes []Scope
	if strings.TrimSpace(q.Name) != "" {
		pattern := "%" + escapeLike(q.Name) + "%"
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(`name LIKE ? ESCAPE '\'`, pattern)
		})
	}
	return scopes
}

var _ Repository[models.Customer] = (*CustomerRepository)(nil)

type CustomerRepository struct {
	crud[models.Customer]
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{crud[models.Customer]{
		db:    db,
		getID: func(c *models.Customer) uint { return c.ID },
		setID: func(c *models.Customer, id uint) { c.ID = id },
	}}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
