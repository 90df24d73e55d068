// Package repository mediates between request handling and the GORM
// persistence context, one implementation per entity type.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrIDMismatch = errors.New("id does not match the record id")
)

// Scope narrows a query. Scopes compose by sequential application.
type Scope = func(*gorm.DB) *gorm.DB

// Query describes optional list criteria for entities of type T.
type Query[T any] interface {
	Scopes() []Scope
}

// Repository is the CRUD contract shared by every entity type. Each call
// commits on its own.
type Repository[T any] interface {
	GetAll(ctx context.Context, query Query[T]) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, id uint, replacement *T) (*T, error)
	Delete(ctx context.Context, id uint) (*T, error)
}

// crud holds the GORM plumbing the concrete repositories share. getID and
// setID give it access to the primary key without reflection.
type crud[T any] struct {
	db    *gorm.DB
	getID func(*T) uint
	setID func(*T, uint)

	// omit lists columns that Update never writes.
	omit []string
}

func (r *crud[T]) GetAll(ctx context.Context, query Query[T]) ([]T, error) {
	tx := r.db.WithContext(ctx).Model(new(T))
	if query != nil {
		tx = tx.Scopes(query.Scopes()...)
	}

	records := []T{}
	if err := tx.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return records, nil
}

func (r *crud[T]) Get(ctx context.Context, id uint) (*T, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *crud[T]) Create(ctx context.Context, entity *T) (*T, error) {
	r.setID(entity, 0)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return entity, nil
}

// Update replaces every writable column of the record identified by id. A
// zero id inside replacement adopts id; any other value must match.
func (r *crud[T]) Update(ctx context.Context, id uint, replacement *T) (*T, error) {
	switch embedded := r.getID(replacement); {
	case embedded == 0:
		r.setID(replacement, id)
	case embedded != id:
		return nil, fmt.Errorf("update %d: %w (got %d)", id, ErrIDMismatch, embedded)
	}

	var updated *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.first(tx, id); err != nil {
			return err
		}

		omit := append([]string{clause.Associations}, r.omit...)
		if err := tx.Omit(omit...).Save(replacement).Error; err != nil {
			return fmt.Errorf("update %d: %w", id, err)
		}

		var err error
		updated, err = r.first(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *crud[T]) Delete(ctx context.Context, id uint) (*T, error) {
	var deleted *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := r.first(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(record).Error; err != nil {
			return fmt.Errorf("delete %d: %w", id, err)
		}
		deleted = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *crud[T]) first(tx *gorm.DB, id uint) (*T, error) {
	record := new(T)
	if err := tx.First(record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %d: %w", id, err)
	}
	return record, nil
}
