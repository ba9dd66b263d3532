package store

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gfq-app/gfq/internal/models"
)

// Store regroupe les trois collections persistées de l'application.
// Chaque collection est une table à clé primaire entière auto-incrémentée ;
// les ids sont toujours attribués par le backend, jamais par l'appelant.
type Store struct {
	db *gorm.DB

	Zones         *Collection[models.Zone]
	Organizations *Collection[models.Organization]
	Invoices      *Collection[models.Invoice]
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Zones:         &Collection[models.Zone]{db: db, name: "zones"},
		Organizations: &Collection[models.Organization]{db: db, name: "organizations"},
		Invoices:      &Collection[models.Invoice]{db: db, name: "invoices"},
	}
}

// Transaction runs fn against a Store bound to a single DB transaction.
// Cross-collection atomicity (import's clear + re-insert) lives here; single
// collection operations are already atomic on their own.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Collection exposes the keyed operations of one persisted collection.
type Collection[T any] struct {
	db   *gorm.DB
	name string
}

func (c *Collection[T]) Name() string { return c.name }

// GetAll returns every record ordered by id.
func (c *Collection[T]) GetAll() ([]T, error) {
	out := []T{}
	if err := c.db.Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStoreUnavailable, c.name, err)
	}
	return out, nil
}

// Upsert inserts e when its id is zero (the backend assigns the next unused
// id and backfills it) and replaces the existing record otherwise.
func (c *Collection[T]) Upsert(e *T) error {
	if err := c.db.Save(e).Error; err != nil {
		return &WriteError{Collection: c.name, Op: "upsert", Err: err}
	}
	return nil
}

// Remove deletes by id. Removing an absent id is not an error.
func (c *Collection[T]) Remove(id uint) error {
	if err := c.db.Delete(new(T), id).Error; err != nil {
		return &WriteError{Collection: c.name, Op: "remove", Err: err}
	}
	return nil
}

// Clear removes every record. Used only during import.
func (c *Collection[T]) Clear() error {
	if err := c.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T)).Error; err != nil {
		return &WriteError{Collection: c.name, Op: "clear", Err: err}
	}
	return nil
}

// Count returns the number of records, without loading them.
func (c *Collection[T]) Count() (int64, error) {
	var n int64
	if err := c.db.Model(new(T)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%w: count %s: %v", ErrStoreUnavailable, c.name, err)
	}
	return n, nil
}
