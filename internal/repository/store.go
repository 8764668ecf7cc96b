// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"smartchecklist/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store groups the repositories that make up one unit of work.
type Store interface {
	Users() UserRepository
	Checklists() ChecklistRepository
	Items() ItemRepository
	// Transaction runs fn against a Store bound to a single database
	// transaction. It commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db         *gorm.DB
	users      UserRepository
	checklists ChecklistRepository
	items      ItemRepository
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:         db,
		users:      NewUserRepository(db),
		checklists: NewChecklistRepository(db),
		items:      NewItemRepository(db),
	}
}

func (s *gormStore) Users() UserRepository           { return s.users }
func (s *gormStore) Checklists() ChecklistRepository { return s.checklists }
func (s *gormStore) Items() ItemRepository           { return s.items }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// notFoundOr maps gorm.ErrRecordNotFound to a NOT_FOUND AppError and any
// other failure to INTERNAL_ERROR.
func notFoundOr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}
