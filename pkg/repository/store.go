package repository

import (
	"context"
	"errors"

	"github.com/example/retailshop/pkg/apperr"
	"gorm.io/gorm"
)

// Store runs typed queries against the relational store. A Store handed to a
// Transaction callback is bound to that transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Transaction runs fn in a single database transaction. Any error returned by
// fn rolls back every write made through q.
func (s *Store) Transaction(ctx context.Context, fn func(q *Store) error) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
	return apperr.Persistence(err, "transaction failed")
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
