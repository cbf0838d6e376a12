package repository

import (
	"context"
	"errors"

	"github.com/gocool94/innnov-prod/internal/apperrors"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn inside a single database transaction. Any error rolls
// back every write made by fn.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
	if err != nil {
		return translate(err, "transaction", "")
	}
	return nil
}

// translate maps store-level failures onto the error kinds callers handle:
// missing rows become NotFound, exceeded deadlines become Timeout.
func translate(err error, what string, key interface{}) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap(apperrors.KindNotFound, err, "%s %v not found", what, key)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.KindTimeout, err, "store call for %s %v exceeded deadline", what, key)
	default:
		return err
	}
}
