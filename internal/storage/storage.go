package storage

import (
	"context"
	"errors"

	"github.com/utsabduwadi/bank-management-system/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// DocumentStore persists the whole username-to-user mapping as one unit.
type DocumentStore interface {
	// Load returns the full document, or an empty one when nothing has been
	// saved yet.
	Load(ctx context.Context) (models.Document, error)
	// FindUser returns a copy of one record, or ErrNotFound.
	FindUser(ctx context.Context, username string) (*models.User, error)
	// Save overwrites the stored document with doc.
	Save(ctx context.Context, doc models.Document) error
	// Update loads the document, hands it to fn, and saves the result. Calls
	// are serialized. Nothing is written when fn returns an error, and that
	// error is returned unchanged.
	Update(ctx context.Context, fn func(doc models.Document) error) error
	// Close releases resources held by the store.
	Close() error
}
