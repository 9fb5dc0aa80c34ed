// Package jsonfile stores the account document as one indented JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/utsabduwadi/bank-management-system/internal/models"
	"github.com/utsabduwadi/bank-management-system/internal/storage"
)

// DefaultPath is the file name used when no path is configured.
const DefaultPath = "bank_users.json"

// Ensure Store satisfies the storage.DocumentStore interface at compile time.
var _ storage.DocumentStore = (*Store)(nil)

// Store reads and writes the document at a fixed path. Update calls within
// one process are serialized; separate processes sharing the file are not.
type Store struct {
	path string
	mu   sync.Mutex
}

// record is the on-disk shape of a user.
type record struct {
	Password     string               `json:"password"`
	AccountType  models.AccountType   `json:"account_type"`
	Balance      json.Number          `json:"balance"`
	Transactions []models.Transaction `json:"transactions"`
}

// New returns a store backed by path. The file is created on first save.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path reports the backing file.
func (s *Store) Path() string { return s.path }

// Load reads the document. A missing file yields an empty document.
func (s *Store) Load(ctx context.Context) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save replaces the file contents with doc.
func (s *Store) Save(ctx context.Context, doc models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, doc)
}

// Update runs fn against the current document under the store lock.
func (s *Store) Update(ctx context.Context, fn func(doc models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(ctx, doc)
}

// Close is a no-op; the file is only open during Load and Save.
func (s *Store) Close() error { return nil }

func (s *Store) load(ctx context.Context) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var raw map[string]record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	doc := make(models.Document, len(raw))
	for name, rec := range raw {
		balance := decimal.Zero
		if rec.Balance != "" {
			balance, err = decimal.NewFromString(rec.Balance.String())
			if err != nil {
				return nil, fmt.Errorf("decode %s: balance of %q: %w", s.path, name, err)
			}
		}
		txs := rec.Transactions
		if txs == nil {
			txs = []models.Transaction{}
		}
		doc[name] = &models.User{
			Username:       name,
			PasswordDigest: rec.Password,
			AccountType:    rec.AccountType,
			Balance:        balance,
			Transactions:   txs,
		}
	}
	return doc, nil
}

func (s *Store) save(ctx context.Context, doc models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw := make(map[string]record, len(doc))
	for name, user := range doc {
		txs := user.Transactions
		if txs == nil {
			txs = []models.Transaction{}
		}
		raw[name] = record{
			Password:     user.PasswordDigest,
			AccountType:  user.AccountType,
			Balance:      json.Number(user.Balance.String()),
			Transactions: txs,
		}
	}
	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// FindUser loads the document and returns the named record.
func (s *Store) FindUser(ctx context.Context, username string) (*models.User, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := doc[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}
