// Package bank implements account signup, credential changes, and transfers
// on top of a storage.DocumentStore.
package bank

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utsabduwadi/bank-management-system/internal/auth"
	"github.com/utsabduwadi/bank-management-system/internal/models"
	"github.com/utsabduwadi/bank-management-system/internal/storage"
)

// Service runs every mutation as one load, validate, mutate, save cycle
// through DocumentStore.Update. Failed preconditions write nothing.
type Service struct {
	store  storage.DocumentStore
	hasher auth.Hasher
	now    func() time.Time

	adminUsername string
	adminDigest   string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source used to stamp transactions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithAdmin sets the administrator credential. The digest must come from the
// same Hasher the service uses. An empty digest disables admin login.
func WithAdmin(username, digest string) Option {
	return func(s *Service) {
		s.adminUsername = username
		s.adminDigest = digest
	}
}

// NewService wires a service to its store and hasher.
func NewService(store storage.DocumentStore, hasher auth.Hasher, opts ...Option) *Service {
	s := &Service{store: store, hasher: hasher, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup creates a user with a zero balance and an empty log.
func (s *Service) Signup(ctx context.Context, username, password string, accountType models.AccountType) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return ErrInvalidInput
	}
	if !accountType.Valid() {
		return ErrInvalidAccountType
	}
	digest, err := s.hasher.Digest(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.Update(ctx, func(doc models.Document) error {
		if _, exists := doc[username]; exists {
			return ErrDuplicateUser
		}
		doc[username] = &models.User{
			Username:       username,
			PasswordDigest: digest,
			AccountType:    accountType,
			Balance:        decimal.Zero,
			Transactions:   []models.Transaction{},
		}
		return nil
	})
}

// Authenticate checks a customer's credentials. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.lookup(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, ErrWrongCredential
		}
		return models.User{}, err
	}
	if !s.hasher.Verify(password, user.PasswordDigest) {
		return models.User{}, ErrWrongCredential
	}
	return user, nil
}

// AuthenticateAdmin checks the configured administrator credential.
func (s *Service) AuthenticateAdmin(username, password string) error {
	if s.adminDigest == "" || username != s.adminUsername {
		return ErrWrongCredential
	}
	if !s.hasher.Verify(password, s.adminDigest) {
		return ErrWrongCredential
	}
	return nil
}

// ChangePassword replaces the digest after checking the current password.
func (s *Service) ChangePassword(ctx context.Context, username, current, next string) error {
	if next == "" {
		return ErrInvalidInput
	}
	digest, err := s.hasher.Digest(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.Update(ctx, func(doc models.Document) error {
		user, ok := doc[username]
		if !ok {
			return ErrUserNotFound
		}
		if !s.hasher.Verify(current, user.PasswordDigest) {
			return ErrWrongCredential
		}
		user.PasswordDigest = digest
		return nil
	})
}

// ResetPassword replaces the digest without checking the old password. It
// is the administrator's path.
func (s *Service) ResetPassword(ctx context.Context, username, next string) error {
	if next == "" {
		return ErrInvalidInput
	}
	digest, err := s.hasher.Digest(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.Update(ctx, func(doc models.Document) error {
		user, ok := doc[username]
		if !ok {
			return ErrUserNotFound
		}
		user.PasswordDigest = digest
		return nil
	})
}

// Transfer moves amount from sender to recipient and appends a Sent and a
// Received entry sharing one timestamp. It returns the sender's entry.
func (s *Service) Transfer(ctx context.Context, sender, recipient string, amount decimal.Decimal) (models.Transaction, error) {
	var sent models.Transaction
	err := s.store.Update(ctx, func(doc models.Document) error {
		from, okFrom := doc[sender]
		to, okTo := doc[recipient]
		if !okFrom || !okTo {
			return ErrPartyNotFound
		}
		if sender == recipient {
			return ErrSelfTransfer
		}
		if amount.IsNegative() {
			return ErrInvalidAmount
		}
		if from.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		stamp := s.now().Format(models.TimeLayout)
		from.Balance = from.Balance.Sub(amount)
		to.Balance = to.Balance.Add(amount)
		sent = models.Transaction{Kind: models.Sent, Counterparty: recipient, Amount: amount, Time: stamp}
		from.Transactions = append(from.Transactions, sent)
		to.Transactions = append(to.Transactions, models.Transaction{
			Kind:         models.Received,
			Counterparty: sender,
			Amount:       amount,
			Time:         stamp,
		})
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return sent, nil
}

// Credit adds a positive amount to a balance without logging a transaction.
// Operators use it to fund accounts.
func (s *Service) Credit(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	var balance decimal.Decimal
	err := s.store.Update(ctx, func(doc models.Document) error {
		user, ok := doc[username]
		if !ok {
			return ErrUserNotFound
		}
		user.Balance = user.Balance.Add(amount)
		balance = user.Balance
		return nil
	})
	return balance, err
}

// Account returns the user's record, including balance and log.
func (s *Service) Account(ctx context.Context, username string) (models.User, error) {
	return s.lookup(ctx, username)
}

// History returns the user's log in chronological order.
func (s *Service) History(ctx context.Context, username string) ([]models.Transaction, error) {
	user, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.Transactions == nil {
		return []models.Transaction{}, nil
	}
	return user.Transactions, nil
}

func (s *Service) lookup(ctx context.Context, username string) (models.User, error) {
	user, err := s.store.FindUser(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("find user %q: %w", username, err)
	}
	return *user, nil
}
