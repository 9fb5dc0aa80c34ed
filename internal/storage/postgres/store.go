package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/utsabduwadi/bank-management-system/internal/models"
	"github.com/utsabduwadi/bank-management-system/internal/storage"
)

// Ensure Store satisfies the storage.DocumentStore interface at compile time.
var _ storage.DocumentStore = (*Store)(nil)

// Store keeps one row per user and one row per log entry. Updates run inside
// a transaction that holds a self-conflicting lock on bank_users, so
// read-modify-write cycles from any number of processes are serialized.
type Store struct {
	pool *pgxpool.Pool
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewStore connects to databaseURL and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bank_users (
			username TEXT PRIMARY KEY,
			password_digest TEXT NOT NULL,
			account_type TEXT NOT NULL,
			balance NUMERIC NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS bank_transactions (
			username TEXT NOT NULL REFERENCES bank_users(username) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			counterparty TEXT NOT NULL,
			amount NUMERIC NOT NULL,
			occurred_at TEXT NOT NULL,
			PRIMARY KEY (username, seq)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// Load reads every user together with its log.
func (s *Store) Load(ctx context.Context) (models.Document, error) {
	return load(ctx, s.pool)
}

// Save replaces all rows with the contents of doc in one transaction.
func (s *Store) Save(ctx context.Context, doc models.Document) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return save(ctx, tx, doc)
	})
}

// Update runs fn between a locked load and a save, all in one transaction.
func (s *Store) Update(ctx context.Context, fn func(doc models.Document) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `LOCK TABLE bank_users IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("lock users: %w", err)
		}
		doc, err := load(ctx, tx)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		return save(ctx, tx, doc)
	})
}

// FindUser fetches a single user and its log.
func (s *Store) FindUser(ctx context.Context, username string) (*models.User, error) {
	const query = `
	SELECT username, password_digest, account_type, balance::text
	FROM bank_users
	WHERE username = $1;
	`
	user, err := scanUser(s.pool.QueryRow(ctx, query, username))
	if err != nil {
		return nil, err
	}
	logs, err := loadTransactions(ctx, s.pool, username)
	if err != nil {
		return nil, err
	}
	if txs, ok := logs[username]; ok {
		user.Transactions = txs
	}
	return user, nil
}

func load(ctx context.Context, q querier) (models.Document, error) {
	const query = `
	SELECT username, password_digest, account_type, balance::text
	FROM bank_users;
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	doc := models.Document{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		doc[user.Username] = user
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	logs, err := loadTransactions(ctx, q, "")
	if err != nil {
		return nil, err
	}
	for name, txs := range logs {
		if user, ok := doc[name]; ok {
			user.Transactions = txs
		}
	}
	return doc, nil
}

// loadTransactions groups log rows by owner. An empty username selects all.
func loadTransactions(ctx context.Context, q querier, username string) (map[string][]models.Transaction, error) {
	const query = `
	SELECT username, kind, counterparty, amount::text, occurred_at
	FROM bank_transactions
	WHERE $1 = '' OR username = $1
	ORDER BY username, seq;
	`
	rows, err := q.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := map[string][]models.Transaction{}
	for rows.Next() {
		var owner, kind, amount string
		var tx models.Transaction
		if err := rows.Scan(&owner, &kind, &tx.Counterparty, &amount, &tx.Time); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Kind = models.TransactionKind(kind)
		if tx.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction amount of %q: %w", owner, err)
		}
		out[owner] = append(out[owner], tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	return out, nil
}

func save(ctx context.Context, tx pgx.Tx, doc models.Document) error {
	if _, err := tx.Exec(ctx, `DELETE FROM bank_transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM bank_users`); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}

	batch := &pgx.Batch{}
	for name, user := range doc {
		batch.Queue(`INSERT INTO bank_users (username, password_digest, account_type, balance)
			VALUES ($1, $2, $3, $4::text::numeric)`,
			name, user.PasswordDigest, string(user.AccountType), user.Balance.String())
	}
	for name, user := range doc {
		for i, entry := range user.Transactions {
			batch.Queue(`INSERT INTO bank_transactions (username, seq, kind, counterparty, amount, occurred_at)
				VALUES ($1, $2, $3, $4, $5::text::numeric, $6)`,
				name, i, string(entry.Kind), entry.Counterparty, entry.Amount.String(), entry.Time)
		}
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var accountType, balance string
	if err := row.Scan(&user.Username, &user.PasswordDigest, &accountType, &balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.AccountType = models.AccountType(accountType)
	amount, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("balance of %q: %w", user.Username, err)
	}
	user.Balance = amount
	user.Transactions = []models.Transaction{}
	return &user, nil
}
