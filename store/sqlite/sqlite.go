/*
Package sqlite provides the SQLite-backed implementation of the storage
contracts.

PURPOSE:
  Implements generic.BlobStore (whole-collection JSON blobs keyed by
  domain) and auth.UserStore (account records) on a single SQLite file.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  blobs: One row per domain collection ("activities",
         "financial_transactions", ...), holding the serialized JSON
  users: Account records with unique email and CPF

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time, better crash
  recovery.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - generic/storage.go: BlobStore contract
  - generic/store/memory.go: In-memory implementation for testing
  - auth/auth.go: UserStore contract
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mindflow/life-ledger/auth"
	"github.com/mindflow/life-ledger/generic"
)

// Store implements generic.BlobStore and auth.UserStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Domain collections, one JSON blob per key
	CREATE TABLE IF NOT EXISTS blobs (
		key        TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Accounts
	CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		first_name    TEXT NOT NULL,
		last_name     TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		cpf           TEXT NOT NULL UNIQUE,
		birth_date    TEXT NOT NULL,
		created_at    TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// BLOB STORE - generic.BlobStore
// =============================================================================

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load blob %q: %w", key, err)
	}
	return data, nil
}

func (s *Store) Save(ctx context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blobs (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, blob, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save blob %q: %w", key, err)
	}
	return nil
}

// =============================================================================
// USER STORE - auth.UserStore
// =============================================================================

func (s *Store) CreateUser(ctx context.Context, u auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password_hash, cpf, birth_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash,
		u.CPF, u.BirthDate.String(), u.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.queryUser(ctx, `SELECT id, first_name, last_name, email, password_hash, cpf, birth_date, created_at
		FROM users WHERE email = ?`, email)
}

func (s *Store) UserByID(ctx context.Context, id string) (*auth.User, error) {
	return s.queryUser(ctx, `SELECT id, first_name, last_name, email, password_hash, cpf, birth_date, created_at
		FROM users WHERE id = ?`, id)
}

func (s *Store) UserByEmailOrCPF(ctx context.Context, email, cpf string) (*auth.User, error) {
	return s.queryUser(ctx, `SELECT id, first_name, last_name, email, password_hash, cpf, birth_date, created_at
		FROM users WHERE email = ? OR cpf = ? LIMIT 1`, email, cpf)
}

func (s *Store) queryUser(ctx context.Context, query string, args ...any) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		u         auth.User
		birthDate string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.CPF, &birthDate, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	if u.BirthDate, err = generic.ParseDate(birthDate); err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	if u.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	return &u, nil
}

// Reset drops all data. Dev/test only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"blobs", "users"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
