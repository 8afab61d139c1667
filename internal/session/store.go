package session

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"restaurant-client/internal/cart"
)

//go:embed schema.sql
var schemaSQL string

const (
	keyToken = "token"
	keyRole  = "role"
	keyCart  = "cart"
)

// Store is the durable client-side session: bearer token, role, and the
// cart carry-over between command invocations. It replaces the ambient
// browser storage of the original client with an explicitly injected
// object whose lifecycle is login-to-logout.
//
// Backed by SQLite in WAL mode with a single writer connection.
type Store struct {
	db *sql.DB
}

// Open creates or opens the session database at the given path. Safe to
// call repeatedly; schema application is idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to session store: %w", err)
	}

	// SQLite supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply session schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Token returns the stored bearer credential, or "" for a guest.
func (s *Store) Token() string {
	v, _ := s.get(keyToken)
	return v
}

// SetToken stores the bearer credential issued at login.
func (s *Store) SetToken(token string) error {
	return s.set(keyToken, token)
}

// Role returns the stored role string, or "" when unknown.
func (s *Store) Role() string {
	v, _ := s.get(keyRole)
	return v
}

// SetRole stores the user role reported at login.
func (s *Store) SetRole(role string) error {
	return s.set(keyRole, role)
}

// Clear drops the credential and role. Called on logout; the cart
// carry-over is left alone so a guest keeps their selection.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE key IN (?, ?)`, keyToken, keyRole)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// SaveCart persists a cart snapshot for the next invocation.
func (s *Store) SaveCart(lines []cart.Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return s.set(keyCart, string(data))
}

// LoadCart restores the carried-over cart, or an empty one when nothing
// was saved yet.
func (s *Store) LoadCart() (*cart.Cart, error) {
	v, err := s.get(keyCart)
	if err != nil {
		return nil, err
	}
	if v == "" {
		return cart.New(), nil
	}
	var lines []cart.Line
	if err := json.Unmarshal([]byte(v), &lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return cart.Restore(lines), nil
}

// DropCart removes the persisted cart, typically after checkout.
func (s *Store) DropCart() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE key = ?`, keyCart)
	if err != nil {
		return fmt.Errorf("failed to drop cart: %w", err)
	}
	return nil
}

func (s *Store) get(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session key %q: %w", key, err)
	}
	return v, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write session key %q: %w", key, err)
	}
	return nil
}
