// internal/users/store.go
//
// User persistence.
//
// Context
// -------
// One table backs the users API:
//
//	users (id CHAR(36) PK, name, email UNIQUE, password_hash, created_at)
//
// Queries use `?` placeholders, which both MySQL and SQLite accept, so the
// same Store serves production and development databases.  Driver-specific
// unique-violation errors are mapped onto ErrDuplicateEmail.
//
// Notes
// -----
// • MySQL DSNs need parseTime=true for created_at to scan into time.Time.
// • Oxford commas, two spaces after periods.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors.
var (
	ErrNotFound       = errors.New("users: not found")
	ErrDuplicateEmail = errors.New("users: e-mail already registered")
)

// Schema creates the users table.  Portable across MySQL and SQLite.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id            CHAR(36)     NOT NULL PRIMARY KEY,
        name          VARCHAR(255) NOT NULL,
        email         VARCHAR(255) NOT NULL UNIQUE,
        password_hash VARCHAR(255) NOT NULL,
        created_at    DATETIME     NOT NULL
    )`,
}

// User is one account row.
type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Store reads and writes users.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewStore wraps db.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC().Truncate(time.Second) }}
}

// Create inserts u, assigning ID and CreatedAt.  An already-registered
// e-mail yields ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, u *User) error {
	u.ID = uuid.NewString()
	u.CreatedAt = s.now()

	const q = `
        INSERT INTO users (id, name, email, password_hash, created_at)
        VALUES (:id, :name, :email, :password_hash, :created_at)`
	if _, err := s.db.NamedExecContext(ctx, q, u); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// ByEmail fetches one user.  email must already be normalised.
func (s *Store) ByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
        SELECT id, name, email, password_hash, created_at
        FROM   users
        WHERE  email = ?
        LIMIT  1`
	var u User
	if err := s.db.GetContext(ctx, &u, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user by email: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062 // ER_DUP_ENTRY
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
