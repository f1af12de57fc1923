package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

var _ Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new user row and returns the stored record with its
// assigned id. A violation of the unique email index is reported as
// common.ErrEmailTaken; any other fault is a storage error.
func (r *SQLiteRepository) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO Users (name, email, password) VALUES (?, ?, ?)`,
		name, email, password)
	if err != nil {
		var liteErr *sqlite.Error
		if errors.As(err, &liteErr) {
			switch liteErr.Code() {
			case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
				err = errors.Join(common.ErrEmailTaken, err)
			}
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted user id: %w", err)
	}

	return &models.User{ID: id, Name: name, Email: email, Password: password}, nil
}

// FindByCredentials looks up a user by exact (email, password) match.
// Zero matching rows is not an error: the result is (nil, nil). The unique
// index on email guarantees at most one row.
func (r *SQLiteRepository) FindByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password FROM Users WHERE email = ? AND password = ?`,
		email, password)
	return scanUser(row)
}

// FindByEmail looks up a user by email, disregarding the password. Used
// only for diagnostics.
func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password FROM Users WHERE email = ?`,
		email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// GetAll lists every stored user. Used only for diagnostics.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, password FROM Users`)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
