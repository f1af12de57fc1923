// Package users implements the credential store: durable CRUD over user
// records in the local Users table.
package users

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/models"
)

// Repository is the credential store contract.
//
// "No matching user" is not an error: FindByCredentials and FindByEmail
// return (nil, nil) when zero rows match. I/O faults are returned as
// errors; a unique-email violation on Create is joined with
// common.ErrEmailTaken so callers can show a specific message.
type Repository interface {
	Create(ctx context.Context, name, email, password string) (*models.User, error)
	FindByCredentials(ctx context.Context, email, password string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
}
