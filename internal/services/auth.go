// Package services contains application services for the authkeeper client.
// This file defines the authentication service: login, registration, logout,
// and housekeeping of the locally persisted session keys.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/models"
	"github.com/dmitrijs2005/authkeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/authkeeper/internal/repositories/users"
	"github.com/dmitrijs2005/authkeeper/internal/token"
)

// LoginResult is what a successful login or registration hands back to the
// session layer.
type LoginResult struct {
	User  models.AuthUser
	Token string
}

// AuthService defines authentication operations against the local stores.
//
// Contract:
//   - Login: verify credentials, issue a session token, persist the session keys.
//   - Register: create the user, then log in with the same credentials.
//   - Logout: clear the persisted session keys (best effort, see method doc).
//   - GetCurrentUser: read the persisted user view; absent is not an error.
//   - IsAuthenticated: persisted logged-in flag AND a stored user view.
//   - UpdateCurrentUser: merge a partial profile update into the stored view.
//
// All methods perform I/O against the shared database and must be given a
// context.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, name, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	GetCurrentUser(ctx context.Context) (*models.AuthUser, error)
	IsAuthenticated(ctx context.Context) (bool, error)
	UpdateCurrentUser(ctx context.Context, patch models.ProfilePatch) (*models.AuthUser, error)
}

// authService is the concrete AuthService backed by the shared local
// database handle.
type authService struct {
	db    *sql.DB
	codec *token.Codec
	log   logging.Logger
}

// NewAuthService constructs an AuthService bound to the given DB and codec.
func NewAuthService(db *sql.DB, codec *token.Codec, log logging.Logger) AuthService {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &authService{db: db, codec: codec, log: log}
}

func (a *authService) getUserRepo() users.Repository {
	return users.NewSQLiteRepository(a.db)
}

func (a *authService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

// Login looks up the credentials, issues a fresh token, and persists the
// session keys in a single transaction. When no record matches it returns
// common.ErrInvalidCredentials; the reason (unknown email vs wrong
// password) is logged at debug level only and never surfaced to the caller.
func (a *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	userRepo := a.getUserRepo()

	user, err := userRepo.FindByCredentials(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("credential lookup error: %w", err)
	}
	if user == nil {
		a.logLoginFailure(ctx, email)
		return nil, common.ErrInvalidCredentials
	}

	tok, err := a.codec.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("token issue error: %w", err)
	}

	view := user.Public()
	if err := a.saveSession(ctx, view, tok); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	a.log.Info(ctx, "login successful", "email", view.Email)
	return &LoginResult{User: view, Token: tok}, nil
}

// logLoginFailure records why a login failed. The distinction between an
// unknown email and a password mismatch is diagnostic only; the caller
// always gets the generic invalid-credentials error.
func (a *authService) logLoginFailure(ctx context.Context, email string) {
	existing, err := a.getUserRepo().FindByEmail(ctx, email)
	if err != nil {
		a.log.Debug(ctx, "login diagnostics unavailable", "error", err)
		return
	}
	if existing != nil {
		a.log.Debug(ctx, "login failed: password mismatch", "email", email, "user_id", existing.ID)
	} else {
		a.log.Debug(ctx, "login failed: email not found", "email", email)
	}
}

// saveSession persists the session keys (user view, token, logged-in flag)
// in a single transaction.
func (a *authService) saveSession(ctx context.Context, user models.AuthUser, tok string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.UserDataKey, data); err != nil {
			return err
		}
		if err := repo.Set(ctx, common.AccessTokenKey, []byte(tok)); err != nil {
			return err
		}
		return repo.Set(ctx, common.IsLoggedInKey, []byte("true"))
	})
}

// Register creates the user and immediately performs Login with the same
// credentials. A unique-email violation surfaces as common.ErrEmailTaken;
// any other creation fault is normalized to common.ErrRegistrationFailed.
func (a *authService) Register(ctx context.Context, name, email, password string) (*LoginResult, error) {
	userRepo := a.getUserRepo()

	if _, err := userRepo.Create(ctx, name, email, password); err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, common.ErrEmailTaken
		}
		a.log.Error(ctx, "registration failed", "email", email, "error", err)
		return nil, common.ErrRegistrationFailed
	}

	a.log.Info(ctx, "user created", "email", email)
	return a.Login(ctx, email, password)
}

// Logout clears the persisted session keys. Cleanup is best effort: if the
// transactional removal fails, each key is force-removed individually and
// the original error is still returned so the caller can report it. The
// session layer de-authenticates regardless of the outcome.
func (a *authService) Logout(ctx context.Context) error {
	sessionKeys := []string{common.UserDataKey, common.AccessTokenKey, common.IsLoggedInKey}

	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).MultiDelete(ctx, sessionKeys...)
	})
	if err != nil {
		a.log.Error(ctx, "logout cleanup failed, force-removing session keys", "error", err)
		repo := a.getMetadataRepo()
		for _, key := range sessionKeys {
			_ = repo.Delete(ctx, key)
		}
		return fmt.Errorf("logout error: %w", err)
	}

	a.log.Info(ctx, "logout successful")
	return nil
}

// GetCurrentUser reads the persisted user view. A missing key returns
// (nil, nil); stored data that no longer decodes is a storage fault.
func (a *authService) GetCurrentUser(ctx context.Context) (*models.AuthUser, error) {
	data, err := a.getMetadataRepo().Get(ctx, common.UserDataKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored user: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var user models.AuthUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode stored user: %w", errors.Join(common.ErrCorruptState, err))
	}
	return &user, nil
}

// IsAuthenticated reports whether the persisted logged-in flag is set and a
// stored user view exists.
func (a *authService) IsAuthenticated(ctx context.Context) (bool, error) {
	flag, err := a.getMetadataRepo().Get(ctx, common.IsLoggedInKey)
	if err != nil {
		return false, fmt.Errorf("failed to read logged-in flag: %w", err)
	}
	if string(flag) != "true" {
		return false, nil
	}

	user, err := a.GetCurrentUser(ctx)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// UpdateCurrentUser merges the patch into the stored user view and writes
// it back. It is a pass-through over persisted data; the Users table is not
// touched.
func (a *authService) UpdateCurrentUser(ctx context.Context, patch models.ProfilePatch) (*models.AuthUser, error) {
	user, err := a.GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrNotLoggedIn
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}

	data, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	if err := a.getMetadataRepo().Set(ctx, common.UserDataKey, data); err != nil {
		return nil, fmt.Errorf("failed to store updated user: %w", err)
	}

	a.log.Info(ctx, "user profile updated", "user_id", user.ID)
	return user, nil
}
