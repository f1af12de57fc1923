// Package session holds the process-wide authentication state machine and
// its persistence across restarts.
//
// The Store is the single owner of the session state. Screens read it
// through snapshot accessors and mutate it only through the operation
// methods (Initialize, Login, Register, Logout, ...), each of which applies
// one of the defined transitions and synchronously writes the persisted
// subset {token, user, isAuthenticated} before returning. The loading flag
// and the last error are in-memory only.
//
// Operations are not serialized against each other: the front end is
// expected to run one auth operation at a time. The internal mutex only
// keeps individual state reads and writes consistent.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/models"
	"github.com/dmitrijs2005/authkeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/authkeeper/internal/services"
)

// State is the session state visible to the presentation layer.
type State struct {
	User            *models.AuthUser
	Token           string
	IsAuthenticated bool
	IsLoading       bool
	Err             *models.AuthError
	IsInitialized   bool
}

// persistedState is the subset of State written to durable storage after
// every accepted mutating transition.
type persistedState struct {
	Token           string           `json:"token"`
	User            *models.AuthUser `json:"user"`
	IsAuthenticated bool             `json:"isAuthenticated"`
}

// Store is the session state holder. Construct it once per process with
// NewStore and inject it wherever session state is needed.
type Store struct {
	mu       sync.RWMutex
	state    State
	auth     services.AuthService
	meta     metadata.Repository
	log      logging.Logger
	stateKey string
}

// NewStore builds a Store persisting its compound snapshot under the given
// namespace.
func NewStore(auth services.AuthService, meta metadata.Repository, namespace string, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Store{
		auth:     auth,
		meta:     meta,
		log:      log,
		stateKey: common.SessionStateKey(namespace),
	}
}

// Initialize rehydrates the session from the persisted keys. It must be
// called once at process start, before any screen reads the store; repeated
// calls return the current snapshot without touching storage. Regardless of
// outcome, IsInitialized is true afterwards.
//
// A stored token's expiry is not checked here: a rehydrated session is
// accepted as-is, matching the issue-time-only semantics of the codec.
func (s *Store) Initialize(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.state.IsInitialized {
		snapshot := s.state
		s.mu.Unlock()
		return snapshot, nil
	}
	s.state.IsLoading = true
	s.mu.Unlock()

	values, err := s.meta.MultiGet(ctx, common.UserDataKey, common.AccessTokenKey, common.IsLoggedInKey)
	if err != nil {
		return s.finishInit(ctx, nil, "", false,
			models.NewAuthError(models.CodeInitError, nil, "Failed to initialize authentication"))
	}

	var user *models.AuthUser
	if data := values[common.UserDataKey]; data != nil {
		user = &models.AuthUser{}
		if err := json.Unmarshal(data, user); err != nil {
			s.log.Error(ctx, "stored user data is corrupt", "error", err)
			return s.finishInit(ctx, nil, "", false,
				models.NewAuthError(models.CodeInitError, nil, "Failed to initialize authentication"))
		}
	}

	tok := string(values[common.AccessTokenKey])
	authenticated := string(values[common.IsLoggedInKey]) == "true" && user != nil

	s.log.Info(ctx, "auth state initialized", "has_user", user != nil, "has_token", tok != "")
	return s.finishInit(ctx, user, tok, authenticated, nil)
}

func (s *Store) finishInit(ctx context.Context, user *models.AuthUser, tok string, authenticated bool, authErr *models.AuthError) (State, error) {
	s.mu.Lock()
	s.state.User = user
	s.state.Token = tok
	s.state.IsAuthenticated = authenticated
	s.state.IsLoading = false
	s.state.IsInitialized = true
	s.state.Err = authErr
	snapshot := s.state
	s.mu.Unlock()

	if authErr != nil {
		return snapshot, authErr
	}
	return snapshot, nil
}

// Login runs the login transition: loading on, error cleared, then either
// Authenticated with a fresh user/token or Error with a LOGIN_ERROR.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.beginOperation()

	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return s.failAuth(ctx, models.NewAuthError(models.CodeLoginError, err, "Login failed. Please check your credentials."))
	}
	return s.completeAuth(ctx, res)
}

// Register runs the registration transition; a success chains into the
// authenticated state exactly like Login.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	s.beginOperation()

	res, err := s.auth.Register(ctx, name, email, password)
	if err != nil {
		return s.failAuth(ctx, models.NewAuthError(models.CodeRegisterError, err, "Registration failed. Please try again."))
	}
	return s.completeAuth(ctx, res)
}

func (s *Store) beginOperation() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Err = nil
	s.mu.Unlock()
}

func (s *Store) completeAuth(ctx context.Context, res *services.LoginResult) error {
	s.mu.Lock()
	user := res.User
	s.state.User = &user
	s.state.Token = res.Token
	s.state.IsAuthenticated = true
	s.state.IsLoading = false
	s.state.Err = nil
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

func (s *Store) failAuth(ctx context.Context, authErr *models.AuthError) error {
	s.mu.Lock()
	s.state.IsLoading = false
	s.state.IsAuthenticated = false
	s.state.Err = authErr
	s.mu.Unlock()

	s.persist(ctx)
	return authErr
}

// Logout always de-authenticates locally, even when the underlying cleanup
// partially fails; in that case the failure is recorded as a LOGOUT_ERROR
// and returned, but the user never stays logged in.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.state.IsLoading = true
	s.mu.Unlock()

	err := s.auth.Logout(ctx)

	var authErr *models.AuthError
	if err != nil {
		authErr = models.NewAuthError(models.CodeLogoutError, err, "Logout failed")
	}

	s.mu.Lock()
	s.state.User = nil
	s.state.Token = ""
	s.state.IsAuthenticated = false
	s.state.IsLoading = false
	s.state.Err = authErr
	s.mu.Unlock()

	s.persist(ctx)

	if authErr != nil {
		return authErr
	}
	return nil
}

// RefreshProfile re-reads the persisted user view into the state.
func (s *Store) RefreshProfile(ctx context.Context) error {
	s.mu.Lock()
	s.state.IsLoading = true
	s.mu.Unlock()

	user, err := s.auth.GetCurrentUser(ctx)
	if err == nil && user == nil {
		err = common.ErrNotLoggedIn
	}
	if err != nil {
		authErr := models.NewAuthError(models.CodeProfileError, err, "Failed to fetch user profile")
		s.mu.Lock()
		s.state.IsLoading = false
		s.state.Err = authErr
		s.mu.Unlock()
		return authErr
	}

	s.mu.Lock()
	s.state.User = user
	s.state.IsLoading = false
	s.state.Err = nil
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// UpdateUser merges a partial profile update into the stored view and the
// in-memory state.
func (s *Store) UpdateUser(ctx context.Context, patch models.ProfilePatch) error {
	user, err := s.auth.UpdateCurrentUser(ctx, patch)
	if err != nil {
		authErr := models.NewAuthError(models.CodeProfileError, err, "Failed to update user profile")
		s.mu.Lock()
		s.state.Err = authErr
		s.mu.Unlock()
		return authErr
	}

	s.mu.Lock()
	s.state.User = user
	s.state.Err = nil
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// ClearError drops the last error without touching the rest of the state.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Err = nil
	s.mu.Unlock()
}

// Reset clears user, token, authentication flag, and error.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.state.User = nil
	s.state.Token = ""
	s.state.IsAuthenticated = false
	s.state.Err = nil
	s.mu.Unlock()

	s.persist(ctx)
}

// persist writes the compound snapshot under the namespaced root key. The
// individual session keys are owned by the auth service; this blob is what
// restart rehydration diagnostics read. Persistence failures are logged,
// not propagated: the in-memory state is already committed.
func (s *Store) persist(ctx context.Context) {
	s.mu.RLock()
	snapshot := persistedState{
		Token:           s.state.Token,
		User:            s.state.User,
		IsAuthenticated: s.state.IsAuthenticated,
	}
	s.mu.RUnlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		s.log.Error(ctx, "failed to encode session state", "error", err)
		return
	}
	if err := s.meta.Set(ctx, s.stateKey, data); err != nil {
		s.log.Error(ctx, "failed to persist session state", "error", err)
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentUser returns the authenticated user view, or nil.
func (s *Store) CurrentUser() *models.AuthUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

// IsAuthenticated reports whether a user and token are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// IsLoading reports whether an auth operation is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsLoading
}

// CurrentError returns the last recorded error, or nil.
func (s *Store) CurrentError() *models.AuthError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Err
}

// IsInitialized reports whether the bootstrap has completed.
func (s *Store) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsInitialized
}
