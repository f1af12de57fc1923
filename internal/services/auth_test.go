package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/models"
	"github.com/dmitrijs2005/authkeeper/internal/token"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:authsvc_"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE Users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT,
  email TEXT UNIQUE,
  password TEXT
);
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func newService(t *testing.T, db *sql.DB) AuthService {
	t.Helper()
	return NewAuthService(db, token.NewCodec(0), nil)
}

func getMeta(t *testing.T, db *sql.DB, k string) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM metadata WHERE key=?`, k).Scan(&v)
	if err == sql.ErrNoRows {
		return nil
	}
	require.NoError(t, err)
	return v
}

// ---- TESTS ----

func TestRegister_ThenLogin_Succeeds(t *testing.T) {
	db := setupDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "Ann", res.User.Name)
	require.Equal(t, "ann@x.com", res.User.Email)
	require.True(t, strings.HasPrefix(res.Token, "Bearer_"))

	// The same credentials keep working.
	res, err = svc.Login(ctx, "ann@x.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "Ann", res.User.Name)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Imposter", "ann@x.com", "other")
	require.ErrorIs(t, err, common.ErrEmailTaken)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM Users WHERE email=?`, "ann@x.com").Scan(&n))
	require.Equal(t, 1, n)
}

func TestLogin_WrongPassword_InvalidCredentials(t *testing.T) {
	db := setupDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ann@x.com", "wrong")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail_SameError(t *testing.T) {
	db := setupDB(t)
	svc := newService(t, db)

	_, err := svc.Login(context.Background(), "nobody@x.com", "whatever")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_PersistsSessionKeys(t *testing.T) {
	db := setupDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	require.Equal(t, []byte(res.Token), getMeta(t, db, common.AccessTokenKey))
	require.Equal(t, []byte("true"), getMeta(t, db, common.IsLoggedInKey))
	require.Contains(t, string(getMeta(t, db, common.UserDataKey)), `"email":"ann@x.com"`)
}

func TestLogout_ClearsSessionKeys(t *testing.T) {
	db := setupDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	ok, err := svc.IsAuthenticated(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.Logout(ctx))

	require.Nil(t, getMeta(t, db, common.AccessTokenKey))
	require.Nil(t, getMeta(t, db, common.UserDataKey))
	require.Nil(t, getMeta(t, db, common.IsLoggedInKey))

	ok, err = svc.IsAuthenticated(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLogout_StorageFailure_SurfacesError(t *testing.T) {
	db := setupDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	// Sabotage the store so that every cleanup call fails.
	_, err := db.Exec(`DROP TABLE metadata`)
	require.NoError(t, err)

	err = svc.Logout(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "logout error")
}

func TestGetCurrentUser(t *testing.T) {
	db := setupDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	// Nothing stored: absent, not an error.
	user, err := svc.GetCurrentUser(ctx)
	require.NoError(t, err)
	require.Nil(t, user)

	_, err = svc.Register(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	user, err = svc.GetCurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, "Ann", user.Name)
}

func TestGetCurrentUser_MalformedStoredData(t *testing.T) {
	db := setupDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO metadata(key,value) VALUES(?,?)`, common.UserDataKey, []byte("{broken"))
	require.NoError(t, err)

	_, err = svc.GetCurrentUser(ctx)
	require.ErrorIs(t, err, common.ErrCorruptState)
}

func TestIsAuthenticated_FlagWithoutUser(t *testing.T) {
	db := setupDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO metadata(key,value) VALUES(?,?)`, common.IsLoggedInKey, []byte("true"))
	require.NoError(t, err)

	ok, err := svc.IsAuthenticated(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUpdateCurrentUser(t *testing.T) {
	db := setupDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	// Not logged in yet.
	name := "Annabel"
	_, err := svc.UpdateCurrentUser(ctx, models.ProfilePatch{Name: &name})
	require.ErrorIs(t, err, common.ErrNotLoggedIn)

	_, err = svc.Register(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	updated, err := svc.UpdateCurrentUser(ctx, models.ProfilePatch{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Annabel", updated.Name)
	require.Equal(t, "ann@x.com", updated.Email)

	// The merge is persisted.
	user, err := svc.GetCurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "Annabel", user.Name)
}
