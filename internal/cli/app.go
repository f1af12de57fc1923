// Package cli implements the terminal front end: a small REPL over the
// session store, plus the home screen rendered after login.
package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/config"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/services"
	"github.com/dmitrijs2005/authkeeper/internal/session"
	"github.com/dmitrijs2005/authkeeper/internal/storage"
	"github.com/dmitrijs2005/authkeeper/internal/token"
)

type App struct {
	config *config.Config
	repos  *storage.Repositories
	store  *session.Store
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	repos, err := storage.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	logger := logging.NewSlogLogger(slog.Default())
	codec := token.NewCodec(c.SessionTTL)
	auth := services.NewAuthService(repos.DB, codec, logger)
	store := session.NewStore(auth, repos.Metadata, c.StorageNamespace, logger)

	return &App{
		config: c,
		repos:  repos,
		store:  store,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Run bootstraps the session and enters the command loop.
func (a *App) Run(ctx context.Context) {
	defer a.repos.Close()

	if _, err := a.store.Initialize(ctx); err != nil {
		log.Printf("Session restore failed: %s", err.Error())
	}
	if user := a.store.CurrentUser(); user != nil {
		log.Printf("Welcome back, %s!", user.Name)
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}
