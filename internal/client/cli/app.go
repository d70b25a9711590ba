package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/campuslink/internal/client/client"
	"github.com/dmitrijs2005/campuslink/internal/client/config"
	"github.com/dmitrijs2005/campuslink/internal/client/guard"
	"github.com/dmitrijs2005/campuslink/internal/client/securestore"
	"github.com/dmitrijs2005/campuslink/internal/client/services"
	"github.com/dmitrijs2005/campuslink/internal/client/session"
	"github.com/dmitrijs2005/campuslink/internal/filex"
	"github.com/dmitrijs2005/campuslink/internal/logging"

	_ "modernc.org/sqlite"
)

// startLocation is where the app opens before the first identity check.
var startLocation = guard.Location{Group: guard.GroupApp, Screen: guard.ScreenHome}

type App struct {
	config      *config.Config
	log         logging.Logger
	repos       *client.Repositories
	sessions    session.Reader
	authService services.AuthService
	guard       *guard.Guard
	reader      *bufio.Reader
	out         io.Writer

	mu  sync.Mutex
	loc guard.Location
}

var _ guard.Navigator = (*App)(nil)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, err := logging.New(os.Stderr, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, err
	}

	if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}

	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	secrets, err := securestore.Open(ctx, repos.Metadata, c.KeyFile)
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("open secure store: %w", err)
	}

	gateway, err := client.NewHTTPGateway(client.HTTPGatewayConfig{
		URL:       c.GatewayURL,
		ProjectID: c.ProjectID,
		Timeout:   c.RequestTimeout,
		Secrets:   secrets,
	})
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	a := &App{
		config: c,
		log:    log,
		repos:  repos,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		loc:    startLocation,
	}

	store := session.NewStore(gateway, log)
	a.sessions = store
	a.guard = guard.New(store, a, log)
	a.authService = services.NewAuthService(gateway, store, secrets, a, log)

	return a, nil
}

// Run restores the previous session, starts the route guard and blocks in
// the REPL until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) error {
	if a.repos != nil {
		defer func() {
			if err := a.repos.Close(); err != nil {
				a.log.Error(ctx, "close database", "error", err)
			}
		}()
	}

	stop := a.guard.Start(ctx)
	defer stop()

	a.println("Welcome to campuslink (type 'help' for commands)")
	a.authService.Restore(ctx)

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

// Location implements guard.Navigator.
func (a *App) Location() guard.Location {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loc
}

// Navigate implements guard.Navigator. It moves to the given screen and lets
// the guard re-check the new location.
func (a *App) Navigate(ctx context.Context, to guard.Location) {
	a.mu.Lock()
	changed := a.loc != to
	a.loc = to
	a.mu.Unlock()

	if !changed {
		return
	}
	a.println("->", to.String())

	if a.guard != nil {
		a.guard.LocationChanged(ctx)
	}
}

func (a *App) isAuthenticated() bool {
	return a.sessions != nil && a.sessions.Snapshot().Authenticated()
}

func (a *App) status() string {
	s := a.Location().String()
	if a.sessions == nil {
		return s
	}
	snap := a.sessions.Snapshot()
	switch {
	case !snap.Initialized:
		return s + " (checking)"
	case snap.Identity != nil:
		return fmt.Sprintf("%s (%s)", s, snap.Identity.Email)
	default:
		return s
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
