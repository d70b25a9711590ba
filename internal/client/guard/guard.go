package guard

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/campuslink/internal/client/models"
	"github.com/dmitrijs2005/campuslink/internal/client/session"
	"github.com/dmitrijs2005/campuslink/internal/logging"
)

// Navigator is the navigation mounting point the guard drives.
type Navigator interface {
	Location() Location
	Navigate(ctx context.Context, to Location)
}

// Guard re-evaluates Decide whenever the session or the location changes and
// issues at most one redirect per evaluation.
type Guard struct {
	sessions session.Reader
	nav      Navigator
	log      logging.Logger

	mu      sync.Mutex
	running bool
	pending bool
}

func New(sessions session.Reader, nav Navigator, log logging.Logger) *Guard {
	return &Guard{sessions: sessions, nav: nav, log: log}
}

// Start subscribes to session changes and evaluates once. The returned
// function stops the subscription.
func (g *Guard) Start(ctx context.Context) (stop func()) {
	unsubscribe := g.sessions.Subscribe(func(models.Session) {
		g.Evaluate(ctx)
	})
	g.Evaluate(ctx)
	return unsubscribe
}

// LocationChanged must be called by the navigation layer after every move.
func (g *Guard) LocationChanged(ctx context.Context) {
	g.Evaluate(ctx)
}

// Evaluate reads the current session and location and redirects if policy
// requires it. Calls arriving while an evaluation runs (including calls
// made from inside Navigate) are folded into one more pass.
func (g *Guard) Evaluate(ctx context.Context) {
	g.mu.Lock()
	if g.running {
		g.pending = true
		g.mu.Unlock()
		return
	}
	g.running = true
	g.mu.Unlock()

	for {
		g.evaluateOnce(ctx)

		g.mu.Lock()
		if !g.pending {
			g.running = false
			g.mu.Unlock()
			return
		}
		g.pending = false
		g.mu.Unlock()
	}
}

func (g *Guard) evaluateOnce(ctx context.Context) {
	state := StateOf(g.sessions.Snapshot())
	loc := g.nav.Location()

	target := Decide(state, loc)
	if target.Satisfied(loc) {
		return
	}

	to, ok := target.Location()
	if !ok {
		return
	}
	g.log.Info(ctx, "route guard redirect", "state", state.String(), "from", loc.String(), "to", to.String())
	g.nav.Navigate(ctx, to)
}
