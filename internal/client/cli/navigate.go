package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/campuslink/internal/client/guard"
)

var screens = map[string]guard.Location{
	guard.ScreenSignIn:   signInLocation,
	guard.ScreenSignUp:   signUpLocation,
	guard.ScreenUserInfo: userInfoLocation,
	guard.ScreenHome:     homeLocation,
}

// GoTo moves to a named screen. The guard may redirect straight away.
func (a *App) GoTo(ctx context.Context, screen string) error {
	to, ok := screens[strings.ToLower(screen)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScreen, screen)
	}
	a.Navigate(ctx, to)
	return nil
}
