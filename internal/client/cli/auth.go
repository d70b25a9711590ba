package cli

import (
	"context"

	"github.com/dmitrijs2005/campuslink/internal/client/guard"
	"github.com/dmitrijs2005/campuslink/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getNewPassword = GetNewPassword

var (
	signInLocation   = guard.Location{Group: guard.GroupAuth, Screen: guard.ScreenSignIn}
	signUpLocation   = guard.Location{Group: guard.GroupAuth, Screen: guard.ScreenSignUp}
	userInfoLocation = guard.Location{Group: guard.GroupAuth, Screen: guard.ScreenUserInfo}
	homeLocation     = guard.Location{Group: guard.GroupApp, Screen: guard.ScreenHome}
)

// SignUp opens the sign-up screen, prompts for name, email and password and
// creates the account. A new account is always incomplete, so on success the
// user is taken to the user-info screen.
func (a *App) SignUp(ctx context.Context) error {
	if a.isAuthenticated() {
		return ErrAlreadySignedIn
	}
	a.Navigate(ctx, signUpLocation)

	fullName, err := getSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.SignUp(ctx, email, string(password), fullName); err != nil {
		return err
	}

	a.println("Account created, signed in as", email)
	a.Navigate(ctx, userInfoLocation)
	return nil
}

// SignIn opens the sign-in screen and prompts for credentials. The guard
// moves a complete profile into the app; an incomplete one is sent to
// user-info here.
func (a *App) SignIn(ctx context.Context) error {
	if a.isAuthenticated() {
		return ErrAlreadySignedIn
	}
	a.Navigate(ctx, signInLocation)

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.SignIn(ctx, email, string(password)); err != nil {
		return err
	}

	a.println("Signed in as", email)
	if snap := a.sessions.Snapshot(); snap.Authenticated() && !snap.ProfileComplete() {
		a.Navigate(ctx, userInfoLocation)
	}
	return nil
}

// SignOut never fails; gateway errors are only logged by the auth service.
func (a *App) SignOut(ctx context.Context) error {
	a.authService.SignOut(ctx)
	a.println("Signed out")
	return nil
}
