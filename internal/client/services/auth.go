// Package services contains application services for the campuslink client.
// This file defines the auth controller: sign-up, sign-in, sign-out and
// profile completion against the Credential Gateway, keeping the session
// store and the durable sign-in flag in step.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	"github.com/dmitrijs2005/campuslink/internal/client/client"
	"github.com/dmitrijs2005/campuslink/internal/client/guard"
	"github.com/dmitrijs2005/campuslink/internal/client/models"
	"github.com/dmitrijs2005/campuslink/internal/client/session"
	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/logging"
)

// MinPasswordLength is the shortest password SignUp accepts.
const MinPasswordLength = 8

// AuthService defines the auth operations exposed to the UI layer.
//
// Contract:
//   - SignUp: create an account, then sign in with the same credentials.
//   - SignIn: create a session; the session store is populated on return.
//   - SignOut: always succeeds; local state is cleared before the gateway call.
//   - UpdateProfile: submit profile fields and mark the profile complete.
//   - Restore: startup identity check, reconciling the durable flag.
//   - ForceRefresh: re-run the identity check and bump the session revision.
//
// Callers must not run auth operations concurrently (e.g. SignOut while a
// SignIn is pending); the UI is expected to disable auth actions while one
// is in progress.
type AuthService interface {
	SignUp(ctx context.Context, email, password, fullName string) error
	SignIn(ctx context.Context, email, password string) error
	SignOut(ctx context.Context)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) error
	UpdateProfileDocument(ctx context.Context, doc []byte) error
	Restore(ctx context.Context)
	ForceRefresh(ctx context.Context)
	Session() session.Reader
}

// FlagStore is the durable local storage for the sign-in hint.
type FlagStore interface {
	SetFlag(ctx context.Context, name string, value bool) error
	GetFlag(ctx context.Context, name string) (value bool, ok bool, err error)
	DeleteFlag(ctx context.Context, name string) error
}

// authService is the concrete AuthService backed by a Gateway, the session
// store and a FlagStore.
type authService struct {
	gateway client.Gateway
	store   *session.Store
	flags   FlagStore
	nav     guard.Navigator
	log     logging.Logger
}

// NewAuthService wires the controller. nav may be nil when no navigation is
// mounted (e.g. in background jobs).
func NewAuthService(gateway client.Gateway, store *session.Store, flags FlagStore, nav guard.Navigator, log logging.Logger) AuthService {
	return &authService{gateway: gateway, store: store, flags: flags, nav: nav, log: log}
}

func (a *authService) Session() session.Reader {
	return a.store
}

func validateCredentials(email, password string) error {
	if !govalidator.StringLength(email, "3", "254") || !govalidator.IsEmail(email) {
		return fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	return nil
}

// SignUp creates the account and chains SignIn, since an account without a
// session is of no use to the caller.
func (a *authService) SignUp(ctx context.Context, email, password, fullName string) error {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return err
	}

	identity, err := a.gateway.CreateIdentity(ctx, email, password, strings.TrimSpace(fullName))
	switch {
	case errors.Is(err, client.ErrConflict):
		return fmt.Errorf("sign up: %w: %w", ErrDuplicateAccount, err)
	case errors.Is(err, client.ErrInvalidInput):
		return fmt.Errorf("sign up: %w: %w", ErrInvalidInput, err)
	case err != nil:
		return fmt.Errorf("sign up: %w: %w", ErrGateway, err)
	}
	a.log.Info(ctx, "account created", "user_id", identity.ID)

	if err := a.SignIn(ctx, email, password); err != nil {
		return fmt.Errorf("sign in after sign up: %w", err)
	}
	return nil
}

// SignIn creates a session, loads identity and profile into the store and
// writes the durable flag before returning.
func (a *authService) SignIn(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)

	if _, err := a.gateway.CreateSession(ctx, email, password); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return fmt.Errorf("sign in: %w: %w", ErrInvalidCredentials, err)
		}
		return fmt.Errorf("sign in: %w: %w", ErrGateway, err)
	}

	identity, err := a.gateway.GetCurrentIdentity(ctx)
	if err != nil {
		return fmt.Errorf("sign in: fetch identity: %w: %w", ErrGateway, err)
	}
	if identity == nil {
		return fmt.Errorf("sign in: %w: session has no identity", ErrGateway)
	}

	profile, err := a.gateway.GetProfile(ctx, identity.ID)
	if err != nil {
		a.log.Warn(ctx, "profile fetch failed after sign in", "user_id", identity.ID, "error", err)
		profile = nil
	}

	a.store.SetSession(ctx, *identity, profile)

	if err := a.flags.SetFlag(ctx, common.UserAuthenticatedFlag, true); err != nil {
		a.log.Warn(ctx, "durable flag write failed", "user_id", identity.ID, "error", err)
	}

	a.log.Info(ctx, "signed in", "user_id", identity.ID, "profile_complete", profile != nil && profile.ProfileComplete)
	return nil
}

// SignOut clears local state first so a failing gateway cannot leave the UI
// looking signed in. Gateway and flag failures are logged, never returned.
func (a *authService) SignOut(ctx context.Context) {
	a.store.Clear(ctx)

	if err := a.gateway.DeleteSession(ctx); err != nil {
		a.log.Warn(ctx, "delete session failed", "error", err)
	}
	if err := a.flags.DeleteFlag(ctx, common.UserAuthenticatedFlag); err != nil {
		a.log.Warn(ctx, "durable flag delete failed", "error", err)
	}

	if a.nav != nil {
		to, _ := guard.TargetSignIn.Location()
		if !guard.TargetSignIn.Satisfied(a.nav.Location()) {
			a.nav.Navigate(ctx, to)
		}
	}
	a.log.Info(ctx, "signed out")
}

// UpdateProfile submits update, marking the profile complete: finishing the
// guided profile flow is what makes a profile complete.
func (a *authService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	snap := a.store.Snapshot()
	if snap.Identity == nil {
		a.log.Error(ctx, "profile update without session")
		return fmt.Errorf("update profile: %w", ErrNotAuthenticated)
	}
	userID := snap.Identity.ID

	complete := true
	update.ProfileComplete = &complete

	profile, err := a.gateway.UpsertProfile(ctx, userID, update)
	if err != nil {
		return fmt.Errorf("update profile: %w: %w", ErrGateway, err)
	}
	profile.ProfileComplete = true
	if profile.UserID == "" {
		profile.UserID = userID
	}

	a.store.SetProfile(ctx, profile)
	a.store.ForceRefresh(ctx)

	a.log.Info(ctx, "profile updated", "user_id", userID)
	return nil
}

// UpdateProfileDocument decodes an external profile document, dropping
// gateway metadata keys, and submits it.
func (a *authService) UpdateProfileDocument(ctx context.Context, doc []byte) error {
	update, err := models.DecodeProfileUpdate(doc)
	if err != nil {
		return fmt.Errorf("update profile: %w: %w", ErrInvalidInput, err)
	}
	return a.UpdateProfile(ctx, update)
}

// Restore runs the startup identity check. The durable flag is consulted only
// afterwards and is corrected to match the gateway's answer.
func (a *authService) Restore(ctx context.Context) {
	a.store.Initialize(ctx)
	a.reconcileFlag(ctx)
}

func (a *authService) ForceRefresh(ctx context.Context) {
	a.store.ForceRefresh(ctx)
}

func (a *authService) reconcileFlag(ctx context.Context) {
	authenticated := a.store.Snapshot().Authenticated()

	hint, ok, err := a.flags.GetFlag(ctx, common.UserAuthenticatedFlag)
	if errors.Is(err, common.ErrTampered) {
		a.log.Warn(ctx, "durable flag failed verification, discarding", "error", err)
		ok = false
		if err := a.flags.DeleteFlag(ctx, common.UserAuthenticatedFlag); err != nil {
			a.log.Warn(ctx, "durable flag delete failed", "error", err)
		}
	} else if err != nil {
		a.log.Warn(ctx, "durable flag read failed", "error", err)
		return
	}

	switch {
	case authenticated && !(ok && hint):
		if err := a.flags.SetFlag(ctx, common.UserAuthenticatedFlag, true); err != nil {
			a.log.Warn(ctx, "durable flag write failed", "error", err)
		}
	case !authenticated && ok:
		if hint {
			a.log.Info(ctx, "durable flag said signed in but gateway has no session")
		}
		if err := a.flags.DeleteFlag(ctx, common.UserAuthenticatedFlag); err != nil {
			a.log.Warn(ctx, "durable flag delete failed", "error", err)
		}
	}
}
