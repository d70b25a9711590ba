// Package guard decides which area of the app the user may see.
//
// Decide is a pure function of (State, Location); Guard wires it to the
// session store and a Navigator.
package guard

import "github.com/dmitrijs2005/campuslink/internal/client/models"

// State is the auth state derived from a session snapshot.
type State int

const (
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticatedIncomplete
	StateAuthenticatedComplete
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticatedIncomplete:
		return "authenticated-incomplete"
	case StateAuthenticatedComplete:
		return "authenticated-complete"
	default:
		return "invalid"
	}
}

// StateOf derives the guard state from a session.
func StateOf(s models.Session) State {
	switch {
	case !s.Initialized:
		return StateUnknown
	case s.Identity == nil:
		return StateUnauthenticated
	case s.Profile != nil && s.Profile.ProfileComplete:
		return StateAuthenticatedComplete
	default:
		return StateAuthenticatedIncomplete
	}
}

// Group is a navigational area of the app.
type Group string

const (
	GroupAuth Group = "auth"
	GroupApp  Group = "app"
)

// Screens known to the guard.
const (
	ScreenSignIn   = "sign-in"
	ScreenSignUp   = "sign-up"
	ScreenUserInfo = "user-info"
	ScreenHome     = "home"
)

// Location is the screen currently shown.
type Location struct {
	Group  Group
	Screen string
}

func (l Location) String() string {
	if l.Screen == "" {
		return string(l.Group)
	}
	return string(l.Group) + "/" + l.Screen
}

func (l Location) InAuthGroup() bool { return l.Group == GroupAuth }

func (l Location) IsUserInfo() bool {
	return l.Group == GroupAuth && l.Screen == ScreenUserInfo
}

// Target is where the guard wants the user to be.
type Target int

const (
	TargetNone Target = iota
	TargetSignIn
	TargetUserInfo
	TargetAppGroup
)

func (t Target) String() string {
	switch t {
	case TargetNone:
		return "none"
	case TargetSignIn:
		return "sign-in"
	case TargetUserInfo:
		return "user-info"
	case TargetAppGroup:
		return "app-group"
	default:
		return "invalid"
	}
}

// Location returns the screen a redirect to t lands on.
func (t Target) Location() (Location, bool) {
	switch t {
	case TargetSignIn:
		return Location{Group: GroupAuth, Screen: ScreenSignIn}, true
	case TargetUserInfo:
		return Location{Group: GroupAuth, Screen: ScreenUserInfo}, true
	case TargetAppGroup:
		return Location{Group: GroupApp, Screen: ScreenHome}, true
	default:
		return Location{}, false
	}
}

// Satisfied reports whether loc already is where t points.
func (t Target) Satisfied(loc Location) bool {
	switch t {
	case TargetNone:
		return true
	case TargetSignIn:
		return loc.Group == GroupAuth && loc.Screen == ScreenSignIn
	case TargetUserInfo:
		return loc.IsUserInfo()
	case TargetAppGroup:
		return loc.Group == GroupApp
	default:
		return false
	}
}

// Decide maps (state, location) to the required redirect target.
//
//	Unauthenticated          outside auth group        -> sign-in
//	AuthenticatedComplete    anywhere in auth group    -> app group
//	AuthenticatedIncomplete  outside auth group        -> user-info
//	anything else                                      -> none
//
// Unknown never redirects, so nothing flickers before the first check.
func Decide(state State, loc Location) Target {
	switch state {
	case StateUnauthenticated:
		if !loc.InAuthGroup() {
			return TargetSignIn
		}
	case StateAuthenticatedComplete:
		if loc.InAuthGroup() {
			return TargetAppGroup
		}
	case StateAuthenticatedIncomplete:
		if !loc.InAuthGroup() && !loc.IsUserInfo() {
			return TargetUserInfo
		}
	}
	return TargetNone
}
