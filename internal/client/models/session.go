package models

// Session is a point-in-time copy of the session store.
//
// Profile is only meaningful while Identity is set. Initialized turns true
// once, after the first identity check completes, and never goes back.
type Session struct {
	Identity       *Identity
	Profile        *Profile
	Initialized    bool
	ProfileMissing bool

	// Revision grows on every forced refresh so observers comparing by
	// identity rather than value still notice.
	Revision uint64
}

// Authenticated reports whether an identity is cached.
func (s Session) Authenticated() bool {
	return s.Identity != nil
}

// ProfileComplete reports whether the cached profile finished the guided flow.
func (s Session) ProfileComplete() bool {
	return s.Identity != nil && s.Profile != nil && s.Profile.ProfileComplete
}

// Clone returns a deep copy so callers cannot mutate store internals.
func (s Session) Clone() Session {
	out := s
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	if s.Profile != nil {
		p := s.Profile.Clone()
		out.Profile = &p
	}
	return out
}
