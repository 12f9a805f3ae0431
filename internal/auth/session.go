package auth

// Session is the current caller's identity as seen by the views. User is nil
// for anonymous callers. Pending is true while resolution is still in flight;
// anything gating on identity must treat a pending session as denied.
type Session struct {
	User    *User
	Pending bool
}

// Anonymous is the session of a caller with no resolved identity
func Anonymous() Session {
	return Session{}
}

// SignedIn reports whether the session has a resolved user
func (s Session) SignedIn() bool {
	return !s.Pending && s.User != nil
}

// Email returns the resolved user's email, or "" for anonymous and pending
// sessions
func (s Session) Email() string {
	if !s.SignedIn() {
		return ""
	}
	return s.User.Email
}
