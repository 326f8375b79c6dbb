package domain

// Participant is a room member. NativeLanguage decides which message
// bucket they read; it may be a name ("French") or a code ("fr").
type Participant struct {
	ID             string
	Email          string
	Username       string
	NativeLanguage string
}

// Identity is the already-authenticated caller of an operation.
// It is passed explicitly into every operation that needs one; the
// core never reads ambient session state.
type Identity struct {
	ID      string
	Display string
}

// IsZero reports whether no authenticated identity is present.
func (i Identity) IsZero() bool {
	return i.ID == ""
}
