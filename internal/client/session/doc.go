// Package session owns the client's authentication state: the persisted
// bearer credential, the identity derived from it and the phase of the
// session (loading, authenticated, unauthenticated).
//
// A single Store is created at start-up and passed explicitly to whatever
// needs it. Initialize must run once before anything reads the state;
// Ready is closed when it has finished.
package session
