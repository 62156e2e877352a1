// Package cli provides the interactive attendance command-line client.
//
// On start the App resolves the saved session (Session.Initialize) and waits
// for it before showing the first prompt. The App is also the session's
// Navigator: its location is the current screen (/login, /student,
// /faculty, /admin) and a redirect drops every cached view, the terminal
// equivalent of a full page reload.
//
// Commands are gated on the signed-in role; see runREPL for the list.
package cli
