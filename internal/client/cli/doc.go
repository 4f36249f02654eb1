// Package cli provides the interactive gophauth command-line client.
//
// The REPL signs users up and in, shows the current profile, refreshes the
// access token and signs out of one or all sessions. A background watcher
// polls the server's health endpoint and shows online or offline status in
// the prompt.
//
// Passwords are read without echo and wiped after use. The refresh token
// never leaves the HTTP client's cookie jar.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
