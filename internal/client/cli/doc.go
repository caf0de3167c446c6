// Package cli provides the interactive ideapool command-line client.
//
// It wires configuration, the HTTP API client and an interactive REPL.
// Typical flow: register or log in, then manage ideas.
//
// Key features:
//   - Register / Login / Logout / Me
//   - List ideas page by page
//   - Add, edit and delete ideas
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
