// Package cli provides the interactive Handluz command-line client.
//
// It wires configuration, the local session database, the remote club
// backend, and an interactive REPL around the auth manager. Typical flow:
// restore the saved session at startup, then execute user commands.
//
// Commands:
//   - login / logout
//   - whoami (identity and derived permissions)
//   - refresh (re-sync the profile after an external change)
//   - avatar <file> (upload a profile photo)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
