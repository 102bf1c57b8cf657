// Package cli is the interactive dealership client.
//
// It wires configuration, the local SQLite store, the identity backend and
// the session controller behind a small REPL. Every "page" the user opens
// goes through the storefront route table first, so protected pages send
// anonymous users to log in and bring them back afterwards.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
