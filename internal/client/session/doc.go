// Package session persists the authenticated session record in exactly one
// of two tiers.
//
// # Tiers
//
//   - Persistent: the durable metadata table (SQLiteTier), surviving restarts.
//     Chosen when the user asked to be remembered.
//   - Volatile: process memory (MemoryTier), the equivalent of a per-tab
//     session store.
//
// # Invariant
//
// At most one tier holds a record at any time. Store.Save erases the other
// tier before writing, Store.Clear erases both. Store is the only writer of
// either tier; everything else goes through it.
//
// Load checks structure only (token and account id present). Whether the
// token is still fresh is decided by the backend.
package session
