// Package client contains the client-side transport to the Credential Gateway.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Gateway interface): create
//     account, create/delete session, current identity, and the profile
//     document store.
//  2. A concrete REST implementation (see HTTPGateway) that keeps the session
//     secret in memory, optionally persists it through a SecretStore, sends it
//     as a bearer token, and maps HTTP status codes to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrConflict, ErrNotFound, ErrInvalidInput.
//
// Concurrency & Contexts
//
// HTTPGateway is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
