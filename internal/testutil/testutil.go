// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// NewStore opens a migrated SQLite store in a per-test directory.
func NewStore(t *testing.T) *storage.Store {
	t.Helper()

	store, err := storage.Open(storage.Config{
		Driver:     storage.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}, log.Discard())
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// CreateUser inserts a user with a placeholder hash and returns its id.
func CreateUser(t *testing.T, store *storage.Store, username string) core.UserID {
	t.Helper()

	u, err := store.CreateUser(context.Background(), username, "not-a-real-hash")
	if err != nil {
		t.Fatalf("Failed to create user %q: %v", username, err)
	}
	return u.ID
}

// CreateTransaction inserts a parsed transaction for userID.
func CreateTransaction(t *testing.T, store *storage.Store, userID core.UserID, in core.TransactionInput) core.Transaction {
	t.Helper()

	tx, err := in.Parse()
	if err != nil {
		t.Fatalf("Invalid test transaction %+v: %v", in, err)
	}
	tx.UserID = userID
	created, err := store.CreateTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}
	return created
}
