package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
	"fintrack/internal/testutil"
)

func TestCreateUserDuplicate(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	if _, err := store.CreateUser(ctx, "alice", "h1"); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if _, err := store.CreateUser(ctx, "alice", "h2"); !errors.Is(err, core.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	u, err := store.UserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("lookup alice: %v", err)
	}
	if u.PasswordHash != "h1" {
		t.Fatalf("duplicate insert must not overwrite, got hash %q", u.PasswordHash)
	}
	if _, err := store.UserByUsername(ctx, "bob"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTransactionsOrder(t *testing.T) {
	store := testutil.NewStore(t)
	alice := testutil.CreateUser(t, store, "alice")
	bob := testutil.CreateUser(t, store, "bob")

	first := testutil.CreateTransaction(t, store, alice, core.TransactionInput{Amount: "1", Kind: "expense", Category: "a", Date: "2024-03-01"})
	newest := testutil.CreateTransaction(t, store, alice, core.TransactionInput{Amount: "2", Kind: "expense", Category: "b", Date: "2024-04-01"})
	second := testutil.CreateTransaction(t, store, alice, core.TransactionInput{Amount: "3", Kind: "income", Category: "c", Date: "2024-03-01"})
	testutil.CreateTransaction(t, store, bob, core.TransactionInput{Amount: "4", Kind: "income", Category: "d", Date: "2024-05-01"})

	got, err := store.ListTransactions(context.Background(), alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []core.TransactionID{newest.ID, first.ID, second.ID}
	if len(got) != len(want) {
		t.Fatalf("expected %d transactions, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d", i, id, got[i].ID)
		}
	}
	if got[0].Date.String() != "2024-04-01" || got[0].Amount.Cents != 200 {
		t.Fatalf("round trip mismatch: %+v", got[0])
	}
}

func TestUpdateDeleteOwnership(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, store, "alice")
	mallory := testutil.CreateUser(t, store, "mallory")

	tx := testutil.CreateTransaction(t, store, alice, core.TransactionInput{Amount: "50", Kind: "expense", Category: "food", Date: "2024-03-01"})

	forged := tx
	forged.UserID = mallory
	forged.Amount = core.Money{Cents: 1}
	if _, err := store.UpdateTransaction(ctx, forged); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on update, got %v", err)
	}
	if _, err := store.DeleteTransaction(ctx, mallory, tx.ID); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
	if _, err := store.DeleteTransaction(ctx, alice, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	unchanged, err := store.Transaction(ctx, alice, tx.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if unchanged.Amount.Cents != 5000 {
		t.Fatalf("row changed by foreign user: %+v", unchanged)
	}

	edit := tx
	edit.Amount = core.Money{Cents: 7500}
	edit.Category = "groceries"
	updated, err := store.UpdateTransaction(ctx, edit)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Amount.Cents != 7500 || updated.Category != "groceries" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if _, err := store.DeleteTransaction(ctx, alice, tx.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := store.Transaction(ctx, alice, tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected deleted row to be gone, got %v", err)
	}
}

func TestUpsertBudget(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, store, "alice")
	march := core.Period{Year: 2024, Month: 3}

	created, err := store.UpsertBudget(ctx, core.Budget{UserID: alice, Category: "food", Limit: core.Money{Cents: 20000}, Period: march})
	if err != nil || !created {
		t.Fatalf("first upsert: created=%v err=%v", created, err)
	}
	created, err = store.UpsertBudget(ctx, core.Budget{UserID: alice, Category: "food", Limit: core.Money{Cents: 30000}, Period: march})
	if err != nil || created {
		t.Fatalf("second upsert: created=%v err=%v", created, err)
	}
	if _, err := store.UpsertBudget(ctx, core.Budget{UserID: alice, Category: "food", Limit: core.Money{Cents: 100}, Period: march.Next()}); err != nil {
		t.Fatalf("april upsert: %v", err)
	}

	budgets, err := store.ListBudgets(ctx, alice, march)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(budgets) != 1 || budgets[0].Limit.Cents != 30000 {
		t.Fatalf("expected one March budget with latest limit, got %+v", budgets)
	}
}

func TestSessions(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, store, "alice")
	now := time.Now().UTC()

	live := storage.Session{ID: "live", UserID: alice, ExpiresAt: now.Add(time.Hour)}
	old := storage.Session{ID: "old", UserID: alice, ExpiresAt: now.Add(-time.Hour)}
	for _, s := range []storage.Session{live, old} {
		if err := store.CreateSession(ctx, s); err != nil {
			t.Fatalf("create session %s: %v", s.ID, err)
		}
	}

	got, err := store.Session(ctx, "live")
	if err != nil || !got.Live(now) || got.UserID != alice {
		t.Fatalf("live session: %+v err=%v", got, err)
	}

	if err := store.RevokeSession(ctx, "live"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	got, _ = store.Session(ctx, "live")
	if got.Live(now) {
		t.Fatal("revoked session must not be live")
	}

	n, err := store.DeleteExpiredSessions(ctx, now)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 sessions removed, got %d err=%v", n, err)
	}
	if _, err := store.Session(ctx, "old"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendAuditIdempotent(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	entry := storage.AuditEntry{
		EventID:     "evt-1",
		UserID:      7,
		Action:      "transaction.created",
		EntityID:    1,
		Category:    "food",
		AmountCents: 5000,
		Kind:        "expense",
		OccurredAt:  time.Now().UTC(),
	}

	inserted, err := store.AppendAudit(ctx, entry)
	if err != nil || !inserted {
		t.Fatalf("first append: inserted=%v err=%v", inserted, err)
	}
	inserted, err = store.AppendAudit(ctx, entry)
	if err != nil || inserted {
		t.Fatalf("redelivery: inserted=%v err=%v", inserted, err)
	}

	entries, err := store.ListAudit(ctx, 7, 10)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one entry, got %d err=%v", len(entries), err)
	}
}
