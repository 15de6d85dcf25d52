package core_test

import (
	"context"
	"errors"
	"testing"

	"bookshop/internal/core"

	"github.com/shopspring/decimal"
)

func TestCatalogService_CreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	svc := core.NewCatalogService(pool)

	created, err := svc.CreateItem(ctx, "Dune", "Frank Herbert", "Science Fiction",
		decimal.RequireFromString("12.50"), 20)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if created.Stock != 20 || !created.IsActive {
		t.Errorf("unexpected item state: %+v", created)
	}

	got, err := svc.GetItem(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.Name != "Dune" || !got.UnitPrice.Equal(created.UnitPrice) {
		t.Errorf("unexpected item: %+v", got)
	}

	// Item names are unique; the seeder and re-imports rely on it.
	if _, err := svc.CreateItem(ctx, "Dune", "Someone Else", "Reprints",
		decimal.RequireFromString("5.00"), 1); !errors.Is(err, core.ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate name, got %v", err)
	}

	if _, err := svc.CreateItem(ctx, "  ", "", "", decimal.Zero, 0); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for blank name, got %v", err)
	}
	if _, err := svc.CreateItem(ctx, "Bad", "", "", decimal.RequireFromString("-1"), 0); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative price, got %v", err)
	}
}

func TestCatalogService_UpdateDoesNotTouchStock(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	svc := core.NewCatalogService(pool)

	created, err := svc.CreateItem(ctx, "Dune", "Frank Herbert", "Science Fiction",
		decimal.RequireFromString("12.50"), 20)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	updated, err := svc.UpdateItem(ctx, created.ID, "Dune Messiah", "Frank Herbert", "Science Fiction",
		decimal.RequireFromString("14.00"))
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if updated.Name != "Dune Messiah" || updated.Stock != 20 {
		t.Errorf("expected renamed item with stock untouched, got %+v", updated)
	}
}

func TestCatalogService_DeactivateHidesFromListing(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	svc := core.NewCatalogService(pool)

	created, err := svc.CreateItem(ctx, "Dune", "Frank Herbert", "Science Fiction",
		decimal.RequireFromString("12.50"), 20)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	if err := svc.DeactivateItem(ctx, created.ID); err != nil {
		t.Fatalf("DeactivateItem failed: %v", err)
	}
	items, err := svc.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected deactivated item hidden from listing, got %d items", len(items))
	}

	// Still readable directly for historical bill lines.
	got, err := svc.GetItem(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.IsActive {
		t.Error("expected item inactive")
	}

	if err := svc.DeactivateItem(ctx, 999999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_Restock(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	svc := core.NewCatalogService(pool)

	created, err := svc.CreateItem(ctx, "Dune", "Frank Herbert", "Science Fiction",
		decimal.RequireFromString("12.50"), 3)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	restocked, err := svc.Restock(ctx, created.ID, 7)
	if err != nil {
		t.Fatalf("Restock failed: %v", err)
	}
	if restocked.Stock != 10 {
		t.Errorf("expected stock 10, got %d", restocked.Stock)
	}

	if _, err := svc.Restock(ctx, created.ID, 0); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for qty 0, got %v", err)
	}
}

func TestCustomerService_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	svc := core.NewCustomerService(pool)

	created, err := svc.CreateCustomer(ctx, "ACC-100", "Alice Reader", "alice@example.com", "", "")
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}

	if _, err := svc.CreateCustomer(ctx, "ACC-100", "Duplicate", "", "", ""); !errors.Is(err, core.ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate account, got %v", err)
	}

	updated, err := svc.UpdateCustomer(ctx, created.ID, "Alice R.", "alice@example.com", "555-0100", "1 Main St")
	if err != nil {
		t.Fatalf("UpdateCustomer failed: %v", err)
	}
	if updated.Name != "Alice R." || updated.Account != "ACC-100" {
		t.Errorf("unexpected customer after update: %+v", updated)
	}

	found, err := svc.FindByAccount(ctx, "ACC-100")
	if err != nil {
		t.Fatalf("FindByAccount failed: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("expected customer %d, got %d", created.ID, found.ID)
	}

	if _, err := svc.FindByAccount(ctx, "NO-SUCH"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
