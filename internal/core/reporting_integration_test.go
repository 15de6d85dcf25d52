package core_test

import (
	"context"
	"testing"
	"time"

	"bookshop/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// seedBills builds three bills for the reporting tests: a paid one for
// Alice (30.00), a pending one for Bob (10.00), and a cancelled one for
// Alice.
func seedBills(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	seedCustomer(t, pool, "ACC-100", "Alice Reader")
	seedCustomer(t, pool, "ACC-200", "Bob Browser")
	aID := seedItem(t, pool, "Book A", "10.00", 50)
	bID := seedItem(t, pool, "Book B", "5.00", 50)

	svc := core.NewBillingService(pool)

	paid, err := svc.CreateBill(ctx, "ACC-100")
	if err != nil {
		t.Fatalf("failed to create paid bill: %v", err)
	}
	if _, err := svc.AddItem(ctx, paid.ID, aID, 2); err != nil {
		t.Fatalf("failed to add to paid bill: %v", err)
	}
	if _, err := svc.AddItem(ctx, paid.ID, bID, 2); err != nil {
		t.Fatalf("failed to add to paid bill: %v", err)
	}
	if _, err := svc.MarkPaid(ctx, paid.ID); err != nil {
		t.Fatalf("failed to pay bill: %v", err)
	}

	pending, err := svc.CreateBill(ctx, "ACC-200")
	if err != nil {
		t.Fatalf("failed to create pending bill: %v", err)
	}
	if _, err := svc.AddItem(ctx, pending.ID, aID, 1); err != nil {
		t.Fatalf("failed to add to pending bill: %v", err)
	}

	cancelled, err := svc.CreateBill(ctx, "ACC-100")
	if err != nil {
		t.Fatalf("failed to create cancelled bill: %v", err)
	}
	if _, err := svc.AddItem(ctx, cancelled.ID, bID, 4); err != nil {
		t.Fatalf("failed to add to cancelled bill: %v", err)
	}
	if _, err := svc.Cancel(ctx, cancelled.ID); err != nil {
		t.Fatalf("failed to cancel bill: %v", err)
	}
}

func TestReportingService_Statistics(t *testing.T) {
	pool := setupTestDB(t)
	seedBills(t, pool)

	svc := core.NewReportingService(pool)
	st, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}

	if st.Total != 3 || st.Pending != 1 || st.Paid != 1 || st.Cancelled != 1 {
		t.Errorf("unexpected counts: %+v", st)
	}
	// Only the paid bill counts toward revenue.
	if want := decimal.RequireFromString("30.00"); !st.Revenue.Equal(want) {
		t.Errorf("expected revenue 30.00, got %s", st.Revenue)
	}
}

func TestReportingService_RevenueForPeriod(t *testing.T) {
	pool := setupTestDB(t)
	seedBills(t, pool)

	svc := core.NewReportingService(pool)
	now := time.Now()

	revenue, err := svc.RevenueForPeriod(context.Background(), now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("RevenueForPeriod failed: %v", err)
	}
	if want := decimal.RequireFromString("30.00"); !revenue.Equal(want) {
		t.Errorf("expected revenue 30.00, got %s", revenue)
	}

	// An empty window yields zero, not an error.
	revenue, err = svc.RevenueForPeriod(context.Background(), now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("RevenueForPeriod on empty window failed: %v", err)
	}
	if !revenue.IsZero() {
		t.Errorf("expected zero revenue for empty window, got %s", revenue)
	}
}

func TestReportingService_SearchBills(t *testing.T) {
	pool := setupTestDB(t)
	seedBills(t, pool)

	svc := core.NewReportingService(pool)
	ctx := context.Background()

	t.Run("by customer name substring", func(t *testing.T) {
		bills, err := svc.SearchBills(ctx, core.BillFilter{CustomerName: "alice"})
		if err != nil {
			t.Fatalf("SearchBills failed: %v", err)
		}
		if len(bills) != 2 {
			t.Fatalf("expected 2 bills for alice, got %d", len(bills))
		}
		for _, b := range bills {
			if b.CustomerName != "Alice Reader" {
				t.Errorf("unexpected customer: %s", b.CustomerName)
			}
		}
	})

	t.Run("by status", func(t *testing.T) {
		bills, err := svc.SearchBills(ctx, core.BillFilter{Status: core.BillStatusPaid})
		if err != nil {
			t.Fatalf("SearchBills failed: %v", err)
		}
		if len(bills) != 1 || bills[0].Status != core.BillStatusPaid {
			t.Fatalf("expected one PAID bill, got %+v", bills)
		}
	})

	t.Run("by total range", func(t *testing.T) {
		min := decimal.RequireFromString("15.00")
		bills, err := svc.SearchBills(ctx, core.BillFilter{MinTotal: &min})
		if err != nil {
			t.Fatalf("SearchBills failed: %v", err)
		}
		for _, b := range bills {
			if b.Total.LessThan(min) {
				t.Errorf("bill %d total %s below minimum", b.ID, b.Total)
			}
		}
		if len(bills) != 2 {
			t.Errorf("expected 2 bills with total >= 15.00, got %d", len(bills))
		}
	})

	t.Run("no match is empty not error", func(t *testing.T) {
		bills, err := svc.SearchBills(ctx, core.BillFilter{CustomerName: "nobody"})
		if err != nil {
			t.Fatalf("SearchBills failed: %v", err)
		}
		if len(bills) != 0 {
			t.Errorf("expected no bills, got %d", len(bills))
		}
	})
}

func TestReportingService_ListByStatus(t *testing.T) {
	pool := setupTestDB(t)
	seedBills(t, pool)

	svc := core.NewReportingService(pool)
	bills, err := svc.ListByStatus(context.Background(), core.BillStatusPending)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(bills) != 1 || bills[0].Account != "ACC-200" {
		t.Fatalf("expected Bob's pending bill, got %+v", bills)
	}
}

func TestReportingService_ListToday(t *testing.T) {
	pool := setupTestDB(t)
	seedBills(t, pool)

	svc := core.NewReportingService(pool)
	bills, err := svc.ListToday(context.Background())
	if err != nil {
		t.Fatalf("ListToday failed: %v", err)
	}
	if len(bills) != 3 {
		t.Errorf("expected all 3 bills created today, got %d", len(bills))
	}
}

func TestReportingService_TopCustomers(t *testing.T) {
	pool := setupTestDB(t)
	seedBills(t, pool)

	svc := core.NewReportingService(pool)
	top, err := svc.TopCustomers(context.Background(), 5)
	if err != nil {
		t.Fatalf("TopCustomers failed: %v", err)
	}

	// Only Alice has a paid bill; Bob's pending one does not rank.
	if len(top) != 1 {
		t.Fatalf("expected one ranked customer, got %d", len(top))
	}
	if top[0].Account != "ACC-100" || top[0].BillCount != 1 {
		t.Errorf("unexpected ranking: %+v", top[0])
	}
	if want := decimal.RequireFromString("30.00"); !top[0].Revenue.Equal(want) {
		t.Errorf("expected revenue 30.00, got %s", top[0].Revenue)
	}
}

func TestReportingService_TopItems(t *testing.T) {
	pool := setupTestDB(t)
	seedBills(t, pool)

	svc := core.NewReportingService(pool)
	top, err := svc.TopItems(context.Background(), 5)
	if err != nil {
		t.Fatalf("TopItems failed: %v", err)
	}

	// Both items appear on the paid bill with quantity 2 each; cancelled and
	// pending lines do not count.
	if len(top) != 2 {
		t.Fatalf("expected two ranked items, got %d", len(top))
	}
	for _, is := range top {
		if is.Quantity != 2 {
			t.Errorf("item %s: expected quantity 2, got %d", is.Name, is.Quantity)
		}
	}
}
