package core_test

import (
	"errors"
	"testing"

	"bookshop/internal/core"

	"github.com/shopspring/decimal"
)

func testItem(id int64, price string, stock int) *core.Item {
	p, _ := decimal.NewFromString(price)
	return &core.Item{ID: id, Name: "Item", UnitPrice: p, Stock: stock, IsActive: true}
}

func pendingBill() *core.Bill {
	return &core.Bill{ID: 1, CustomerID: 1, Status: core.BillStatusPending, Total: decimal.Zero}
}

func TestItem_Reserve(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		qty       int
		wantErr   error
		wantStock int
	}{
		{"exact stock", 5, 5, nil, 0},
		{"partial", 10, 3, nil, 7},
		{"over-ask", 3, 10, core.ErrInsufficientStock, 3},
		{"zero quantity", 5, 0, core.ErrInvalidArgument, 5},
		{"negative quantity", 5, -1, core.ErrInvalidArgument, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := testItem(1, "5.00", tt.stock)
			err := it.Reserve(tt.qty)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if it.Stock != tt.wantStock {
				t.Errorf("expected stock %d, got %d", tt.wantStock, it.Stock)
			}
		})
	}
}

func TestItem_Release_NoUpperBound(t *testing.T) {
	it := testItem(1, "5.00", 2)
	it.Release(100)
	if it.Stock != 102 {
		t.Errorf("expected stock 102, got %d", it.Stock)
	}
	// Non-positive releases are ignored.
	it.Release(0)
	it.Release(-5)
	if it.Stock != 102 {
		t.Errorf("expected stock unchanged at 102, got %d", it.Stock)
	}
}

func TestBill_AddLine_MergesSameItem(t *testing.T) {
	b := pendingBill()
	it := testItem(7, "5.00", 100)

	if err := b.AddLine(it, 3); err != nil {
		t.Fatalf("first AddLine failed: %v", err)
	}
	if err := b.AddLine(it, 4); err != nil {
		t.Fatalf("second AddLine failed: %v", err)
	}

	if len(b.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(b.Items))
	}
	if b.Items[0].Quantity != 7 {
		t.Errorf("expected merged quantity 7, got %d", b.Items[0].Quantity)
	}
	if want := decimal.RequireFromString("35.00"); !b.Total.Equal(want) {
		t.Errorf("expected total 35.00, got %s", b.Total)
	}
}

func TestBill_AddLine_SnapshotsPrice(t *testing.T) {
	b := pendingBill()
	it := testItem(7, "5.00", 100)
	if err := b.AddLine(it, 2); err != nil {
		t.Fatalf("AddLine failed: %v", err)
	}

	// A later catalog price change must not reprice the existing line.
	it.UnitPrice = decimal.RequireFromString("9.99")
	if err := b.AddLine(it, 1); err != nil {
		t.Fatalf("AddLine after price change failed: %v", err)
	}
	if want := decimal.RequireFromString("15.00"); !b.Total.Equal(want) {
		t.Errorf("expected total 15.00 at snapshot price, got %s", b.Total)
	}
}

func TestBill_AddLine_Validation(t *testing.T) {
	b := pendingBill()
	it := testItem(7, "5.00", 100)

	if err := b.AddLine(it, 0); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for qty 0, got %v", err)
	}
	if err := b.AddLine(it, -2); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative qty, got %v", err)
	}
}

func TestBill_RemoveLine(t *testing.T) {
	b := pendingBill()
	a := testItem(1, "5.00", 100)
	c := testItem(2, "3.50", 100)
	_ = b.AddLine(a, 2)
	_ = b.AddLine(c, 4)

	if err := b.RemoveLine(1); err != nil {
		t.Fatalf("RemoveLine failed: %v", err)
	}
	if len(b.Items) != 1 || b.Items[0].ItemID != 2 {
		t.Fatalf("expected only item 2 to remain, got %+v", b.Items)
	}
	if want := decimal.RequireFromString("14.00"); !b.Total.Equal(want) {
		t.Errorf("expected total 14.00, got %s", b.Total)
	}

	if err := b.RemoveLine(99); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing line, got %v", err)
	}
}

func TestBill_SetLineQuantity(t *testing.T) {
	b := pendingBill()
	it := testItem(7, "5.00", 100)
	_ = b.AddLine(it, 7)

	if err := b.SetLineQuantity(7, 2); err != nil {
		t.Fatalf("SetLineQuantity failed: %v", err)
	}
	if b.Items[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", b.Items[0].Quantity)
	}
	if want := decimal.RequireFromString("10.00"); !b.Total.Equal(want) {
		t.Errorf("expected total 10.00, got %s", b.Total)
	}

	if err := b.SetLineQuantity(7, 0); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for qty 0, got %v", err)
	}
	if err := b.SetLineQuantity(42, 1); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing line, got %v", err)
	}
}

func TestBill_RecalculateTotal_Idempotent(t *testing.T) {
	b := pendingBill()
	_ = b.AddLine(testItem(1, "2.50", 100), 2)
	_ = b.AddLine(testItem(2, "10.00", 100), 1)

	want := decimal.RequireFromString("15.00")
	for i := 0; i < 3; i++ {
		b.RecalculateTotal()
		if !b.Total.Equal(want) {
			t.Fatalf("pass %d: expected total 15.00, got %s", i, b.Total)
		}
	}
}

func TestBill_StateMachine(t *testing.T) {
	t.Run("paid is terminal", func(t *testing.T) {
		b := pendingBill()
		if err := b.MarkPaid(); err != nil {
			t.Fatalf("MarkPaid from PENDING failed: %v", err)
		}
		if b.Status != core.BillStatusPaid || b.PaidAt == nil {
			t.Fatalf("expected PAID with timestamp, got %s", b.Status)
		}
		if err := b.MarkCancelled(); !errors.Is(err, core.ErrIllegalBillState) {
			t.Errorf("expected ErrIllegalBillState cancelling a PAID bill, got %v", err)
		}
		if err := b.MarkPaid(); !errors.Is(err, core.ErrIllegalBillState) {
			t.Errorf("expected ErrIllegalBillState re-paying a PAID bill, got %v", err)
		}
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		b := pendingBill()
		if err := b.MarkCancelled(); err != nil {
			t.Fatalf("MarkCancelled from PENDING failed: %v", err)
		}
		if b.Status != core.BillStatusCancelled || b.CancelledAt == nil {
			t.Fatalf("expected CANCELLED with timestamp, got %s", b.Status)
		}
		if err := b.MarkPaid(); !errors.Is(err, core.ErrIllegalBillState) {
			t.Errorf("expected ErrIllegalBillState paying a CANCELLED bill, got %v", err)
		}
	})

	t.Run("closed bills reject line mutations", func(t *testing.T) {
		it := testItem(7, "5.00", 100)
		b := pendingBill()
		_ = b.AddLine(it, 1)
		_ = b.MarkPaid()

		if err := b.AddLine(it, 1); !errors.Is(err, core.ErrIllegalBillState) {
			t.Errorf("AddLine on PAID bill: expected ErrIllegalBillState, got %v", err)
		}
		if err := b.RemoveLine(7); !errors.Is(err, core.ErrIllegalBillState) {
			t.Errorf("RemoveLine on PAID bill: expected ErrIllegalBillState, got %v", err)
		}
		if err := b.SetLineQuantity(7, 3); !errors.Is(err, core.ErrIllegalBillState) {
			t.Errorf("SetLineQuantity on PAID bill: expected ErrIllegalBillState, got %v", err)
		}
		if b.Items[0].Quantity != 1 {
			t.Errorf("rejected mutations must leave the bill unchanged, quantity is %d", b.Items[0].Quantity)
		}
	})
}

func TestBill_TotalItemCount(t *testing.T) {
	b := pendingBill()
	if b.TotalItemCount() != 0 {
		t.Errorf("empty bill: expected count 0, got %d", b.TotalItemCount())
	}
	_ = b.AddLine(testItem(1, "1.00", 100), 3)
	_ = b.AddLine(testItem(2, "1.00", 100), 4)
	if b.TotalItemCount() != 7 {
		t.Errorf("expected count 7, got %d", b.TotalItemCount())
	}
}
