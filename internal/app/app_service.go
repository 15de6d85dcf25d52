package app

import (
	"context"
	"fmt"
	"time"

	"bookshop/internal/core"

	"github.com/shopspring/decimal"
)

type appService struct {
	billing   core.BillingService
	catalog   core.CatalogService
	customers core.CustomerService
	reporting core.ReportingService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	billing core.BillingService,
	catalog core.CatalogService,
	customers core.CustomerService,
	reporting core.ReportingService,
) ApplicationService {
	return &appService{
		billing:   billing,
		catalog:   catalog,
		customers: customers,
		reporting: reporting,
	}
}

// ── Bills ────────────────────────────────────────────────────────────────────

func (s *appService) CreateBill(ctx context.Context, account string) (*BillResult, error) {
	bill, err := s.billing.CreateBill(ctx, account)
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) GetBill(ctx context.Context, billID int64) (*BillResult, error) {
	bill, err := s.billing.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) AddBillItem(ctx context.Context, billID, itemID int64, qty int) (*BillResult, error) {
	bill, err := s.billing.AddItem(ctx, billID, itemID, qty)
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) RemoveBillItem(ctx context.Context, billID, itemID int64) (*BillResult, error) {
	bill, err := s.billing.RemoveItem(ctx, billID, itemID)
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) UpdateBillItemQuantity(ctx context.Context, billID, itemID int64, qty int) (*BillResult, error) {
	bill, err := s.billing.UpdateItemQuantity(ctx, billID, itemID, qty)
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) PayBill(ctx context.Context, billID int64) (*BillResult, error) {
	bill, err := s.billing.MarkPaid(ctx, billID)
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) CancelBill(ctx context.Context, billID int64) (*BillResult, error) {
	bill, err := s.billing.Cancel(ctx, billID)
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) DeleteBill(ctx context.Context, billID int64) error {
	return s.billing.Delete(ctx, billID)
}

// ── Reports ──────────────────────────────────────────────────────────────────

func (s *appService) SearchBills(ctx context.Context, req SearchBillsRequest) (*BillListResult, error) {
	filter := core.BillFilter{CustomerName: req.CustomerName}

	if req.Status != "" {
		status, err := parseBillStatus(req.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if req.FromDate != "" {
		from, err := parseDate(req.FromDate)
		if err != nil {
			return nil, err
		}
		filter.From = from
	}
	if req.ToDate != "" {
		to, err := parseDate(req.ToDate)
		if err != nil {
			return nil, err
		}
		// The upper bound is exclusive; include the whole end date.
		filter.To = to.AddDate(0, 0, 1)
	}
	if req.MinTotal != "" {
		min, err := parseAmount(req.MinTotal)
		if err != nil {
			return nil, err
		}
		filter.MinTotal = &min
	}
	if req.MaxTotal != "" {
		max, err := parseAmount(req.MaxTotal)
		if err != nil {
			return nil, err
		}
		filter.MaxTotal = &max
	}

	bills, err := s.reporting.SearchBills(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &BillListResult{Bills: bills}, nil
}

func (s *appService) ListBillsByStatus(ctx context.Context, status string) (*BillListResult, error) {
	st, err := parseBillStatus(status)
	if err != nil {
		return nil, err
	}
	bills, err := s.reporting.ListByStatus(ctx, st)
	if err != nil {
		return nil, err
	}
	return &BillListResult{Bills: bills}, nil
}

func (s *appService) ListTodaysBills(ctx context.Context) (*BillListResult, error) {
	bills, err := s.reporting.ListToday(ctx)
	if err != nil {
		return nil, err
	}
	return &BillListResult{Bills: bills}, nil
}

func (s *appService) GetStatistics(ctx context.Context) (*StatisticsResult, error) {
	st, err := s.reporting.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	return &StatisticsResult{Statistics: st}, nil
}

func (s *appService) GetRevenue(ctx context.Context, fromDate, toDate string) (*RevenueResult, error) {
	from := time.Time{}
	to := time.Now().AddDate(0, 0, 1)

	if fromDate != "" {
		parsed, err := parseDate(fromDate)
		if err != nil {
			return nil, err
		}
		from = parsed
	}
	if toDate != "" {
		parsed, err := parseDate(toDate)
		if err != nil {
			return nil, err
		}
		to = parsed.AddDate(0, 0, 1)
	}

	revenue, err := s.reporting.RevenueForPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &RevenueResult{From: fromDate, To: toDate, Revenue: revenue}, nil
}

func (s *appService) GetTopCustomers(ctx context.Context, limit int) (*TopCustomersResult, error) {
	ranked, err := s.reporting.TopCustomers(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &TopCustomersResult{Customers: ranked}, nil
}

func (s *appService) GetTopItems(ctx context.Context, limit int) (*TopItemsResult, error) {
	ranked, err := s.reporting.TopItems(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &TopItemsResult{Items: ranked}, nil
}

// ── Catalog ──────────────────────────────────────────────────────────────────

func (s *appService) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResult, error) {
	price, err := parseAmount(req.UnitPrice)
	if err != nil {
		return nil, err
	}
	item, err := s.catalog.CreateItem(ctx, req.Name, req.Author, req.Category, price, req.InitialStock)
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) UpdateItem(ctx context.Context, itemID int64, req UpdateItemRequest) (*ItemResult, error) {
	price, err := parseAmount(req.UnitPrice)
	if err != nil {
		return nil, err
	}
	item, err := s.catalog.UpdateItem(ctx, itemID, req.Name, req.Author, req.Category, price)
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) DeactivateItem(ctx context.Context, itemID int64) error {
	return s.catalog.DeactivateItem(ctx, itemID)
}

func (s *appService) GetItem(ctx context.Context, itemID int64) (*ItemResult, error) {
	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) ListItems(ctx context.Context, nameFilter string) (*ItemListResult, error) {
	var (
		items []core.Item
		err   error
	)
	if nameFilter != "" {
		items, err = s.catalog.SearchItems(ctx, nameFilter)
	} else {
		items, err = s.catalog.ListItems(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &ItemListResult{Items: items}, nil
}

func (s *appService) RestockItem(ctx context.Context, itemID int64, qty int) (*ItemResult, error) {
	item, err := s.catalog.Restock(ctx, itemID, qty)
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

// ── Customers ────────────────────────────────────────────────────────────────

func (s *appService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResult, error) {
	customer, err := s.customers.CreateCustomer(ctx, req.Account, req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

func (s *appService) UpdateCustomer(ctx context.Context, customerID int64, req UpdateCustomerRequest) (*CustomerResult, error) {
	customer, err := s.customers.UpdateCustomer(ctx, customerID, req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

func (s *appService) ListCustomers(ctx context.Context) (*CustomerListResult, error) {
	customers, err := s.customers.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

func (s *appService) GetCustomer(ctx context.Context, account string) (*CustomerResult, error) {
	customer, err := s.customers.FindByAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

func (s *appService) GetCustomerBills(ctx context.Context, account string) (*CustomerBillsResult, error) {
	customer, err := s.customers.FindByAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	bills, err := s.reporting.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	return &CustomerBillsResult{Customer: customer, Bills: bills}, nil
}

// ── Parsing helpers ──────────────────────────────────────────────────────────

func parseBillStatus(s string) (core.BillStatus, error) {
	switch core.BillStatus(s) {
	case core.BillStatusPending, core.BillStatusPaid, core.BillStatusCancelled:
		return core.BillStatus(s), nil
	}
	return "", fmt.Errorf("unknown bill status %q: %w", s, core.ErrInvalidArgument)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, core.ErrInvalidArgument)
	}
	return t, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, core.ErrInvalidArgument)
	}
	return d, nil
}
