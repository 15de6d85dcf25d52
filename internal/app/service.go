package app

import "context"

// ApplicationService is the single interface all adapters call. It
// decouples presentation from business logic. Implementations must
// contain no display logic of any kind.
type ApplicationService interface {
	// CreateBill opens a new PENDING bill for the customer account.
	CreateBill(ctx context.Context, account string) (*BillResult, error)

	// GetBill returns a bill with its lines.
	GetBill(ctx context.Context, billID int64) (*BillResult, error)

	// AddBillItem adds qty units of an item to a bill. A repeated item
	// merges into the existing line.
	AddBillItem(ctx context.Context, billID, itemID int64, qty int) (*BillResult, error)

	// RemoveBillItem deletes an item's line from a bill.
	RemoveBillItem(ctx context.Context, billID, itemID int64) (*BillResult, error)

	// UpdateBillItemQuantity sets a line's quantity.
	UpdateBillItemQuantity(ctx context.Context, billID, itemID int64, qty int) (*BillResult, error)

	// PayBill transitions a PENDING bill to PAID.
	PayBill(ctx context.Context, billID int64) (*BillResult, error)

	// CancelBill transitions a PENDING bill to CANCELLED and releases its
	// reserved stock.
	CancelBill(ctx context.Context, billID int64) (*BillResult, error)

	// DeleteBill removes a bill and its lines.
	DeleteBill(ctx context.Context, billID int64) error

	// SearchBills returns bill headers matching the filter.
	SearchBills(ctx context.Context, req SearchBillsRequest) (*BillListResult, error)

	// ListBillsByStatus returns bill headers in the given status.
	ListBillsByStatus(ctx context.Context, status string) (*BillListResult, error)

	// ListTodaysBills returns bills created since local midnight.
	ListTodaysBills(ctx context.Context) (*BillListResult, error)

	// GetStatistics returns bill counts by status and realized revenue.
	GetStatistics(ctx context.Context) (*StatisticsResult, error)

	// GetRevenue sums PAID bill totals over a date range. Dates are
	// YYYY-MM-DD; empty strings mean unbounded.
	GetRevenue(ctx context.Context, fromDate, toDate string) (*RevenueResult, error)

	// GetTopCustomers ranks customers by realized revenue.
	GetTopCustomers(ctx context.Context, limit int) (*TopCustomersResult, error)

	// GetTopItems ranks items by quantity sold on PAID bills.
	GetTopItems(ctx context.Context, limit int) (*TopItemsResult, error)

	// CreateItem adds a book to the catalog. unitPrice is a decimal string.
	CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResult, error)

	// UpdateItem edits a catalog entry. Stock is not part of the update.
	UpdateItem(ctx context.Context, itemID int64, req UpdateItemRequest) (*ItemResult, error)

	// DeactivateItem hides an item from billing and listings.
	DeactivateItem(ctx context.Context, itemID int64) error

	// GetItem returns a single catalog item.
	GetItem(ctx context.Context, itemID int64) (*ItemResult, error)

	// ListItems returns the active catalog, optionally filtered by a name
	// substring.
	ListItems(ctx context.Context, nameFilter string) (*ItemListResult, error)

	// RestockItem records a goods intake of qty units.
	RestockItem(ctx context.Context, itemID int64, qty int) (*ItemResult, error)

	// CreateCustomer registers a new customer account.
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResult, error)

	// UpdateCustomer edits a customer's contact fields.
	UpdateCustomer(ctx context.Context, customerID int64, req UpdateCustomerRequest) (*CustomerResult, error)

	// ListCustomers returns all customers ordered by account.
	ListCustomers(ctx context.Context) (*CustomerListResult, error)

	// GetCustomer looks a customer up by account.
	GetCustomer(ctx context.Context, account string) (*CustomerResult, error)

	// GetCustomerBills returns a customer's bills together with the
	// customer record.
	GetCustomerBills(ctx context.Context, account string) (*CustomerBillsResult, error)
}
