package app

import (
	"bookshop/internal/core"

	"github.com/shopspring/decimal"
)

// BillResult is returned by bill lifecycle operations.
type BillResult struct {
	Bill *core.Bill
}

// BillListResult is returned by bill queries. Bills carry headers only,
// without lines.
type BillListResult struct {
	Bills []core.Bill
}

// StatisticsResult is returned by GetStatistics.
type StatisticsResult struct {
	Statistics *core.BillStatistics
}

// RevenueResult is returned by GetRevenue.
type RevenueResult struct {
	From    string
	To      string
	Revenue decimal.Decimal
}

// TopCustomersResult is returned by GetTopCustomers.
type TopCustomersResult struct {
	Customers []core.CustomerRevenue
}

// TopItemsResult is returned by GetTopItems.
type TopItemsResult struct {
	Items []core.ItemSales
}

// ItemResult is returned by catalog operations.
type ItemResult struct {
	Item *core.Item
}

// ItemListResult is returned by ListItems.
type ItemListResult struct {
	Items []core.Item
}

// CustomerResult is returned by customer operations.
type CustomerResult struct {
	Customer *core.Customer
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer
}

// CustomerBillsResult is returned by GetCustomerBills.
type CustomerBillsResult struct {
	Customer *core.Customer
	Bills    []core.Bill
}
