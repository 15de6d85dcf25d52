package app

// SearchBillsRequest filters the bill search. Zero values are ignored.
// Dates are YYYY-MM-DD; totals are decimal strings.
type SearchBillsRequest struct {
	CustomerName string
	Status       string
	FromDate     string
	ToDate       string
	MinTotal     string
	MaxTotal     string
}

// CreateItemRequest is the input for adding a book to the catalog.
type CreateItemRequest struct {
	Name         string
	Author       string
	Category     string
	UnitPrice    string // decimal string, e.g. "12.50"
	InitialStock int
}

// UpdateItemRequest is the input for editing a catalog entry.
type UpdateItemRequest struct {
	Name      string
	Author    string
	Category  string
	UnitPrice string
}

// CreateCustomerRequest is the input for registering a customer.
type CreateCustomerRequest struct {
	Account string
	Name    string
	Email   string
	Phone   string
	Address string
}

// UpdateCustomerRequest is the input for editing customer contact fields.
type UpdateCustomerRequest struct {
	Name    string
	Email   string
	Phone   string
	Address string
}
