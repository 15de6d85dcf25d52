package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerService manages customer master records. FindByAccount is the
// lookup the billing engine validates against before opening a bill.
type CustomerService interface {
	CreateCustomer(ctx context.Context, account, name, email, phone, address string) (*Customer, error)
	UpdateCustomer(ctx context.Context, customerID int64, name, email, phone, address string) (*Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	FindByAccount(ctx context.Context, account string) (*Customer, error)
}

type customerService struct {
	pool *pgxpool.Pool
}

func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

func (s *customerService) CreateCustomer(ctx context.Context, account, name, email, phone, address string) (*Customer, error) {
	if strings.TrimSpace(account) == "" {
		return nil, fmt.Errorf("customer account is required: %w", ErrInvalidArgument)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("customer name is required: %w", ErrInvalidArgument)
	}

	var c Customer
	err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (account, name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, account, name, email, phone, address, created_at
	`, account, name, email, phone, address).Scan(
		&c.ID, &c.Account, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("customer account %s already exists: %w", account, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &c, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, name, email, phone, address string) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("customer name is required: %w", ErrInvalidArgument)
	}

	var c Customer
	err := s.pool.QueryRow(ctx, `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, address = $4
		WHERE id = $5
		RETURNING id, account, name, email, phone, address, created_at
	`, name, email, phone, address, customerID).Scan(
		&c.ID, &c.Account, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update customer %d: %w", customerID, err)
	}
	return &c, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, account, name, email, phone, address, created_at
		FROM customers
		ORDER BY account
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Account, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *customerService) FindByAccount(ctx context.Context, account string) (*Customer, error) {
	var c Customer
	err := s.pool.QueryRow(ctx, `
		SELECT id, account, name, email, phone, address, created_at
		FROM customers
		WHERE account = $1
	`, account).Scan(
		&c.ID, &c.Account, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer account %s: %w", account, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch customer %s: %w", account, err)
	}
	return &c, nil
}
