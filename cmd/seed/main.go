// seed loads demo data for local development: a handful of customers and
// a small book catalog. Existing rows with the same account or name are
// updated in place, so the tool is safe to re-run.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"

	"bookshop/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Seeding customers...")
	_, err = tx.Exec(ctx, `
		INSERT INTO customers (account, name, email, phone, address) VALUES
		    ('ACC-1001', 'Alice Reader',   'alice@example.com',  '555-0101', '12 Elm Street'),
		    ('ACC-1002', 'Bob Browser',    'bob@example.com',    '555-0102', '34 Oak Avenue'),
		    ('ACC-1003', 'Carol Collector','carol@example.com',  '555-0103', '56 Pine Road')
		ON CONFLICT (account) DO UPDATE
		  SET name = EXCLUDED.name,
		      email = EXCLUDED.email,
		      phone = EXCLUDED.phone,
		      address = EXCLUDED.address;
	`)
	if err != nil {
		log.Fatalf("Failed to seed customers: %v", err)
	}

	log.Println("Seeding catalog...")
	_, err = tx.Exec(ctx, `
		INSERT INTO items (name, author, category, unit_price, stock) VALUES
		    ('The Go Programming Language', 'Donovan & Kernighan', 'Programming',     35.00, 12),
		    ('Dune',                        'Frank Herbert',       'Science Fiction', 12.50, 25),
		    ('Pride and Prejudice',         'Jane Austen',         'Classics',         8.99, 18),
		    ('The Pragmatic Programmer',    'Hunt & Thomas',       'Programming',     29.95, 10),
		    ('A Wizard of Earthsea',        'Ursula K. Le Guin',   'Fantasy',         10.00, 15),
		    ('Thinking, Fast and Slow',     'Daniel Kahneman',     'Nonfiction',      14.25, 20)
		ON CONFLICT (name) DO UPDATE
		  SET author = EXCLUDED.author,
		      category = EXCLUDED.category,
		      unit_price = EXCLUDED.unit_price;
	`)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}
	log.Println("Seed complete.")
}
