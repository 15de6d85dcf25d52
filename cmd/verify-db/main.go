// verify-db checks the billing invariants against the live database:
// every bill total must equal the sum of its line totals, no item may have
// negative stock, and closed bills must carry their transition timestamp.
//
// Usage: go run ./cmd/verify-db
package main

import (
	"context"
	"log"
	"os"

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

	failures := 0

	// Bill totals must match line totals. An empty bill's total is zero.
	rows, err := pool.Query(ctx, `
		SELECT b.id, b.total::text, COALESCE(SUM(bi.line_total), 0)::text
		FROM bills b
		LEFT JOIN bill_items bi ON bi.bill_id = b.id
		GROUP BY b.id, b.total
		HAVING b.total <> COALESCE(SUM(bi.line_total), 0)
	`)
	if err != nil {
		log.Fatalf("Failed to query bill totals: %v", err)
	}
	for rows.Next() {
		var billID int64
		var total, lineSum string
		if err := rows.Scan(&billID, &total, &lineSum); err != nil {
			log.Fatalf("Failed to scan: %v", err)
		}
		log.Printf("[FAIL] bill %d total %s != line sum %s", billID, total, lineSum)
		failures++
	}
	rows.Close()
	if rows.Err() != nil {
		log.Fatalf("Failed reading bill totals: %v", rows.Err())
	}

	// Stock can never be negative. The CHECK constraint should make this
	// impossible; verify anyway.
	var negativeStock int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM items WHERE stock < 0").Scan(&negativeStock); err != nil {
		log.Fatalf("Failed to query stock: %v", err)
	}
	if negativeStock > 0 {
		log.Printf("[FAIL] %d items with negative stock", negativeStock)
		failures++
	}

	// Closed bills carry their transition timestamp; open ones do not.
	var badTimestamps int
	if err := pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM bills
		WHERE (status = 'PAID' AND paid_at IS NULL)
		   OR (status = 'CANCELLED' AND cancelled_at IS NULL)
		   OR (status = 'PENDING' AND (paid_at IS NOT NULL OR cancelled_at IS NOT NULL))
	`).Scan(&badTimestamps); err != nil {
		log.Fatalf("Failed to query timestamps: %v", err)
	}
	if badTimestamps > 0 {
		log.Printf("[FAIL] %d bills with inconsistent status timestamps", badTimestamps)
		failures++
	}

	// Lines must be unique per (bill, item) and positive. The schema
	// enforces both; verify anyway.
	var badLines int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM bill_items WHERE quantity <= 0").Scan(&badLines); err != nil {
		log.Fatalf("Failed to query lines: %v", err)
	}
	if badLines > 0 {
		log.Printf("[FAIL] %d bill lines with non-positive quantity", badLines)
		failures++
	}

	if failures > 0 {
		log.Printf("[DONE] %d invariant violations found", failures)
		os.Exit(1)
	}
	log.Println("[DONE] all invariants hold")
}
