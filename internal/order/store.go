package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id            TEXT PRIMARY KEY,
	customer_id   TEXT NOT NULL,
	subtotal      REAL NOT NULL,
	discount      REAL NOT NULL,
	delivery      REAL NOT NULL,
	total         REAL NOT NULL,
	delivery_type TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at);

CREATE TABLE IF NOT EXISTS order_lines (
	order_id     TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	category     TEXT NOT NULL,
	subcategory  TEXT NOT NULL,
	name         TEXT NOT NULL,
	display_name TEXT NOT NULL,
	quantity     INTEGER NOT NULL,
	unit_price   REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines(order_id);
`

// Store is the sqlite-backed Recorder.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the order database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening order db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating order schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Record writes the draft and its lines in one transaction and returns the
// assigned order id.
func (s *Store) Record(ctx context.Context, d *Draft) (string, error) {
	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("recording order: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, subtotal, discount, delivery, total, delivery_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, d.CustomerID, d.Subtotal, d.Discount, d.Delivery, d.Total, d.DeliveryType, createdAt,
	); err != nil {
		return "", fmt.Errorf("recording order: %w", err)
	}
	for _, line := range d.Lines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, category, subcategory, name, display_name, quantity, unit_price)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, line.Category, line.Subcategory, line.Name, line.DisplayName, line.Quantity, line.UnitPrice,
		); err != nil {
			return "", fmt.Errorf("recording order line: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("recording order: %w", err)
	}
	return id, nil
}

// ListByCustomer returns the customer's most recent orders, newest first,
// without lines.
func (s *Store) ListByCustomer(ctx context.Context, customerID string, limit int) ([]Draft, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, customer_id, subtotal, discount, delivery, total, delivery_type, created_at
		 FROM orders WHERE customer_id = ? ORDER BY created_at DESC LIMIT ?`,
		customerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var out []Draft
	for rows.Next() {
		var d Draft
		if err := rows.Scan(&d.ID, &d.CustomerID, &d.Subtotal, &d.Discount, &d.Delivery, &d.Total, &d.DeliveryType, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
