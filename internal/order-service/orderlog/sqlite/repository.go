// Package sqlite provides a SQLite-backed implementation of orderlog.Repository.
//
// WAL mode is enabled on Open so the gRPC handlers appending orders never
// block readers listing them.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/mochi-storefront/internal/order-service/orderlog"

	// Pure-Go driver, no CGO needed in the container image.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
const schema = `
CREATE TABLE IF NOT EXISTS order_logs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Order id assigned by the storefront at submission.
    order_id        TEXT        NOT NULL,

    status          TEXT        NOT NULL,
    customer_name   TEXT        NOT NULL DEFAULT '',
    phone           TEXT        NOT NULL DEFAULT '',
    item_count      INTEGER     NOT NULL DEFAULT 0,

    -- Whole Rupiah.
    total           INTEGER     NOT NULL DEFAULT 0,

    -- Order JSON exactly as delivered.
    payload         TEXT        NOT NULL,

    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',

    -- RFC3339 TEXT, the SQLite idiom for timestamps.
    submitted_at    TEXT        NOT NULL,
    received_at     TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_logs_order_id ON order_logs(order_id, received_at);
CREATE INDEX IF NOT EXISTS idx_order_logs_trace_id ON order_logs(trace_id);
`

// Repository is the SQLite implementation of orderlog.Repository.
type Repository struct {
	db *sql.DB
}

var _ orderlog.Repository = (*Repository)(nil)

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	repo, err := sqlite.Open("./data/orders.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3" for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new order log entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *orderlog.Entry) error {
	const q = `
		INSERT INTO order_logs
			(order_id, status, customer_name, phone, item_count, total, payload,
			 trace_id, span_id, submitted_at, received_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		string(entry.Status),
		entry.CustomerName,
		entry.Phone,
		entry.ItemCount,
		entry.Total,
		entry.Payload,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.SubmittedAt),
		formatTime(entry.ReceivedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save order log for %q: %w", entry.OrderID, err)
	}
	return nil
}

const selectColumns = `
	SELECT order_id, status, customer_name, phone, item_count, total, payload,
	       trace_id, span_id, submitted_at, received_at
	FROM   order_logs`

// Get returns the most recent entry for orderID.
func (r *Repository) Get(ctx context.Context, orderID string) (*orderlog.Entry, error) {
	q := selectColumns + `
		WHERE  order_id = ?
		ORDER  BY received_at DESC, id DESC
		LIMIT  1`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, q, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite: order %q: %w", orderID, orderlog.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get %q: %w", orderID, err)
	}
	return entry, nil
}

// List returns up to limit entries, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]*orderlog.Entry, error) {
	q := selectColumns + `
		ORDER  BY id DESC
		LIMIT  ?`

	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list order logs: %w", err)
	}
	defer rows.Close()

	var out []*orderlog.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list order logs: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*orderlog.Entry, error) {
	var entry orderlog.Entry
	var submittedAt, receivedAt string
	err := row.Scan(
		&entry.OrderID,
		&entry.Status,
		&entry.CustomerName,
		&entry.Phone,
		&entry.ItemCount,
		&entry.Total,
		&entry.Payload,
		&entry.TraceID,
		&entry.SpanID,
		&submittedAt,
		&receivedAt,
	)
	if err != nil {
		return nil, err
	}

	if entry.SubmittedAt, err = parseTime(submittedAt); err != nil {
		return nil, err
	}
	if entry.ReceivedAt, err = parseTime(receivedAt); err != nil {
		return nil, err
	}
	return &entry, nil
}

// applySchema runs the DDL statements once. Idempotent due to IF NOT EXISTS.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}
