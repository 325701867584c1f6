package audit

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ClickHouseRecorder writes audit entries to a ClickHouse MergeTree table.
type ClickHouseRecorder struct {
	conn clickhouse.Conn
}

// NewClickHouseRecorder connects to ClickHouse and verifies the connection.
func NewClickHouseRecorder(addr, database, user, password string) (*ClickHouseRecorder, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseRecorder{conn: conn}, nil
}

// Initialize creates the audit table if it does not exist yet.
func (r *ClickHouseRecorder) Initialize(ctx context.Context) error {
	err := r.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS audit_log (
			occurred_at DateTime,
			entity String,
			entity_id String,
			action String,
			detail String
		) ENGINE = MergeTree()
		ORDER BY occurred_at
	`)
	if err != nil {
		return fmt.Errorf("failed to create audit table: %w", err)
	}
	return nil
}

// Record appends one entry to the audit table.
func (r *ClickHouseRecorder) Record(ctx context.Context, entry Entry) error {
	err := r.conn.Exec(ctx,
		`INSERT INTO audit_log (occurred_at, entity, entity_id, action, detail) VALUES (?, ?, ?, ?, ?)`,
		entry.OccurredAt, entry.Entity, entry.EntityID, entry.Action, entry.Detail)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Close closes the ClickHouse connection.
func (r *ClickHouseRecorder) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
