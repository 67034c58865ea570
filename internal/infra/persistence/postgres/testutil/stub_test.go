package testutil

import (
	"context"
	"database/sql/driver"
	"testing"
)

func TestStubDBStoresAndQueriesRows(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()

	if err := conn.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	_, err := conn.ExecContext(ctx, "INSERT INTO records(key,payload,expires_at) VALUES($1,$2,$3)", []driver.NamedValue{
		{Value: "plan/0"},
		{Value: []byte(`{"completed":false}`)},
		{Value: int64(5000)},
	})
	if err != nil {
		t.Fatalf("ExecContext insert: %v", err)
	}
	if len(conn.Records) != 1 || conn.Records[0].Key != "plan/0" {
		t.Fatalf("expected stored row, got %v", conn.Records)
	}

	rows, err := conn.QueryContext(ctx, "SELECT key, payload, expires_at FROM records", nil)
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	defer func() { _ = rows.Close() }()
	dest := make([]driver.Value, 3)
	if err := rows.Next(dest); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if dest[0] != "plan/0" || dest[2] != int64(5000) {
		t.Fatalf("unexpected row values: %v", dest)
	}

	if _, err := conn.ExecContext(ctx, "DELETE FROM records", nil); err != nil {
		t.Fatalf("ExecContext delete: %v", err)
	}
	if len(conn.Records) != 0 {
		t.Fatalf("expected cleared records, got %v", conn.Records)
	}
}
