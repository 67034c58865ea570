// Package testutil provides a stub database/sql driver emulating the single
// records table the postgres store snapshots into.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

var stubSeq uint64

// StubConn records executed statements and emulates the records table.
type StubConn struct {
	Execs      []string
	Records    []Row
	FailPing   bool
	FailExec   bool
	FailBegin  bool
	FailCommit bool
	FailQuery  bool
	RowsErr    error
}

// Row is one emulated records-table row.
type Row struct {
	Key       string
	Payload   []byte
	ExpiresAt int64
}

// NewStubDB registers a sql.DB backed by an in-memory stub connection.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{}
	name := fmt.Sprintf("stubpg%d", atomic.AddUint64(&stubSeq, 1))
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

// Ping implements driver.Pinger.
func (c *StubConn) Ping(context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// BeginTx implements driver.ConnBeginTx.
func (c *StubConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	if c.FailBegin {
		return nil, fmt.Errorf("begin fail")
	}
	return &stubTx{conn: c}, nil
}

// ExecContext implements driver.ExecerContext.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	normalized := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(normalized, "DELETE FROM"):
		c.Records = nil
		return driver.RowsAffected(0), nil
	case strings.HasPrefix(normalized, "INSERT INTO"):
		if len(args) != 3 {
			return nil, fmt.Errorf("expected 3 insert args, got %d", len(args))
		}
		key, ok := args[0].Value.(string)
		if !ok {
			return nil, fmt.Errorf("insert key is %T, not string", args[0].Value)
		}
		payload, ok := args[1].Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("insert payload is %T, not []byte", args[1].Value)
		}
		expiresAt, ok := args[2].Value.(int64)
		if !ok {
			return nil, fmt.Errorf("insert expires_at is %T, not int64", args[2].Value)
		}
		c.Records = append(c.Records, Row{Key: key, Payload: append([]byte(nil), payload...), ExpiresAt: expiresAt})
		return driver.RowsAffected(1), nil
	default:
		// DDL and anything else succeeds silently.
		return driver.RowsAffected(0), nil
	}
}

// QueryContext implements driver.QueryerContext.
func (c *StubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if c.FailQuery {
		return nil, fmt.Errorf("query fail")
	}
	values := make([][]driver.Value, 0, len(c.Records))
	for _, row := range c.Records {
		values = append(values, []driver.Value{row.Key, append([]byte(nil), row.Payload...), row.ExpiresAt})
	}
	return &stubRows{
		cols: []string{"key", "payload", "expires_at"},
		rows: values,
		err:  c.RowsErr,
	}, nil
}

type stubTx struct {
	conn *StubConn
}

func (t *stubTx) Commit() error {
	if t.conn.FailCommit {
		return fmt.Errorf("commit fail")
	}
	return nil
}

func (t *stubTx) Rollback() error { return nil }

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
	err  error
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}
