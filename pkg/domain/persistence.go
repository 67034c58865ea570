package domain

import "context"

// View provides read access to record state. Reads decode into the caller's
// value and always return an independent copy; an absent or expired record
// reports found=false, never an error.
type View interface {
	Now() Ticks
	Has(key RecordKey) bool
	Get(key RecordKey, out any) (found bool, err error)
}

// Transaction exposes the mutations a persistence implementation must
// support within one atomic invocation. All writes are staged; nothing
// becomes observable unless the enclosing transaction commits. Every write
// refreshes the record's retention horizon.
type Transaction interface {
	View
	Set(key RecordKey, value any) error
	Append(listKey RecordKey, item any) error
	// NextID returns the counter's current value and stages the increment,
	// so an aborted invocation never consumes an identifier.
	NextID(counter RecordKey) (uint64, error)
}

// PersistentStore is the minimal abstraction over durable backends. One call
// to RunInTransaction is the unit of atomicity: either every staged mutation
// becomes durable or none do.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) error
	ReadView(ctx context.Context, fn func(View) error) error
}
