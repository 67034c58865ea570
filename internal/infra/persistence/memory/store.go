// Package memory implements the authoritative in-memory record store.
// Transactions stage every mutation on a cloned copy of the committed state
// and swap it in only when the operation callback succeeds, so a failed
// invocation leaves no partial trace.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"dischargecore/pkg/domain"
)

type record struct {
	payload   []byte
	expiresAt domain.Ticks
}

type state map[domain.RecordKey]record

func (s state) clone() state {
	cloned := make(state, len(s))
	for k, rec := range s {
		payload := make([]byte, len(rec.payload))
		copy(payload, rec.payload)
		cloned[k] = record{payload: payload, expiresAt: rec.expiresAt}
	}
	return cloned
}

// Store is an in-memory transactional record store.
type Store struct {
	mu        sync.RWMutex
	state     state
	nowFn     func() domain.Ticks
	retention domain.Ticks
}

// NewStore constructs a store reading the current tick from now. Every write
// refreshes the written record's retention horizon to now + retention;
// retention defaults to one year of ticks when zero.
func NewStore(now func() domain.Ticks, retention domain.Ticks) *Store {
	if retention == 0 {
		retention = domain.YearTicks
	}
	return &Store{
		state:     make(state),
		nowFn:     now,
		retention: retention,
	}
}

// Transaction stages mutations for one invocation.
type Transaction struct {
	state     state
	now       domain.Ticks
	retention domain.Ticks
}

var _ domain.Transaction = (*Transaction)(nil)

func (tx *Transaction) lookup(key domain.RecordKey) ([]byte, bool) {
	return lookup(tx.state, key, tx.now)
}

func lookup(s state, key domain.RecordKey, now domain.Ticks) ([]byte, bool) {
	rec, ok := s[key]
	if !ok || rec.expiresAt < now {
		return nil, false
	}
	return rec.payload, true
}

// Now returns the tick captured when the transaction began. The clock is
// read once per invocation.
func (tx *Transaction) Now() domain.Ticks { return tx.now }

// Has reports whether an unexpired record exists under key.
func (tx *Transaction) Has(key domain.RecordKey) bool {
	_, ok := tx.lookup(key)
	return ok
}

// Get decodes the record under key into out.
func (tx *Transaction) Get(key domain.RecordKey, out any) (bool, error) {
	payload, ok := tx.lookup(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("decode record %s: %w", key, err)
	}
	return true, nil
}

// Set stages an unconditional overwrite of the record under key and
// refreshes its retention horizon.
func (tx *Transaction) Set(key domain.RecordKey, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", key, err)
	}
	tx.state[key] = record{payload: payload, expiresAt: tx.now + tx.retention}
	return nil
}

// Append stages item onto the list under listKey, creating the list when
// absent. The whole list is rewritten, keeping the expiry-extension policy
// uniform with Set.
func (tx *Transaction) Append(listKey domain.RecordKey, item any) error {
	var list []json.RawMessage
	if _, err := tx.Get(listKey, &list); err != nil {
		return err
	}
	encoded, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode list item %s: %w", listKey, err)
	}
	list = append(list, json.RawMessage(encoded))
	return tx.Set(listKey, list)
}

// NextID returns the counter's pre-increment value and stages the increment.
// An unseen counter starts at zero.
func (tx *Transaction) NextID(counter domain.RecordKey) (uint64, error) {
	var n uint64
	if _, err := tx.Get(counter, &n); err != nil {
		return 0, err
	}
	if err := tx.Set(counter, n+1); err != nil {
		return 0, err
	}
	return n, nil
}

// RunInTransaction executes fn against a staged copy of the store state and
// commits the copy only when fn returns nil.
func (s *Store) RunInTransaction(_ context.Context, fn func(domain.Transaction) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Transaction{
		state:     s.state.clone(),
		now:       s.nowFn(),
		retention: s.retention,
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// ReadView executes fn against a read-only snapshot of committed state. The
// snapshot is a clone, so a reader can never observe or affect later commits.
func (s *Store) ReadView(_ context.Context, fn func(domain.View) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	now := s.nowFn()
	s.mu.RUnlock()

	return fn(&Transaction{state: snapshot, now: now, retention: s.retention})
}

var _ domain.PersistentStore = (*Store)(nil)

// Snapshot is the portable serialized form of the committed state, used by
// durable backends to rehydrate on open.
type Snapshot map[string]SnapshotRecord

// SnapshotRecord carries one record's payload and retention horizon.
type SnapshotRecord struct {
	Payload   json.RawMessage `json:"payload"`
	ExpiresAt domain.Ticks    `json:"expires_at"`
}

// ExportState returns a deep copy of committed state keyed by the string
// form of each record key.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(Snapshot, len(s.state))
	for k, rec := range s.state {
		payload := make([]byte, len(rec.payload))
		copy(payload, rec.payload)
		out[k.String()] = SnapshotRecord{Payload: payload, ExpiresAt: rec.expiresAt}
	}
	return out
}

// ImportState replaces committed state with the snapshot contents. Malformed
// keys abort the import so hydration cannot silently drop records.
func (s *Store) ImportState(snapshot Snapshot) error {
	next := make(state, len(snapshot))
	for keyStr, rec := range snapshot {
		key, err := domain.ParseRecordKey(keyStr)
		if err != nil {
			return err
		}
		payload := make([]byte, len(rec.Payload))
		copy(payload, rec.Payload)
		next[key] = record{payload: payload, expiresAt: rec.ExpiresAt}
	}
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	return nil
}
