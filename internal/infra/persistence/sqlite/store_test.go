package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"dischargecore/pkg/domain"
)

func fixedNow(tick domain.Ticks) func() domain.Ticks {
	return func() domain.Ticks { return tick }
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "discharge.db")
	ctx := context.Background()

	store, err := NewStore(path, fixedNow(1000), 0)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	plan := domain.DischargePlan{AdmissionDate: 1000, ExpectedDischargeDate: 5000}
	if err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if err := tx.Set(domain.PlanKey(0), plan); err != nil {
			return err
		}
		return tx.Append(domain.OrdersKey(0), domain.DischargeOrder{Type: domain.OrderMedication})
	}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, fixedNow(1000), 0)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if err := reopened.ReadView(ctx, func(view domain.View) error {
		var got domain.DischargePlan
		found, err := view.Get(domain.PlanKey(0), &got)
		if err != nil {
			return err
		}
		if !found || got != plan {
			t.Fatalf("expected hydrated plan, found=%v got=%+v", found, got)
		}
		var orders []domain.DischargeOrder
		if found, err := view.Get(domain.OrdersKey(0), &orders); err != nil || !found {
			t.Fatalf("expected hydrated orders, found=%v err=%v", found, err)
		}
		if len(orders) != 1 || orders[0].Type != domain.OrderMedication {
			t.Fatalf("unexpected orders %+v", orders)
		}
		return nil
	}); err != nil {
		t.Fatalf("read view: %v", err)
	}
	if reopened.Path() != path {
		t.Fatalf("expected path %s, got %s", path, reopened.Path())
	}
}

func TestFailedTransactionIsNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "discharge.db")
	ctx := context.Background()

	store, err := NewStore(path, fixedNow(1), 0)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	boom := errors.New("boom")
	err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if err := tx.Set(domain.PlanKey(0), domain.DischargePlan{}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, fixedNow(1), 0)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if err := reopened.ReadView(ctx, func(view domain.View) error {
		if view.Has(domain.PlanKey(0)) {
			t.Fatalf("expected no persisted record from failed transaction")
		}
		return nil
	}); err != nil {
		t.Fatalf("read view: %v", err)
	}
}
