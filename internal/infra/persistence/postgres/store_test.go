package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"

	"dischargecore/internal/infra/persistence/postgres/testutil"
	"dischargecore/pkg/domain"
)

func fixedNow(tick domain.Ticks) func() domain.Ticks {
	return func() domain.Ticks { return tick }
}

func TestNewStoreAppliesDDLAndLoadsSnapshot(t *testing.T) {
	db, conn := testutil.NewStubDB()
	plan := domain.DischargePlan{AdmissionDate: 1000, ExpectedDischargeDate: 5000}
	payload, err := json.Marshal(plan)
	if err != nil {
		t.Fatalf("marshal plan: %v", err)
	}
	conn.Records = []testutil.Row{{Key: domain.PlanKey(0).String(), Payload: payload, ExpiresAt: 2000}}

	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore("", fixedNow(1000), 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.ReadView(context.Background(), func(view domain.View) error {
		var got domain.DischargePlan
		found, err := view.Get(domain.PlanKey(0), &got)
		if err != nil {
			return err
		}
		if !found || got != plan {
			t.Fatalf("expected hydrated plan, found=%v got=%+v", found, got)
		}
		return nil
	}); err != nil {
		t.Fatalf("read view: %v", err)
	}

	var sawDDL bool
	for _, stmt := range conn.Execs {
		if strings.Contains(strings.ToUpper(stmt), "CREATE TABLE") {
			sawDDL = true
			break
		}
	}
	if !sawDDL {
		t.Fatalf("expected records table DDL, got execs: %v", conn.Execs)
	}
}

func TestRunInTransactionPersistsSnapshot(t *testing.T) {
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore("ignored", fixedNow(1000), 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if err := tx.Set(domain.PlanKey(3), domain.DischargePlan{AdmissionDate: 1000, ExpectedDischargeDate: 4000}); err != nil {
			return err
		}
		return tx.Append(domain.EducationKey(3), domain.EducationRecord{Topic: domain.TopicWoundCare})
	})
	if err != nil {
		t.Fatalf("RunInTransaction: %v", err)
	}

	keys := make(map[string]bool, len(conn.Records))
	for _, row := range conn.Records {
		keys[row.Key] = true
	}
	if !keys[domain.PlanKey(3).String()] || !keys[domain.EducationKey(3).String()] {
		t.Fatalf("expected snapshot rows for plan and education, got %v", keys)
	}
}

func TestRunInTransactionErrorSkipsPersist(t *testing.T) {
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore("", fixedNow(1), 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	execsBefore := len(conn.Execs)
	err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if err := tx.Set(domain.PlanKey(0), domain.DischargePlan{}); err != nil {
			return err
		}
		return domain.NewError(domain.KindInvalidInput, "reject")
	})
	if err == nil {
		t.Fatalf("expected transaction error")
	}
	if len(conn.Execs) != execsBefore {
		t.Fatalf("expected no statements after failed transaction, got %v", conn.Execs[execsBefore:])
	}
	if len(conn.Records) != 0 {
		t.Fatalf("expected empty records table, got %v", conn.Records)
	}
}

func TestNewStorePingFailure(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	if _, err := NewStore("", fixedNow(1), 0); err == nil {
		t.Fatalf("expected ping failure")
	}
}

func TestPersistCommitFailure(t *testing.T) {
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore("", fixedNow(1), 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	conn.FailCommit = true
	err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		return tx.Set(domain.PlanKey(0), domain.DischargePlan{})
	})
	if err == nil || !strings.Contains(err.Error(), "commit fail") {
		t.Fatalf("expected commit failure, got %v", err)
	}
}
