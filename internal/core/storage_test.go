package core

import (
	"context"
	"path/filepath"
	"testing"

	blobcore "dischargecore/internal/infra/blob/core"
	"dischargecore/pkg/domain"
)

func TestOpenPersistentStoreMemory(t *testing.T) {
	t.Setenv("DISCHARGECORE_STORAGE_DRIVER", "memory")
	store, err := OpenPersistentStore(NewManualClock(100))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if tx.Now() != 100 {
			t.Fatalf("expected injected clock, got %d", tx.Now())
		}
		return nil
	}); err != nil {
		t.Fatalf("run transaction: %v", err)
	}
}

func TestOpenPersistentStoreSQLiteDefault(t *testing.T) {
	t.Setenv("DISCHARGECORE_STORAGE_DRIVER", "")
	t.Setenv("DISCHARGECORE_SQLITE_PATH", filepath.Join(t.TempDir(), "discharge.db"))
	store, err := OpenPersistentStore(nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		return tx.Set(domain.PlanKey(0), domain.DischargePlan{AdmissionDate: 1, ExpectedDischargeDate: 2})
	}); err != nil {
		t.Fatalf("run transaction: %v", err)
	}
}

func TestOpenPersistentStoreUnknownDriver(t *testing.T) {
	t.Setenv("DISCHARGECORE_STORAGE_DRIVER", "etcd")
	if _, err := OpenPersistentStore(nil); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestOpenArchiveSelection(t *testing.T) {
	ctx := context.Background()

	t.Setenv("DISCHARGECORE_ARCHIVE_DRIVER", "")
	store, err := OpenArchive(ctx)
	if err != nil || store != nil {
		t.Fatalf("expected archiving disabled, got %v %v", store, err)
	}

	t.Setenv("DISCHARGECORE_ARCHIVE_DRIVER", "memory")
	store, err = OpenArchive(ctx)
	if err != nil || store.Driver() != blobcore.DriverMemory {
		t.Fatalf("expected memory archive, got %v %v", store, err)
	}

	t.Setenv("DISCHARGECORE_ARCHIVE_DRIVER", "fs")
	t.Setenv("DISCHARGECORE_ARCHIVE_FS_ROOT", t.TempDir())
	store, err = OpenArchive(ctx)
	if err != nil || store.Driver() != blobcore.DriverFilesystem {
		t.Fatalf("expected fs archive, got %v %v", store, err)
	}

	t.Setenv("DISCHARGECORE_ARCHIVE_DRIVER", "tape")
	if _, err := OpenArchive(ctx); err == nil {
		t.Fatalf("expected unknown archive driver error")
	}
}
