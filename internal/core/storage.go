package core

import (
	"context"
	"fmt"
	"os"

	blobcore "dischargecore/internal/infra/blob/core"
	blobfs "dischargecore/internal/infra/blob/fs"
	blobmemory "dischargecore/internal/infra/blob/memory"
	blobs3 "dischargecore/internal/infra/blob/s3"
	"dischargecore/internal/infra/persistence/memory"
	"dischargecore/internal/infra/persistence/postgres"
	"dischargecore/internal/infra/persistence/sqlite"
	"dischargecore/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset. The clock supplies the logical time every
// transaction observes; record retention is the default one-year window.
//
//	DISCHARGECORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	DISCHARGECORE_SQLITE_PATH: path to sqlite file (default ./dischargecore.db)
//	DISCHARGECORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore(clock Clock) (domain.PersistentStore, error) {
	if clock == nil {
		clock = SystemClock{}
	}
	now := clock.Now
	driver := os.Getenv("DISCHARGECORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(now, 0), nil
	case StorageSQLite:
		path := os.Getenv("DISCHARGECORE_SQLITE_PATH")
		return sqlite.NewStore(path, now, 0)
	case StoragePostgres:
		dsn := os.Getenv("DISCHARGECORE_POSTGRES_DSN")
		return postgres.NewStore(dsn, now, 0)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// OpenArchive selects the discharge summary archive backend using environment
// variables. Unset means archiving is disabled and a nil store is returned.
//
//	DISCHARGECORE_ARCHIVE_DRIVER: memory|fs|s3 (unset disables archiving)
//	DISCHARGECORE_ARCHIVE_FS_ROOT: directory root when driver=fs (default ./archivedata)
//	(S3 specific variables documented in the s3 store package)
func OpenArchive(ctx context.Context) (blobcore.Store, error) {
	driver := os.Getenv("DISCHARGECORE_ARCHIVE_DRIVER")
	if driver == "" {
		return nil, nil
	}
	switch blobcore.Driver(driver) {
	case blobcore.DriverMemory:
		return blobmemory.New(), nil
	case blobcore.DriverFilesystem:
		root := os.Getenv("DISCHARGECORE_ARCHIVE_FS_ROOT")
		return blobfs.New(root)
	case blobcore.DriverS3:
		return blobs3.OpenFromEnv(ctx)
	default:
		return nil, fmt.Errorf("unknown archive driver %s", driver)
	}
}
