package apitest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alphasolutions/piauieventos-cli/internal/client/storage"
)

// NewStore opens a migrated local store in t's temp dir.
func NewStore(t testing.TB) *storage.SQLiteRepository {
	t.Helper()

	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "eventos.db"))
	if err != nil {
		t.Fatalf("init local store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewSQLiteRepository(db)
}
