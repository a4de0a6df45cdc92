// Package storage is the client's local key/value store, the terminal
// counterpart of the browser's localStorage.
//
// It holds the cached user record, the remembered login email, the optional
// bearer token and the persisted session cookies. Nothing stored here is
// authoritative: the backend remains the source of truth for identity, and
// every entry can be dropped at any time without losing more than a
// round-trip.
//
// Key Types
//
//   - type Repository: interface used by higher-level components
//   - type SQLiteRepository: SQLite implementation over DBTX
//
// Typical Usage
//
//	db, _ := storage.InitDatabase(ctx, "eventos.db")
//	repo := storage.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, common.StorageKeyRememberedEmail, []byte("ana@piaui.dev"))
package storage
