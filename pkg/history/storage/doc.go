// Package storage provides history.Store implementations.
//
//   - SQLiteStore: a single database file through the pure-Go
//     modernc.org/sqlite driver, WAL mode, one table indexed by time
//   - MemoryStore: process-local, for tests and `history.backend: memory`
//
// Open picks the backend from config.HistoryConfig.
package storage
