// Package history records query executions.
//
// Every CLI and HTTP execution can be stored as an Entry (query text,
// source document, status, result count, duration). The storage
// subpackage provides a SQLite store backed by modernc.org/sqlite and an
// in-memory store; retention prunes by age and by entry count, on demand or
// on a cron schedule while `mdnav serve` runs.
//
//	store, err := storage.Open(cfg.History)
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	entry := history.NewEntry(query, path)
//	entry.Succeed(len(results), time.Since(start))
//	_ = store.Record(ctx, entry)
package history
