package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the history tables. Times are stored as Unix nanoseconds
// and durations as microseconds.
const Schema = `
CREATE TABLE IF NOT EXISTS history (
    id TEXT PRIMARY KEY,
    query TEXT NOT NULL,
    source TEXT NOT NULL,
    status TEXT NOT NULL,
    result_count INTEGER NOT NULL DEFAULT 0,
    duration_us INTEGER NOT NULL DEFAULT 0,
    error TEXT,
    error_kind TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at);
CREATE INDEX IF NOT EXISTS idx_history_status ON history(status);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, strftime('%s', 'now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const entryColumns = `id, query, source, status, result_count, duration_us, error, error_kind, created_at`
