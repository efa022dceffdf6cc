package sqlite

// initialSchema declares schema version 1: version tracking plus the
// tracked_time table with its primary key and the seconds/date indexes.
// AUTOINCREMENT keeps ids from being reused after a delete.
const initialSchema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tracked_time (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    seconds INTEGER NOT NULL,
    date INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tracked_time_seconds ON tracked_time(seconds);
CREATE INDEX IF NOT EXISTS idx_tracked_time_date ON tracked_time(date);
`

// indexedColumns lists the secondary indexes declared on tracked_time.
var indexedColumns = []string{"seconds", "date"}
