package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the history tables. Timestamps are Unix nanoseconds and
// latencies milliseconds so both SQLite drivers read them back identically.
const Schema = `
CREATE TABLE IF NOT EXISTS turns (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    timestamp_ns INTEGER NOT NULL,
    active_provider TEXT NOT NULL,
    provider TEXT,
    model TEXT,
    stream BOOLEAN NOT NULL DEFAULT 0,
    prompt TEXT NOT NULL,
    reply TEXT,
    error TEXT,
    latency_ms INTEGER
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, timestamp_ns);
CREATE INDEX IF NOT EXISTS idx_turns_timestamp ON turns(timestamp_ns);
CREATE INDEX IF NOT EXISTS idx_turns_provider ON turns(provider);
`

// InsertSchemaVersion records the schema version.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
