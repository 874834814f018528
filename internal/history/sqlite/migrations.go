package sqlite

// migrations contains the SQL migrations for the SQLite database.
var migrations = []string{
	// Migration 1: Create initial tables
	`
	-- Executed operations
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		operation TEXT NOT NULL,
		endpoint TEXT,
		variables JSON,
		status TEXT CHECK(status IN ('ok', 'failed')),
		row_count INTEGER DEFAULT 0,
		error TEXT,
		latency_ms INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Indexes
	CREATE INDEX IF NOT EXISTS idx_records_created ON records(created_at);
	CREATE INDEX IF NOT EXISTS idx_records_operation ON records(operation);

	-- Schema version tracking
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);
	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`,
}
