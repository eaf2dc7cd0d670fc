package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	target            TEXT NOT NULL,
	target_seconds    INTEGER NOT NULL,
	remaining         TEXT NOT NULL,
	remaining_seconds INTEGER NOT NULL,
	outcome           TEXT NOT NULL DEFAULT 'running'
		CHECK(outcome IN ('running', 'stopped', 'reset', 'finished')),
	started_at        DATETIME NOT NULL,
	ended_at          DATETIME
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_outcome ON runs(outcome);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
