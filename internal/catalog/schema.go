// Package catalog tracks aircraft, cameras, and imported sessions across
// many parsed logs in a local SQLite database, so a caller can answer
// "have I seen this airframe before" without re-parsing every log on disk.
package catalog

// schema contains the SQLite table definitions for the flight catalog.
const schema = `
CREATE TABLE IF NOT EXISTS aircraft (
	serial        TEXT PRIMARY KEY,
	product_type  TEXT NOT NULL,
	first_seen    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_seen     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	session_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS cameras (
	serial       TEXT PRIMARY KEY,
	first_seen   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_seen    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions (
	id               TEXT PRIMARY KEY,
	aircraft_serial  TEXT NOT NULL REFERENCES aircraft(serial),
	camera_serial    TEXT NOT NULL REFERENCES cameras(serial),
	source_path      TEXT NOT NULL DEFAULT '',
	start_time_unix  INTEGER NOT NULL,
	duration_ticks   INTEGER NOT NULL,
	total_distance_m REAL NOT NULL,
	max_height_m     REAL NOT NULL,
	imported_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	synced_at        DATETIME
);

CREATE INDEX IF NOT EXISTS idx_sessions_aircraft ON sessions(aircraft_serial);
CREATE INDEX IF NOT EXISTS idx_sessions_synced ON sessions(synced_at);
`
