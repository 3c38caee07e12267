// Package store archives parsed sessions for long-term retrieval: session
// and aircraft metadata (plus the raw compressed log bytes) in PostgreSQL,
// and per-frame time-series rows in ClickHouse.
package store

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/compress/zstd"

	"djilog/internal/logfile"
)

// PostgresConfig holds PostgreSQL connection settings for the session
// archive.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string // disable, require, verify-ca, verify-full. Default: disable.
}

// PostgresDB wraps a PostgreSQL connection pool for session/aircraft
// metadata storage.
type PostgresDB struct {
	pool *pgxpool.Pool
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	escapedPassword := url.QueryEscape(cfg.Password)

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, escapedPassword, cfg.Host, cfg.Port, cfg.Database, sslMode)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("init zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("init zstd decoder: %w", err)
	}

	return &PostgresDB{pool: pool, enc: enc, dec: dec}, nil
}

// Close releases the pool and the zstd decoder's background goroutines.
func (d *PostgresDB) Close() {
	d.pool.Close()
	d.dec.Close()
}

// CreateSchema creates the PostgreSQL tables backing the session archive.
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS archive_aircraft (
		serial       TEXT PRIMARY KEY,
		product_type TEXT NOT NULL,
		first_seen   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS archive_sessions (
		id                TEXT PRIMARY KEY,
		aircraft_serial   TEXT NOT NULL REFERENCES archive_aircraft(serial),
		camera_serial     TEXT NOT NULL,
		start_time        TIMESTAMPTZ NOT NULL,
		duration_ticks    BIGINT NOT NULL,
		total_distance_m  DOUBLE PRECISION NOT NULL,
		max_height_m      DOUBLE PRECISION NOT NULL,
		raw_log_zstd      BYTEA NOT NULL,
		raw_log_size      INTEGER NOT NULL,
		imported_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_archive_sessions_aircraft ON archive_sessions(aircraft_serial);
	CREATE INDEX IF NOT EXISTS idx_archive_sessions_start ON archive_sessions(start_time);
	`
	_, err := d.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// ArchivedSession is a session's metadata row plus its compressed source
// bytes.
type ArchivedSession struct {
	ID             string
	AircraftSerial string
	CameraSerial   string
	StartTime      time.Time
	DurationTicks  int64
	TotalDistanceM float64
	MaxHeightM     float64
	RawLog         []byte // decompressed
}

// PutSession compresses rawLog with zstd and stores the session row,
// upserting the aircraft reference row alongside it.
func (d *PostgresDB) PutSession(ctx context.Context, sessionID string, details logfile.Details, rawLog []byte) error {
	compressed := d.enc.EncodeAll(rawLog, nil)

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO archive_aircraft (serial, product_type)
		VALUES ($1, $2)
		ON CONFLICT (serial) DO UPDATE SET last_seen = NOW()
	`, details.AircraftSN, details.ProductType)
	if err != nil {
		return fmt.Errorf("upsert aircraft: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO archive_sessions (id, aircraft_serial, camera_serial, start_time,
		                               duration_ticks, total_distance_m, max_height_m,
		                               raw_log_zstd, raw_log_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, sessionID, details.AircraftSN, details.CameraSN,
		time.Unix(int64(details.StartTimeUnix), 0).UTC(), int64(details.DurationTicks),
		details.TotalDistanceM, details.MaxHeightM, compressed, len(rawLog))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return tx.Commit(ctx)
}

// GetSession retrieves a session's metadata and decompresses its raw log
// bytes.
func (d *PostgresDB) GetSession(ctx context.Context, sessionID string) (*ArchivedSession, error) {
	var s ArchivedSession
	var compressed []byte
	err := d.pool.QueryRow(ctx, `
		SELECT id, aircraft_serial, camera_serial, start_time, duration_ticks,
		       total_distance_m, max_height_m, raw_log_zstd
		FROM archive_sessions WHERE id = $1
	`, sessionID).Scan(&s.ID, &s.AircraftSerial, &s.CameraSerial, &s.StartTime,
		&s.DurationTicks, &s.TotalDistanceM, &s.MaxHeightM, &compressed)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	raw, err := d.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress raw log: %w", err)
	}
	s.RawLog = raw
	return &s, nil
}

// ListSessionsForAircraft returns session metadata (without raw bytes) for
// an airframe, most recent first.
func (d *PostgresDB) ListSessionsForAircraft(ctx context.Context, serial string) ([]ArchivedSession, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, aircraft_serial, camera_serial, start_time, duration_ticks,
		       total_distance_m, max_height_m
		FROM archive_sessions WHERE aircraft_serial = $1 ORDER BY start_time DESC
	`, serial)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ArchivedSession
	for rows.Next() {
		var s ArchivedSession
		if err := rows.Scan(&s.ID, &s.AircraftSerial, &s.CameraSerial, &s.StartTime,
			&s.DurationTicks, &s.TotalDistanceM, &s.MaxHeightM); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Pool returns the underlying connection pool for advanced operations.
func (d *PostgresDB) Pool() *pgxpool.Pool {
	return d.pool
}
