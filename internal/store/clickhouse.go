package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"djilog/internal/frames"
)

// ClickHouseConfig holds ClickHouse connection settings for the frame
// time-series archive.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseDB wraps a ClickHouse connection for frame storage.
type ClickHouseDB struct {
	conn driver.Conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	return &ClickHouseDB{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseDB) Close() error {
	return d.conn.Close()
}

// CreateSchema creates the ClickHouse table backing the per-frame archive.
func (d *ClickHouseDB) CreateSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS frames (
		session_id       String,
		timestamp        DateTime64(3),
		latitude         Nullable(Float64),
		longitude        Nullable(Float64),
		height           Nullable(Float64),
		altitude         Nullable(Float64),
		horizontal_speed Nullable(Float64),
		total_speed      Nullable(Float64),
		height_max       Nullable(Float64),
		distance_m       Nullable(Float64),
		flyc_state       LowCardinality(String),
		battery_percent  Nullable(Float64)
	)
	ENGINE = MergeTree()
	PARTITION BY toYYYYMM(timestamp)
	ORDER BY (session_id, timestamp)
	SETTINGS index_granularity = 8192`

	if err := d.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertFrames batch-inserts a session's normalized frame timeline.
func (d *ClickHouseDB) InsertFrames(ctx context.Context, sessionID string, fs []*frames.Frame) error {
	batch, err := d.conn.PrepareBatch(ctx, "INSERT INTO frames")
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, f := range fs {
		label := ""
		if f.FlycStateLabel != nil {
			label = *f.FlycStateLabel
		}
		err := batch.Append(
			sessionID, f.Time, f.Latitude, f.Longitude, f.Height, f.Altitude,
			f.HorizontalSpeed, f.TotalSpeed, f.HeightMax, f.DistanceM,
			label, f.BatteryPercent,
		)
		if err != nil {
			return fmt.Errorf("append frame row: %w", err)
		}
	}

	return batch.Send()
}

// FrameRow is a minimal projection of an archived frame, used for
// time-series queries that do not need the full Frame shape.
type FrameRow struct {
	Time      time.Time
	Latitude  *float64
	Longitude *float64
	Height    *float64
}

// SessionTrack returns the lat/lon/height track for a session ordered by
// time, for geo-export and review tooling.
func (d *ClickHouseDB) SessionTrack(ctx context.Context, sessionID string) ([]FrameRow, error) {
	rows, err := d.conn.Query(ctx, `
		SELECT timestamp, latitude, longitude, height
		FROM frames WHERE session_id = ? ORDER BY timestamp
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []FrameRow
	for rows.Next() {
		var r FrameRow
		if err := rows.Scan(&r.Time, &r.Latitude, &r.Longitude, &r.Height); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
