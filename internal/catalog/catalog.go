package catalog

import (
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"djilog/internal/logfile"
)

// Catalog tracks aircraft, cameras and imported sessions in a local
// SQLite database. It is safe for concurrent use.
type Catalog struct {
	db *sql.DB
	mu sync.RWMutex

	onAircraftNew func(*Aircraft)
	onCameraNew   func(*Camera)
}

// Open opens (creating if necessary) the catalog database at dbPath. An
// empty path or ":memory:" opens a private in-memory catalog.
func Open(dbPath string) (*Catalog, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// OnAircraftNew sets a callback invoked the first time an airframe serial
// is recorded.
func (c *Catalog) OnAircraftNew(fn func(*Aircraft)) {
	c.onAircraftNew = fn
}

// OnCameraNew sets a callback invoked the first time a camera serial is
// recorded.
func (c *Catalog) OnCameraNew(fn func(*Camera)) {
	c.onCameraNew = fn
}

// RecordSession upserts the aircraft and camera reference rows for
// details, inserts a new session row keyed by a freshly generated UUID,
// and returns the assigned session ID. sourcePath is the path to the
// backing log file, recorded so a later archive pass can re-read it
// without the caller having to track that association itself.
func (c *Catalog) RecordSession(details logfile.Details, sourcePath string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.upsertAircraft(details.AircraftSN, details.ProductType)
	c.upsertCamera(details.CameraSN)

	id := uuid.NewString()
	_, err := c.db.Exec(`
		INSERT INTO sessions (id, aircraft_serial, camera_serial, source_path, start_time_unix,
		                       duration_ticks, total_distance_m, max_height_m)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, details.AircraftSN, details.CameraSN, sourcePath, details.StartTimeUnix,
		details.DurationTicks, details.TotalDistanceM, details.MaxHeightM)
	if err != nil {
		return "", err
	}

	_, _ = c.db.Exec(`UPDATE aircraft SET session_count = session_count + 1 WHERE serial = ?`, details.AircraftSN)

	return id, nil
}

func (c *Catalog) upsertAircraft(serial, productType string) {
	var exists bool
	_ = c.db.QueryRow("SELECT 1 FROM aircraft WHERE serial = ?", serial).Scan(&exists)

	if !exists {
		_, err := c.db.Exec(`INSERT INTO aircraft (serial, product_type) VALUES (?, ?)`, serial, productType)
		if err == nil && c.onAircraftNew != nil {
			now := time.Now()
			c.onAircraftNew(&Aircraft{Serial: serial, ProductType: productType, FirstSeen: now, LastSeen: now, SessionCount: 1})
		}
		return
	}
	_, _ = c.db.Exec(`
		UPDATE aircraft SET last_seen = CURRENT_TIMESTAMP,
			product_type = COALESCE(NULLIF(?, ''), product_type)
		WHERE serial = ?
	`, productType, serial)
}

func (c *Catalog) upsertCamera(serial string) {
	var exists bool
	_ = c.db.QueryRow("SELECT 1 FROM cameras WHERE serial = ?", serial).Scan(&exists)

	if !exists {
		_, err := c.db.Exec(`INSERT INTO cameras (serial) VALUES (?)`, serial)
		if err == nil && c.onCameraNew != nil {
			now := time.Now()
			c.onCameraNew(&Camera{Serial: serial, FirstSeen: now, LastSeen: now})
		}
		return
	}
	_, _ = c.db.Exec(`UPDATE cameras SET last_seen = CURRENT_TIMESTAMP WHERE serial = ?`, serial)
}

// GetAircraft returns the reference row for serial, or nil if unseen.
func (c *Catalog) GetAircraft(serial string) (*Aircraft, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var a Aircraft
	err := c.db.QueryRow(`
		SELECT serial, product_type, first_seen, last_seen, session_count
		FROM aircraft WHERE serial = ?
	`, serial).Scan(&a.Serial, &a.ProductType, &a.FirstSeen, &a.LastSeen, &a.SessionCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SessionsForAircraft returns every catalogued session flown on the
// given airframe, most recent first.
func (c *Catalog) SessionsForAircraft(serial string) ([]*Session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.Query(`
		SELECT id, aircraft_serial, camera_serial, source_path, start_time_unix, duration_ticks,
		       total_distance_m, max_height_m, imported_at
		FROM sessions WHERE aircraft_serial = ? ORDER BY start_time_unix DESC
	`, serial)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []*Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.AircraftSerial, &s.CameraSerial, &s.SourcePath, &s.StartTimeUnix,
			&s.DurationTicks, &s.TotalDistanceM, &s.MaxHeightM, &s.ImportedAt); err != nil {
			continue
		}
		result = append(result, &s)
	}
	return result, rows.Err()
}

// UnsyncedSessions returns sessions not yet marked synced to the archive.
func (c *Catalog) UnsyncedSessions() ([]*Session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.Query(`
		SELECT id, aircraft_serial, camera_serial, source_path, start_time_unix, duration_ticks,
		       total_distance_m, max_height_m, imported_at
		FROM sessions WHERE synced_at IS NULL
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []*Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.AircraftSerial, &s.CameraSerial, &s.SourcePath, &s.StartTimeUnix,
			&s.DurationTicks, &s.TotalDistanceM, &s.MaxHeightM, &s.ImportedAt); err != nil {
			continue
		}
		result = append(result, &s)
	}
	return result, rows.Err()
}

// MarkSynced marks a session as archived.
func (c *Catalog) MarkSynced(sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.db.Exec(`UPDATE sessions SET synced_at = CURRENT_TIMESTAMP WHERE id = ?`, sessionID)
	return err
}

// Stats summarizes catalog size.
type Stats struct {
	TotalAircraft int
	TotalCameras  int
	TotalSessions int
	UnsyncedCount int
}

// GetStats returns current catalog counts.
func (c *Catalog) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var s Stats
	_ = c.db.QueryRow("SELECT COUNT(*) FROM aircraft").Scan(&s.TotalAircraft)
	_ = c.db.QueryRow("SELECT COUNT(*) FROM cameras").Scan(&s.TotalCameras)
	_ = c.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&s.TotalSessions)
	_ = c.db.QueryRow("SELECT COUNT(*) FROM sessions WHERE synced_at IS NULL").Scan(&s.UnsyncedCount)
	return s
}
