// Package recording persists experiment results in SQLite databases.
package recording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// Entry is one recorded simulation run.
type Entry struct {
	RunID         string
	Experiment    string
	Policy        string
	TotalSize     int
	BlockSize     int
	Associativity int
	NumSets       int
	Accesses      uint64
	Hits          uint64
	Misses        uint64
	Replacements  uint64
	Skipped       uint64
	HitRate       float64
	WallTimeNS    int64
}

// Recorder stores entries.
type Recorder interface {
	// Record buffers an entry.
	Record(e Entry) error

	// Flush writes all buffered entries.
	Flush() error

	// Close flushes and releases the storage.
	Close() error
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL,
	experiment TEXT NOT NULL,
	policy TEXT NOT NULL,
	total_size INTEGER NOT NULL,
	block_size INTEGER NOT NULL,
	associativity INTEGER NOT NULL,
	num_sets INTEGER NOT NULL,
	accesses INTEGER NOT NULL,
	hits INTEGER NOT NULL,
	misses INTEGER NOT NULL,
	replacements INTEGER NOT NULL,
	skipped INTEGER NOT NULL,
	hit_rate REAL NOT NULL,
	wall_time_ns INTEGER NOT NULL
);`

const insertSQL = `INSERT INTO results VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectSQL = `SELECT run_id, experiment, policy, total_size, block_size,
	associativity, num_sets, accesses, hits, misses, replacements, skipped,
	hit_rate, wall_time_ns FROM results ORDER BY rowid`

// SQLiteRecorder writes entries into a SQLite database in batches.
type SQLiteRecorder struct {
	*sql.DB

	mu        sync.Mutex
	filename  string
	entries   []Entry
	batchSize int
	closed    bool

	exitHandler atexit.HandlerID
}

// NewSQLiteRecorder creates <path>.sqlite3 and prepares the results table.
// An empty path picks a unique name. Existing files are never overwritten.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	if path == "" {
		path = "cachesim_results_" + xid.New().String()
	}

	filename := path + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}

	r, err := NewSQLiteRecorderWithDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	r.filename = filename

	return r, nil
}

// NewSQLiteRecorderWithDB records into an already opened database.
func NewSQLiteRecorderWithDB(db *sql.DB) (*SQLiteRecorder, error) {
	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create results table: %w", err)
	}

	r := &SQLiteRecorder{
		DB:        db,
		batchSize: 1000,
	}

	r.exitHandler = atexit.Register(func() { _ = r.Flush() })

	return r, nil
}

// Filename returns the database file, or "" when the database was
// supplied by the caller.
func (r *SQLiteRecorder) Filename() string {
	return r.filename
}

// Record buffers e and flushes once a batch is full.
func (r *SQLiteRecorder) Record(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errors.New("recorder is closed")
	}

	r.entries = append(r.entries, e)
	if len(r.entries) >= r.batchSize {
		return r.flushLocked()
	}

	return nil
}

// Flush writes the buffered entries in one transaction.
func (r *SQLiteRecorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	return r.flushLocked()
}

func (r *SQLiteRecorder) flushLocked() error {
	if len(r.entries) == 0 {
		return nil
	}

	tx, err := r.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range r.entries {
		_, err := stmt.Exec(
			e.RunID, e.Experiment, e.Policy,
			e.TotalSize, e.BlockSize, e.Associativity, e.NumSets,
			int64(e.Accesses), int64(e.Hits), int64(e.Misses),
			int64(e.Replacements), int64(e.Skipped),
			e.HitRate, e.WallTimeNS,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}

	r.entries = r.entries[:0]

	return nil
}

// Close flushes the remaining entries and closes the database.
func (r *SQLiteRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	err := r.flushLocked()
	r.closed = true
	_ = r.exitHandler.Cancel()

	return errors.Join(err, r.DB.Close())
}

// ReadEntries returns every entry stored in db, in insertion order.
func ReadEntries(db *sql.DB) ([]Entry, error) {
	rows, err := db.Query(selectSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e                                         Entry
			accesses, hits, misses, replaced, skipped int64
		)

		err := rows.Scan(
			&e.RunID, &e.Experiment, &e.Policy,
			&e.TotalSize, &e.BlockSize, &e.Associativity, &e.NumSets,
			&accesses, &hits, &misses, &replaced, &skipped,
			&e.HitRate, &e.WallTimeNS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		e.Accesses = uint64(accesses)
		e.Hits = uint64(hits)
		e.Misses = uint64(misses)
		e.Replacements = uint64(replaced)
		e.Skipped = uint64(skipped)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
