// Package sink persists records into a single SQLite table. A Sink owns one
// database connection, creates the destination table on first use and
// serializes every write behind one lock.
package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Resinat/SQLogger/internal/record"
	"github.com/robfig/cron/v3"
)

const (
	// DefaultPath is the destination used when none is given.
	DefaultPath = "log.db"

	DefaultBusyTimeout    = 5 * time.Second
	DefaultShapeCacheSize = 64
)

// Options tunes a Sink. The zero value is usable.
type Options struct {
	BusyTimeout time.Duration
	// CheckpointSchedule is a standard cron expression; empty disables
	// periodic WAL checkpoints.
	CheckpointSchedule string
	ShapeCacheSize     int
}

// Sink writes records to the table named by the first configured record.
type Sink struct {
	path string
	db   *sql.DB

	mu      sync.Mutex // guards everything below and every use of db
	created bool       // NOT_CREATED -> CREATED, never reverts
	table   string
	stmts   map[string]*sql.Stmt
	closed  bool

	shapes    *shapeCache
	stats     *counters
	cron      *cron.Cron
	closeOnce sync.Once
	closeErr  error
}

// Open connects to the SQLite file at path. The file is created if missing.
func Open(path string, opts Options) (*Sink, error) {
	if path == "" {
		path = DefaultPath
	}
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = DefaultBusyTimeout
	}

	db, err := openDB(path, opts.BusyTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	s := &Sink{
		path:   path,
		db:     db,
		stmts:  make(map[string]*sql.Stmt),
		shapes: newShapeCache(opts.ShapeCacheSize),
		stats:  newCounters(),
	}
	if opts.CheckpointSchedule != "" {
		if err := s.scheduleCheckpoints(opts.CheckpointSchedule); err != nil {
			s.shapes.close()
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// Log writes one row for rec, creating the table first if this sink has not
// created it yet. It reports true only when a row was written.
//
// A record without a table name or fields yields ErrRecordNotConfigured and
// creates nothing. Statement failures are returned as *StorageError.
func (s *Sink) Log(ctx context.Context, rec record.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if !s.created {
		if schema := rec.Schema(); schema != "" {
			if _, err := s.db.ExecContext(ctx, schema); err != nil {
				s.stats.failures.Add(1)
				return false, &StorageError{Op: "create", Table: tableOf(rec), SQL: schema, Err: err}
			}
			s.created = true
			s.table = tableOf(rec)
			s.stats.schemaExecs.Add(1)
		}
	}

	st := rec.InsertStatement()
	if st.Empty() || !s.created {
		s.stats.skipped.Add(1)
		return false, ErrRecordNotConfigured
	}

	if sh, ok := rec.(shaped); ok {
		if err := s.shapes.check(ctx, s, sh); err != nil {
			s.stats.failures.Add(1)
			return false, err
		}
	}

	stmt, err := s.prepare(ctx, st.SQL)
	if err == nil {
		_, err = stmt.ExecContext(ctx, st.Args...)
	}
	if err != nil {
		s.stats.failures.Add(1)
		return false, &StorageError{Op: "insert", Table: tableOf(rec), SQL: st.SQL, Err: err}
	}
	s.stats.addRow(tableOf(rec))
	return true, nil
}

// prepare returns a cached prepared statement for query. Must be called with
// s.mu held.
func (s *Sink) prepare(ctx context.Context, query string) (*sql.Stmt, error) {
	if stmt, ok := s.stmts[query]; ok {
		return stmt, nil
	}
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	s.stmts[query] = stmt
	return stmt, nil
}

// Close releases the connection. It is safe to call more than once; only the
// first call does any work.
func (s *Sink) Close() error {
	s.closeOnce.Do(func() {
		// Stop the scheduler first: a running checkpoint needs the lock.
		if s.cron != nil {
			<-s.cron.Stop().Done()
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.closed = true

		for query, stmt := range s.stmts {
			if err := stmt.Close(); err != nil {
				log.Printf("[sink] warning: close statement %q: %v", query, err)
			}
		}
		s.stmts = nil
		s.shapes.close()
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// Path returns the destination file.
func (s *Sink) Path() string {
	return s.path
}

// Created reports whether this sink has created its table.
func (s *Sink) Created() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

// Stats returns a snapshot of the counters.
func (s *Sink) Stats() Stats {
	st := s.stats.snapshot()
	st.Path = s.path
	s.mu.Lock()
	st.Table = s.table
	st.Created = s.created
	s.mu.Unlock()
	return st
}

func tableOf(rec record.Record) string {
	if sh, ok := rec.(shaped); ok {
		return sh.TableName()
	}
	return ""
}
