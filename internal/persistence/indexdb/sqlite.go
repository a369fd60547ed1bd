// Package indexdb is a queryable read-model of applied edits and written
// snapshots. It never feeds back into the session; losing it loses ops
// tooling, not world state.
package indexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/persistence/snapshot"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqEdit reqKind = iota + 1
	reqSnapshot
	reqFlush
)

type req struct {
	kind reqKind

	edit     world.EditEntry
	snapshot snapshotRow
	flushed  chan struct{}
}

type snapshotRow struct {
	Tick       uint64
	Path       string
	Voxels     int
	Players    int
	EditsTotal uint64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		// High buffer: absorb bursty edit streams without stalling the sim.
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS edits (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			tick INTEGER NOT NULL,
			player_id TEXT NOT NULL,
			op TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_edits_player_tick ON edits(player_id, tick);`,
		`CREATE INDEX IF NOT EXISTS idx_edits_pos ON edits(x, z, y);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			tick INTEGER PRIMARY KEY,
			path TEXT NOT NULL,
			voxels INTEGER NOT NULL,
			players INTEGER NOT NULL,
			edits_total INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// WriteEdit satisfies world.EditLogger. Drops when the indexer falls behind;
// the JSONL edit log remains the source of truth.
func (s *SQLiteIndex) WriteEdit(e world.EditEntry) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqEdit, edit: e}:
	default:
	}
	return nil
}

func (s *SQLiteIndex) RecordSnapshot(path string, snap snapshot.SnapshotV1) {
	if s == nil || s.closed.Load() {
		return
	}
	r := snapshotRow{
		Tick:       snap.Header.Tick,
		Path:       path,
		Voxels:     len(snap.Voxels),
		Players:    len(snap.Players),
		EditsTotal: snap.EditsTotal,
	}
	select {
	case s.ch <- req{kind: reqSnapshot, snapshot: r}:
	default:
	}
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertEdit, _ := s.db.Prepare(`INSERT INTO edits(tick,player_id,op,x,y,z) VALUES(?,?,?,?,?,?)`)
	insertSnapshot, _ := s.db.Prepare(`INSERT OR REPLACE INTO snapshots(tick,path,voxels,players,edits_total,recorded_at) VALUES(?,?,?,?,?,?)`)
	defer func() {
		if insertEdit != nil {
			_ = insertEdit.Close()
		}
		if insertSnapshot != nil {
			_ = insertSnapshot.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 1000
		commitMaxWait = time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	flushTimer := time.NewTicker(250 * time.Millisecond)
	defer flushTimer.Stop()

	for {
		select {
		case r, ok := <-s.ch:
			if !ok {
				commit()
				return
			}
			if r.kind == reqFlush {
				commit()
				close(r.flushed)
				continue
			}
			begin()
			if tx == nil {
				continue
			}
			switch r.kind {
			case reqEdit:
				if insertEdit != nil {
					_, _ = tx.Stmt(insertEdit).Exec(r.edit.Tick, r.edit.PlayerID, r.edit.Op, r.edit.Pos[0], r.edit.Pos[1], r.edit.Pos[2])
				}
			case reqSnapshot:
				if insertSnapshot != nil {
					now := time.Now().UTC().Format(time.RFC3339Nano)
					_, _ = tx.Stmt(insertSnapshot).Exec(r.snapshot.Tick, r.snapshot.Path, r.snapshot.Voxels, r.snapshot.Players, r.snapshot.EditsTotal, now)
				}
			}
			opCount++
			if opCount >= commitEvery {
				commit()
			}
		case <-flushTimer.C:
			if tx != nil && time.Since(lastCommit) >= commitMaxWait {
				commit()
			}
		}
	}
}

// EditCount reports the number of indexed edits, optionally for one player.
func (s *SQLiteIndex) EditCount(ctx context.Context, playerID string) (int, error) {
	var n int
	var err error
	if playerID == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edits`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edits WHERE player_id = ?`, playerID).Scan(&n)
	}
	return n, err
}

// RecentEdits returns up to limit edits in reverse application order.
func (s *SQLiteIndex) RecentEdits(ctx context.Context, limit int) ([]world.EditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `SELECT tick,player_id,op,x,y,z FROM edits ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []world.EditEntry
	for rows.Next() {
		var e world.EditEntry
		if err := rows.Scan(&e.Tick, &e.PlayerID, &e.Op, &e.Pos[0], &e.Pos[1], &e.Pos[2]); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LatestSnapshotPath returns the most recent recorded snapshot path, or ""
// when none exists.
func (s *SQLiteIndex) LatestSnapshotPath(ctx context.Context) (string, error) {
	var path string
	err := s.db.QueryRowContext(ctx, `SELECT path FROM snapshots ORDER BY tick DESC LIMIT 1`).Scan(&path)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return path, err
}

// Flush blocks until every write queued before it has committed.
func (s *SQLiteIndex) Flush() {
	if s == nil || s.closed.Load() {
		return
	}
	done := make(chan struct{})
	s.ch <- req{kind: reqFlush, flushed: done}
	<-done
}
