package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/persistence/editlog"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/persistence/indexdb"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/persistence/snapshot"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/tuning"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: built-in defaults)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite edit index")

		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "load latest snapshot from data dir if present (when -snapshot is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tune := tuning.Defaults()
	if tp := strings.TrimSpace(*tuningPath); tp != "" {
		var err error
		tune, err = tuning.Load(tp)
		if err != nil {
			logger.Fatalf("load tuning: %v", err)
		}
	}
	cfg := world.ConfigFromTuning(tune)

	_ = os.MkdirAll(*dataDir, 0o755)

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		var err error
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open edit index: %v", err)
		}
		defer idx.Close()
	}

	edits := editlog.New(*dataDir)
	defer edits.Close()

	// Create session (fresh or resumed from snapshot).
	var session *world.Session
	snapshotToLoad := strings.TrimSpace(*snapPath)
	if snapshotToLoad == "" && *loadLatest {
		snapshotToLoad = latestSnapshot(*dataDir)
	}
	if snapshotToLoad != "" {
		snap, err := snapshot.ReadSnapshot(snapshotToLoad)
		if err != nil {
			logger.Fatalf("read snapshot %s: %v", snapshotToLoad, err)
		}
		session, err = world.NewSessionFromSnapshot(cfg, snap)
		if err != nil {
			logger.Fatalf("resume from snapshot: %v", err)
		}
		logger.Printf("resumed from %s at tick %d (%d voxels)", snapshotToLoad, snap.Header.Tick, len(snap.Voxels))
	} else {
		session = world.NewSession(cfg)
		logger.Printf("seeded fresh %dx%dx%d world", cfg.Extent.SizeX, cfg.Extent.SizeY, cfg.Extent.SizeZ)
	}

	session.SetEditLogger(multiEditLogger{edits, idx})

	// Snapshot writing stays off the session goroutine.
	snapCh := make(chan snapshot.SnapshotV1, 1)
	session.SetSnapshotSink(snapCh)
	go func() {
		for snap := range snapCh {
			path := filepath.Join(*dataDir, "snapshots", fmt.Sprintf("snap-%012d.zst", snap.Header.Tick))
			if err := snapshot.WriteSnapshot(path, snap); err != nil {
				logger.Printf("write snapshot: %v", err)
				continue
			}
			if idx != nil {
				idx.RecordSnapshot(path, snap)
			}
			logger.Printf("snapshot %s (%d voxels)", path, len(snap.Voxels))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go session.Run(ctx)

	wsrv := ws.NewServer(session, tune.ClientQueueMax, logger)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", wsrv.Handler())
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(rw, "ok tick=%d\n", session.Tick())
	})

	httpSrv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	session.Stop()
}

// latestSnapshot picks the newest snapshot file in <data>/snapshots, by name
// (names embed the zero-padded tick).
func latestSnapshot(dataDir string) string {
	dir := filepath.Join(dataDir, "snapshots")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "snap-") && strings.HasSuffix(e.Name(), ".zst") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1])
}

// multiEditLogger fans an edit out to the JSONL log and the sqlite index.
type multiEditLogger struct {
	jsonl *editlog.Logger
	idx   *indexdb.SQLiteIndex
}

func (m multiEditLogger) WriteEdit(e world.EditEntry) error {
	err := m.jsonl.WriteEdit(e)
	if m.idx != nil {
		_ = m.idx.WriteEdit(e)
	}
	return err
}
