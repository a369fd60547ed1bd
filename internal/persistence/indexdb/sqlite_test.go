package indexdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/persistence/snapshot"
	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world"
)

func openTestIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestEditsIndexed(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	edits := []world.EditEntry{
		{Tick: 1, PlayerID: "P1", Op: "BREAK", Pos: [3]int{5, 3, 5}},
		{Tick: 2, PlayerID: "P1", Op: "PLACE", Pos: [3]int{5, 4, 5}},
		{Tick: 3, PlayerID: "P2", Op: "BREAK", Pos: [3]int{0, 0, 0}},
	}
	for _, e := range edits {
		if err := idx.WriteEdit(e); err != nil {
			t.Fatalf("write edit: %v", err)
		}
	}
	idx.Flush()

	n, err := idx.EditCount(ctx, "")
	if err != nil || n != 3 {
		t.Fatalf("EditCount = %d,%v, want 3", n, err)
	}
	n, err = idx.EditCount(ctx, "P1")
	if err != nil || n != 2 {
		t.Fatalf("EditCount(P1) = %d,%v, want 2", n, err)
	}

	recent, err := idx.RecentEdits(ctx, 2)
	if err != nil {
		t.Fatalf("RecentEdits: %v", err)
	}
	if len(recent) != 2 || recent[0] != edits[2] || recent[1] != edits[1] {
		t.Fatalf("RecentEdits = %+v", recent)
	}
}

func TestSnapshotRowsIndexed(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	idx.RecordSnapshot("/data/snapshots/snap-a.zst", snapshot.SnapshotV1{
		Header: snapshot.Header{Version: 1, Tick: 100},
		Voxels: [][3]int{{0, 0, 0}},
	})
	idx.RecordSnapshot("/data/snapshots/snap-b.zst", snapshot.SnapshotV1{
		Header: snapshot.Header{Version: 1, Tick: 200},
	})
	idx.Flush()

	path, err := idx.LatestSnapshotPath(ctx)
	if err != nil {
		t.Fatalf("LatestSnapshotPath: %v", err)
	}
	if path != "/data/snapshots/snap-b.zst" {
		t.Fatalf("latest = %q", path)
	}
}

func TestLatestSnapshotEmpty(t *testing.T) {
	idx := openTestIndex(t)
	path, err := idx.LatestSnapshotPath(context.Background())
	if err != nil || path != "" {
		t.Fatalf("LatestSnapshotPath on empty db = %q,%v", path, err)
	}
}

func TestWriteAfterClose(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = idx.Close()
	if err := idx.WriteEdit(world.EditEntry{Tick: 1, PlayerID: "P1", Op: "BREAK"}); err != nil {
		t.Fatalf("write after close should be a no-op, got %v", err)
	}
}
