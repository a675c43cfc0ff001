package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPrune_RemovesOnlyExpiredArchives(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "clubhub-20260801-020000-aaaaaaaa.tar.gz")
	fresh := filepath.Join(dir, "clubhub-20260828-020000-bbbbbbbb.tar.gz")
	foreign := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, fresh, foreign} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	stale := time.Now().Add(-10 * 24 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}
	// Foreign files are never touched, even when stale.
	if err := os.Chtimes(foreign, stale, stale); err != nil {
		t.Fatal(err)
	}

	r := New(Config{Dir: dir, RetentionDays: 7}, zap.NewNop())
	pruned, err := r.Prune()
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("pruned = %d, want 1", pruned)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("expired archive still present")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh archive was removed")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Error("foreign file was removed")
	}
}

func TestPrune_ZeroRetentionDisablesPruning(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "clubhub-20250101-020000-cccccccc.tar.gz")
	if err := os.WriteFile(old, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	stale := time.Now().Add(-365 * 24 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	r := New(Config{Dir: dir, RetentionDays: 0}, zap.NewNop())
	pruned, err := r.Prune()
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 0 {
		t.Fatalf("pruned = %d, want 0", pruned)
	}
}

func TestPrune_MissingDirIsNotAnError(t *testing.T) {
	r := New(Config{Dir: filepath.Join(t.TempDir(), "absent"), RetentionDays: 7}, zap.NewNop())
	if _, err := r.Prune(); err != nil {
		t.Fatalf("Prune on missing dir: %v", err)
	}
}
