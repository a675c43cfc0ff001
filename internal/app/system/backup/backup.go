// Package backup produces mongodump archives of the club database and
// prunes old ones past the retention window.
package backup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config controls where dumps land and how long they are kept.
type Config struct {
	// Dir is the directory archives are written to. Created on first run.
	Dir string
	// MongoURI and Database identify what to dump.
	MongoURI string
	Database string
	// RetentionDays is how many days of archives to keep. Zero disables
	// pruning.
	RetentionDays int
}

// Result describes one completed backup run.
type Result struct {
	RunID   string    `json:"run_id"`
	Archive string    `json:"archive"`
	Started time.Time `json:"started"`
	Took    string    `json:"took"`
	Pruned  int       `json:"pruned"`
}

// Runner executes backups. Safe for concurrent use; overlapping runs
// write to distinct work directories.
type Runner struct {
	cfg Config
	log *zap.Logger
}

// New builds a Runner.
func New(cfg Config, log *zap.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Run performs one backup: mongodump into a work directory, tar.gz the
// result into the archive directory, remove the work directory, then
// prune expired archives. The archive name embeds the timestamp and a
// short run ID so concurrent runs never collide.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	started := time.Now().UTC()
	runID := uuid.NewString()

	if err := os.MkdirAll(r.cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	stamp := started.Format("20060102-150405")
	short := runID[:8]
	workDir := filepath.Join(r.cfg.Dir, fmt.Sprintf(".work-%s-%s", stamp, short))
	archive := filepath.Join(r.cfg.Dir, fmt.Sprintf("%s-%s-%s.tar.gz", r.cfg.Database, stamp, short))

	defer os.RemoveAll(workDir)

	if err := r.dump(ctx, workDir); err != nil {
		return nil, err
	}
	if err := r.compress(ctx, workDir, archive); err != nil {
		// Leave no partial archive behind.
		os.Remove(archive)
		return nil, err
	}

	pruned, err := r.Prune()
	if err != nil {
		r.log.Warn("backup prune failed", zap.Error(err))
	}

	res := &Result{
		RunID:   runID,
		Archive: archive,
		Started: started,
		Took:    time.Since(started).Round(time.Millisecond).String(),
		Pruned:  pruned,
	}
	r.log.Info("backup complete",
		zap.String("run_id", runID),
		zap.String("archive", archive),
		zap.String("took", res.Took),
		zap.Int("pruned", pruned))
	return res, nil
}

func (r *Runner) dump(ctx context.Context, outDir string) error {
	args := []string{
		"--uri=" + r.cfg.MongoURI,
		"--db=" + r.cfg.Database,
		"--out=" + outDir,
		"--quiet",
	}
	cmd := exec.CommandContext(ctx, "mongodump", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("mongodump: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (r *Runner) compress(ctx context.Context, workDir, archive string) error {
	cmd := exec.CommandContext(ctx, "tar", "-czf", archive, "-C", workDir, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("tar: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Prune removes archives older than the retention window and returns
// how many were removed. Work directories and foreign files are left
// alone.
func (r *Runner) Prune() (int, error) {
	if r.cfg.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-time.Duration(r.cfg.RetentionDays) * 24 * time.Hour)

	entries, err := os.ReadDir(r.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read backup dir: %w", err)
	}

	pruned := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tar.gz") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(r.cfg.Dir, e.Name())
		if err := os.Remove(path); err != nil {
			r.log.Warn("remove expired archive failed", zap.String("path", path), zap.Error(err))
			continue
		}
		pruned++
	}
	return pruned, nil
}
