// Package cleanup removes aged working files left behind by finished jobs.
package cleanup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mcatarino/order-extractor/internal/common"
)

// Sweeper deletes files older than the retention window from the working
// directories on a fixed interval.
type Sweeper struct {
	dirs      []string
	interval  time.Duration
	retention time.Duration
	log       *slog.Logger
}

// New builds a sweeper over the storage directories.
func New(storage common.StorageConfig, cfg common.CleanupConfig, log *slog.Logger) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	retention := cfg.Retention
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &Sweeper{
		dirs:      []string{storage.TempDir, storage.ConvertedDir, storage.ResultsDir},
		interval:  interval,
		retention: retention,
		log:       log,
	}
}

// Run sweeps until the context is cancelled. One sweep runs immediately.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	cutoff := time.Now().Add(-s.retention)
	var removed, failed int
	for _, dir := range s.dirs {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				s.log.Warn("cleanup.dir.unreadable", "dir", dir, "err", err)
			}
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				s.log.Warn("cleanup.file.remove_failed", "path", path, "err", err)
				failed++
				continue
			}
			removed++
		}
	}
	if removed > 0 || failed > 0 {
		s.log.Info("cleanup.sweep.ok", "removed", removed, "failed", failed,
			"retention", s.retention.String())
	}
}
