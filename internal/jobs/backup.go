package jobs

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lebonmot/reviews-backend/internal/models"
	"github.com/lebonmot/reviews-backend/internal/storage"
)

// backupRetention is how many snapshot files are kept on disk.
const backupRetention = 7

// BackupJob periodically writes a JSON snapshot of the marketplace data.
// One snapshot at boot, then one every 24 hours, oldest files pruned.
type BackupJob struct {
	store     storage.Store
	dir       string
	interval  time.Duration
	isRunning bool
	done      chan struct{}
}

// NewBackupJob creates a backup job writing into dir
func NewBackupJob(store storage.Store, dir string) *BackupJob {
	return &BackupJob{
		store:    store,
		dir:      dir,
		interval: 24 * time.Hour,
		done:     make(chan struct{}),
	}
}

// snapshot is the on-disk backup layout.
type snapshot struct {
	ID        string                   `json:"id"`
	CreatedAt time.Time                `json:"created_at"`
	Orders    []*models.Order          `json:"orders"`
	Workers   []*models.Worker         `json:"workers"`
	Tasks     []*models.Task           `json:"tasks"`
	Messages  []*models.SupportMessage `json:"messages"`
	Stats     *models.Stats            `json:"stats"`
}

// Start launches the backup loop.
func (j *BackupJob) Start() {
	if j.isRunning {
		log.Println("Backup job already running")
		return
	}
	j.isRunning = true

	go func() {
		log.Printf("💾 Backup job started (every %v, keeping %d files)", j.interval, backupRetention)
		j.runOnce()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.runOnce()
			case <-j.done:
				return
			}
		}
	}()
}

// Stop halts the backup loop.
func (j *BackupJob) Stop() {
	if !j.isRunning {
		return
	}
	j.isRunning = false
	close(j.done)
	log.Println("Backup job stopped")
}

func (j *BackupJob) runOnce() {
	if err := j.Snapshot(); err != nil {
		log.Printf("Backup failed: %v", err)
	}
}

// Snapshot gathers all collections concurrently and writes one backup file.
func (j *BackupJob) Snapshot() error {
	snap := snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	var g errgroup.Group
	g.Go(func() error {
		orders, err := j.store.GetAllOrders()
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		snap.Orders = orders
		return nil
	})
	g.Go(func() error {
		workers, err := j.store.GetAllWorkers()
		if err != nil {
			return fmt.Errorf("workers: %w", err)
		}
		snap.Workers = workers
		return nil
	})
	g.Go(func() error {
		var all []*models.Task
		for _, status := range []string{models.TaskStatusAvailable, models.TaskStatusSubmitted, models.TaskStatusValidated} {
			tasks, err := j.store.GetTasksByStatus(status)
			if err != nil {
				return fmt.Errorf("tasks %s: %w", status, err)
			}
			all = append(all, tasks...)
		}
		snap.Tasks = all
		return nil
	})
	g.Go(func() error {
		messages, err := j.store.GetAllSupportMessages()
		if err != nil {
			return fmt.Errorf("messages: %w", err)
		}
		snap.Messages = messages
		return nil
	})
	g.Go(func() error {
		stats, err := j.store.GetStats()
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		snap.Stats = stats
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("backup-%s-%s.json", snap.CreatedAt.Format("20060102-150405"), snap.ID[:8])
	path := filepath.Join(j.dir, name)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	log.Printf("💾 Backup written: %s (%d orders, %d workers, %d tasks)",
		name, len(snap.Orders), len(snap.Workers), len(snap.Tasks))

	return j.prune()
}

// prune deletes the oldest backups beyond the retention count. Filenames are
// timestamp-prefixed so lexical order is chronological order.
func (j *BackupJob) prune() error {
	entries, err := filepath.Glob(filepath.Join(j.dir, "backup-*.json"))
	if err != nil {
		return err
	}
	if len(entries) <= backupRetention {
		return nil
	}

	sort.Strings(entries)
	for _, path := range entries[:len(entries)-backupRetention] {
		if err := os.Remove(path); err != nil {
			log.Printf("Failed to prune backup %s: %v", path, err)
			continue
		}
		log.Printf("🗑️ Pruned old backup: %s", filepath.Base(path))
	}
	return nil
}
