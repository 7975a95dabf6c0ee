package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// OrphanAuthorsCleaner deletes authors that no longer have any books.
type OrphanAuthorsCleaner interface {
	DeleteOrphanAuthors(ctx context.Context) (int64, error)
}

// ReconcileRecorder is notified of every reconciliation run.
type ReconcileRecorder interface {
	LogReconcile(removed int64, err error)
}

// ReconcileOrphanAuthorsTask removes authors left without books.
type ReconcileOrphanAuthorsTask struct {
	// Trigger names what enqueued the run ("schedule" or "cli"), for the log.
	Trigger string `json:"trigger,omitempty"`
}

func (t ReconcileOrphanAuthorsTask) Config() backlite.QueueConfig {
	return maintenanceQueue("reconcile_orphan_authors", time.Minute, time.Minute)
}

// ReconcileOrphanAuthors runs one reconciliation pass and reports it to recorder,
// which may be nil.
func ReconcileOrphanAuthors(ctx context.Context, cleaner OrphanAuthorsCleaner, recorder ReconcileRecorder) (int64, error) {
	if cleaner == nil {
		return 0, fmt.Errorf("orphan authors cleaner not configured")
	}

	removed, err := cleaner.DeleteOrphanAuthors(ctx)
	if recorder != nil {
		recorder.LogReconcile(removed, err)
	}
	if err != nil {
		return 0, fmt.Errorf("reconcile orphan authors: %w", err)
	}
	return removed, nil
}

// ReconcileOrphanAuthorsProcessor creates a processor function for ReconcileOrphanAuthorsTask.
func ReconcileOrphanAuthorsProcessor(cleaner OrphanAuthorsCleaner, recorder ReconcileRecorder) backlite.QueueProcessor[ReconcileOrphanAuthorsTask] {
	return func(ctx context.Context, task ReconcileOrphanAuthorsTask) error {
		removed, err := ReconcileOrphanAuthors(ctx, cleaner, recorder)
		if err != nil {
			return err
		}

		if removed > 0 {
			log.Printf("[TASK] Removed %d orphan authors (trigger: %s)", removed, task.Trigger)
		}
		return nil
	}
}

// NewReconcileOrphanAuthorsQueue creates a backlite queue for reconcile tasks.
func NewReconcileOrphanAuthorsQueue(cleaner OrphanAuthorsCleaner, recorder ReconcileRecorder) backlite.Queue {
	return backlite.NewQueue(ReconcileOrphanAuthorsProcessor(cleaner, recorder))
}
