// Package tasks runs background maintenance jobs on a backlite queue stored
// in its own SQLite database next to the catalog.
package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client owns the queue database and the backlite workers.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	config  Config
	running atomic.Bool
}

// DatabasePath returns the queue database path for a catalog database:
// "library.sqlite" becomes "library-tasks.sqlite" in the same directory.
func DatabasePath(mainDBPath string) string {
	base := filepath.Base(mainDBPath)
	ext := filepath.Ext(base)
	return filepath.Join(filepath.Dir(mainDBPath), strings.TrimSuffix(base, ext)+"-tasks"+ext)
}

func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// Workers plus the enqueuing side and the cleanup loop
	db.SetMaxOpenConns(workers + 4)
	db.SetMaxIdleConns(workers + 1)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// NewClient opens (and if needed creates) the queue database beside
// mainDBPath and installs the backlite schema.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	db, err := openQueueDB(DatabasePath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("open queue database: %w", err)
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err == nil {
		err = queue.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("set up task queue: %w", err)
	}

	return &Client{queue: queue, db: db, config: cfg}, nil
}

// Register adds queues. Call before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start launches the workers. Calling it again is a no-op.
func (c *Client) Start(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	log.Printf("Maintenance queue running with %d workers", c.config.Workers)
	c.queue.Start(ctx)
}

// Stop waits for running tasks until ctx expires. It reports whether every
// worker finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.running.Load() {
		return true
	}
	if !c.queue.Stop(ctx) {
		log.Println("Maintenance queue stopped before all tasks finished")
		return false
	}
	log.Println("Maintenance queue stopped")
	return true
}

// Close releases the queue database. Call after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Enqueue stores the tasks for the workers and returns their IDs.
func (c *Client) Enqueue(ctx context.Context, tasks ...backlite.Task) ([]string, error) {
	return c.queue.Add(tasks...).Ctx(ctx).Save()
}

// queueLogger sends backlite's messages to the standard logger.
type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (queueLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
