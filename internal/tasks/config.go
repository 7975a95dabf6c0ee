package tasks

import (
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/library/internal/config"
)

// Config sizes the maintenance queue.
type Config struct {
	Workers         int
	ReleaseAfter    time.Duration // stuck tasks are handed to another worker after this
	CleanupInterval time.Duration // how often finished tasks are purged
}

func DefaultConfig() Config {
	return Config{
		Workers:         1,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

// ConfigFrom copies the environment settings. Zero values are filled in by
// NewClient.
func ConfigFrom(cfg config.Tasks) Config {
	return Config{
		Workers:         cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = d.ReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	return c
}

// maintenanceQueue is the layout shared by every catalog maintenance queue:
// a few retries, and finished runs kept for a day with payloads only for
// failures.
func maintenanceQueue(name string, backoff, timeout time.Duration) backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        name,
		MaxAttempts: 3,
		Backoff:     backoff,
		Timeout:     timeout,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}
