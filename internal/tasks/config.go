package tasks

import "time"

// Config tunes the background queue.
type Config struct {
	Workers         int           // concurrent workers
	ReleaseAfter    time.Duration // a claimed task is handed out again after this long
	CleanupInterval time.Duration // how often finished tasks are purged from the queue DB
}

// DefaultConfig returns the queue defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Workers:         1,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

// withDefaults fills every zero or negative setting from DefaultConfig.
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
