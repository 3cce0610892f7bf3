// Package history persists per-command usage counters used to boost the
// ranking of frequently run commands.
package history

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/cristianoliveira/quickfire/internal/catalog"
	"github.com/cristianoliveira/quickfire/internal/config"
	"github.com/cristianoliveira/quickfire/internal/logging"
)

// store is the on-disk TOML shape: a single [counts] table keyed by
// "{provider}::{name}".
type store struct {
	Counts map[string]uint64 `toml:"counts"`
}

// Tracker holds in-memory usage counters bound to a file path. A Tracker with
// an empty path counts in memory only.
type Tracker struct {
	counts map[string]uint64
	path   string
}

// Load reads the usage store from the default per-user location. A missing or
// unreadable file yields an empty tracker; usage data is an optimization, not
// a requirement.
func Load() *Tracker {
	path, err := config.UsageStorePath()
	if err != nil {
		logging.Warn("cannot resolve usage store path", "error", err)
		return &Tracker{counts: make(map[string]uint64)}
	}
	return LoadFrom(path)
}

// LoadFrom reads the usage store at path. Corrupt or missing content yields
// an empty tracker bound to the same path.
func LoadFrom(path string) *Tracker {
	tracker := &Tracker{counts: make(map[string]uint64), path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return tracker
	}

	var s store
	if err := toml.Unmarshal(data, &s); err != nil {
		logging.Warn("usage store is corrupt, starting empty", "path", path, "error", err)
		return tracker
	}
	if s.Counts != nil {
		tracker.counts = s.Counts
	}
	return tracker
}

// Record increments the counter for key and rewrites the store file.
// Persistence failures are logged and otherwise ignored.
func (t *Tracker) Record(key string) {
	t.counts[key]++
	if t.path == "" {
		return
	}
	if err := t.persist(); err != nil {
		logging.Warn("cannot persist usage store", "path", t.path, "error", err)
	}
}

// Count returns the recorded invocation count for key.
func (t *Tracker) Count(key string) uint64 {
	return t.counts[key]
}

// Boost computes the ranking bonus for an entry: invocation count times the
// configured weight. Disabled ranking or a negative weight yields zero.
func (t *Tracker) Boost(entry catalog.Entry, ranking config.RankingConfig) int64 {
	if !ranking.UsageEnabled {
		return 0
	}
	weight := ranking.UsageWeight
	if weight < 0 {
		weight = 0
	}

	count := t.counts[entry.UsageKey()]
	const maxInt64 = uint64(1<<63 - 1)
	if count > maxInt64 {
		count = maxInt64
	}

	boost := int64(count) * weight
	if weight != 0 && boost/weight != int64(count) {
		return 1<<63 - 1
	}
	return boost
}

func (t *Tracker) persist() error {
	if parent := filepath.Dir(t.path); parent != "" {
		if err := os.MkdirAll(parent, config.FileModeDir); err != nil {
			return err
		}
	}

	data, err := toml.Marshal(store{Counts: t.counts})
	if err != nil {
		return err
	}
	return os.WriteFile(t.path, data, config.FileModeFile)
}
