// Package state persists the last computed schedule snapshot so `show` can
// display it without re-running the engine. This is a CLI convenience; the
// engine itself keeps no state between runs.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joshharrison/schedloom/internal/graph"
)

const snapshotFile = "schedule.json"

// Snapshot is a persisted engine result.
type Snapshot struct {
	ID           string                 `json:"id"`
	ComputedAt   time.Time              `json:"computed_at"`
	ProjectFile  string                 `json:"project_file"`
	ProjectName  string                 `json:"project_name,omitempty"`
	ProjectStart time.Time              `json:"project_start"`
	ProjectEnd   *time.Time             `json:"project_end,omitempty"`
	Tasks        map[string]*graph.Task `json:"tasks"`
	CriticalPath []string               `json:"critical_path"`
	TopoOrder    []string               `json:"topo_order"`

	mu  sync.Mutex `json:"-"`
	dir string     `json:"-"`
}

// New creates a snapshot with a fresh id, rooted at dir.
func New(dir string) *Snapshot {
	return &Snapshot{
		ID:         uuid.NewString(),
		ComputedAt: time.Now(),
		Tasks:      make(map[string]*graph.Task),
		dir:        dir,
	}
}

// Save writes the snapshot to <dir>/schedule.json, creating dir if needed.
func (s *Snapshot) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, snapshotFile), data, 0644)
}

// Load reads an existing snapshot from dir.
func Load(dir string) (*Snapshot, error) {
	path := filepath.Join(dir, snapshotFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	s.dir = dir
	return &s, nil
}

// Exists reports whether a snapshot is present under dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, snapshotFile))
	return err == nil
}
