// Package state persists curated configuration lists as YAML snapshots.
//
// Snapshots are written one file per save under the snapshot directory:
//
//	<snapshot_dir>/vppsh-20260102-150405.yaml
//
// A second save within the same second becomes vppsh-20260102-150405-1.yaml.
//
// and can be replayed later against a VPP instance with `vppsh --replay`.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is written into every new snapshot.
const CurrentVersion = 1

const filenameLayout = "20060102-150405"

const maxNameCollisions = 100

// ErrEmpty is returned by Save when there is nothing to persist.
var ErrEmpty = errors.New("snapshot has no commands")

// Snapshot represents the on-disk YAML structure.
// Keep fields stable for backward compatibility.
type Snapshot struct {
	// Version allows future migrations.
	Version int `yaml:"version"`

	// Socket is the CLI socket the commands were captured from.
	Socket string `yaml:"socket,omitempty"`

	// Saved is the save time in RFC3339.
	Saved string `yaml:"saved,omitempty"`

	// Commands is the curated configuration list, in order.
	Commands []string `yaml:"commands"`

	// History is the full captured history at save time.
	History []string `yaml:"history,omitempty"`
}

// Save writes snap into dir atomically and returns the file path. The
// directory is created with 0700 permissions if missing.
func Save(dir string, snap Snapshot, now time.Time) (string, error) {
	if len(snap.Commands) == 0 {
		return "", ErrEmpty
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", errors.New("save snapshot: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create snapshot dir %s: %w", dir, err)
	}

	if snap.Version == 0 {
		snap.Version = CurrentVersion
	}
	snap.Saved = now.UTC().Format(time.RFC3339)
	payload, err := yaml.Marshal(&snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	base := filepath.Join(dir, "vppsh-"+now.Format(filenameLayout))
	tmp := base + fmt.Sprintf(".yaml.tmp-%d-%d", os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return "", fmt.Errorf("write temp snapshot %s: %w", tmp, err)
	}
	defer func() { _ = os.Remove(tmp) }()

	// Link never replaces an existing name, so snapshots taken within the
	// same second get a numeric suffix instead of overwriting each other.
	for i := 0; i < maxNameCollisions; i++ {
		path := base + ".yaml"
		if i > 0 {
			path = fmt.Sprintf("%s-%d.yaml", base, i)
		}
		err := os.Link(tmp, path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("publish snapshot %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("publish snapshot %s: too many snapshots in one second", base)
}

// Load reads a snapshot written by Save.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if snap.Version == 0 {
		snap.Version = CurrentVersion
	}
	if snap.Version > CurrentVersion {
		return nil, fmt.Errorf("snapshot %s: unsupported version %d", path, snap.Version)
	}
	return &snap, nil
}
