package state

import (
	"errors"
	"sync"
	"time"
)

// ErrLocked reports that the launch state is unusable because a previous
// holder of the lock panicked mid-update.
var ErrLocked = errors.New("launch state locked")

// LaunchParams is the resolved launch descriptor of one product. Empty
// fields mean "not set", never absent.
type LaunchParams struct {
	ExePath string `json:"exePath"`
	WorkDir string `json:"workDir"`
	Args    string `json:"args"`
}

// DesktopSet holds the product ids that represent "exit to desktop".
type DesktopSet map[string]struct{}

// NewDesktopSet builds a set from ids.
func NewDesktopSet(ids ...string) DesktopSet {
	set := make(DesktopSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is a desktop entry.
func (d DesktopSet) Contains(id string) bool {
	_, ok := d[id]
	return ok
}

// Snapshot is one catalog load worth of launch state.
type Snapshot struct {
	Launches    map[string]LaunchParams
	Desktop     DesktopSet
	LastUpdated time.Time
	Loads       int // number of successful installs
}

// Store coordinates concurrent access to the launch state. The aggregator
// installs a fully built snapshot with Replace; the launch resolver reads
// single entries. Launches and Desktop are always published together.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	poisoned bool
}

// Replace installs launches and desktop as the current state. The maps are
// copied so later mutation by the caller cannot leak in.
func (s *Store) Replace(launches map[string]LaunchParams, desktop DesktopSet) error {
	if s == nil {
		return ErrLocked
	}
	next := Snapshot{
		Launches:    cloneLaunches(launches),
		Desktop:     cloneDesktop(desktop),
		LastUpdated: time.Now(),
	}
	return s.write(func() {
		next.Loads = s.snapshot.Loads + 1
		s.snapshot = next
	})
}

// IsDesktop reports whether id is currently classified as a desktop entry.
func (s *Store) IsDesktop(id string) (bool, error) {
	var ok bool
	err := s.read(func() {
		ok = s.snapshot.Desktop.Contains(id)
	})
	return ok, err
}

// Lookup returns the launch descriptor for id.
func (s *Store) Lookup(id string) (LaunchParams, bool, error) {
	var (
		params LaunchParams
		ok     bool
	)
	err := s.read(func() {
		params, ok = s.snapshot.Launches[id]
	})
	return params, ok, err
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.read(func() {
		snap = s.snapshot
		snap.Launches = cloneLaunches(s.snapshot.Launches)
		snap.Desktop = cloneDesktop(s.snapshot.Desktop)
	})
	return snap, err
}

func (s *Store) read(fn func()) error {
	if s == nil {
		return ErrLocked
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.poisoned {
		return ErrLocked
	}
	fn()
	return nil
}

func (s *Store) write(fn func()) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poisoned {
		return ErrLocked
	}
	defer func() {
		if r := recover(); r != nil {
			s.poisoned = true
			panic(r)
		}
	}()
	fn()
	return nil
}

func cloneLaunches(in map[string]LaunchParams) map[string]LaunchParams {
	out := make(map[string]LaunchParams, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneDesktop(in DesktopSet) DesktopSet {
	out := make(DesktopSet, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
