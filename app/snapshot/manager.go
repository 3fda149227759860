package snapshot

import (
	"fmt"
	"log/slog"
)

// State is the cache status for one source. Behavior differs in all three
// cases, so it is an explicit tag rather than booleans.
type State int

const (
	NoCache State = iota
	CachedValid
	CachedPlaceholder
)

func (s State) String() string {
	switch s {
	case NoCache:
		return "no_cache"
	case CachedValid:
		return "cached_valid"
	case CachedPlaceholder:
		return "cached_placeholder"
	}
	return "unknown"
}

// MissingCacheError is returned when a source has no cached snapshot and no
// refresh was requested; bootstrapping a source requires an explicit
// refresh.
type MissingCacheError struct {
	Source string
	Path   string
}

func (e *MissingCacheError) Error() string {
	return fmt.Sprintf("cache missing for %s (%s); request a refresh to fetch once", e.Source, e.Path)
}

// FetchFunc performs one fetch attempt for a source.
type FetchFunc func() (*Snapshot, error)

// Manager decides, per source, between using the cache, refreshing, and
// falling back to a stale-but-valid cache when a refresh fails.
type Manager struct {
	store *Store
}

func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) Store() *Store {
	return m.store
}

// State classifies the cached snapshot for a source.
func (m *Manager) State(name string) (State, error) {
	cached, err := m.store.Load(name)
	if err != nil {
		return NoCache, err
	}
	if cached == nil {
		return NoCache, nil
	}
	if cached.IsPlaceholder() {
		return CachedPlaceholder, nil
	}
	return CachedValid, nil
}

// LoadOrFetch returns the snapshot to use for a source:
//
//   - valid cache, no refresh: the cache, untouched, no network activity;
//   - no cache, no refresh: MissingCacheError;
//   - placeholder cache, no refresh: exactly one fetch attempt to upgrade
//     it, falling back to the placeholder with a warning if that fails;
//   - otherwise fetch, persist on success, and on failure return a
//     stale-but-valid cache with a warning rather than erasing known-good
//     data.
func (m *Manager) LoadOrFetch(name string, refresh bool, fetch FetchFunc) (*Snapshot, error) {
	cached, err := m.store.Load(name)
	if err != nil {
		return nil, err
	}

	if cached != nil && !refresh {
		if !cached.IsPlaceholder() {
			return cached, nil
		}
		fresh, ferr := m.refresh(name, fetch)
		if ferr != nil {
			slog.Warn("Placeholder cache upgrade failed, keeping placeholder",
				"source", name, "error", ferr)
			return cached, nil
		}
		return fresh, nil
	}

	if cached == nil && !refresh {
		return nil, &MissingCacheError{Source: name, Path: m.store.Path(name)}
	}

	fresh, ferr := m.refresh(name, fetch)
	if ferr != nil {
		if cached != nil && !cached.IsPlaceholder() {
			slog.Warn("Refresh failed, using cached snapshot",
				"source", name, "path", m.store.Path(name), "error", ferr)
			return cached, nil
		}
		return nil, ferr
	}
	return fresh, nil
}

func (m *Manager) refresh(name string, fetch FetchFunc) (*Snapshot, error) {
	snap, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(name, snap); err != nil {
		return nil, err
	}
	return snap, nil
}
