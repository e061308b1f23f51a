package collection

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/trybenon/peopled/lib/model"
	"github.com/trybenon/peopled/lib/store"
)

var Logger = logger.GetLogger("collection")

// Business outcomes that are not infrastructure failures. The dispatcher maps
// them to ERROR (or plain OK-with-message) responses without closing anything.
var (
	// ErrNotFound covers both "no such id" and "owned by someone else"; the
	// two cases are deliberately indistinguishable to the caller.
	ErrNotFound = errors.New("record not found or not owned by you")
	// ErrNotMaximal means the add_if_max candidate did not beat the current maximum.
	ErrNotMaximal = errors.New("height does not exceed the current maximum")
	// ErrEmpty means the operation needs at least one record in scope.
	ErrEmpty = errors.New("collection is empty")
)

// Info is the summary returned by the INFO command.
type Info struct {
	Type          string
	InitializedAt time.Time
	Size          int
}

func (i Info) String() string {
	return fmt.Sprintf("Collection info:\n  type: %s\n  initialized: %s\n  size: %d",
		i.Type, i.InitializedAt.Format(time.RFC3339), i.Size)
}

// Manager owns the in-memory cache of the shared collection and the single
// lock that serializes every access to it and to the backing store.
//
// Policy is load-then-act: each operation reloads the authoritative state
// from the store before inspecting or mutating it, so no command ever acts on
// data staler than the last committed write of any connection. A mutation
// reaches the cache only after the store confirmed it; on store failure the
// cache keeps its previous content.
type Manager struct {
	mu            sync.Mutex
	store         store.IStore
	cache         []model.Person
	initializedAt time.Time
}

// NewManager creates a collection manager over the given backing store.
func NewManager(s store.IStore) *Manager {
	return &Manager{
		store:         s,
		initializedAt: time.Now(),
	}
}

// reload replaces the cache with the store's current unscoped view.
// Callers must hold mu.
func (m *Manager) reload() error {
	people, err := m.store.Load("")
	if err != nil {
		return err
	}
	m.cache = people
	return nil
}

// snapshot returns a copy of the cache so callers can release the lock before
// handing records to the serializer. Callers must hold mu.
func (m *Manager) snapshot() []model.Person {
	out := make([]model.Person, len(m.cache))
	copy(out, m.cache)
	return out
}

// --------------------------------------------------------------------------
// Read Operations
// --------------------------------------------------------------------------

// Show returns the unscoped collection sorted by record name.
func (m *Manager) Show() ([]model.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reload(); err != nil {
		return nil, err
	}
	out := m.snapshot()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Info returns a summary of the collection.
func (m *Manager) Info() (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reload(); err != nil {
		return Info{}, err
	}
	return Info{
		Type:          "[]model.Person",
		InitializedAt: m.initializedAt,
		Size:          len(m.cache),
	}, nil
}

// Head returns the first record in insertion order, or ErrEmpty.
func (m *Manager) Head() (*model.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reload(); err != nil {
		return nil, err
	}
	if len(m.cache) == 0 {
		return nil, ErrEmpty
	}
	head := m.cache[0]
	return &head, nil
}

// AverageHeight returns the mean height over the unscoped view, or ErrEmpty.
func (m *Manager) AverageHeight() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reload(); err != nil {
		return 0, err
	}
	if len(m.cache) == 0 {
		return 0, ErrEmpty
	}
	sum := 0
	for _, p := range m.cache {
		sum += p.Height
	}
	return float64(sum) / float64(len(m.cache)), nil
}

// Ascending returns the unscoped collection sorted by height. Stored order is
// untouched; only the returned view is sorted.
func (m *Manager) Ascending() ([]model.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reload(); err != nil {
		return nil, err
	}
	out := m.snapshot()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Height < out[j].Height })
	return out, nil
}

// HeightsAscending returns all height values sorted ascending.
func (m *Manager) HeightsAscending() ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reload(); err != nil {
		return nil, err
	}
	heights := make([]int, 0, len(m.cache))
	for _, p := range m.cache {
		heights = append(heights, p.Height)
	}
	sort.Ints(heights)
	return heights, nil
}

// CheckID reports whether a record with the given id exists and is owned by
// the given login.
func (m *Manager) CheckID(id int64, owner string) (exists, owned bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reload(); err != nil {
		return false, false, err
	}
	for _, p := range m.cache {
		if p.ID == id {
			return true, p.Owner == owner, nil
		}
	}
	return false, false, nil
}

// --------------------------------------------------------------------------
// Mutating Operations
// --------------------------------------------------------------------------
//
// Each follows the same sequence: lock, reload, validate, write the store,
// and only on store success refresh the cache. The returned slice is the full
// post-mutation unscoped collection for the REFRESH response payload.

// Add validates and persists a new record for the owner.
func (m *Manager) Add(p model.Person, owner string) ([]model.Person, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reload(); err != nil {
		return nil, err
	}

	p.Owner = owner
	id, err := m.store.Add(p)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("added record %d for owner %s", id, owner)

	if err := m.reload(); err != nil {
		return nil, err
	}
	return m.snapshot(), nil
}

// Update replaces the record with the given id, provided the owner owns it.
func (m *Manager) Update(id int64, p model.Person, owner string) ([]model.Person, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reload(); err != nil {
		return nil, err
	}

	updated, err := m.store.Update(id, p, owner)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotFound
	}

	if err := m.reload(); err != nil {
		return nil, err
	}
	return m.snapshot(), nil
}

// RemoveByID deletes the record with the given id, provided the owner owns it.
func (m *Manager) RemoveByID(id int64, owner string) ([]model.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reload(); err != nil {
		return nil, err
	}

	removed, err := m.store.Remove(id, owner)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrNotFound
	}

	if err := m.reload(); err != nil {
		return nil, err
	}
	return m.snapshot(), nil
}

// Clear deletes every record of the owner. Clearing an already empty scope is
// not an error.
func (m *Manager) Clear(owner string) ([]model.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reload(); err != nil {
		return nil, err
	}

	n, err := m.store.Clear(owner)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("cleared %d records for owner %s", n, owner)

	if err := m.reload(); err != nil {
		return nil, err
	}
	return m.snapshot(), nil
}

// AddIfMax persists the record only if its height exceeds the maximum over
// the unscoped view. A non-maximal candidate yields ErrNotMaximal and no
// store write.
func (m *Manager) AddIfMax(p model.Person, owner string) ([]model.Person, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reload(); err != nil {
		return nil, err
	}

	for _, existing := range m.cache {
		if existing.Height >= p.Height {
			return nil, ErrNotMaximal
		}
	}

	p.Owner = owner
	if _, err := m.store.Add(p); err != nil {
		return nil, err
	}

	if err := m.reload(); err != nil {
		return nil, err
	}
	return m.snapshot(), nil
}

// RemoveHead deletes the owner's oldest record (smallest id).
func (m *Manager) RemoveHead(owner string) ([]model.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reload(); err != nil {
		return nil, err
	}

	removed, err := m.store.RemoveMin(owner)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrEmpty
	}

	if err := m.reload(); err != nil {
		return nil, err
	}
	return m.snapshot(), nil
}
