package memstore

import (
	"sort"
	"sync"

	"github.com/trybenon/peopled/lib/model"
	"github.com/trybenon/peopled/lib/store"
)

// storeImpl keeps all records and users in process memory.
type storeImpl struct {
	mu     sync.RWMutex
	people map[int64]model.Person
	users  map[string]string // login -> password hash
	nextID int64
}

// NewMemoryStore creates a new in-memory store instance.
// This store implementation is not persistent and only works within a single
// process. It is used by the test suite and by servers that run without a
// database file.
func NewMemoryStore() store.IStore {
	return &storeImpl{
		people: make(map[int64]model.Person),
		users:  make(map[string]string),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Load(owner string) ([]model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Person, 0, len(s.people))
	for _, p := range s.people {
		if owner == "" || p.Owner == owner {
			out = append(out, p)
		}
	}

	// id order equals insertion order
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *storeImpl) Add(p model.Person) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p.ID = s.nextID
	s.people[p.ID] = p
	return p.ID, nil
}

func (s *storeImpl) Update(id int64, p model.Person, owner string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.people[id]
	if !ok || old.Owner != owner {
		return false, nil
	}
	p.ID = id
	p.Owner = owner
	s.people[id] = p
	return true, nil
}

func (s *storeImpl) Remove(id int64, owner string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.people[id]
	if !ok || old.Owner != owner {
		return false, nil
	}
	delete(s.people, id)
	return true, nil
}

func (s *storeImpl) RemoveMin(owner string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	minID := int64(-1)
	for id, p := range s.people {
		if p.Owner != owner {
			continue
		}
		if minID < 0 || id < minID {
			minID = id
		}
	}
	if minID < 0 {
		return false, nil
	}
	delete(s.people, minID)
	return true, nil
}

func (s *storeImpl) Clear(owner string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, p := range s.people {
		if p.Owner == owner {
			delete(s.people, id)
			removed++
		}
	}
	return removed, nil
}

func (s *storeImpl) AddUser(login, hash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[login]; exists {
		return false, nil
	}
	s.users[login] = hash
	return true, nil
}

func (s *storeImpl) UserHash(login string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hash, ok := s.users[login]
	return hash, ok, nil
}

func (s *storeImpl) Close() error {
	return nil
}
