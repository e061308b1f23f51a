package sqlstore

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/trybenon/peopled/lib/model"
)

func testStore(t *testing.T) *storeImpl {
	t.Helper()
	s, err := NewSQLStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.(*storeImpl)
}

func testPerson(name string, height int, owner string) model.Person {
	return model.Person{
		Name:        name,
		Coordinates: model.Coordinates{X: 1, Y: 2.5},
		Height:      height,
		Weight:      70,
		EyeColor:    model.ColorBlue,
		Location:    model.Location{X: 0.5, Y: 1.5, Z: 2},
		Owner:       owner,
	}
}

func TestUserLifecycle(t *testing.T) {
	s := testStore(t)

	created, err := s.AddUser("bob", "hash-1")
	if err != nil || !created {
		t.Fatalf("AddUser = (%v, %v), want (true, nil)", created, err)
	}

	// duplicate login is rejected without error
	created, err = s.AddUser("bob", "hash-2")
	if err != nil || created {
		t.Fatalf("duplicate AddUser = (%v, %v), want (false, nil)", created, err)
	}

	hash, found, err := s.UserHash("bob")
	if err != nil || !found || hash != "hash-1" {
		t.Fatalf("UserHash = (%q, %v, %v), want (hash-1, true, nil)", hash, found, err)
	}

	if _, found, _ := s.UserHash("nobody"); found {
		t.Errorf("UserHash found a user that was never registered")
	}
}

func TestPersonCRUD(t *testing.T) {
	s := testStore(t)
	mustUser(t, s, "bob")
	mustUser(t, s, "eve")

	id1, err := s.Add(testPerson("A", 180, "bob"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	id2, err := s.Add(testPerson("B", 170, "eve"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("expected distinct ids, both are %d", id1)
	}

	// unscoped load sees both, id ordered
	all, err := s.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != id1 || all[1].ID != id2 {
		t.Fatalf("unexpected unscoped load: %+v", all)
	}
	if all[0].EyeColor != model.ColorBlue {
		t.Errorf("eye color not round-tripped: %v", all[0].EyeColor)
	}

	// scoped load sees only the owner's records
	bobs, err := s.Load("bob")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(bobs) != 1 || bobs[0].Name != "A" {
		t.Fatalf("unexpected scoped load: %+v", bobs)
	}

	// update by the wrong owner touches nothing
	updated, err := s.Update(id1, testPerson("A2", 190, "eve"), "eve")
	if err != nil || updated {
		t.Fatalf("foreign Update = (%v, %v), want (false, nil)", updated, err)
	}

	updated, err = s.Update(id1, testPerson("A2", 190, "bob"), "bob")
	if err != nil || !updated {
		t.Fatalf("Update = (%v, %v), want (true, nil)", updated, err)
	}
	bobs, _ = s.Load("bob")
	if bobs[0].Name != "A2" || bobs[0].Height != 190 {
		t.Fatalf("update not applied: %+v", bobs[0])
	}

	// remove by the wrong owner touches nothing
	removed, err := s.Remove(id1, "eve")
	if err != nil || removed {
		t.Fatalf("foreign Remove = (%v, %v), want (false, nil)", removed, err)
	}
	removed, err = s.Remove(id1, "bob")
	if err != nil || !removed {
		t.Fatalf("Remove = (%v, %v), want (true, nil)", removed, err)
	}

	all, _ = s.Load("")
	if len(all) != 1 || all[0].ID != id2 {
		t.Fatalf("unexpected collection after remove: %+v", all)
	}
}

func TestRemoveMinAndClear(t *testing.T) {
	s := testStore(t)
	mustUser(t, s, "bob")

	first, _ := s.Add(testPerson("A", 160, "bob"))
	s.Add(testPerson("B", 170, "bob"))
	s.Add(testPerson("C", 180, "bob"))

	removed, err := s.RemoveMin("bob")
	if err != nil || !removed {
		t.Fatalf("RemoveMin = (%v, %v), want (true, nil)", removed, err)
	}
	rest, _ := s.Load("bob")
	for _, p := range rest {
		if p.ID == first {
			t.Fatalf("oldest record %d still present", first)
		}
	}

	n, err := s.Clear("bob")
	if err != nil || n != 2 {
		t.Fatalf("Clear = (%d, %v), want (2, nil)", n, err)
	}
	if removed, _ := s.RemoveMin("bob"); removed {
		t.Errorf("RemoveMin on an empty scope reported a removal")
	}
}

func mustUser(t *testing.T, s *storeImpl, login string) {
	t.Helper()
	if _, err := s.AddUser(login, "x"); err != nil {
		t.Fatalf("failed to create user %s: %v", login, err)
	}
}

func TestAddUserConcurrentSameLogin(t *testing.T) {
	s := testStore(t)

	// racing registrations for one login must resolve to exactly one winner,
	// the rest get (false, nil) instead of a constraint error
	const racers = 16
	var (
		wg      sync.WaitGroup
		created atomic.Int32
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ok, err := s.AddUser("bob", fmt.Sprintf("hash-%d", n))
			if err != nil {
				t.Errorf("AddUser: %v", err)
				return
			}
			if ok {
				created.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if got := created.Load(); got != 1 {
		t.Fatalf("expected exactly one successful registration, got %d", got)
	}
	if _, found, err := s.UserHash("bob"); err != nil || !found {
		t.Fatalf("UserHash = (found=%v, err=%v), want the winner's entry", found, err)
	}
}
