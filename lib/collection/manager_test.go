package collection

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/trybenon/peopled/lib/model"
	"github.com/trybenon/peopled/lib/store/memstore"
)

func testPerson(name string, height int) model.Person {
	return model.Person{
		Name:        name,
		Coordinates: model.Coordinates{X: 1, Y: 1},
		Height:      height,
		Weight:      60,
		Location:    model.Location{Z: 1},
	}
}

func TestAddReturnsFullCollection(t *testing.T) {
	m := NewManager(memstore.NewMemoryStore())

	people, err := m.Add(testPerson("A", 180), "bob")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(people) != 1 || people[0].Owner != "bob" {
		t.Fatalf("unexpected refresh payload: %+v", people)
	}

	// identical content gets a distinct id
	people, err = m.Add(testPerson("A", 180), "bob")
	if err != nil {
		t.Fatalf("second Add failed: %v", err)
	}
	if len(people) != 2 || people[0].ID == people[1].ID {
		t.Fatalf("expected two records with distinct ids: %+v", people)
	}
}

func TestAddRejectsInvalidRecord(t *testing.T) {
	m := NewManager(memstore.NewMemoryStore())

	if _, err := m.Add(testPerson("", 180), "bob"); err == nil {
		t.Errorf("expected validation error for empty name")
	}
	if _, err := m.Add(testPerson("A", -1), "bob"); err == nil {
		t.Errorf("expected validation error for negative height")
	}
	if people, _ := m.Show(); len(people) != 0 {
		t.Errorf("invalid record reached the store: %+v", people)
	}
}

func TestOwnershipEnforcement(t *testing.T) {
	s := memstore.NewMemoryStore()
	m := NewManager(s)

	people, err := m.Add(testPerson("A", 180), "bob")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	id := people[0].ID

	// a foreign mutation must not touch the record
	if _, err := m.RemoveByID(id, "eve"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign RemoveByID error = %v, want ErrNotFound", err)
	}
	if _, err := m.Update(id, testPerson("A2", 170), "eve"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign Update error = %v, want ErrNotFound", err)
	}
	if people, _ := m.Show(); len(people) != 1 || people[0].Name != "A" {
		t.Fatalf("collection changed by a rejected mutation: %+v", people)
	}

	// the owner can
	if _, err := m.Update(id, testPerson("A2", 170), "bob"); err != nil {
		t.Fatalf("owner Update failed: %v", err)
	}
	if _, err := m.RemoveByID(id, "bob"); err != nil {
		t.Fatalf("owner RemoveByID failed: %v", err)
	}
}

func TestLoadThenActFreshness(t *testing.T) {
	s := memstore.NewMemoryStore()

	// two managers over the same store model two server workers (or a write
	// that bypassed this process); the second must observe the first's commit
	a := NewManager(s)
	b := NewManager(s)

	if _, err := a.Add(testPerson("A", 180), "bob"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	people, err := b.Show()
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if len(people) != 1 || people[0].Name != "A" {
		t.Fatalf("manager b did not observe a's committed add: %+v", people)
	}
}

func TestAddIfMax(t *testing.T) {
	m := NewManager(memstore.NewMemoryStore())

	// empty collection: anything is maximal
	if _, err := m.AddIfMax(testPerson("A", 150), "bob"); err != nil {
		t.Fatalf("AddIfMax on empty collection failed: %v", err)
	}

	// equal height is not maximal
	if _, err := m.AddIfMax(testPerson("B", 150), "bob"); !errors.Is(err, ErrNotMaximal) {
		t.Fatalf("equal-height AddIfMax error = %v, want ErrNotMaximal", err)
	}

	people, err := m.AddIfMax(testPerson("C", 200), "bob")
	if err != nil {
		t.Fatalf("taller AddIfMax failed: %v", err)
	}
	if len(people) != 2 {
		t.Fatalf("unexpected collection: %+v", people)
	}
}

func TestHeadAndRemoveHead(t *testing.T) {
	m := NewManager(memstore.NewMemoryStore())

	if _, err := m.Head(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Head on empty collection error = %v, want ErrEmpty", err)
	}

	m.Add(testPerson("A", 160), "bob")
	m.Add(testPerson("B", 170), "bob")

	head, err := m.Head()
	if err != nil {
		t.Fatalf("Head failed: %v", err)
	}
	if head.Name != "A" {
		t.Errorf("head is %q, want the first inserted record", head.Name)
	}

	people, err := m.RemoveHead("bob")
	if err != nil {
		t.Fatalf("RemoveHead failed: %v", err)
	}
	if len(people) != 1 || people[0].Name != "B" {
		t.Fatalf("unexpected collection after RemoveHead: %+v", people)
	}

	// eve owns nothing, her scope is empty
	if _, err := m.RemoveHead("eve"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("foreign RemoveHead error = %v, want ErrEmpty", err)
	}
}

func TestViewsDoNotMutateOrder(t *testing.T) {
	m := NewManager(memstore.NewMemoryStore())
	m.Add(testPerson("C", 180), "bob")
	m.Add(testPerson("A", 160), "bob")
	m.Add(testPerson("B", 170), "bob")

	asc, err := m.Ascending()
	if err != nil {
		t.Fatalf("Ascending failed: %v", err)
	}
	if !sort.SliceIsSorted(asc, func(i, j int) bool { return asc[i].Height < asc[j].Height }) {
		t.Errorf("Ascending view is not height sorted: %+v", asc)
	}

	heights, err := m.HeightsAscending()
	if err != nil {
		t.Fatalf("HeightsAscending failed: %v", err)
	}
	if !sort.IntsAreSorted(heights) {
		t.Errorf("heights not sorted: %v", heights)
	}

	// stored order stays insertion order
	head, _ := m.Head()
	if head.Name != "C" {
		t.Errorf("sorted views mutated stored order, head = %q", head.Name)
	}

	avg, err := m.AverageHeight()
	if err != nil {
		t.Fatalf("AverageHeight failed: %v", err)
	}
	if avg != 170 {
		t.Errorf("AverageHeight = %v, want 170", avg)
	}
}

func TestConcurrentMutationsSerialize(t *testing.T) {
	m := NewManager(memstore.NewMemoryStore())

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := m.Add(testPerson("X", 100+i), "bob"); err != nil {
					t.Errorf("concurrent Add failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	people, err := m.Show()
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if len(people) != workers*perWorker {
		t.Fatalf("lost updates: %d records, want %d", len(people), workers*perWorker)
	}

	seen := make(map[int64]bool, len(people))
	for _, p := range people {
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestCheckID(t *testing.T) {
	m := NewManager(memstore.NewMemoryStore())
	people, _ := m.Add(testPerson("A", 180), "bob")
	id := people[0].ID

	exists, owned, err := m.CheckID(id, "bob")
	if err != nil || !exists || !owned {
		t.Errorf("CheckID(own id) = (%v, %v, %v)", exists, owned, err)
	}
	exists, owned, _ = m.CheckID(id, "eve")
	if !exists || owned {
		t.Errorf("CheckID(foreign id) = (%v, %v)", exists, owned)
	}
	exists, _, _ = m.CheckID(42*1000, "bob")
	if exists {
		t.Errorf("CheckID reported a nonexistent id as existing")
	}
}
