package handle

import "testing"

type widgetMarker struct{}

func (widgetMarker) marker() {}

type widgetID = ID[widgetMarker]

func TestTableInsertGet(t *testing.T) {
	tbl := NewTable[string, widgetMarker]()

	id := tbl.Insert("first")
	if id.IsNull() {
		t.Fatal("Insert returned null handle")
	}

	got, err := tbl.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "first" {
		t.Errorf("Get = %q, want %q", got, "first")
	}
}

func TestTableRemoveInvalidatesHandle(t *testing.T) {
	tbl := NewTable[string, widgetMarker]()
	id := tbl.Insert("first")

	if _, err := tbl.Remove(id); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := tbl.Get(id); err != ErrNotFound {
		t.Errorf("Get after Remove = %v, want ErrNotFound", err)
	}
}

func TestTableRecycledSlotRejectsStaleHandle(t *testing.T) {
	tbl := NewTable[string, widgetMarker]()
	stale := tbl.Insert("first")
	if _, err := tbl.Remove(stale); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	fresh := tbl.Insert("second")
	if fresh.Index() != stale.Index() {
		t.Fatalf("expected slot reuse: stale index %d, fresh index %d", stale.Index(), fresh.Index())
	}
	if fresh.Epoch() == stale.Epoch() {
		t.Fatalf("expected epoch bump on reuse, both are %d", fresh.Epoch())
	}

	if _, err := tbl.Get(stale); err != ErrStale {
		t.Errorf("Get(stale) = %v, want ErrStale", err)
	}
	got, err := tbl.Get(fresh)
	if err != nil || got != "second" {
		t.Errorf("Get(fresh) = (%q, %v), want (\"second\", nil)", got, err)
	}
}

func TestTableNullHandle(t *testing.T) {
	tbl := NewTable[string, widgetMarker]()
	var null widgetID
	if _, err := tbl.Get(null); err != ErrNotFound {
		t.Errorf("Get(null) = %v, want ErrNotFound", err)
	}
}

func TestTableMutate(t *testing.T) {
	tbl := NewTable[int, widgetMarker]()
	id := tbl.Insert(1)

	if err := tbl.Mutate(id, func(v *int) { *v += 41 }); err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}

	got, _ := tbl.Get(id)
	if got != 42 {
		t.Errorf("Get after Mutate = %d, want 42", got)
	}
}

func TestTableForEachStopsEarly(t *testing.T) {
	tbl := NewTable[int, widgetMarker]()
	for i := 0; i < 5; i++ {
		tbl.Insert(i)
	}

	seen := 0
	tbl.ForEach(func(id widgetID, v int) bool {
		seen++
		return seen < 2
	})
	if seen != 2 {
		t.Errorf("ForEach visited %d items, want 2", seen)
	}
}
