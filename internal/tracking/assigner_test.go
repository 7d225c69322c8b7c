package tracking

import "testing"

func TestAssignIdempotent(t *testing.T) {
	a := NewIdentityAssigner()

	first := a.Assign("main_entrance", 1)
	second := a.Assign("main_entrance", 1)

	if first != second {
		t.Errorf("expected same id for repeated pair, got %d and %d", first, second)
	}
}

func TestAssignDistinctPairs(t *testing.T) {
	a := NewIdentityAssigner()

	ids := map[int64]bool{}
	ids[a.Assign("main_entrance", 1)] = true
	ids[a.Assign("main_entrance", 2)] = true
	ids[a.Assign("civil_hall", 1)] = true
	ids[a.Assign("civil_hall", 2)] = true

	if len(ids) != 4 {
		t.Errorf("expected 4 distinct global ids, got %d", len(ids))
	}
	if a.Count() != 4 {
		t.Errorf("expected 4 tracked pairs, got %d", a.Count())
	}
}

func TestAssignMonotonicFromOne(t *testing.T) {
	a := NewIdentityAssigner()

	if id := a.Assign("cam", 10); id != 1 {
		t.Errorf("expected first id 1, got %d", id)
	}
	if id := a.Assign("cam", 11); id != 2 {
		t.Errorf("expected second id 2, got %d", id)
	}
	// Re-assigning an old pair must not advance the counter.
	if id := a.Assign("cam", 10); id != 1 {
		t.Errorf("expected stable id 1, got %d", id)
	}
	if id := a.Assign("cam", 12); id != 3 {
		t.Errorf("expected third id 3, got %d", id)
	}
}

func TestAssignInstancesIndependent(t *testing.T) {
	a := NewIdentityAssigner()
	b := NewIdentityAssigner()

	a.Assign("cam", 1)
	a.Assign("cam", 2)

	if id := b.Assign("cam", 1); id != 1 {
		t.Errorf("expected fresh assigner to start at 1, got %d", id)
	}
}
