package hnsw

import "testing"

func TestNewBaseNodeAllTombstoned(t *testing.T) {
	n := NewBaseNode(4)
	for i, id := range n.Snapshot() {
		if id != Invalid {
			t.Errorf("slot %d = %v, want Invalid", i, id)
		}
	}
}

func TestBaseNodeSetAndIndexOf(t *testing.T) {
	n := NewBaseNode(4)
	n.Set(2, VectorID(7))
	if got := n.IndexOf(VectorID(7)); got != 2 {
		t.Errorf("IndexOf(7) = %d, want 2", got)
	}
	if got := n.IndexOf(VectorID(99)); got != -1 {
		t.Errorf("IndexOf(99) = %d, want -1", got)
	}
}

func TestBaseNodeInsertSortedShiftsAndDropsTail(t *testing.T) {
	n := NewBaseNode(3)
	n.InsertSorted(0, VectorID(1))
	n.InsertSorted(1, VectorID(2))
	n.InsertSorted(0, VectorID(3))

	got := n.Snapshot()
	want := []VectorID{3, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row = %v, want %v", got, want)
		}
	}

	// Row is already full; inserting at capacity should drop the new id.
	n.InsertSorted(3, VectorID(4))
	if got := n.Snapshot(); got[len(got)-1] == VectorID(4) {
		t.Error("insert at idx == len(row) must not grow past capacity")
	}
}

func TestUpperFromBaseCopiesRow(t *testing.T) {
	base := NewBaseNode(3)
	base.Set(0, VectorID(5))
	base.Set(1, VectorID(6))

	upper := UpperFromBase(base)
	base.Set(0, VectorID(99))

	if upper.Neighbors()[0] != VectorID(5) {
		t.Error("UpperFromBase must copy the row, not alias it")
	}
}

func TestUpperNodeSetAndIndexOf(t *testing.T) {
	n := NewUpperNode(2)
	n.Set(0, VectorID(3))
	if got := n.IndexOf(VectorID(3)); got != 0 {
		t.Errorf("IndexOf(3) = %d, want 0", got)
	}
	if got := n.IndexOf(Invalid); got == -1 {
		t.Error("the untouched slot should still report Invalid at IndexOf")
	}
}
