package hnsw

import "testing"

func TestCandidateHeapMinOrder(t *testing.T) {
	h := candidateHeap{min: true}
	for _, d := range []Distance{5, 1, 3, 2, 4} {
		h.push(Candidate{ID: VectorID(int(d)), Dist: d})
	}

	var got []Distance
	for h.Len() > 0 {
		got = append(got, h.pop().Dist)
	}
	want := []Distance{1, 2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order = %v, want %v", got, want)
		}
	}
}

func TestCandidateHeapMaxOrder(t *testing.T) {
	h := candidateHeap{min: false}
	for _, d := range []Distance{5, 1, 3, 2, 4} {
		h.push(Candidate{ID: VectorID(int(d)), Dist: d})
	}

	var got []Distance
	for h.Len() > 0 {
		got = append(got, h.pop().Dist)
	}
	want := []Distance{5, 4, 3, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order = %v, want %v", got, want)
		}
	}
}

func TestCandidateHeapPeekDoesNotPop(t *testing.T) {
	h := candidateHeap{min: true}
	h.push(Candidate{ID: 1, Dist: 2})

	if _, ok := h.peek(); !ok {
		t.Fatal("peek on non-empty heap should report ok")
	}
	if h.Len() != 1 {
		t.Fatalf("peek must not remove the item, Len() = %d", h.Len())
	}
}

func TestCandidateHeapPeekEmpty(t *testing.T) {
	h := candidateHeap{min: true}
	if _, ok := h.peek(); ok {
		t.Fatal("peek on an empty heap should report !ok")
	}
}

func TestCandidateHeapTieBreaksByID(t *testing.T) {
	h := candidateHeap{min: true}
	h.push(Candidate{ID: 9, Dist: 1})
	h.push(Candidate{ID: 2, Dist: 1})

	first := h.pop()
	if first.ID != 2 {
		t.Errorf("tied distances should break by ascending ID, got %d first", first.ID)
	}
}

func TestCandidateHeapReset(t *testing.T) {
	h := candidateHeap{min: true}
	h.push(Candidate{ID: 1, Dist: 1})
	h.reset()
	if h.Len() != 0 {
		t.Fatalf("reset should empty the heap, Len() = %d", h.Len())
	}
}
