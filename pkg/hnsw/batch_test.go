package hnsw

import (
	"sync"
	"testing"

	"github.com/therealutkarshpriyadarshi/vector/pkg/vectorerr"
)

func TestBatchInsertAssignsDistinctIDs(t *testing.T) {
	c := New[string](DefaultConfig(), Euclidean)
	records := []Record[string]{
		{Vector: Vector{0, 0}, Data: "a"},
		{Vector: Vector{1, 1}, Data: "b"},
		{Vector: Vector{2, 2}, Data: "c"},
	}

	ids, err := c.BatchInsert(records)
	if err != nil {
		t.Fatalf("BatchInsert() error = %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("BatchInsert() returned %d ids, want 3", len(ids))
	}
	seen := map[VectorID]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("BatchInsert() returned duplicate id %d", id)
		}
		seen[id] = true
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestBatchInsertEmptyIsNoop(t *testing.T) {
	c := New[string](DefaultConfig(), Euclidean)
	ids, err := c.BatchInsert(nil)
	if err != nil || ids != nil {
		t.Errorf("BatchInsert(nil) = (%v, %v), want (nil, nil)", ids, err)
	}
}

func TestBatchInsertRejectsDimensionMismatch(t *testing.T) {
	c := New[string](DefaultConfig(), Euclidean)
	records := []Record[string]{
		{Vector: Vector{0, 0}, Data: "a"},
		{Vector: Vector{0, 0, 0}, Data: "b"},
	}
	if _, err := c.BatchInsert(records); err != vectorerr.ErrDimensionMismatch {
		t.Fatalf("BatchInsert() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestBatchInsertIsSearchable(t *testing.T) {
	c := New[string](DefaultConfig(), Euclidean)
	records := []Record[string]{
		{Vector: Vector{0, 0}, Data: "origin"},
		{Vector: Vector{10, 10}, Data: "far"},
	}
	ids, err := c.BatchInsert(records)
	if err != nil {
		t.Fatalf("BatchInsert() error = %v", err)
	}

	results, err := c.Search(Vector{0, 0}, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results[0].ID != ids[0] {
		t.Errorf("Search({0,0}) = %+v, want nearest to be id %d", results, ids[0])
	}
}

func TestBatchDeleteTombstonesAll(t *testing.T) {
	c := New[string](DefaultConfig(), Euclidean)
	ids, _ := c.BatchInsert([]Record[string]{
		{Vector: Vector{0, 0}, Data: "a"},
		{Vector: Vector{1, 1}, Data: "b"},
	})

	if err := c.BatchDelete(ids); err != nil {
		t.Fatalf("BatchDelete() error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after BatchDelete", c.Len())
	}
}

func TestBatchUpdateReplacesVectorsAndPayloads(t *testing.T) {
	c := New[string](DefaultConfig(), Euclidean)
	ids, _ := c.BatchInsert([]Record[string]{
		{Vector: Vector{0, 0}, Data: "a"},
		{Vector: Vector{1, 1}, Data: "b"},
	})

	err := c.BatchUpdate(ids,
		[]Vector{{9, 9}, {8, 8}},
		[]string{"a2", "b2"},
	)
	if err != nil {
		t.Fatalf("BatchUpdate() error = %v", err)
	}

	for i, id := range ids {
		got, ok := c.Get(id)
		want := []string{"a2", "b2"}[i]
		if !ok || got != want {
			t.Errorf("Get(%d) = (%q, %v), want (%q, true)", id, got, ok, want)
		}
	}
}

func TestBatchUpdateRejectsMismatchedLengths(t *testing.T) {
	c := New[string](DefaultConfig(), Euclidean)
	ids, _ := c.BatchInsert([]Record[string]{{Vector: Vector{0, 0}, Data: "a"}})

	err := c.BatchUpdate(ids, []Vector{{1, 1}}, []string{"x", "y"})
	if err != vectorerr.ErrInvalidInput {
		t.Fatalf("BatchUpdate() error = %v, want ErrInvalidInput", err)
	}
}

func TestBatchUpdateRejectsUnknownID(t *testing.T) {
	c := New[string](DefaultConfig(), Euclidean)
	err := c.BatchUpdate([]VectorID{VectorID(999)}, []Vector{{1, 1}}, []string{"x"})
	if err != vectorerr.ErrNotFound {
		t.Fatalf("BatchUpdate() error = %v, want ErrNotFound", err)
	}
}

func TestParallelRangeCoversEveryIndex(t *testing.T) {
	const n = 97
	seen := make([]int32, n)
	var mu sync.Mutex
	parallelRange(0, n, func(i int) {
		mu.Lock()
		seen[i]++
		mu.Unlock()
	})
	for i, count := range seen {
		if count != 1 {
			t.Fatalf("index %d visited %d times, want exactly 1", i, count)
		}
	}
}
