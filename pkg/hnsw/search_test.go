package hnsw

import "testing"

// a tiny base layer of 4 points on a line, each linked to its two nearest
// neighbors, used to exercise Search/Cull/SelectSimple directly without
// going through Collection.
func lineGraph(t *testing.T) ([]*BaseNode, mapVectors) {
	t.Helper()
	vecs := mapVectors{
		0: {0},
		1: {1},
		2: {2},
		3: {3},
	}
	nodes := make([]*BaseNode, 4)
	for i := range nodes {
		nodes[i] = NewBaseNode(2)
	}
	link := func(a, b int) {
		nodes[a].Set(nodes[a].IndexOf(Invalid), VectorID(b))
	}
	link(0, 1)
	link(1, 0)
	link(1, 2)
	link(2, 1)
	link(2, 3)
	link(3, 2)
	return nodes, vecs
}

func TestSearchFindsNearestAlongGraph(t *testing.T) {
	nodes, vecs := lineGraph(t)
	s := NewSearch(Euclidean)
	s.ef = 2
	s.ReserveVisited(len(nodes))
	s.Push(VectorID(0), Vector{3}, vecs)
	s.Search(baseLayerView(nodes), Vector{3}, vecs, 2)

	results := s.Iter()
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].ID != VectorID(3) {
		t.Errorf("nearest to query {3} should be id 3, got %d", results[0].ID)
	}
}

func TestSearchRespectsEfBound(t *testing.T) {
	nodes, vecs := lineGraph(t)
	s := NewSearch(Euclidean)
	s.ef = 1
	s.ReserveVisited(len(nodes))
	s.Push(VectorID(0), Vector{0}, vecs)
	s.Search(baseLayerView(nodes), Vector{0}, vecs, 2)

	if got := len(s.Iter()); got != 1 {
		t.Errorf("Iter() returned %d results, want 1 (ef bound)", got)
	}
}

func TestSearchSkipsTombstonedNeighbors(t *testing.T) {
	nodes, vecs := lineGraph(t)
	delete(vecs, 2) // tombstone node 2; its vector lookup now misses

	s := NewSearch(Euclidean)
	s.ef = 4
	s.ReserveVisited(len(nodes))
	s.Push(VectorID(1), Vector{1}, vecs)
	s.Search(baseLayerView(nodes), Vector{1}, vecs, 2)

	for _, c := range s.Iter() {
		if c.ID == VectorID(2) {
			t.Error("a tombstoned vector must never appear in results")
		}
	}
}

func TestSelectSimpleSortedAscending(t *testing.T) {
	nodes, vecs := lineGraph(t)
	s := NewSearch(Euclidean)
	s.ef = 10
	s.ReserveVisited(len(nodes))
	s.Push(VectorID(0), Vector{0}, vecs)
	s.Search(baseLayerView(nodes), Vector{0}, vecs, 2)

	selected := s.SelectSimple()
	for i := 1; i < len(selected); i++ {
		if selected[i].Dist.Less(selected[i-1].Dist) {
			t.Fatalf("SelectSimple() not ascending: %v", selected)
		}
	}
}

func TestCullReseedsCandidatesAndNearest(t *testing.T) {
	nodes, vecs := lineGraph(t)
	s := NewSearch(Euclidean)
	s.ef = 2
	s.ReserveVisited(len(nodes))
	s.Push(VectorID(0), Vector{0}, vecs)
	s.Search(baseLayerView(nodes), Vector{0}, vecs, 2)
	s.Cull()

	if s.candidates.Len() == 0 || s.nearest.Len() == 0 {
		t.Fatal("Cull should re-seed both candidates and nearest from the surviving frontier")
	}
}
