package hnsw

import "sync"

// Insertion carries the per-task scratch state construction needs besides
// the Search engine itself: currently just the task's ef_construction beam
// width, which insertOne sets once per call. The beam width that changes as
// insertOne descends layers is held on the Search (spec.md §4.5).
type Insertion struct {
	ef int
}

// scratchPair is what Pool hands out: a reusable Search plus its Insertion
// sidecar, reset and ready for a new insertOne call.
type scratchPair struct {
	search    *Search
	insertion *Insertion
}

// Pool is a thread-safe stack of scratch (Search, Insertion) pairs, one per
// concurrently active construction task. It amortizes the candidate/
// visited/nearest allocations that would otherwise be repeated for every
// node inserted during a massively parallel build (spec.md §4.4).
type Pool struct {
	mu       sync.Mutex
	distance DistanceFunc
	free     []scratchPair
}

// NewPool returns an empty pool that lazily allocates scratch pairs using
// distance as their Search's distance function.
func NewPool(distance DistanceFunc) *Pool {
	return &Pool{distance: distance}
}

// Pop returns a reset-ready scratch pair, allocating a new one if the pool
// is currently empty.
func (p *Pool) Pop() (*Search, *Insertion) {
	p.mu.Lock()
	n := len(p.free)
	if n == 0 {
		p.mu.Unlock()
		return NewSearch(p.distance), &Insertion{}
	}
	pair := p.free[n-1]
	p.free = p.free[:n-1]
	p.mu.Unlock()

	pair.search.Reset()
	pair.insertion.ef = 0
	return pair.search, pair.insertion
}

// Push returns a scratch pair to the pool for reuse.
func (p *Pool) Push(search *Search, insertion *Insertion) {
	p.mu.Lock()
	p.free = append(p.free, scratchPair{search: search, insertion: insertion})
	p.mu.Unlock()
}
