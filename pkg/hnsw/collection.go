package hnsw

import (
	"sync"
	"sync/atomic"

	"github.com/therealutkarshpriyadarshi/vector/pkg/vectorerr"
)

// Record is one (vector, payload) pair submitted for indexing. D is the
// caller-defined payload type carried alongside the vector and returned
// verbatim in SearchResult.
type Record[D any] struct {
	Vector Vector
	Data   D
}

// SearchResult is one ranked hit returned by Search or TrueSearch.
type SearchResult[D any] struct {
	ID       VectorID
	Distance float32
	Data     D
}

// Collection is the façade over a graph: the single entry point spec.md
// describes for Build, Insert, Update, Delete, Get, and Search. Mutations
// serialize on mu (a single-writer model at the façade level); the
// concurrency inside a mutation — multiple BaseNodes linked at once during
// Build or a batch — is handled by the per-node locks in node.go. Reads
// (Search, Get, Contains, Len) take the read side of mu so they can run
// concurrently with each other but not with a mutation.
type Collection[D any] struct {
	mu        sync.RWMutex
	config    Config
	distance  DistanceFunc
	pool      *Pool
	dimension int

	data        map[VectorID]D
	vecs        map[VectorID]Vector
	baseLayer   []*BaseNode
	upperLayers [][]UpperNode // upperLayers[i] holds LayerID(i+1)
	topLayer    LayerID
}

// New returns an empty collection. Dimension is fixed by the first record
// it ever sees, whether via Build or Insert.
func New[D any](config Config, distance DistanceFunc) *Collection[D] {
	return &Collection[D]{
		config:   config,
		distance: distance,
		pool:     NewPool(distance),
		data:     make(map[VectorID]D),
		vecs:     make(map[VectorID]Vector),
	}
}

// Build constructs a collection from a fixed batch of records in one shot,
// per spec.md §4.5: records are partitioned into layers by the geometric
// sequence computeLayerRanges derives from config.Ml, then linked top-down,
// each layer's nodes inserted in parallel before the next (sparser-to-
// denser) layer's snapshot is taken.
func Build[D any](config Config, distance DistanceFunc, records []Record[D]) (*Collection[D], error) {
	if len(records) == 0 {
		return New[D](config, distance), nil
	}
	if uint64(len(records)) >= uint64(1)<<32 {
		return nil, vectorerr.ErrCapacityExceeded
	}
	dim := len(records[0].Vector)
	if dim == 0 {
		return nil, vectorerr.ErrInvalidInput
	}
	for _, r := range records {
		if len(r.Vector) != dim {
			return nil, vectorerr.ErrDimensionMismatch
		}
	}

	c := New[D](config, distance)
	c.dimension = dim
	n := len(records)

	c.baseLayer = make([]*BaseNode, n)
	for i := range c.baseLayer {
		c.baseLayer[i] = NewBaseNode(config.M)
	}
	for i, r := range records {
		id := VectorID(i)
		c.data[id] = r.Data
		c.vecs[id] = r.Vector
	}

	ranges, topLayer := computeLayerRanges(n, config.Ml, config.M)
	c.topLayer = topLayer
	c.upperLayers = make([][]UpperNode, int(topLayer))

	ic := &indexConstruction{
		pool:      c.pool,
		baseLayer: c.baseLayer,
		vectors:   mapVectors(c.vecs),
		config:    config,
		distance:  distance,
		topLayer:  topLayer,
		seed:      VectorID(0),
	}

	for _, rg := range ranges {
		parallelRange(rg.start, rg.end, func(i int) {
			ic.insertOne(VectorID(i), rg.layer, c.upperLayers)
		})
		if rg.layer > 0 {
			snap := make([]UpperNode, n)
			for i := 0; i < n; i++ {
				snap[i] = UpperFromBase(c.baseLayer[i])
			}
			c.upperLayers[rg.layer-1] = snap
		}
	}

	return c, nil
}

// Insert adds one new record, assigning it the collection's current top
// layer (never growing the upper layers — see DESIGN.md's resolved open
// question on incremental inserts).
func (c *Collection[D]) Insert(vector Vector, data D) (VectorID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dimension == 0 {
		c.dimension = len(vector)
	}
	if len(vector) != c.dimension {
		return 0, vectorerr.ErrDimensionMismatch
	}
	if uint64(len(c.baseLayer)) >= uint64(1)<<32 {
		return 0, vectorerr.ErrCapacityExceeded
	}

	id := VectorID(len(c.baseLayer))
	c.baseLayer = append(c.baseLayer, NewBaseNode(c.config.M))
	c.vecs[id] = vector
	c.data[id] = data

	c.linkLocked(id)
	return id, nil
}

// linkLocked runs insertOne for id against the current graph. Callers must
// hold mu for writing and must already have registered id's vector.
func (c *Collection[D]) linkLocked(id VectorID) {
	seed, ok := c.firstLiveIDLocked()
	if !ok {
		return
	}
	ic := &indexConstruction{
		pool:      c.pool,
		baseLayer: c.baseLayer,
		vectors:   mapVectors(c.vecs),
		config:    c.config,
		distance:  c.distance,
		topLayer:  c.topLayer,
		seed:      seed,
	}
	ic.insertOne(id, c.topLayer, c.upperLayers)
}

// Update replaces the vector and payload stored at id, keeping id itself
// stable, and re-links the node against the current graph using its new
// vector. Existing reciprocal links left by other nodes pointing at id are
// not rewritten; like Delete, this is a tombstone-free, no-compaction model
// with one exception: id's own neighbor row is reset since its content is
// no longer meaningful once the vector changes.
func (c *Collection[D]) Update(id VectorID, vector Vector, data D) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.data[id]; !ok {
		return vectorerr.ErrNotFound
	}
	if len(vector) != c.dimension {
		return vectorerr.ErrDimensionMismatch
	}

	c.vecs[id] = vector
	c.data[id] = data
	row := c.baseLayer[id]
	for i := range row.Snapshot() {
		row.Set(i, Invalid)
	}
	c.linkLocked(id)
	return nil
}

// Delete tombstones id: its payload and vector are removed so it can no
// longer be found by Get, Contains, or Search, but no neighbor list
// anywhere is rewritten. Stale references to id left in other rows are
// skipped naturally by Search once the vector lookup misses (see search.go).
func (c *Collection[D]) Delete(id VectorID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.data[id]; !ok {
		return vectorerr.ErrNotFound
	}
	delete(c.data, id)
	delete(c.vecs, id)
	return nil
}

// Get returns the payload stored at id.
func (c *Collection[D]) Get(id VectorID) (D, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.data[id]
	return d, ok
}

// Contains reports whether id currently refers to a live record.
func (c *Collection[D]) Contains(id VectorID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.data[id]
	return ok
}

// Len returns the number of live records (tombstoned entries excluded).
func (c *Collection[D]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// IsEmpty reports whether the collection holds no live records.
func (c *Collection[D]) IsEmpty() bool {
	return c.Len() == 0
}

// Dimension returns the vector length fixed by the first record inserted,
// or 0 if the collection has never held a record.
func (c *Collection[D]) Dimension() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dimension
}

// Search returns the k nearest live records to query using the graph (an
// approximate search, per spec.md §4.3), widening the beam to at least k.
func (c *Collection[D]) Search(query Vector, k int) ([]SearchResult[D], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if k <= 0 {
		return nil, vectorerr.ErrInvalidInput
	}
	if len(c.data) == 0 {
		return []SearchResult[D]{}, nil
	}
	if len(query) != c.dimension {
		return nil, vectorerr.ErrDimensionMismatch
	}
	seed, ok := c.firstLiveIDLocked()
	if !ok {
		return nil, vectorerr.ErrSearchUnavailable
	}

	search, insertion := c.pool.Pop()
	defer c.pool.Push(search, insertion)

	ef := c.config.EfSearch
	if k > ef {
		ef = k
	}
	search.Reset()
	search.ef = upperSearchWidth
	search.ReserveVisited(len(c.baseLayer))
	accessor := mapVectors(c.vecs)
	search.Push(seed, query, accessor)

	for _, layer := range c.topLayer.Descend() {
		if layer == 0 {
			search.ef = ef
			search.Search(baseLayerView(c.baseLayer), query, accessor, c.config.M)
			break
		}
		search.Search(upperLayerView(c.upperLayers[layer-1]), query, accessor, c.config.M)
		search.Cull()
	}

	return c.collectResults(search.Iter(), k), nil
}

// TrueSearch performs an exhaustive linear scan for the k nearest live
// records, used to measure the graph search's recall against ground truth.
func (c *Collection[D]) TrueSearch(query Vector, k int) ([]SearchResult[D], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if k <= 0 {
		return nil, vectorerr.ErrInvalidInput
	}
	if len(query) != c.dimension {
		return nil, vectorerr.ErrDimensionMismatch
	}
	if len(c.data) == 0 {
		return nil, vectorerr.ErrEmptyCollection
	}

	all := make([]Candidate, 0, len(c.vecs))
	for id, v := range c.vecs {
		all = append(all, Candidate{ID: id, Dist: Distance(c.distance(query, v))})
	}
	insertionSortCandidates(all)

	return c.collectResults(all, k), nil
}

func (c *Collection[D]) collectResults(ranked []Candidate, k int) []SearchResult[D] {
	out := make([]SearchResult[D], 0, k)
	for _, cand := range ranked {
		if len(out) >= k {
			break
		}
		data, ok := c.data[cand.ID]
		if !ok {
			continue
		}
		out = append(out, SearchResult[D]{ID: cand.ID, Distance: float32(cand.Dist), Data: data})
	}
	return out
}

// insertionSortCandidates sorts a small-to-moderate slice ascending by
// distance; TrueSearch trades asymptotic complexity for simplicity since it
// exists for recall verification, not hot-path queries.
func insertionSortCandidates(items []Candidate) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && less(items[j], items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

func (c *Collection[D]) firstLiveIDLocked() (VectorID, bool) {
	n := len(c.baseLayer)
	if n == 0 {
		return 0, false
	}
	found := int64(n)
	workers := workerCount()
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if lo >= n {
			break
		}
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if _, ok := c.data[VectorID(i)]; ok {
					for {
						cur := atomic.LoadInt64(&found)
						if int64(i) >= cur {
							break
						}
						if atomic.CompareAndSwapInt64(&found, cur, int64(i)) {
							break
						}
					}
					break
				}
			}
		}(lo, hi)
	}
	wg.Wait()

	if found == int64(n) {
		return 0, false
	}
	return VectorID(found), true
}

// Snapshot is the serializable projection of a collection pkg/store encodes
// with msgpack. It carries raw neighbor-ID rows rather than BaseNode/
// UpperNode values since those hold unexported mutexes and slices.
type Snapshot[D any] struct {
	Config      Config
	Dimension   int
	TopLayer    LayerID
	Data        map[VectorID]D
	Vectors     map[VectorID]Vector
	BaseLayer   [][]VectorID
	UpperLayers [][][]VectorID
}

// ToSnapshot copies the collection's current state into a Snapshot.
func (c *Collection[D]) ToSnapshot() Snapshot[D] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot[D]{
		Config:    c.config,
		Dimension: c.dimension,
		TopLayer:  c.topLayer,
		Data:      make(map[VectorID]D, len(c.data)),
		Vectors:   make(map[VectorID]Vector, len(c.vecs)),
		BaseLayer: make([][]VectorID, len(c.baseLayer)),
	}
	for id, d := range c.data {
		snap.Data[id] = d
	}
	for id, v := range c.vecs {
		snap.Vectors[id] = append(Vector(nil), v...)
	}
	for i, node := range c.baseLayer {
		snap.BaseLayer[i] = node.Snapshot()
	}
	snap.UpperLayers = make([][][]VectorID, len(c.upperLayers))
	for i, layer := range c.upperLayers {
		rows := make([][]VectorID, len(layer))
		for j := range layer {
			rows[j] = append([]VectorID(nil), layer[j].Neighbors()...)
		}
		snap.UpperLayers[i] = rows
	}
	return snap
}

// FromSnapshot rebuilds a collection from a Snapshot produced by ToSnapshot.
func FromSnapshot[D any](distance DistanceFunc, snap Snapshot[D]) *Collection[D] {
	c := New[D](snap.Config, distance)
	c.dimension = snap.Dimension
	c.topLayer = snap.TopLayer
	for id, d := range snap.Data {
		c.data[id] = d
	}
	for id, v := range snap.Vectors {
		c.vecs[id] = v
	}
	c.baseLayer = make([]*BaseNode, len(snap.BaseLayer))
	for i, row := range snap.BaseLayer {
		node := NewBaseNode(len(row))
		for j, id := range row {
			node.Set(j, id)
		}
		c.baseLayer[i] = node
	}
	c.upperLayers = make([][]UpperNode, len(snap.UpperLayers))
	for i, rows := range snap.UpperLayers {
		layer := make([]UpperNode, len(rows))
		for j, row := range rows {
			node := NewUpperNode(len(row))
			for k, id := range row {
				node.Set(k, id)
			}
			layer[j] = node
		}
		c.upperLayers[i] = layer
	}
	return c
}
