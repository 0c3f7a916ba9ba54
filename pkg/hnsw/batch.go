package hnsw

import (
	"runtime"
	"sync"

	"github.com/therealutkarshpriyadarshi/vector/pkg/vectorerr"
)

// workerCount caps fan-out for Build and batch operations at GOMAXPROCS,
// matching the teacher's worker-pool sizing.
func workerCount() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}

// parallelRange runs fn(i) for every i in [start, end) across workerCount()
// goroutines split into contiguous chunks, and blocks until all finish.
func parallelRange(start, end int, fn func(i int)) {
	if end <= start {
		return
	}
	n := end - start
	workers := workerCount()
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := start + w*chunk
		hi := lo + chunk
		if lo >= end {
			break
		}
		if hi > end {
			hi = end
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}

// BatchInsert adds many records in one call, holding a single write lock
// for the whole operation. Bookkeeping — assigning IDs and growing the base
// layer and payload maps — happens first; the graph linking for each new
// node then runs across workerCount() goroutines, safe because insertOne
// only reads the vectors map and writes BaseNode rows, each individually
// mutex-guarded (see node.go).
func (c *Collection[D]) BatchInsert(records []Record[D]) ([]VectorID, error) {
	if len(records) == 0 {
		return nil, nil
	}

	c.mu.Lock()
	dim := c.dimension
	if dim == 0 {
		dim = len(records[0].Vector)
	}
	for _, r := range records {
		if len(r.Vector) != dim {
			c.mu.Unlock()
			return nil, vectorerr.ErrDimensionMismatch
		}
	}
	if uint64(len(c.baseLayer)+len(records)) >= uint64(1)<<32 {
		c.mu.Unlock()
		return nil, vectorerr.ErrCapacityExceeded
	}
	c.dimension = dim

	ids := make([]VectorID, len(records))
	base := len(c.baseLayer)
	for i, r := range records {
		id := VectorID(base + i)
		ids[i] = id
		c.baseLayer = append(c.baseLayer, NewBaseNode(c.config.M))
		c.vecs[id] = r.Vector
		c.data[id] = r.Data
	}

	seed, ok := c.firstLiveIDLocked()
	if !ok {
		c.mu.Unlock()
		return ids, nil
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
	upperLayers := c.upperLayers
	topLayer := c.topLayer

	parallelRange(0, len(ids), func(i int) {
		ic.insertOne(ids[i], topLayer, upperLayers)
	})
	c.mu.Unlock()

	return ids, nil
}

// BatchDelete tombstones many ids at once under a single write lock.
func (c *Collection[D]) BatchDelete(ids []VectorID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.data, id)
		delete(c.vecs, id)
	}
	return nil
}

// BatchUpdate replaces the vector and payload for many existing ids,
// re-linking each one against the current graph, under a single write lock
// held for the whole operation. Per-item re-linking runs across
// workerCount() goroutines once all vectors have been registered, for the
// same reason BatchInsert's linking phase is safe to parallelize.
func (c *Collection[D]) BatchUpdate(ids []VectorID, vectors []Vector, data []D) error {
	if len(ids) != len(vectors) || len(ids) != len(data) {
		return vectorerr.ErrInvalidInput
	}
	if len(ids) == 0 {
		return nil
	}

	c.mu.Lock()
	for i, id := range ids {
		if _, ok := c.data[id]; !ok {
			c.mu.Unlock()
			return vectorerr.ErrNotFound
		}
		if len(vectors[i]) != c.dimension {
			c.mu.Unlock()
			return vectorerr.ErrDimensionMismatch
		}
	}
	for i, id := range ids {
		c.vecs[id] = vectors[i]
		c.data[id] = data[i]
		row := c.baseLayer[id]
		for j := range row.Snapshot() {
			row.Set(j, Invalid)
		}
	}
	seed, ok := c.firstLiveIDLocked()
	if !ok {
		c.mu.Unlock()
		return nil
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
	upperLayers := c.upperLayers
	topLayer := c.topLayer

	parallelRange(0, len(ids), func(i int) {
		ic.insertOne(ids[i], topLayer, upperLayers)
	})
	c.mu.Unlock()

	return nil
}
