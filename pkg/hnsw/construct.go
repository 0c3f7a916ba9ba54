package hnsw

// Config holds the three knobs spec.md §6 names as the collection's
// external surface, plus the base-layer fanout M which the Rust original
// this spec distills from pins as a const generic; Go has no const-generic
// arrays, so M is a runtime field fixed for the lifetime of a collection
// (see DESIGN.md).
type Config struct {
	// EfConstruction is the beam width used while inserting a node at or
	// below its own top layer.
	EfConstruction int
	// EfSearch is the beam width used at the base layer during Search.
	EfSearch int
	// Ml is the layer multiplier: the fraction of one layer's population
	// that is promoted to the next layer up.
	Ml float32
	// M is the maximum neighbor fanout per node per layer.
	M int
}

// DefaultConfig returns the defaults named in spec.md §6:
// ef_construction=40, ef_search=15, ml=0.3, plus M=32.
func DefaultConfig() Config {
	return Config{EfConstruction: 40, EfSearch: 15, Ml: 0.3, M: 32}
}

// upperSearchWidth is the fixed, historical beam width used while
// traversing layers strictly above a node's own top layer (spec.md §4.5).
const upperSearchWidth = 5

// layerRange is one (layer, [start, end)) group produced by
// computeLayerRanges: the half-open range of VectorIDs whose top layer is
// exactly layer, in construction order.
type layerRange struct {
	layer LayerID
	start int
	end   int
}

// computeLayerRanges implements spec.md §4.5's layer sizing: L0 = n,
// L(i+1) = floor(Li * ml), stopping once the next size would fall below m.
// It returns the ranges from the top layer down to the base plus the top
// LayerID, with the very first record (VectorID 0) excluded from every
// range so it is reserved as the initial search seed rather than being
// placed by insertOne (mirrors the original's reserved entry point).
func computeLayerRanges(n int, ml float32, m int) ([]layerRange, LayerID) {
	sizes := make([][2]int, 0) // (size, cumulative)
	length := n
	for {
		next := int(float32(length) * ml)
		if next < m {
			break
		}
		sizes = append(sizes, [2]int{length - next, length})
		length = next
	}
	sizes = append(sizes, [2]int{length, length})

	// Reverse so index 0 is the top (sparsest) layer.
	for i, j := 0, len(sizes)-1; i < j; i, j = i+1, j-1 {
		sizes[i], sizes[j] = sizes[j], sizes[i]
	}

	numLayers := len(sizes)
	topLayer := LayerID(numLayers - 1)

	ranges := make([]layerRange, 0, numLayers)
	for i, sc := range sizes {
		size, cumulative := sc[0], sc[1]
		start := cumulative - size
		if start < 1 {
			start = 1
		}
		layerID := LayerID(numLayers - i - 1)
		ranges = append(ranges, layerRange{layer: layerID, start: start, end: cumulative})
	}
	return ranges, topLayer
}

// indexConstruction holds the state shared by every insertOne call during
// a single Build or incremental insert: the scratch pool, the top layer
// being constructed against, the (locked) base layer, the vectors being
// indexed, and the collection's config and distance function.
type indexConstruction struct {
	pool      *Pool
	topLayer  LayerID
	baseLayer []*BaseNode
	vectors   vectorAccessor
	config    Config
	distance  DistanceFunc
	seed      VectorID
}

// insertOne places vectorID into the graph with its own top layer set to
// layer, per spec.md §4.5: walk from the construction's top layer down,
// searching upper layers with a narrow beam and the target layer (and
// below) with ef_construction, then link the node to the M closest
// candidates found at the base, writing both the reciprocal neighbor-list
// entry (binary-searched to keep it sorted) and the new node's own slot.
func (c *indexConstruction) insertOne(vectorID VectorID, layer LayerID, upperLayers [][]UpperNode) {
	vector, ok := c.vectors.vector(vectorID)
	if !ok {
		return
	}

	search, insertion := c.pool.Pop()
	defer c.pool.Push(search, insertion)
	insertion.ef = c.config.EfConstruction

	search.Reset()
	search.ef = upperSearchWidth
	search.ReserveVisited(len(c.baseLayer))
	search.Push(c.seed, vector, c.vectors)

	for _, current := range c.topLayer.Descend() {
		if current <= layer {
			search.ef = c.config.EfConstruction
		}
		if current > layer {
			lv := upperLayerView(upperLayers[current-1])
			search.Search(lv, vector, c.vectors, c.config.M)
			search.Cull()
			continue
		}
		search.Search(baseLayerView(c.baseLayer), vector, c.vectors, c.config.M)
		break
	}

	candidates := search.SelectSimple()
	if len(candidates) > c.config.M {
		candidates = candidates[:c.config.M]
	}

	newNode := c.baseLayer[vectorID]
	slot := 0
	for _, candidate := range candidates {
		neighborID := candidate.ID
		if neighborID == vectorID {
			continue
		}
		neighborVec, ok := c.vectors.vector(neighborID)
		if !ok {
			continue
		}
		neighborRow := c.baseLayer[neighborID]
		idx := sortedInsertIndex(neighborRow.Snapshot(), candidate.Dist, neighborVec, c.vectors, c.distance)
		neighborRow.InsertSorted(idx, vectorID)
		newNode.Set(slot, neighborID)
		slot++
	}
}

// sortedInsertIndex finds the position at which vectorID (whose distance
// to the row's owning vector is dist) should be inserted to keep row
// ascending by distance-from-owner, with Invalid entries sorting last.
func sortedInsertIndex(row []VectorID, dist Distance, owner Vector, vectors vectorAccessor, distance DistanceFunc) int {
	lo, hi := 0, len(row)
	for lo < hi {
		mid := (lo + hi) / 2
		other := row[mid]
		var otherLess bool
		if !other.IsValid() {
			otherLess = false
		} else if otherVec, ok := vectors.vector(other); ok {
			otherLess = Distance(distance(owner, otherVec)).Less(dist)
		}
		if otherLess {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
