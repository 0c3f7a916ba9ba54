package hnsw

// Candidate is a (VectorID, distance-to-query) pair used throughout the
// beam search engine and reported back to callers via SearchResult.
type Candidate struct {
	ID   VectorID
	Dist Distance
}

func less(a, b Candidate) bool {
	if a.Dist == b.Dist {
		return a.ID < b.ID
	}
	return a.Dist.Less(b.Dist)
}

// candidateHeap is a binary min-heap over Candidate by distance. It backs
// both the Candidates queue (smallest distance expanded first) and, with
// reversed Less, the Nearest bound in Search.
type candidateHeap struct {
	items []Candidate
	min   bool // true: pop smallest first; false: pop largest first
}

func (h *candidateHeap) Len() int { return len(h.items) }

func (h *candidateHeap) less(i, j int) bool {
	if h.min {
		return less(h.items[i], h.items[j])
	}
	return less(h.items[j], h.items[i])
}

func (h *candidateHeap) swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *candidateHeap) reset() {
	h.items = h.items[:0]
}

func (h *candidateHeap) push(c Candidate) {
	h.items = append(h.items, c)
	h.up(len(h.items) - 1)
}

func (h *candidateHeap) pop() Candidate {
	n := len(h.items) - 1
	h.swap(0, n)
	top := h.items[n]
	h.items = h.items[:n]
	if n > 0 {
		h.down(0)
	}
	return top
}

func (h *candidateHeap) peek() (Candidate, bool) {
	if len(h.items) == 0 {
		return Candidate{}, false
	}
	return h.items[0], true
}

func (h *candidateHeap) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *candidateHeap) down(i int) {
	n := len(h.items)
	for {
		left := 2*i + 1
		if left >= n {
			return
		}
		smallest := left
		if right := left + 1; right < n && h.less(right, left) {
			smallest = right
		}
		if !h.less(smallest, i) {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}
