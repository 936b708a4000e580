package cache

// node is an element of the recency list.
// It keeps its key so eviction can delete the map entry in O(1).
type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// recency is a doubly-linked list ordered from most to least recently used.
// It is not synchronized; the owning shard holds the lock.
type recency[K comparable, V any] struct {
	front *node[K, V]
	back  *node[K, V]
	n     int
}

func (r *recency[K, V]) len() int { return r.n }

// pushFront inserts a fresh node as most recently used.
func (r *recency[K, V]) pushFront(key K, value V) *node[K, V] {
	nd := &node[K, V]{key: key, value: value}
	r.linkFront(nd)
	return nd
}

// touch marks nd as most recently used.
func (r *recency[K, V]) touch(nd *node[K, V]) {
	if nd == r.front {
		return
	}
	r.unlink(nd)
	r.linkFront(nd)
}

// popBack removes the least recently used node.
func (r *recency[K, V]) popBack() (*node[K, V], bool) {
	nd := r.back
	if nd == nil {
		return nil, false
	}
	r.unlink(nd)
	return nd, true
}

func (r *recency[K, V]) remove(nd *node[K, V]) {
	r.unlink(nd)
}

func (r *recency[K, V]) reset() {
	r.front, r.back, r.n = nil, nil, 0
}

func (r *recency[K, V]) linkFront(nd *node[K, V]) {
	nd.prev = nil
	nd.next = r.front
	if r.front != nil {
		r.front.prev = nd
	}
	r.front = nd
	if r.back == nil {
		r.back = nd
	}
	r.n++
}

func (r *recency[K, V]) unlink(nd *node[K, V]) {
	if nd.prev != nil {
		nd.prev.next = nd.next
	} else {
		r.front = nd.next
	}
	if nd.next != nil {
		nd.next.prev = nd.prev
	} else {
		r.back = nd.prev
	}
	nd.prev, nd.next = nil, nil
	r.n--
}
