package bptree

/*
Iterator walks the leaf chain in ascending key order. It is lazy and finite:
each Next advances by one entry, following next links between leaves, so a
scan never depends on the tree's depth.

An iterator is a snapshot-free cursor over live nodes; it must not be used
across an Insert or Reset on the same tree. Calling Ascend or AscendRange
again yields a fresh, restarted scan.
*/
type Iterator[K, V any] struct {
	t       *Tree[K, V]
	id      nodeID
	i       int
	bounded bool
	lo, hi  K
	key     K
	val     V
}

// Ascend returns an iterator over every entry, smallest key first.
func (t *Tree[K, V]) Ascend() *Iterator[K, V] {
	return &Iterator[K, V]{t: t, id: t.first}
}

// AscendRange returns an iterator over the entries with lo <= key <= hi.
// It starts at the leaf that would contain lo and stops early once a key
// beyond hi is seen.
func (t *Tree[K, V]) AscendRange(lo, hi K) *Iterator[K, V] {
	it := &Iterator[K, V]{t: t, bounded: true, lo: lo, hi: hi}
	id, _, err := t.descend(lo, false)
	if err != nil {
		it.id = nilNode
		return it
	}
	it.id = id
	return it
}

// Next advances to the next entry, reporting false when the scan is done.
func (it *Iterator[K, V]) Next() bool {
	for it.id != nilNode {
		if !it.t.valid(it.id) {
			it.id = nilNode
			return false
		}
		n := &it.t.nodes[it.id]
		for it.i < len(n.keys) {
			k := n.keys[it.i]
			if it.bounded && it.t.cmp(k, it.hi) > 0 {
				it.id = nilNode
				return false
			}
			if !it.bounded || it.t.cmp(k, it.lo) >= 0 {
				it.key = k
				it.val = n.vals[it.i]
				it.i++
				return true
			}
			it.i++
		}
		it.id = n.next
		it.i = 0
	}
	return false
}

// Key returns the key of the entry the last Next stopped on.
func (it *Iterator[K, V]) Key() K { return it.key }

// Value returns the value of the entry the last Next stopped on.
func (it *Iterator[K, V]) Value() V { return it.val }
