// Package bptree implements an in-memory, insert-only B+ tree.
//
// Keys live in the leaves, paired 1:1 with values, and every leaf is linked
// to its neighbours so that a full or ranged in-order scan never touches the
// internal nodes. Internal nodes only route: their keys are separator copies,
// never entries of their own.
//
// The tree is generic over the key and value types; the caller supplies a
// three-way comparison function defining a strict total order over keys
// (strings.Compare and cmp.Compare are the usual choices).
//
// There is no delete and no rebalancing: the tree only grows. The surrounding
// system "removes" an entry by clearing fields on the stored value.
//
// A Tree is not safe for concurrent use. Values returned by Search and the
// iterators are shared with the tree and stay valid only until the next
// Insert or Reset.
package bptree

import (
	"errors"
	"slices"
)

var (
	// ErrDuplicateKey is returned by Insert when an equal key is already
	// present. The rejected key and value are not retained by the tree.
	ErrDuplicateKey = errors.New("bptree: duplicate key")

	// ErrNotFound is returned by Search when no entry compares equal.
	ErrNotFound = errors.New("bptree: key not found")

	// ErrCorrupted is returned when a structural invariant is violated
	// during a descent (dangling child id, key/child count mismatch).
	// The operation aborts without touching the tree.
	ErrCorrupted = errors.New("bptree: corrupted node")
)

/*
Tree is an order-t B+ tree: every node holds at most 2t-1 keys, every node
except the root holds at least t-1, and an internal node with n keys has n+1
children. All leaves sit at the same depth.

Nodes live in a grow-only arena indexed by nodeID instead of carrying parent
pointers; a descent records the ancestor path it took, and a split walks that
path back up.
*/
type Tree[K, V any] struct {
	order  int // minimum degree t
	cmp    func(K, K) int
	nodes  []node[K, V]
	root   nodeID
	first  nodeID // leftmost leaf, head of the leaf chain
	size   int
	height int
}

// New creates an empty tree of minimum degree order. The root starts life as
// an empty leaf. order must be at least 2 and cmp must define a strict total
// order over keys.
func New[K, V any](order int, cmp func(K, K) int) (*Tree[K, V], error) {
	if order < 2 {
		return nil, errors.New("bptree: order must be at least 2")
	}
	if cmp == nil {
		return nil, errors.New("bptree: nil compare function")
	}
	t := &Tree[K, V]{order: order, cmp: cmp}
	t.Reset()
	return t, nil
}

// Reset discards every entry and node and re-creates the empty root leaf.
func (t *Tree[K, V]) Reset() {
	t.nodes = t.nodes[:0]
	root := t.alloc(true)
	t.root = root
	t.first = root
	t.size = 0
	t.height = 1
}

// Len reports the number of entries stored.
func (t *Tree[K, V]) Len() int { return t.size }

// Height reports the number of levels, counting the root leaf as 1.
func (t *Tree[K, V]) Height() int { return t.height }

// Order reports the minimum degree the tree was created with.
func (t *Tree[K, V]) Order() int { return t.order }

func (t *Tree[K, V]) maxKeys() int { return 2*t.order - 1 }

// alloc appends a fresh node to the arena and returns its id. Any *node
// pointers held across an alloc must be re-fetched, since append may move
// the backing array.
func (t *Tree[K, V]) alloc(leaf bool) nodeID {
	id := nodeID(len(t.nodes))
	n := node[K, V]{leaf: leaf, prev: nilNode, next: nilNode}
	if leaf {
		n.keys = make([]K, 0, t.maxKeys())
		n.vals = make([]V, 0, t.maxKeys())
	} else {
		n.keys = make([]K, 0, t.maxKeys())
		n.children = make([]nodeID, 0, 2*t.order)
	}
	t.nodes = append(t.nodes, n)
	return id
}

func (t *Tree[K, V]) valid(id nodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// descend walks from the root to the leaf that would contain key. In each
// internal node it follows the child at the first separator strictly greater
// than key, or the last child if there is none. When withPath is set it also
// returns the ancestor trail for later split propagation.
func (t *Tree[K, V]) descend(key K, withPath bool) (nodeID, []crumb, error) {
	var path []crumb
	if withPath {
		path = make([]crumb, 0, t.height)
	}
	id := t.root
	for {
		if !t.valid(id) {
			return nilNode, nil, ErrCorrupted
		}
		n := &t.nodes[id]
		if n.leaf {
			return id, path, nil
		}
		if len(n.children) != len(n.keys)+1 {
			return nilNode, nil, ErrCorrupted
		}
		i := 0
		for i < len(n.keys) && t.cmp(key, n.keys[i]) >= 0 {
			i++
		}
		if withPath {
			path = append(path, crumb{id: id, child: i})
		}
		id = n.children[i]
	}
}

// Search returns the value stored under key, or ErrNotFound.
func (t *Tree[K, V]) Search(key K) (V, error) {
	var zero V
	id, _, err := t.descend(key, false)
	if err != nil {
		return zero, err
	}
	leaf := &t.nodes[id]
	for i, k := range leaf.keys {
		if t.cmp(key, k) == 0 {
			return leaf.vals[i], nil
		}
	}
	return zero, ErrNotFound
}

// Insert stores value under key. If an equal key is already present the tree
// is left untouched and ErrDuplicateKey is returned; the caller keeps the
// rejected key and value. A full leaf is split and the split propagates
// upward, growing the root when necessary.
func (t *Tree[K, V]) Insert(key K, value V) error {
	leafID, path, err := t.descend(key, true)
	if err != nil {
		return err
	}
	leaf := &t.nodes[leafID]

	// Duplicate check happens here, before any structural change, so a
	// rejected insert never perturbs the tree.
	pos := 0
	for pos < len(leaf.keys) && t.cmp(key, leaf.keys[pos]) > 0 {
		pos++
	}
	if pos < len(leaf.keys) && t.cmp(key, leaf.keys[pos]) == 0 {
		return ErrDuplicateKey
	}

	if len(leaf.keys) < t.maxKeys() {
		leaf.keys = slices.Insert(leaf.keys, pos, key)
		leaf.vals = slices.Insert(leaf.vals, pos, value)
		t.size++
		return nil
	}

	t.splitLeaf(leafID, pos, key, value, path)
	t.size++
	return nil
}

/*
splitLeaf splits a full leaf that is about to receive one more entry.

The 2t-1 existing entries and the new one are staged as a merged sequence of
2t before the original leaf is touched, then split at position t: the left
half stays in the original leaf, the right half moves to a new leaf which is
spliced into the leaf chain. The first key of the new leaf is copied up as a
separator.
*/
func (t *Tree[K, V]) splitLeaf(leafID nodeID, pos int, key K, value V, path []crumb) {
	d := t.order
	leaf := &t.nodes[leafID]

	mk := make([]K, 0, 2*d)
	mk = append(mk, leaf.keys[:pos]...)
	mk = append(mk, key)
	mk = append(mk, leaf.keys[pos:]...)
	mv := make([]V, 0, 2*d)
	mv = append(mv, leaf.vals[:pos]...)
	mv = append(mv, value)
	mv = append(mv, leaf.vals[pos:]...)

	rightID := t.alloc(true)
	leaf = &t.nodes[leafID] // re-fetch, alloc may have moved the arena
	right := &t.nodes[rightID]

	right.keys = append(right.keys, mk[d:]...)
	right.vals = append(right.vals, mv[d:]...)

	// Splice the new leaf into the chain before rewriting the old one.
	right.next = leaf.next
	right.prev = leafID
	if leaf.next != nilNode {
		t.nodes[leaf.next].prev = rightID
	}
	leaf.next = rightID

	leaf.keys = append(leaf.keys[:0], mk[:d]...)
	leaf.vals = append(leaf.vals[:0], mv[:d]...)

	t.insertIntoParent(leafID, right.keys[0], rightID, path)
}

/*
insertIntoParent pushes a separator and its new right child into the parent
of a just-split node, walking the recorded descent path instead of
re-deriving ancestors from key order.

A full parent is split the same way as a leaf with one difference: the true
median key (position t-1 of the merged sequence) moves up to the grandparent
and is kept in neither half. When the path is exhausted the old root has
split, so a new root with a single separator is created and the tree grows
one level.
*/
func (t *Tree[K, V]) insertIntoParent(leftID nodeID, sep K, rightID nodeID, path []crumb) {
	d := t.order
	for {
		if len(path) == 0 {
			rootID := t.alloc(false)
			r := &t.nodes[rootID]
			r.keys = append(r.keys, sep)
			r.children = append(r.children, leftID, rightID)
			t.root = rootID
			t.height++
			return
		}
		c := path[len(path)-1]
		path = path[:len(path)-1]

		parent := &t.nodes[c.id]
		if len(parent.keys) < t.maxKeys() {
			parent.keys = slices.Insert(parent.keys, c.child, sep)
			parent.children = slices.Insert(parent.children, c.child+1, rightID)
			return
		}

		// Stage the merged 2t keys and 2t+1 children, then split around
		// the median.
		mk := make([]K, 0, 2*d)
		mk = append(mk, parent.keys[:c.child]...)
		mk = append(mk, sep)
		mk = append(mk, parent.keys[c.child:]...)
		mc := make([]nodeID, 0, 2*d+1)
		mc = append(mc, parent.children[:c.child+1]...)
		mc = append(mc, rightID)
		mc = append(mc, parent.children[c.child+1:]...)

		newID := t.alloc(false)
		parent = &t.nodes[c.id] // re-fetch after alloc
		fresh := &t.nodes[newID]

		sep = mk[d-1]
		fresh.keys = append(fresh.keys, mk[d:]...)
		fresh.children = append(fresh.children, mc[d:]...)
		parent.keys = append(parent.keys[:0], mk[:d-1]...)
		parent.children = append(parent.children[:0], mc[:d]...)

		leftID = c.id
		rightID = newID
	}
}

// FindInRange walks the leaf chain across [lo, hi] and returns the first
// entry satisfying pred. The scan stops as soon as a key beyond hi is seen,
// which is sound because the chain is globally sorted.
func (t *Tree[K, V]) FindInRange(lo, hi K, pred func(K, V) bool) (K, V, bool) {
	it := t.AscendRange(lo, hi)
	for it.Next() {
		if pred(it.Key(), it.Value()) {
			return it.Key(), it.Value(), true
		}
	}
	var zk K
	var zv V
	return zk, zv, false
}
