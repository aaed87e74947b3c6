package bptree

// nodeID addresses a node inside the tree's arena. The arena only ever grows,
// so an id stays valid for the lifetime of the tree.
type nodeID int32

const nilNode nodeID = -1

/*
node is either a leaf or an internal routing node.

A leaf pairs its keys 1:1 with values and links to its neighbouring leaves,
so that all leaves together form one doubly linked, globally ascending chain.
An internal node holds n keys and n+1 children: child i covers keys strictly
below keys[i], the last child covers everything from keys[n-1] upward.
*/
type node[K, V any] struct {
	leaf     bool
	keys     []K
	vals     []V      // leaves only
	children []nodeID // internal nodes only
	prev     nodeID
	next     nodeID
}

// crumb records one step of a root-to-leaf descent: the node that was visited
// and the child index that was followed out of it.
type crumb struct {
	id    nodeID
	child int
}
