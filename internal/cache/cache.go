// Package cache implements fixity's Cid cache (spec.md §4.O): one LRU for
// raw stored bytes, plus one decoded-node LRU per node shape the store
// holds (Tree's serial.Node, List's serial.ListNode), all keyed by Cid.
// The teacher has no analogous layer (its CAS always hits disk), so this
// is grounded instead on the hashicorp/golang-lru package used elsewhere
// in the example pack for exactly this "bounded map keyed by a hash"
// shape.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/serial"
)

// DefaultCapacity is used when a caller does not override cache sizing.
const DefaultCapacity = 4096

// Cache holds raw bytes and decoded Tree/List nodes for recently-touched
// Cids. Every space obeys an "inserted once" invariant: a Cid's content
// never changes, so a cache hit never needs to be checked against the
// backing store.
type Cache struct {
	raw       *lru.Cache[string, []byte]
	nodes     *lru.Cache[string, serial.Node]
	listNodes *lru.Cache[string, serial.ListNode]
}

// New constructs a Cache with the given per-space capacity.
func New(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	raw, err := lru.New[string, []byte](capacity)
	if err != nil {
		return nil, err
	}
	nodes, err := lru.New[string, serial.Node](capacity)
	if err != nil {
		return nil, err
	}
	listNodes, err := lru.New[string, serial.ListNode](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{raw: raw, nodes: nodes, listNodes: listNodes}, nil
}

func key(c cid.Cid) string { return string(c.AsBytes()) }

// GetRaw returns the cached bytes for c, if present.
func (c *Cache) GetRaw(id cid.Cid) ([]byte, bool) {
	return c.raw.Get(key(id))
}

// PutRaw caches buf under id. Subsequent PutRaw calls for the same id are
// no-ops: content at a Cid never changes, so the first insert is
// authoritative.
func (c *Cache) PutRaw(id cid.Cid, buf []byte) {
	if c.raw.Contains(key(id)) {
		return
	}
	c.raw.Add(key(id), buf)
}

// GetNode returns the cached decoded Node for c, if present.
func (c *Cache) GetNode(id cid.Cid) (serial.Node, bool) {
	return c.nodes.Get(key(id))
}

// PutNode caches a decoded Node under id, same insert-once behavior as
// PutRaw.
func (c *Cache) PutNode(id cid.Cid, n serial.Node) {
	if c.nodes.Contains(key(id)) {
		return
	}
	c.nodes.Add(key(id), n)
}

// GetListNode returns the cached decoded ListNode for c, if present.
func (c *Cache) GetListNode(id cid.Cid) (serial.ListNode, bool) {
	return c.listNodes.Get(key(id))
}

// PutListNode caches a decoded ListNode under id, same insert-once
// behavior as PutRaw.
func (c *Cache) PutListNode(id cid.Cid, n serial.ListNode) {
	if c.listNodes.Contains(key(id)) {
		return
	}
	c.listNodes.Add(key(id), n)
}

// Len reports the number of entries in each space, useful in tests that
// assert on eviction behavior.
func (c *Cache) Len() (rawLen, nodeLen, listNodeLen int) {
	return c.raw.Len(), c.nodes.Len(), c.listNodes.Len()
}
