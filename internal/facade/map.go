// Package facade implements fixity's Map/Bytes working surfaces (spec.md
// §4.J): path-addressed read/write operations that tie together the path
// resolver, Prolly Tree/List, byte chunker and workspace state machine.
// Generalizes the teacher's Store.Put/Get/Delete (pkg/store/store.go),
// which mutated a flat in-memory map and only built a tree at Commit time,
// into spec.md's per-operation tree rewrite model where every Insert/Stage
// call immediately produces a new root Cid and restages the workspace.
package facade

import (
	"go.uber.org/zap"

	"github.com/fixitydb/fixity/internal/cache"
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/ferr"
	"github.com/fixitydb/fixity/internal/path"
	"github.com/fixitydb/fixity/internal/prolly"
	"github.com/fixitydb/fixity/internal/serial"
	"github.com/fixitydb/fixity/internal/value"
	"github.com/fixitydb/fixity/internal/workspace"
)

// Map is a path-addressed keyed-map working surface over a single
// workspace: every Insert resolves the path down to a Prolly Tree leaf,
// rewrites it, threads the new Cid back up through the path, and stages
// the result.
type Map struct {
	ws       *workspace.Workspace
	resolver path.Resolver
	tree     *prolly.Tree
	logger   *zap.Logger
}

// NewMap builds a Map facade at resolver's path within ws, using store as
// both the backing content store and the tree leaf's own storage.
func NewMap(ws *workspace.Workspace, resolver path.Resolver, store content.Store, hasher content.Hasher, c *cache.Cache) *Map {
	return &Map{ws: ws, resolver: resolver, tree: prolly.New(store, hasher, c), logger: zap.NewNop()}
}

// SetLogger installs l as the Map's logger.
func (m *Map) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	m.logger = l
}

// Insert acquires the workspace lock, rewrites the map's root to include
// (k, v) — creating a new leaf tree if one doesn't exist yet at this path
// — rewrites every ancestor segment, and stages the new content root.
func (m *Map) Insert(k value.Key, v value.Value) error {
	g, err := m.ws.Lock()
	if err != nil {
		return err
	}
	defer g.Unlock()

	root, hasRoot, err := g.ContentAddr()
	if err != nil {
		return err
	}

	var leafRoot cid.Cid
	if hasRoot {
		leafCid, found, rerr := m.resolver.ResolveLast(root)
		if rerr != nil {
			return rerr
		}
		if found {
			leafRoot, err = m.tree.Update(leafCid, []prolly.Patch{{Key: k, Value: v}})
		} else {
			leafRoot, err = m.tree.Create([]serial.KVPair{{Key: k, Value: v}})
		}
	} else {
		leafRoot, err = m.tree.Create([]serial.KVPair{{Key: k, Value: v}})
	}
	if err != nil {
		return err
	}

	newRoot, err := m.resolver.Update(root, leafRoot)
	if err != nil {
		return err
	}
	if err := g.Stage(newRoot); err != nil {
		return err
	}
	m.logger.Debug("map insert", zap.String("key", k.String()))
	return nil
}

// Get resolves the map's path without taking a workspace Guard. It reads
// the Status through Workspace.ContentAddr, which waits while any Guard is
// held.
func (m *Map) Get(k value.Key) (value.Value, bool, error) {
	root, hasRoot, err := m.ws.ContentAddr()
	if err != nil {
		return value.Value{}, false, err
	}
	if !hasRoot {
		return value.Value{}, false, nil
	}
	leafCid, found, err := m.resolver.ResolveLast(root)
	if err != nil {
		return value.Value{}, false, err
	}
	if !found {
		return value.Value{}, false, nil
	}
	return m.tree.Get(leafCid, k)
}

// Diff compares the map's currently-reachable content against the content
// reachable at other, resolving this Map's own path under both roots. A
// missing leaf on either side (path not yet written) diffs as an empty
// tree, so e.g. diffing against an Init workspace's root reports every key
// on the other side as Added. Exposes internal/prolly's Tree.Diff, which
// otherwise has no caller reachable from any working surface.
func (m *Map) Diff(other cid.Cid) (prolly.DiffResult, error) {
	root, hasRoot, err := m.ws.ContentAddr()
	if err != nil {
		return prolly.DiffResult{}, err
	}
	leafA, err := m.resolveOrEmpty(root, hasRoot)
	if err != nil {
		return prolly.DiffResult{}, err
	}
	leafB, err := m.resolveOrEmpty(other, true)
	if err != nil {
		return prolly.DiffResult{}, err
	}
	return m.tree.Diff(leafA, leafB)
}

func (m *Map) resolveOrEmpty(root cid.Cid, has bool) (cid.Cid, error) {
	if has {
		leaf, found, err := m.resolver.ResolveLast(root)
		if err != nil {
			return cid.Cid{}, err
		}
		if found {
			return leaf, nil
		}
	}
	return m.tree.Create(nil)
}

// Change describes a single pending edit accumulated by BatchMap.
type Change struct {
	Key    value.Key
	Value  value.Value
	Remove bool
}

// BatchMap accumulates Changes in memory, applying them as a single tree
// Update on Stage rather than one rewrite per edit.
type BatchMap struct {
	ws       *workspace.Workspace
	resolver path.Resolver
	tree     *prolly.Tree
	pending  []Change
	logger   *zap.Logger
}

// NewBatchMap builds a BatchMap facade, mirroring NewMap.
func NewBatchMap(ws *workspace.Workspace, resolver path.Resolver, store content.Store, hasher content.Hasher, c *cache.Cache) *BatchMap {
	return &BatchMap{ws: ws, resolver: resolver, tree: prolly.New(store, hasher, c), logger: zap.NewNop()}
}

// SetLogger installs l as the BatchMap's logger.
func (b *BatchMap) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	b.logger = l
}

// Set queues an insert/overwrite of k -> v.
func (b *BatchMap) Set(k value.Key, v value.Value) {
	b.pending = append(b.pending, Change{Key: k, Value: v})
}

// Remove queues a deletion of k.
func (b *BatchMap) Remove(k value.Key) {
	b.pending = append(b.pending, Change{Key: k, Remove: true})
}

// Stage applies every queued Change as one tree Update and stages the
// result. An empty pending set is a NoChangesToWrite error rather than a
// silent no-op, matching spec.md 4.J.
func (b *BatchMap) Stage() error {
	if len(b.pending) == 0 {
		return ferr.New(ferr.KindNoChangesToWrite, "facade: no changes queued to stage")
	}

	g, err := b.ws.Lock()
	if err != nil {
		return err
	}
	defer g.Unlock()

	root, hasRoot, err := g.ContentAddr()
	if err != nil {
		return err
	}

	patches := make([]prolly.Patch, len(b.pending))
	for i, c := range b.pending {
		patches[i] = prolly.Patch{Key: c.Key, Value: c.Value, Delete: c.Remove}
	}

	var leafRoot cid.Cid
	if hasRoot {
		leafCid, found, rerr := b.resolver.ResolveLast(root)
		if rerr != nil {
			return rerr
		}
		if found {
			leafRoot, err = b.tree.Update(leafCid, patches)
		} else {
			leafRoot, err = createFromPatches(b.tree, patches)
		}
	} else {
		leafRoot, err = createFromPatches(b.tree, patches)
	}
	if err != nil {
		return err
	}

	newRoot, err := b.resolver.Update(root, leafRoot)
	if err != nil {
		return err
	}
	if err := g.Stage(newRoot); err != nil {
		return err
	}
	b.logger.Debug("batch map staged", zap.Int("changes", len(patches)))
	b.pending = nil
	return nil
}

// Commit delegates to the workspace's commit transition.
func (b *BatchMap) Commit() (cid.Cid, error) {
	g, err := b.ws.Lock()
	if err != nil {
		return cid.Cid{}, err
	}
	defer g.Unlock()
	return g.Commit()
}

func createFromPatches(tree *prolly.Tree, patches []prolly.Patch) (cid.Cid, error) {
	pairs := make([]serial.KVPair, 0, len(patches))
	for _, p := range patches {
		if p.Delete {
			continue
		}
		pairs = append(pairs, serial.KVPair{Key: p.Key, Value: p.Value})
	}
	return tree.Create(pairs)
}
