package facade

import (
	"bytes"
	"io"

	"go.uber.org/zap"

	"github.com/fixitydb/fixity/internal/bytesx"
	"github.com/fixitydb/fixity/internal/cache"
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/path"
	"github.com/fixitydb/fixity/internal/workspace"
)

// Bytes is a path-addressed byte-stream working surface: Stage chunks a
// reader through internal/bytesx and stages the resulting list root; Read
// resolves the path and streams the chunked content back out.
type Bytes struct {
	ws       *workspace.Workspace
	resolver path.Resolver
	store    content.Store
	hasher   content.Hasher
	cache    *cache.Cache
	logger   *zap.Logger
}

// NewBytes builds a Bytes facade at resolver's path within ws.
func NewBytes(ws *workspace.Workspace, resolver path.Resolver, store content.Store, hasher content.Hasher, c *cache.Cache) *Bytes {
	return &Bytes{ws: ws, resolver: resolver, store: store, hasher: hasher, cache: c, logger: zap.NewNop()}
}

// SetLogger installs l as the Bytes facade's logger.
func (b *Bytes) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	b.logger = l
}

// Stage chunks r, writes the resulting chunk list, rewrites the path's
// ancestor segments, and stages the new content root. Returns the number
// of bytes read from r.
func (b *Bytes) Stage(r io.Reader) (uint64, error) {
	g, err := b.ws.Lock()
	if err != nil {
		return 0, err
	}
	defer g.Unlock()

	root, hasRoot, err := g.ContentAddr()
	if err != nil {
		return 0, err
	}

	listRoot, n, err := bytesx.Write(b.store, b.hasher, b.cache, r)
	if err != nil {
		return 0, err
	}

	var base cid.Cid
	if hasRoot {
		base = root
	}
	newRoot, err := b.resolver.Update(base, listRoot)
	if err != nil {
		return 0, err
	}
	if err := g.Stage(newRoot); err != nil {
		return 0, err
	}
	b.logger.Debug("bytes staged", zap.Uint64("bytes", n))
	return n, nil
}

// Read resolves the path and streams its chunked content to w. It returns
// (n, true, nil) on success, or (0, false, nil) if the path does not
// resolve to anything yet (spec.md's Option<u64>).
func (b *Bytes) Read(w io.Writer) (uint64, bool, error) {
	root, hasRoot, err := b.ws.ContentAddr()
	if err != nil {
		return 0, false, err
	}
	if !hasRoot {
		return 0, false, nil
	}
	listRoot, found, err := b.resolver.ResolveLast(root)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, nil
	}
	n, err := bytesx.Read(b.store, b.cache, listRoot, w)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// ReadAll is a convenience wrapper around Read for callers that want the
// full byte slice rather than a streaming writer.
func (b *Bytes) ReadAll() ([]byte, bool, error) {
	var buf bytes.Buffer
	_, found, err := b.Read(&buf)
	if err != nil || !found {
		return nil, found, err
	}
	return buf.Bytes(), true, nil
}
