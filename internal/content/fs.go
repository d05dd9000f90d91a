package content

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/ferr"
)

// FS is an afero-backed Store. Objects are sharded two levels deep by the
// first two characters of the Cid's display encoding, following the
// teacher's FileCAS layout, and writes land via a temp-file-then-rename so
// a crash mid-write never leaves a partial object visible at its final
// path.
type FS struct {
	fs      afero.Fs
	baseDir string
}

// NewFS constructs an FS store rooted at baseDir/objects on fs. The
// directory is created if absent.
func NewFS(fs afero.Fs, baseDir string) (*FS, error) {
	objectsDir := filepath.Join(baseDir, "objects")
	if err := fs.MkdirAll(objectsDir, 0o755); err != nil {
		return nil, ferr.Wrap(ferr.KindIO, "content.FS: create objects dir", err)
	}
	return &FS{fs: fs, baseDir: baseDir}, nil
}

func (s *FS) objectPath(c cid.Cid) string {
	enc := c.Encode()
	if len(enc) < 3 {
		return filepath.Join(s.baseDir, "objects", "00", enc)
	}
	return filepath.Join(s.baseDir, "objects", enc[:2], enc[2:])
}

func (s *FS) Exists(c cid.Cid) (bool, error) {
	_, err := s.fs.Stat(s.objectPath(c))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, ferr.Wrap(ferr.KindIO, "content.FS: stat", err)
}

func (s *FS) ReadUnchecked(c cid.Cid) ([]byte, error) {
	f, err := s.fs.Open(s.objectPath(c))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errNotFound(c)
		}
		return nil, ferr.Wrap(ferr.KindIO, "content.FS: open", err)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, ferr.Wrap(ferr.KindIO, "content.FS: read", err)
	}
	return buf, nil
}

func (s *FS) WriteUnchecked(c cid.Cid, buf []byte) error {
	objPath := s.objectPath(c)
	if ok, err := s.Exists(c); err != nil {
		return err
	} else if ok {
		return nil
	}

	dir := filepath.Dir(objPath)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return ferr.Wrap(ferr.KindIO, "content.FS: mkdir", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".tmp-*")
	if err != nil {
		return ferr.Wrap(ferr.KindIO, "content.FS: create temp", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		s.fs.Remove(tmpPath)
		return ferr.Wrap(ferr.KindIO, "content.FS: write temp", err)
	}
	if syncer, ok := tmp.(interface{ Sync() error }); ok {
		if err := syncer.Sync(); err != nil {
			tmp.Close()
			s.fs.Remove(tmpPath)
			return ferr.Wrap(ferr.KindIO, "content.FS: sync temp", err)
		}
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpPath)
		return ferr.Wrap(ferr.KindIO, "content.FS: close temp", err)
	}
	if err := s.fs.Rename(tmpPath, objPath); err != nil {
		s.fs.Remove(tmpPath)
		return ferr.Wrap(ferr.KindIO, fmt.Sprintf("content.FS: rename to %s", objPath), err)
	}
	return nil
}
