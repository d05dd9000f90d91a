package mutstore

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/fixitydb/fixity/internal/ferr"
)

// FS is an afero-backed Store. Keys are '/'-separated and map directly
// onto nested directories under baseDir (spec.md §6's refs/heads-style
// layout), written atomically via temp-file-then-rename, following the
// teacher's branch reference files.
type FS struct {
	fs      afero.Fs
	baseDir string
}

func NewFS(fs afero.Fs, baseDir string) (*FS, error) {
	if err := fs.MkdirAll(baseDir, 0o755); err != nil {
		return nil, ferr.Wrap(ferr.KindIO, "mutstore.FS: create base dir", err)
	}
	return &FS{fs: fs, baseDir: baseDir}, nil
}

func (s *FS) keyPath(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(key))
}

func (s *FS) Get(key string) ([]byte, error) {
	f, err := s.fs.Open(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errNotFound(key)
		}
		return nil, ferr.Wrap(ferr.KindIO, "mutstore.FS: open", err)
	}
	defer f.Close()
	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, ferr.Wrap(ferr.KindIO, "mutstore.FS: read", err)
	}
	return buf, nil
}

func (s *FS) Exists(key string) (bool, error) {
	_, err := s.fs.Stat(s.keyPath(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, ferr.Wrap(ferr.KindIO, "mutstore.FS: stat", err)
}

func (s *FS) Put(key string, buf []byte) error {
	keyPath := s.keyPath(key)
	dir := filepath.Dir(keyPath)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return ferr.Wrap(ferr.KindIO, "mutstore.FS: mkdir", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".tmp-*")
	if err != nil {
		return ferr.Wrap(ferr.KindIO, "mutstore.FS: create temp", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		s.fs.Remove(tmpPath)
		return ferr.Wrap(ferr.KindIO, "mutstore.FS: write temp", err)
	}
	if syncer, ok := tmp.(interface{ Sync() error }); ok {
		if err := syncer.Sync(); err != nil {
			tmp.Close()
			s.fs.Remove(tmpPath)
			return ferr.Wrap(ferr.KindIO, "mutstore.FS: sync temp", err)
		}
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpPath)
		return ferr.Wrap(ferr.KindIO, "mutstore.FS: close temp", err)
	}
	if err := s.fs.Rename(tmpPath, keyPath); err != nil {
		s.fs.Remove(tmpPath)
		return ferr.Wrap(ferr.KindIO, "mutstore.FS: rename", err)
	}
	return nil
}

func (s *FS) Delete(key string) error {
	err := s.fs.Remove(s.keyPath(key))
	if err != nil && !os.IsNotExist(err) {
		return ferr.Wrap(ferr.KindIO, "mutstore.FS: remove", err)
	}
	// Clean up now-empty parent directories, matching the teacher's branch
	// deletion behavior for nested names.
	dir := filepath.Dir(s.keyPath(key))
	for dir != s.baseDir && strings.HasPrefix(dir, s.baseDir) {
		if err := s.fs.Remove(dir); err != nil {
			break
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

func (s *FS) List(prefix, delimiter string) ([]string, error) {
	var allKeys []string
	err := afero.Walk(s.fs, s.baseDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.baseDir, p)
		if err != nil {
			return err
		}
		allKeys = append(allKeys, path.Clean(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, ferr.Wrap(ferr.KindIO, "mutstore.FS: walk", err)
	}
	return listWithDelimiter(allKeys, prefix, delimiter), nil
}
