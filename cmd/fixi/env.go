// Command fixi is fixity's reference CLI (spec.md §6): init/map/bytes
// operations over a single filesystem-backed repository, wired through
// cobra the way the rest of the retrieved corpus builds its command
// surfaces (e.g. opal-lang-opal's runtime/cli harness).
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"go.uber.org/zap"

	"github.com/fixitydb/fixity/internal/cache"
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/commitlog"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/fxlog"
	"github.com/fixitydb/fixity/internal/mutstore"
	"github.com/fixitydb/fixity/internal/workspace"
)

// env holds the three FIXI_* configuration variables spec.md §6 names.
// Deliberately a plain os.Getenv read (no config library): three
// variables with fixed defaults don't justify pulling in an ecosystem
// config package (see DESIGN.md).
type env struct {
	dirName   string
	basePath  string
	workspace string
}

func loadEnv() env {
	e := env{
		dirName:   os.Getenv("FIXI_DIR_NAME"),
		basePath:  os.Getenv("FIXI_BASE_PATH"),
		workspace: os.Getenv("FIXI_WORKSPACE"),
	}
	if e.dirName == "" {
		e.dirName = ".fixi"
	}
	if e.workspace == "" {
		e.workspace = "default"
	}
	return e
}

func (e env) fixiDir() string {
	return filepath.Join(e.basePath, e.dirName)
}

func (e env) workspaceDir() string {
	return filepath.Join(e.fixiDir(), e.workspace)
}

// app wires the engine components a single CLI invocation needs, rooted at
// the current environment's fixi directory.
type app struct {
	fs     afero.Fs
	store  content.Store
	cache  *cache.Cache
	log    *commitlog.Log
	ws     *workspace.Workspace
	logger *zap.Logger
}

func newApp(aferoFs afero.Fs, e env, verbose bool) (*app, error) {
	logger, err := fxlog.New(verbose)
	if err != nil {
		return nil, err
	}
	contentStore, err := content.NewFS(aferoFs, e.fixiDir())
	if err != nil {
		return nil, err
	}
	c, err := cache.New(cache.DefaultCapacity)
	if err != nil {
		return nil, err
	}
	refs, err := mutstore.NewFS(aferoFs, e.workspaceDir())
	if err != nil {
		return nil, err
	}
	log := commitlog.New(contentStore, cid.DefaultHasher)
	ws, err := workspace.Open(refs, log, e.workspace)
	if err != nil {
		return nil, err
	}
	ws.SetLogger(logger)
	logger.Debug("opened repository", zap.String("fixiDir", e.fixiDir()), zap.String("workspace", e.workspace))
	return &app{fs: aferoFs, store: contentStore, cache: c, log: log, ws: ws, logger: logger}, nil
}
