package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Repository owns the single resident model artifact. Load reads it from the
// configured storage path; Current hands it out without touching storage and
// is safe to call concurrently from many requests.
type Repository struct {
	path     string
	artifact atomic.Pointer[ModelArtifact]
	logger   *zap.Logger
}

func NewRepository(path string, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{path: path, logger: logger}
}

// Load reads and validates the artifact, then installs it atomically.
// Failures are *ModelLoadError; a failed load leaves any previously
// installed artifact in place.
func (r *Repository) Load() error {
	payload, err := os.ReadFile(r.path)
	if err != nil {
		return &ModelLoadError{Path: r.path, Err: err}
	}

	var artifact ModelArtifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return &ModelLoadError{Path: r.path, Err: err}
	}
	if err := r.checkArtifact(&artifact); err != nil {
		return &ModelLoadError{Path: r.path, Err: err}
	}

	r.artifact.Store(&artifact)
	r.logger.Info("model loaded",
		zap.String("algorithm", artifact.Algorithm),
		zap.Int("degree", artifact.Degree),
		zap.Float64("r2", artifact.R2),
		zap.String("version", artifact.Version))
	return nil
}

// checkArtifact layers the repository's expectations on top of the artifact's
// own schema check: the serving feature order is fixed.
func (r *Repository) checkArtifact(a *ModelArtifact) error {
	if err := a.checkSchema(); err != nil {
		return err
	}
	want := FeatureNames()
	if len(a.FeatureNames) != len(want) {
		return fmt.Errorf("expected %d features, got %d", len(want), len(a.FeatureNames))
	}
	for i, name := range want {
		if a.FeatureNames[i] != name {
			return fmt.Errorf("feature %d: expected %q, got %q", i, name, a.FeatureNames[i])
		}
	}
	return nil
}

// Current returns the resident artifact, or ErrModelNotLoaded if Load has
// never succeeded.
func (r *Repository) Current() (*ModelArtifact, error) {
	artifact := r.artifact.Load()
	if artifact == nil {
		return nil, ErrModelNotLoaded
	}
	return artifact, nil
}

// Reload re-reads the artifact from storage. The swap is atomic: concurrent
// readers see either the old or the new artifact, never a mix.
func (r *Repository) Reload() error { return r.Load() }

// Watch reloads the artifact whenever its file changes on disk, calling
// onSwap after each successful swap. In-flight predictions keep whatever
// artifact they already hold. Blocks until ctx is done.
func (r *Repository) Watch(ctx context.Context, onSwap func(*ModelArtifact)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors and the trainer replace the file rather
	// than writing it in place.
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(r.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := r.Load(); err != nil {
				r.logger.Warn("model reload failed, keeping previous artifact", zap.Error(err))
				continue
			}
			if onSwap != nil {
				if artifact, err := r.Current(); err == nil {
					onSwap(artifact)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("artifact watcher error", zap.Error(err))
		}
	}
}
