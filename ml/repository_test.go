package ml

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTestArtifact(t *testing.T, artifact *ModelArtifact) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "revenue.model.json")
	if err := artifact.Save(path); err != nil {
		t.Fatalf("failed to save artifact: %v", err)
	}
	return path
}

func TestRepositoryCurrentBeforeLoad(t *testing.T) {
	repo := NewRepository("does-not-matter.json", nil)

	_, err := repo.Current()
	if !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded, got %v", err)
	}
}

func TestRepositoryLoadAndCurrent(t *testing.T) {
	path := writeTestArtifact(t, linearTestArtifact())
	repo := NewRepository(path, nil)

	if err := repo.Load(); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	first, err := repo.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Algorithm != AlgorithmLinear {
		t.Fatalf("unexpected algorithm: %q", first.Algorithm)
	}

	// Current must keep returning the same artifact without re-reading storage.
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove artifact file: %v", err)
	}
	second, err := repo.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatal("expected the same resident artifact")
	}
}

func TestRepositoryLoadMissingFile(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "missing.json"), nil)

	err := repo.Load()
	if err == nil {
		t.Fatal("expected error")
	}
	var loadErr *ModelLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *ModelLoadError, got %T", err)
	}
	if _, err := repo.Current(); !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded after failed load, got %v", err)
	}
}

func TestRepositoryLoadCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	repo := NewRepository(path, nil)
	var loadErr *ModelLoadError
	if err := repo.Load(); !errors.As(err, &loadErr) {
		t.Fatalf("expected *ModelLoadError, got %v", err)
	}
}

func TestRepositoryLoadSchemaMismatch(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ModelArtifact)
	}{
		{
			name: "wrong feature order",
			mutate: func(a *ModelArtifact) {
				a.FeatureNames = []string{"number_of_sales", "experience_months", "seasonal_factor"}
			},
		},
		{
			name: "wrong coefficient count",
			mutate: func(a *ModelArtifact) {
				a.Coefficients = append(a.Coefficients, 1)
			},
		},
		{
			name: "unknown algorithm",
			mutate: func(a *ModelArtifact) {
				a.Algorithm = "random_forest"
			},
		},
		{
			name: "degree disagrees with algorithm",
			mutate: func(a *ModelArtifact) {
				a.Degree = 2
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact := linearTestArtifact()
			tt.mutate(artifact)

			// Save runs the same schema check, so write the raw JSON directly.
			path := filepath.Join(t.TempDir(), "bad.json")
			payload, err := json.Marshal(artifact)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if err := os.WriteFile(path, payload, 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}

			repo := NewRepository(path, nil)
			var loadErr *ModelLoadError
			if err := repo.Load(); !errors.As(err, &loadErr) {
				t.Fatalf("expected *ModelLoadError, got %v", err)
			}
		})
	}
}

func TestRepositoryReloadSwapsArtifact(t *testing.T) {
	artifact := linearTestArtifact()
	path := writeTestArtifact(t, artifact)
	repo := NewRepository(path, nil)

	if err := repo.Load(); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	updated := linearTestArtifact()
	updated.Version = "v2"
	updated.R2 = 0.97
	if err := updated.Save(path); err != nil {
		t.Fatalf("failed to save updated artifact: %v", err)
	}
	if err := repo.Reload(); err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}

	current, err := repo.Current()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.Version != "v2" || current.R2 != 0.97 {
		t.Fatalf("expected reloaded artifact, got %+v", current)
	}
}

func TestRepositoryFailedReloadKeepsOldArtifact(t *testing.T) {
	path := writeTestArtifact(t, linearTestArtifact())
	repo := NewRepository(path, nil)
	if err := repo.Load(); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if err := os.WriteFile(path, []byte("garbage"), 0o600); err != nil {
		t.Fatalf("failed to corrupt file: %v", err)
	}
	if err := repo.Reload(); err == nil {
		t.Fatal("expected reload to fail")
	}

	current, err := repo.Current()
	if err != nil {
		t.Fatalf("expected the previous artifact to survive, got %v", err)
	}
	if current.Algorithm != AlgorithmLinear {
		t.Fatalf("unexpected artifact: %+v", current)
	}
}
