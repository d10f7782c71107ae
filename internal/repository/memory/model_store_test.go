//go:build !integration

package memory

import (
	"context"
	"errors"
	"testing"

	"animeRecommendator/domain"
)

func sampleModel(version string) *domain.SimilarityModel {
	return &domain.SimilarityModel{
		Version: version,
		Matrix: map[int]map[int]float64{
			1: {2: 0.8},
			2: {1: 0.8},
		},
		Meta: domain.ModelMeta{UserCount: 10, ItemCount: 2},
	}
}

func TestModelStoreStartsEmpty(t *testing.T) {
	store := NewModelStore()
	ctx := context.Background()

	version, err := store.CurrentVersion(ctx)
	if err != nil {
		t.Fatalf("CurrentVersion: %v", err)
	}
	if version != domain.VersionNone {
		t.Errorf("version = %q, want %q", version, domain.VersionNone)
	}

	if _, err := store.LoadCurrent(ctx); !errors.Is(err, domain.ErrModelNotFound) {
		t.Errorf("LoadCurrent err = %v, want ErrModelNotFound", err)
	}
}

func TestModelStoreSaveAndLoad(t *testing.T) {
	store := NewModelStore()
	ctx := context.Background()

	if err := store.Save(ctx, sampleModel("v1")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	version, err := store.CurrentVersion(ctx)
	if err != nil {
		t.Fatalf("CurrentVersion: %v", err)
	}
	if version != "v1" {
		t.Errorf("version = %q, want v1", version)
	}

	loaded, err := store.LoadCurrent(ctx)
	if err != nil {
		t.Fatalf("LoadCurrent: %v", err)
	}
	if loaded.Version != "v1" {
		t.Errorf("loaded version = %q, want v1", loaded.Version)
	}
	if sim, ok := loaded.Similarity(1, 2); !ok || sim != 0.8 {
		t.Errorf("Similarity(1,2) = %v, %v, want 0.8, true", sim, ok)
	}
}

func TestModelStorePointerFollowsLatestSave(t *testing.T) {
	store := NewModelStore()
	ctx := context.Background()

	if err := store.Save(ctx, sampleModel("v1")); err != nil {
		t.Fatalf("Save v1: %v", err)
	}
	if err := store.Save(ctx, sampleModel("v2")); err != nil {
		t.Fatalf("Save v2: %v", err)
	}

	loaded, err := store.LoadCurrent(ctx)
	if err != nil {
		t.Fatalf("LoadCurrent: %v", err)
	}
	if loaded.Version != "v2" {
		t.Errorf("current = %q, want v2", loaded.Version)
	}

	// Older artifacts stay loadable.
	old, err := store.LoadVersion(ctx, "v1")
	if err != nil {
		t.Fatalf("LoadVersion v1: %v", err)
	}
	if old.Version != "v1" {
		t.Errorf("LoadVersion v1 returned %q", old.Version)
	}
}

func TestModelStoreRejectsUnversionedModel(t *testing.T) {
	store := NewModelStore()
	ctx := context.Background()

	if err := store.Save(ctx, sampleModel("")); err == nil {
		t.Error("Save accepted an empty version")
	}
	if err := store.Save(ctx, sampleModel(domain.VersionNone)); err == nil {
		t.Error("Save accepted the none sentinel as a version")
	}
}

func TestModelStoreMissingArtifact(t *testing.T) {
	store := NewModelStore()
	ctx := context.Background()

	if err := store.Save(ctx, sampleModel("v1")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	store.DeleteArtifact("v1")

	// The pointer still says v1 but the artifact is gone.
	if _, err := store.LoadCurrent(ctx); !errors.Is(err, domain.ErrModelNotFound) {
		t.Errorf("LoadCurrent err = %v, want ErrModelNotFound", err)
	}
}

func TestModelStoreSnapshotsArtifacts(t *testing.T) {
	store := NewModelStore()
	ctx := context.Background()

	model := sampleModel("v1")
	if err := store.Save(ctx, model); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Mutating the caller's matrix after Save must not leak into the store.
	model.Matrix[1][2] = -1

	loaded, err := store.LoadCurrent(ctx)
	if err != nil {
		t.Fatalf("LoadCurrent: %v", err)
	}
	if sim, _ := loaded.Similarity(1, 2); sim != 0.8 {
		t.Errorf("Similarity(1,2) = %v, want snapshot value 0.8", sim)
	}
}
