package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"animeRecommendator/domain"
)

// ModelStore is an in-memory model store with the same pointer-last write
// discipline as the postgres implementation. It backs tests and DB-less
// runs; artifacts survive only for the process lifetime.
type ModelStore struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
	current   string
}

func NewModelStore() *ModelStore {
	return &ModelStore{
		artifacts: make(map[string][]byte),
		current:   domain.VersionNone,
	}
}

func (s *ModelStore) Save(ctx context.Context, model *domain.SimilarityModel) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if model.Version == "" || model.Version == domain.VersionNone {
		return fmt.Errorf("refusing to save model without a version")
	}

	// Serializing decouples the stored artifact from the caller's maps,
	// matching the durable store's snapshot semantics.
	raw, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[model.Version] = raw
	s.current = model.Version
	return nil
}

func (s *ModelStore) CurrentVersion(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}

func (s *ModelStore) LoadCurrent(ctx context.Context) (*domain.SimilarityModel, error) {
	version, err := s.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	if version == domain.VersionNone {
		return nil, domain.ErrModelNotFound
	}

	return s.LoadVersion(ctx, version)
}

func (s *ModelStore) LoadVersion(ctx context.Context, version string) (*domain.SimilarityModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	s.mu.RLock()
	raw, ok := s.artifacts[version]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("artifact for version %s missing: %w", version, domain.ErrModelNotFound)
	}

	var model domain.SimilarityModel
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model %s: %w", version, err)
	}

	return &model, nil
}

// DeleteArtifact removes an artifact without touching the pointer. It
// simulates a corrupted store for tests.
func (s *ModelStore) DeleteArtifact(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.artifacts, version)
}
