package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"animeRecommendator/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ModelRepository is the durable model store. Each training run writes one
// artifact row keyed by version, then appends a row to model_versions; the
// newest version row is the pointer. Writing the pointer last guarantees
// readers never resolve a version whose artifact is missing or partial.
type ModelRepository struct {
	DB *gorm.DB
}

func NewModelRepository(db *gorm.DB) *ModelRepository {
	return &ModelRepository{DB: db}
}

type modelArtifactRow struct {
	Version   string         `gorm:"column:version;primaryKey"`
	Matrix    datatypes.JSON `gorm:"column:matrix;type:jsonb"`
	Meta      datatypes.JSON `gorm:"column:meta;type:jsonb"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (modelArtifactRow) TableName() string {
	return "model_artifacts"
}

type modelVersionRow struct {
	ID        uint      `gorm:"primaryKey"`
	Version   string    `gorm:"column:version;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (modelVersionRow) TableName() string {
	return "model_versions"
}

func (r *ModelRepository) Save(ctx context.Context, model *domain.SimilarityModel) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if model.Version == "" || model.Version == domain.VersionNone {
		return fmt.Errorf("refusing to save model without a version")
	}

	rawMatrix, err := json.Marshal(model.Matrix)
	if err != nil {
		return fmt.Errorf("failed to marshal similarity matrix: %w", err)
	}
	rawMeta, err := json.Marshal(model.Meta)
	if err != nil {
		return fmt.Errorf("failed to marshal model meta: %w", err)
	}

	artifact := modelArtifactRow{
		Version: model.Version,
		Matrix:  datatypes.JSON(rawMatrix),
		Meta:    datatypes.JSON(rawMeta),
	}
	if err := r.DB.WithContext(ctx).Create(&artifact).Error; err != nil {
		return fmt.Errorf("failed to save model artifact %s: %w", model.Version, err)
	}

	// Pointer update is deliberately the last step: a failed artifact write
	// above leaves the previous version active.
	pointer := modelVersionRow{Version: model.Version}
	if err := r.DB.WithContext(ctx).Create(&pointer).Error; err != nil {
		return fmt.Errorf("failed to advance model version pointer to %s: %w", model.Version, err)
	}

	return nil
}

func (r *ModelRepository) CurrentVersion(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}

	var row modelVersionRow
	err := r.DB.WithContext(ctx).
		Order("created_at DESC, id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.VersionNone, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query model_versions: %w", err)
	}

	return row.Version, nil
}

func (r *ModelRepository) LoadCurrent(ctx context.Context) (*domain.SimilarityModel, error) {
	version, err := r.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	if version == domain.VersionNone {
		return nil, domain.ErrModelNotFound
	}

	return r.LoadVersion(ctx, version)
}

// LoadVersion loads a specific artifact. A version named by the pointer but
// missing from the store maps to ErrModelNotFound as well, so callers can
// distinguish "train first" uniformly from real store failures.
func (r *ModelRepository) LoadVersion(ctx context.Context, version string) (*domain.SimilarityModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row modelArtifactRow
	err := r.DB.WithContext(ctx).First(&row, "version = ?", version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("artifact for version %s missing: %w", version, domain.ErrModelNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query model_artifacts: %w", err)
	}

	model := domain.SimilarityModel{Version: row.Version}
	if err := json.Unmarshal(row.Matrix, &model.Matrix); err != nil {
		return nil, fmt.Errorf("failed to unmarshal similarity matrix %s: %w", version, err)
	}
	if err := json.Unmarshal(row.Meta, &model.Meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model meta %s: %w", version, err)
	}

	return &model, nil
}

// AutoMigrate creates the service tables, including the private model store
// rows that callers cannot reference directly.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Anime{},
		&domain.Rating{},
		&modelArtifactRow{},
		&modelVersionRow{},
	)
}
