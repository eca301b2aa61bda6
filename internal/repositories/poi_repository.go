package repositories

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"tripweaver/internal/models/db_models"
)

type POIRepository interface {
	CreatePoi(ctx context.Context, poi *db_models.POI) (uuid.UUID, error)
	UpdatePoi(ctx context.Context, poi *db_models.POI) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetByIDWithDetails(ctx context.Context, id string) (*db_models.POI, error)
	GetByIDs(ctx context.Context, ids []string) ([]*db_models.POI, error)
	List(ctx context.Context, page, pageSize int) ([]db_models.POI, error)
	ListNearby(ctx context.Context, lat, lon, radiusKm float64, limit int, excludeIDs []string) ([]*db_models.POI, error)
}

type poiRepository struct {
	db *gorm.DB
}

func NewPOIRepository(db *gorm.DB) POIRepository {
	return &poiRepository{db: db}
}

func (r *poiRepository) CreatePoi(ctx context.Context, poi *db_models.POI) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(poi).Error; err != nil {
		return uuid.Nil, err
	}
	return poi.ID, nil
}

func (r *poiRepository) UpdatePoi(ctx context.Context, poi *db_models.POI) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Save(poi)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to update POI: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

func (r *poiRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&db_models.POI{}, "id = ?", id).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// ────────────────────────────────────────────────────────────────
// Read helpers follow the same pattern: default value + nil error
// when no rows are found.
// ────────────────────────────────────────────────────────────────

func (r *poiRepository) GetByIDWithDetails(ctx context.Context, id string) (*db_models.POI, error) {
	var poi db_models.POI
	err := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Tags").
		First(&poi, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // default model
		}
		return nil, err
	}
	return &poi, nil
}

// GetByIDs returns the POIs that exist among the requested ids. Unknown ids
// are silently absent from the result.
func (r *poiRepository) GetByIDs(ctx context.Context, ids []string) ([]*db_models.POI, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var pois []*db_models.POI
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("id IN ?", ids).
		Find(&pois).Error
	if err != nil {
		return nil, err
	}

	// Preserve the caller's ordering.
	byID := make(map[string]*db_models.POI, len(pois))
	for _, poi := range pois {
		byID[poi.ID.String()] = poi
	}
	ordered := make([]*db_models.POI, 0, len(pois))
	for _, id := range ids {
		if poi, ok := byID[id]; ok {
			ordered = append(ordered, poi)
		}
	}
	return ordered, nil
}

func (r *poiRepository) List(ctx context.Context, page, pageSize int) ([]db_models.POI, error) {
	var pois []db_models.POI
	offset := (page - 1) * pageSize

	err := r.db.WithContext(ctx).
		Preload("Tags").
		Offset(offset).
		Limit(pageSize).
		Find(&pois).Error

	if err != nil {
		return nil, err
	}
	return pois, nil
}

// ListNearby fetches POIs inside a bounding box approximating the radius,
// ordered closest-first by squared degree distance.
func (r *poiRepository) ListNearby(ctx context.Context, lat, lon, radiusKm float64, limit int, excludeIDs []string) ([]*db_models.POI, error) {
	latDelta := radiusKm / 111.0
	lonDelta := latDelta
	if c := math.Cos(lat * math.Pi / 180); c > 0.01 {
		lonDelta = latDelta / c
	}

	query := r.db.WithContext(ctx).
		Preload("Tags").
		Where("latitude BETWEEN ? AND ?", lat-latDelta, lat+latDelta).
		Where("longitude BETWEEN ? AND ?", lon-lonDelta, lon+lonDelta)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var pois []*db_models.POI
	err := query.
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "(latitude - ?) * (latitude - ?) + (longitude - ?) * (longitude - ?)",
			Vars:               []interface{}{lat, lat, lon, lon},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&pois).Error
	if err != nil {
		return nil, err
	}
	return pois, nil
}
