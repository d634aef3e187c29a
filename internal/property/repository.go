// File: internal/property/repository.go
package property

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"conesa_estates_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for property data operations.
type Repository interface {
	Create(ctx context.Context, property *Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	FindBySlug(ctx context.Context, slug string) (*Property, error)
	FindAll(ctx context.Context) ([]Property, error)
	FindFiltered(ctx context.Context, filter CatalogFilter) ([]Property, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Property, error)
	Update(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM property repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new property record into the database.
func (r *gormRepository) Create(ctx context.Context, property *Property) error {
	err := r.db.WithContext(ctx).Create(property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint") {
			return common.ErrConflict.WithDetails("A property with this slug already exists.")
		}
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// FindByID retrieves a property by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	var property Property
	err := r.db.WithContext(ctx).First(&property, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Property not found.")
		}
		return nil, err
	}
	return &property, nil
}

// FindBySlug retrieves a property by its URL slug.
func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*Property, error) {
	var property Property
	err := r.db.WithContext(ctx).First(&property, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Property not found.")
		}
		return nil, err
	}
	return &property, nil
}

// FindAll retrieves the whole catalog, newest first.
func (r *gormRepository) FindAll(ctx context.Context) ([]Property, error) {
	var properties []Property
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

// FindFiltered retrieves the catalog with the filter pushed down to SQL.
// This is the fallback path when the search index is unavailable.
func (r *gormRepository) FindFiltered(ctx context.Context, filter CatalogFilter) ([]Property, error) {
	dbQuery := r.db.WithContext(ctx).Model(&Property{})

	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		dbQuery = dbQuery.Where("LOWER(title) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern)
	}
	if filter.Type != "" && filter.Type != FacetAll {
		dbQuery = dbQuery.Where("type = ?", filter.Type)
	}
	if filter.ListingType != "" && filter.ListingType != FacetAll {
		dbQuery = dbQuery.Where("listing_type = ?", filter.ListingType)
	}

	var properties []Property
	if err := dbQuery.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to filter properties: %w", err)
	}
	return properties, nil
}

// FindByOwnerID retrieves the properties owned by a single agent, newest first.
func (r *gormRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Property, error) {
	var properties []Property
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list properties by owner: %w", err)
	}
	return properties, nil
}

// Update modifies an existing property record in the database.
func (r *gormRepository) Update(ctx context.Context, property *Property) error {
	err := r.db.WithContext(ctx).Save(property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint") {
			return common.ErrConflict.WithDetails("A property with this slug already exists.")
		}
		return fmt.Errorf("failed to update property: %w", err)
	}
	return nil
}

// Delete removes a property by ID. Ownership is checked in the service layer
// so admins can delete any row.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Property{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Property not found or already deleted.")
	}
	return nil
}
