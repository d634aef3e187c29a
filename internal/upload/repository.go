// File: internal/upload/repository.go
package upload

import (
	"context"
	"errors"
	"time"

	"conesa_estates_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for upload ledger operations.
type Repository interface {
	Create(ctx context.Context, record *UploadRecord) error
	FindByKey(ctx context.Context, key string) (*UploadRecord, error)
	Claim(ctx context.Context, propertyID uuid.UUID, keys []string) error
	ReleaseByPropertyID(ctx context.Context, propertyID uuid.UUID) error
	DeleteByKey(ctx context.Context, key string) error
	FindOrphans(ctx context.Context, olderThan time.Time) ([]UploadRecord, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM upload repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, record *UploadRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *gormRepository) FindByKey(ctx context.Context, key string) (*UploadRecord, error) {
	var record UploadRecord
	err := r.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Upload not found.")
		}
		return nil, err
	}
	return &record, nil
}

// Claim marks the given keys as belonging to a property.
func (r *gormRepository) Claim(ctx context.Context, propertyID uuid.UUID, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&UploadRecord{}).
		Where("key IN ?", keys).
		Update("property_id", propertyID).Error
}

// ReleaseByPropertyID unclaims every record of a deleted property. The rows
// become orphans again and the cleanup job removes their objects.
func (r *gormRepository) ReleaseByPropertyID(ctx context.Context, propertyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&UploadRecord{}).
		Where("property_id = ?", propertyID).
		Update("property_id", nil).Error
}

func (r *gormRepository) DeleteByKey(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Delete(&UploadRecord{}, "key = ?", key)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Upload not found.")
	}
	return nil
}

// FindOrphans retrieves unclaimed records created before the cutoff.
func (r *gormRepository) FindOrphans(ctx context.Context, olderThan time.Time) ([]UploadRecord, error) {
	var records []UploadRecord
	err := r.db.WithContext(ctx).
		Where("property_id IS NULL AND created_at < ?", olderThan).
		Find(&records).Error
	return records, err
}
