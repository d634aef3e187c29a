// File: internal/upload/model.go
package upload

import (
	"time"

	"conesa_estates_backend/internal/common"

	"github.com/google/uuid"
)

// MaxImagesPerProperty caps a property gallery. Batches that would push the
// gallery past the cap are rejected whole, nothing is stored.
const MaxImagesPerProperty = 10

// UploadRecord is the ledger row written for every stored object. Records
// are claimed when their URL lands in a saved property; unclaimed records
// are orphans and get swept by the cleanup job.
type UploadRecord struct {
	common.BaseModel
	Key        string     `gorm:"type:varchar(512);uniqueIndex;not null"`
	URL        string     `gorm:"type:varchar(1024);not null"`
	OwnerID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	PropertyID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName specifies the table name for the UploadRecord model.
func (UploadRecord) TableName() string {
	return "upload_records"
}

// UploadedImage is one stored image in an upload response.
type UploadedImage struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadImagesResponse is the payload returned for a successful batch.
type UploadImagesResponse struct {
	Images []UploadedImage `json:"images"`
}

// ClaimRequest attaches previously uploaded objects to a saved property so
// the cleanup job leaves them alone.
type ClaimRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	Keys       []string  `json:"keys" binding:"required,min=1,max=10"`
}

// IsOrphan reports whether the record is unclaimed and older than maxAge.
func (r *UploadRecord) IsOrphan(now time.Time, maxAge time.Duration) bool {
	return r.PropertyID == nil && now.Sub(r.CreatedAt) > maxAge
}
