// File: internal/upload/service.go
package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/platform/crypto"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// uploadTokenBytes is the randomness behind each object name. Names must be
// unguessable because the bucket is publicly readable.
const uploadTokenBytes = 16

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

// ObjectStore is the subset of the storage client the upload service needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// Service defines the interface for image upload business logic.
type Service interface {
	UploadImages(ctx context.Context, ownerID uuid.UUID, existingCount int, files []*multipart.FileHeader) (*UploadImagesResponse, error)
	DeleteImage(ctx context.Context, actorID uuid.UUID, actorRole string, key string) error
	Claim(ctx context.Context, propertyID uuid.UUID, keys []string) error
}

// ServiceImplementation implements the upload Service interface.
type ServiceImplementation struct {
	store  ObjectStore
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new upload service. The store may be nil when object
// storage is unconfigured; uploads then answer 503.
func NewService(store ObjectStore, repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		store:  store,
		repo:   repo,
		logger: logger,
	}
}

// UploadImages stores a batch of gallery images sequentially. A batch that
// would push the gallery past the cap is rejected before anything is stored,
// and a mid-batch failure rolls back the objects stored so far.
func (s *ServiceImplementation) UploadImages(ctx context.Context, ownerID uuid.UUID, existingCount int, files []*multipart.FileHeader) (*UploadImagesResponse, error) {
	if s.store == nil {
		return nil, common.ErrServiceUnavailable.WithDetails("Image storage is not configured.")
	}
	if len(files) == 0 {
		return nil, common.ErrBadRequest.WithDetails("No images provided.")
	}
	if existingCount+len(files) > MaxImagesPerProperty {
		return nil, common.ErrBadRequest.WithDetails(
			fmt.Sprintf("A property can have at most %d images; this batch would make %d.",
				MaxImagesPerProperty, existingCount+len(files)),
		)
	}
	for _, file := range files {
		if _, ok := allowedImageExtensions[normalizedExt(file.Filename)]; !ok {
			return nil, common.ErrBadRequest.WithDetails(
				fmt.Sprintf("Unsupported image type: %s.", filepath.Ext(file.Filename)),
			)
		}
	}

	uploaded := make([]UploadedImage, 0, len(files))
	for _, file := range files {
		image, err := s.storeOne(ctx, ownerID, file)
		if err != nil {
			s.rollback(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, *image)
	}

	s.logger.Info("Image batch uploaded",
		zap.Int("count", len(uploaded)),
		zap.String("ownerID", ownerID.String()),
	)
	return &UploadImagesResponse{Images: uploaded}, nil
}

func (s *ServiceImplementation) storeOne(ctx context.Context, ownerID uuid.UUID, file *multipart.FileHeader) (*UploadedImage, error) {
	token, err := crypto.GenerateSecureRandomString(uploadTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate object name: %w", err)
	}
	key := fmt.Sprintf("%s_%d%s", token, time.Now().UnixMilli(), normalizedExt(file.Filename))

	src, err := file.Open()
	if err != nil {
		return nil, common.ErrBadRequest.WithDetails("Could not read uploaded file.")
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	url, err := s.store.Put(ctx, key, src, file.Size, contentType)
	if err != nil {
		s.logger.Error("Failed to store image", zap.Error(err), zap.String("key", key))
		return nil, common.ErrInternalServer.WithDetails("Failed to store image.")
	}

	record := &UploadRecord{Key: key, URL: url, OwnerID: ownerID}
	if err := s.repo.Create(ctx, record); err != nil {
		// Ledger write failed; do not leave an untracked object behind.
		if removeErr := s.store.Remove(ctx, key); removeErr != nil {
			s.logger.Warn("Failed to remove untracked object", zap.Error(removeErr), zap.String("key", key))
		}
		return nil, err
	}
	return &UploadedImage{Key: key, URL: url}, nil
}

func (s *ServiceImplementation) rollback(ctx context.Context, uploaded []UploadedImage) {
	for _, image := range uploaded {
		if err := s.store.Remove(ctx, image.Key); err != nil {
			s.logger.Warn("Failed to roll back stored image", zap.Error(err), zap.String("key", image.Key))
		}
		if err := s.repo.DeleteByKey(ctx, image.Key); err != nil {
			s.logger.Warn("Failed to roll back upload record", zap.Error(err), zap.String("key", image.Key))
		}
	}
}

// DeleteImage removes one object and its ledger row. Only the uploader or an
// admin may delete.
func (s *ServiceImplementation) DeleteImage(ctx context.Context, actorID uuid.UUID, actorRole string, key string) error {
	if s.store == nil {
		return common.ErrServiceUnavailable.WithDetails("Image storage is not configured.")
	}

	record, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return err
	}
	if record.OwnerID != actorID && !strings.EqualFold(actorRole, common.RoleAdmin) {
		return common.ErrForbidden.WithDetails("You can only delete your own uploads.")
	}

	if err := s.store.Remove(ctx, key); err != nil {
		s.logger.Error("Failed to remove object", zap.Error(err), zap.String("key", key))
		return common.ErrInternalServer.WithDetails("Failed to delete image.")
	}
	return s.repo.DeleteByKey(ctx, key)
}

// Claim attaches uploaded objects to a saved property, taking them out of
// the orphan sweep.
func (s *ServiceImplementation) Claim(ctx context.Context, propertyID uuid.UUID, keys []string) error {
	return s.repo.Claim(ctx, propertyID, keys)
}

func normalizedExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
