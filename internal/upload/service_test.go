// File: internal/upload/service_test.go
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"sync"
	"testing"
	"time"

	"conesa_estates_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore is an in-memory ObjectStore that can fail on demand.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  int // fail the nth Put (1-based); 0 never fails
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Put(_ context.Context, key string, reader io.Reader, _ int64, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.failOn > 0 && f.puts == f.failOn {
		return "", errors.New("storage write failed")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return "https://storage.example.com/property-images/" + key, nil
}

func (f *fakeStore) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// MockRepository is a mock implementation of the Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, record *UploadRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRepository) FindByKey(ctx context.Context, key string) (*UploadRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UploadRecord), args.Error(1)
}

func (m *MockRepository) Claim(ctx context.Context, propertyID uuid.UUID, keys []string) error {
	args := m.Called(ctx, propertyID, keys)
	return args.Error(0)
}

func (m *MockRepository) ReleaseByPropertyID(ctx context.Context, propertyID uuid.UUID) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}

func (m *MockRepository) DeleteByKey(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRepository) FindOrphans(ctx context.Context, olderThan time.Time) ([]UploadRecord, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]UploadRecord), args.Error(1)
}

// makeFileHeaders builds real multipart file headers so file.Open works.
func makeFileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, name := range names {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["images"]
}

func imageNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("photo-%d.jpg", i)
	}
	return names
}

func TestUploadImagesStoresBatchSequentially(t *testing.T) {
	store := newFakeStore()
	mockRepo := new(MockRepository)
	svc := NewService(store, mockRepo, zap.NewNop())
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	files := makeFileHeaders(t, "front.jpg", "kitchen.PNG")
	response, err := svc.UploadImages(context.Background(), uuid.New(), 0, files)

	require.NoError(t, err)
	require.Len(t, response.Images, 2)
	assert.Equal(t, 2, store.count())
	assert.True(t, strings.HasSuffix(response.Images[0].Key, ".jpg"))
	assert.True(t, strings.HasSuffix(response.Images[1].Key, ".png"))
	assert.Contains(t, response.Images[0].Key, "_")
	assert.NotContains(t, response.Images[0].Key, "front")
	assert.Contains(t, response.Images[0].URL, response.Images[0].Key)
}

func TestUploadImagesRejectsOversizedBatchWhole(t *testing.T) {
	store := newFakeStore()
	mockRepo := new(MockRepository)
	svc := NewService(store, mockRepo, zap.NewNop())

	files := makeFileHeaders(t, imageNames(11)...)
	_, err := svc.UploadImages(context.Background(), uuid.New(), 0, files)

	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrBadRequest.Code, apiErr.Code)
	assert.Equal(t, 0, store.count())
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadImagesCountsExistingGallery(t *testing.T) {
	store := newFakeStore()
	mockRepo := new(MockRepository)
	svc := NewService(store, mockRepo, zap.NewNop())

	files := makeFileHeaders(t, imageNames(3)...)
	_, err := svc.UploadImages(context.Background(), uuid.New(), 8, files)

	require.Error(t, err)
	assert.Equal(t, 0, store.count())
}

func TestUploadImagesRollsBackOnMidBatchFailure(t *testing.T) {
	store := newFakeStore()
	store.failOn = 2
	mockRepo := new(MockRepository)
	svc := NewService(store, mockRepo, zap.NewNop())
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("DeleteByKey", mock.Anything, mock.Anything).Return(nil)

	files := makeFileHeaders(t, "a.jpg", "b.jpg", "c.jpg")
	_, err := svc.UploadImages(context.Background(), uuid.New(), 0, files)

	require.Error(t, err)
	assert.Equal(t, 0, store.count())
	mockRepo.AssertCalled(t, "DeleteByKey", mock.Anything, mock.Anything)
}

func TestUploadImagesRejectsUnsupportedExtension(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, new(MockRepository), zap.NewNop())

	files := makeFileHeaders(t, "report.pdf")
	_, err := svc.UploadImages(context.Background(), uuid.New(), 0, files)

	require.Error(t, err)
	assert.Equal(t, 0, store.count())
}

func TestUploadImagesUnavailableWithoutStore(t *testing.T) {
	svc := NewService(nil, new(MockRepository), zap.NewNop())

	files := makeFileHeaders(t, "a.jpg")
	_, err := svc.UploadImages(context.Background(), uuid.New(), 0, files)

	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrServiceUnavailable.Code, apiErr.Code)
}

func TestDeleteImageRequiresOwnershipOrAdmin(t *testing.T) {
	store := newFakeStore()
	mockRepo := new(MockRepository)
	svc := NewService(store, mockRepo, zap.NewNop())

	ownerID := uuid.New()
	record := &UploadRecord{Key: "abc_123.jpg", OwnerID: ownerID}
	mockRepo.On("FindByKey", mock.Anything, "abc_123.jpg").Return(record, nil)

	err := svc.DeleteImage(context.Background(), uuid.New(), common.RoleAgent, "abc_123.jpg")
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)

	mockRepo.On("DeleteByKey", mock.Anything, "abc_123.jpg").Return(nil)
	require.NoError(t, svc.DeleteImage(context.Background(), ownerID, common.RoleAgent, "abc_123.jpg"))
}
