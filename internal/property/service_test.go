// File: internal/property/service_test.go
package property

import (
	"context"
	"testing"

	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of the Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, property *Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Property), args.Error(1)
}

func (m *MockRepository) FindBySlug(ctx context.Context, slug string) (*Property, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Property), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context) ([]Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Property), args.Error(1)
}

func (m *MockRepository) FindFiltered(ctx context.Context, filter CatalogFilter) ([]Property, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Property), args.Error(1)
}

func (m *MockRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Property, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Property), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, property *Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockResolver is a mock implementation of OwnerNameResolver.
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveDisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

func newPropertyTestService(repo Repository, resolver OwnerNameResolver) *ServiceImplementation {
	return NewService(repo, resolver, nil, nil, nil, &config.Config{}, zap.NewNop())
}

func TestGetCatalogFallsBackToDatabase(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := newPropertyTestService(mockRepo, new(MockResolver))

	filter := CatalogFilter{Search: "roca", ListingType: ListingTypeSale}
	casa := Property{Title: "Casa Roca", Type: "House", ListingType: ListingTypeSale, Currency: "USD", Price: 250000}
	casa.ID = uuid.New()

	mockRepo.On("FindFiltered", mock.Anything, filter).Return([]Property{casa}, nil)
	mockRepo.On("FindAll", mock.Anything).Return([]Property{casa}, nil)

	catalog, err := svc.GetCatalog(context.Background(), filter)

	require.NoError(t, err)
	require.Len(t, catalog.Properties, 1)
	assert.Equal(t, "Casa Roca", catalog.Properties[0].Title)
	assert.Equal(t, "U$S 250,000", catalog.Properties[0].FormattedPrice)
	assert.Equal(t, []string{"all", "House"}, catalog.Types)
	assert.Equal(t, 1, catalog.Total)
	mockRepo.AssertExpectations(t)
}

func TestCarouselWrapsAround(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := newPropertyTestService(mockRepo, new(MockResolver))

	p := &Property{Images: common.StringList{"a.jpg", "b.jpg", "c.jpg"}}
	p.ID = uuid.New()
	mockRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)

	position, err := svc.Carousel(context.Background(), p.ID, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, position.Index)
	assert.Equal(t, "a.jpg", position.Image)
	assert.Equal(t, 3, position.Total)

	position, err = svc.Carousel(context.Background(), p.ID, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, 2, position.Index)
	assert.Equal(t, "c.jpg", position.Image)
}

func TestCarouselEmptyGallery(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := newPropertyTestService(mockRepo, new(MockResolver))

	p := &Property{}
	p.ID = uuid.New()
	mockRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)

	position, err := svc.Carousel(context.Background(), p.ID, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, position.Index)
	assert.Empty(t, position.Image)
	assert.Equal(t, 0, position.Total)
}

func TestCreateDerivesSlugAndCover(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := newPropertyTestService(mockRepo, new(MockResolver))

	ownerID := uuid.New()
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *Property) bool {
		return p.Slug == "casa-roca" &&
			p.ImageURL == "https://cdn.example.com/a.jpg" &&
			p.ListingType == ListingTypeSale &&
			p.OwnerID == ownerID
	})).Return(nil)

	created, err := svc.Create(context.Background(), ownerID, CreatePropertyRequest{
		Title:    "Casa Roca",
		Price:    250000,
		Currency: "USD",
		Type:     "House",
		Location: "Jujuy",
		Images:   []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	})

	require.NoError(t, err)
	assert.Equal(t, "casa-roca", created.Slug)
	mockRepo.AssertExpectations(t)
}

func TestUpdateRequiresOwnershipOrAdmin(t *testing.T) {
	ownerID := uuid.New()
	stranger := uuid.New()

	existing := &Property{Title: "Casa Roca", OwnerID: ownerID}
	existing.ID = uuid.New()

	req := UpdatePropertyRequest{
		Title:    "Casa Roca II",
		Price:    300000,
		Currency: "USD",
		Type:     "House",
		Location: "Jujuy",
	}

	t.Run("stranger is rejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newPropertyTestService(mockRepo, new(MockResolver))
		mockRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)

		_, err := svc.Update(context.Background(), stranger, common.RoleAgent, existing.ID, req)
		require.Error(t, err)
		apiErr, ok := common.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("admin may edit any row", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newPropertyTestService(mockRepo, new(MockResolver))
		row := *existing
		mockRepo.On("FindByID", mock.Anything, existing.ID).Return(&row, nil)
		mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.Update(context.Background(), stranger, common.RoleAdmin, existing.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "Casa Roca II", updated.Title)
	})

	t.Run("owner may edit", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newPropertyTestService(mockRepo, new(MockResolver))
		row := *existing
		mockRepo.On("FindByID", mock.Anything, existing.ID).Return(&row, nil)
		mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Update(context.Background(), ownerID, common.RoleAgent, existing.ID, req)
		require.NoError(t, err)
	})
}

func TestDeleteRequiresOwnershipOrAdmin(t *testing.T) {
	ownerID := uuid.New()
	existing := &Property{OwnerID: ownerID}
	existing.ID = uuid.New()

	mockRepo := new(MockRepository)
	svc := newPropertyTestService(mockRepo, new(MockResolver))
	mockRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)

	err := svc.Delete(context.Background(), uuid.New(), common.RoleAgent, existing.ID)
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListDashboardScopesByRole(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()

	mine := Property{Title: "Mine", OwnerID: ownerID, Currency: "ARS"}
	mine.ID = uuid.New()
	theirs := Property{Title: "Theirs", OwnerID: otherID, Currency: "ARS"}
	theirs.ID = uuid.New()

	t.Run("admin sees everything with attribution", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockResolver := new(MockResolver)
		svc := newPropertyTestService(mockRepo, mockResolver)

		mockRepo.On("FindAll", mock.Anything).Return([]Property{mine, theirs}, nil)
		mockResolver.On("ResolveDisplayNames", mock.Anything, []uuid.UUID{ownerID, otherID}).
			Return(map[uuid.UUID]string{ownerID: "María", otherID: "Jorge"}, nil)

		rows, err := svc.ListDashboard(context.Background(), uuid.New(), common.RoleAdmin)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "María", rows[0].OwnerName)
		assert.Equal(t, "Jorge", rows[1].OwnerName)
	})

	t.Run("agent sees own rows only", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockResolver := new(MockResolver)
		svc := newPropertyTestService(mockRepo, mockResolver)

		mockRepo.On("FindByOwnerID", mock.Anything, ownerID).Return([]Property{mine}, nil)
		mockResolver.On("ResolveDisplayNames", mock.Anything, []uuid.UUID{ownerID}).
			Return(map[uuid.UUID]string{ownerID: "María"}, nil)

		rows, err := svc.ListDashboard(context.Background(), ownerID, common.RoleAgent)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Mine", rows[0].Title)
		mockRepo.AssertNotCalled(t, "FindAll", mock.Anything)
	})
}
