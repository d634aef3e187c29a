// File: internal/property/handler_test.go
package property

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubCatalogService records the filter the handler passes down and serves a
// canned catalog.
type stubCatalogService struct {
	lastFilter CatalogFilter
	response   *CatalogResponse
}

func (s *stubCatalogService) GetCatalog(ctx context.Context, filter CatalogFilter) (*CatalogResponse, error) {
	s.lastFilter = filter
	return s.response, nil
}

func (s *stubCatalogService) GetTypeFacets(ctx context.Context) ([]string, error) {
	return []string{FacetAll}, nil
}

func (s *stubCatalogService) GetByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	return nil, nil
}

func (s *stubCatalogService) GetBySlug(ctx context.Context, slugValue string) (*Property, error) {
	return nil, nil
}

func (s *stubCatalogService) Carousel(ctx context.Context, id uuid.UUID, index, step int) (*CarouselResponse, error) {
	return nil, nil
}

func (s *stubCatalogService) Create(ctx context.Context, ownerID uuid.UUID, req CreatePropertyRequest) (*Property, error) {
	return nil, nil
}

func (s *stubCatalogService) Update(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, req UpdatePropertyRequest) (*Property, error) {
	return nil, nil
}

func (s *stubCatalogService) Delete(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) error {
	return nil
}

func (s *stubCatalogService) ListDashboard(ctx context.Context, actorID uuid.UUID, actorRole string) ([]DashboardPropertyResponse, error) {
	return nil, nil
}

func newCatalogTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(svc, zap.NewNop())
	passthrough := func(c *gin.Context) { c.Next() }
	handler.RegisterRoutes(router.Group("/api/v1"), passthrough)
	return router
}

func TestGetCatalogDefaultsToNoListingFilter(t *testing.T) {
	sale := Property{Title: "Casa Roca", ListingType: ListingTypeSale}
	rent := Property{Title: "Depto Centro", ListingType: ListingTypeRent}
	svc := &stubCatalogService{
		response: &CatalogResponse{
			Properties: []PropertyResponse{ToPropertyResponse(&sale), ToPropertyResponse(&rent)},
			Types:      []string{FacetAll},
			Total:      2,
		},
	}
	router := newCatalogTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", svc.lastFilter.ListingType,
		"a bare catalog request must not narrow by listing intent")
	assert.Equal(t, "", svc.lastFilter.Search)
	assert.Equal(t, "", svc.lastFilter.Type)

	var envelope struct {
		Data CatalogResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.Total)

	listingTypes := make([]string, len(envelope.Data.Properties))
	for i, p := range envelope.Data.Properties {
		listingTypes[i] = p.ListingType
	}
	assert.Contains(t, listingTypes, ListingTypeRent, "rent listings must appear in the default catalog")
	assert.Contains(t, listingTypes, ListingTypeSale)
}

func TestGetCatalogPassesExplicitFilters(t *testing.T) {
	svc := &stubCatalogService{response: &CatalogResponse{Types: []string{FacetAll}}}
	router := newCatalogTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties?search=roca&type=House&listing_type=rent", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "roca", svc.lastFilter.Search)
	assert.Equal(t, "House", svc.lastFilter.Type)
	assert.Equal(t, ListingTypeRent, svc.lastFilter.ListingType)
}
