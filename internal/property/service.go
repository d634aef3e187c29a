// File: internal/property/service.go
package property

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/config"
	"conesa_estates_backend/internal/platform/cache"
	"conesa_estates_backend/internal/platform/debounce"
	platformES "conesa_estates_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// reindexDebounce is the quiet period after a write burst before the search
// index is rebuilt. Saving a property fires several writes in quick
// succession, so they coalesce into a single reindex.
const reindexDebounce = 300 * time.Millisecond

// catalogCachePrefix namespaces catalog query results in Redis.
const catalogCachePrefix = "catalog"

// OwnerNameResolver resolves owner IDs to display names for the dashboard
// attribution column. Implemented by the profile service.
type OwnerNameResolver interface {
	ResolveDisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// UploadReleaser unclaims the upload records of a deleted property so the
// cleanup job can sweep their objects. Implemented by the upload repository.
type UploadReleaser interface {
	ReleaseByPropertyID(ctx context.Context, propertyID uuid.UUID) error
}

// Service defines the interface for property business logic.
type Service interface {
	GetCatalog(ctx context.Context, filter CatalogFilter) (*CatalogResponse, error)
	GetTypeFacets(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Property, error)
	GetBySlug(ctx context.Context, slugValue string) (*Property, error)
	Carousel(ctx context.Context, id uuid.UUID, index, step int) (*CarouselResponse, error)
	Create(ctx context.Context, ownerID uuid.UUID, req CreatePropertyRequest) (*Property, error)
	Update(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, req UpdatePropertyRequest) (*Property, error)
	Delete(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) error
	ListDashboard(ctx context.Context, actorID uuid.UUID, actorRole string) ([]DashboardPropertyResponse, error)
}

// ServiceImplementation implements the property Service interface.
type ServiceImplementation struct {
	repo      Repository
	resolver  OwnerNameResolver
	releaser  UploadReleaser
	es        *platformES.ESClientWrapper
	cache     *cache.Client
	debouncer *debounce.Debouncer
	cfg       *config.Config
	logger    *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new property service. The Elasticsearch and cache
// clients may be nil; reads then fall through to the database.
func NewService(
	repo Repository,
	resolver OwnerNameResolver,
	releaser UploadReleaser,
	es *platformES.ESClientWrapper,
	cacheClient *cache.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:      repo,
		resolver:  resolver,
		releaser:  releaser,
		es:        es,
		cache:     cacheClient,
		debouncer: debounce.New(reindexDebounce),
		cfg:       cfg,
		logger:    logger,
	}
}

// GetCatalog returns the filtered catalog plus its type facets. Reads go
// cache first, then Elasticsearch, then the database.
func (s *ServiceImplementation) GetCatalog(ctx context.Context, filter CatalogFilter) (*CatalogResponse, error) {
	cacheKey := cache.GenerateQueryCacheKey(catalogCachePrefix, map[string]string{
		"search":       strings.ToLower(strings.TrimSpace(filter.Search)),
		"type":         filter.Type,
		"listing_type": filter.ListingType,
	})
	if s.cache != nil {
		var cached CatalogResponse
		hit, err := s.cache.GetCached(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("Catalog cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	properties, err := s.fetchFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}
	facets, err := s.GetTypeFacets(ctx)
	if err != nil {
		return nil, err
	}

	response := &CatalogResponse{
		Properties: make([]PropertyResponse, len(properties)),
		Types:      facets,
		Total:      len(properties),
	}
	for i := range properties {
		response.Properties[i] = ToPropertyResponse(&properties[i])
	}

	if s.cache != nil {
		if err := s.cache.SetCached(ctx, cacheKey, response, s.cfg.CatalogCacheTTL); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}
	return response, nil
}

// fetchFiltered prefers the search index and falls back to SQL when the
// index is missing or the query fails.
func (s *ServiceImplementation) fetchFiltered(ctx context.Context, filter CatalogFilter) ([]Property, error) {
	if s.es != nil {
		properties, err := searchCatalogES(ctx, s.es, filter, s.logger)
		if err == nil {
			return properties, nil
		}
		s.logger.Warn("Catalog search fell back to the database", zap.Error(err))
	}
	return s.repo.FindFiltered(ctx, filter)
}

// GetTypeFacets derives the filter chips from the full catalog.
func (s *ServiceImplementation) GetTypeFacets(ctx context.Context) ([]string, error) {
	properties, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return TypeFacets(properties), nil
}

func (s *ServiceImplementation) GetByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ServiceImplementation) GetBySlug(ctx context.Context, slugValue string) (*Property, error) {
	return s.repo.FindBySlug(ctx, slugValue)
}

// Carousel resolves the gallery position reached by stepping from index.
// Steps wrap in both directions.
func (s *ServiceImplementation) Carousel(ctx context.Context, id uuid.UUID, index, step int) (*CarouselResponse, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	total := len(property.Images)
	resolved := CarouselStep(index, step, total)
	response := &CarouselResponse{Index: resolved, Total: total}
	if total > 0 {
		response.Image = property.Images[resolved]
	}
	return response, nil
}

// Create inserts a new property owned by the calling agent.
func (s *ServiceImplementation) Create(ctx context.Context, ownerID uuid.UUID, req CreatePropertyRequest) (*Property, error) {
	property := &Property{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Type:        strings.TrimSpace(req.Type),
		ListingType: req.ListingType,
		Location:    strings.TrimSpace(req.Location),
		Beds:        req.Beds,
		Baths:       req.Baths,
		Sqft:        req.Sqft,
		Features:    common.StringList(req.Features),
		Images:      common.StringList(req.Images),
		OwnerID:     ownerID,
	}
	property.Slug = slug.Make(property.Title)
	property.Normalize()

	err := s.repo.Create(ctx, property)
	if err != nil {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) && apiErr.Code == common.ErrConflict.Code {
			// Slug collision with another listing of the same title.
			property.Slug = fmt.Sprintf("%s-%s", property.Slug, uuid.NewString()[:8])
			err = s.repo.Create(ctx, property)
		}
	}
	if err != nil {
		s.logger.Error("Failed to create property", zap.Error(err), zap.String("ownerID", ownerID.String()))
		return nil, err
	}

	s.logger.Info("Property created",
		zap.String("propertyID", property.ID.String()),
		zap.String("ownerID", ownerID.String()),
	)
	s.afterWrite(ctx)
	return property, nil
}

// Update replaces a property's fields. Only the owner or an admin may edit.
// The slug is kept stable so existing detail URLs keep working.
func (s *ServiceImplementation) Update(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, req UpdatePropertyRequest) (*Property, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeWrite(property, actorID, actorRole); err != nil {
		return nil, err
	}

	property.Title = strings.TrimSpace(req.Title)
	property.Description = req.Description
	property.Price = req.Price
	property.Currency = req.Currency
	property.Type = strings.TrimSpace(req.Type)
	property.ListingType = req.ListingType
	property.Location = strings.TrimSpace(req.Location)
	property.Beds = req.Beds
	property.Baths = req.Baths
	property.Sqft = req.Sqft
	property.Features = common.StringList(req.Features)
	property.Images = common.StringList(req.Images)
	property.Normalize()

	if err := s.repo.Update(ctx, property); err != nil {
		s.logger.Error("Failed to update property", zap.Error(err), zap.String("propertyID", id.String()))
		return nil, err
	}

	s.logger.Info("Property updated",
		zap.String("propertyID", id.String()),
		zap.String("actorID", actorID.String()),
	)
	s.afterWrite(ctx)
	return property, nil
}

// Delete removes a property. Only the owner or an admin may delete.
func (s *ServiceImplementation) Delete(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) error {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeWrite(property, actorID, actorRole); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete property", zap.Error(err), zap.String("propertyID", id.String()))
		return err
	}

	s.deleteFromIndex(ctx, id)
	if s.releaser != nil {
		// Unclaimed records age out through the cleanup job.
		if err := s.releaser.ReleaseByPropertyID(ctx, id); err != nil {
			s.logger.Warn("Failed to release upload records", zap.Error(err), zap.String("propertyID", id.String()))
		}
	}
	s.logger.Info("Property deleted",
		zap.String("propertyID", id.String()),
		zap.String("actorID", actorID.String()),
	)
	s.afterWrite(ctx)
	return nil
}

// ListDashboard returns the properties visible on the dashboard: every row
// for admins, own rows for agents, with owner attribution resolved.
func (s *ServiceImplementation) ListDashboard(ctx context.Context, actorID uuid.UUID, actorRole string) ([]DashboardPropertyResponse, error) {
	var (
		properties []Property
		err        error
	)
	if strings.EqualFold(actorRole, common.RoleAdmin) {
		properties, err = s.repo.FindAll(ctx)
	} else {
		properties, err = s.repo.FindByOwnerID(ctx, actorID)
	}
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]uuid.UUID, 0, len(properties))
	seen := make(map[uuid.UUID]struct{}, len(properties))
	for i := range properties {
		if _, ok := seen[properties[i].OwnerID]; ok {
			continue
		}
		seen[properties[i].OwnerID] = struct{}{}
		ownerIDs = append(ownerIDs, properties[i].OwnerID)
	}

	names, err := s.resolver.ResolveDisplayNames(ctx, ownerIDs)
	if err != nil {
		// Attribution is cosmetic; the dashboard still renders without it.
		s.logger.Warn("Failed to resolve owner display names", zap.Error(err))
		names = map[uuid.UUID]string{}
	}

	responses := make([]DashboardPropertyResponse, len(properties))
	for i := range properties {
		responses[i] = DashboardPropertyResponse{
			PropertyResponse: ToPropertyResponse(&properties[i]),
			OwnerName:        names[properties[i].OwnerID],
		}
	}
	return responses, nil
}

func authorizeWrite(property *Property, actorID uuid.UUID, actorRole string) error {
	if property.OwnerID == actorID || strings.EqualFold(actorRole, common.RoleAdmin) {
		return nil
	}
	return common.ErrForbidden.WithDetails("You can only modify your own properties.")
}

// afterWrite invalidates cached catalog queries and schedules a reindex.
// The reindex is debounced so bulk edits rebuild the index once.
func (s *ServiceImplementation) afterWrite(ctx context.Context) {
	if s.cache != nil {
		if err := s.cache.InvalidatePrefix(ctx, catalogCachePrefix); err != nil {
			s.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
		}
	}
	if s.es != nil {
		s.debouncer.Trigger(s.reindexAll)
	}
}

// reindexAll rebuilds the properties index from the database via the Bulk
// API. Runs on the debouncer's timer goroutine.
func (s *ServiceImplementation) reindexAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	properties, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Reindex aborted: failed to load properties", zap.Error(err))
		return
	}

	var buf bytes.Buffer
	for i := range properties {
		meta := fmt.Sprintf(`{"index":{"_index":"%s","_id":"%s"}}`, platformES.PropertiesIndexName, properties[i].ID.String())
		doc, err := ToElasticsearchDoc(&properties[i])
		if err != nil {
			s.logger.Error("Skipping property during reindex", zap.Error(err), zap.String("propertyID", properties[i].ID.String()))
			continue
		}
		buf.WriteString(meta)
		buf.WriteByte('\n')
		buf.WriteString(doc)
		buf.WriteByte('\n')
	}
	if buf.Len() == 0 {
		return
	}

	req := esapi.BulkRequest{
		Body:    bytes.NewReader(buf.Bytes()),
		Refresh: "true",
	}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		s.logger.Error("Bulk reindex request failed", zap.Error(err))
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		s.logger.Error("Bulk reindex returned an error status", zap.String("status", res.Status()))
		return
	}
	s.logger.Info("Properties index rebuilt", zap.Int("count", len(properties)))
}

// deleteFromIndex removes a single document immediately. The debounced
// rebuild re-adds live rows but never removes stale ones.
func (s *ServiceImplementation) deleteFromIndex(ctx context.Context, id uuid.UUID) {
	if s.es == nil {
		return
	}
	req := esapi.DeleteRequest{
		Index:      platformES.PropertiesIndexName,
		DocumentID: id.String(),
	}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		s.logger.Warn("Failed to delete property from index", zap.Error(err), zap.String("propertyID", id.String()))
		return
	}
	res.Body.Close()
}
