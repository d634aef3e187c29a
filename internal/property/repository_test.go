// File: internal/property/repository_test.go
package property

import (
	"context"
	"testing"
	"time"

	"conesa_estates_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestRepo(t *testing.T) Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Property{}))
	return NewGORMRepository(db)
}

func seedProperty(t *testing.T, repo Repository, title, location, propType, listingType string, createdAt time.Time) *Property {
	t.Helper()
	p := &Property{
		Title:       title,
		Slug:        uuid.NewString(),
		Location:    location,
		Type:        propType,
		ListingType: listingType,
		Currency:    "USD",
		Price:       100000,
		OwnerID:     uuid.New(),
		Images:      common.StringList{"https://cdn.example.com/" + title + ".jpg"},
	}
	p.Normalize()
	require.NoError(t, repo.Create(context.Background(), p))
	// Backdate so ordering assertions are deterministic.
	p.CreatedAt = createdAt
	require.NoError(t, repo.Update(context.Background(), p))
	return p
}

func TestRepositoryFindAllOrdersNewestFirst(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.Now()
	seedProperty(t, repo, "Old", "Jujuy", "House", ListingTypeSale, now.Add(-2*time.Hour))
	seedProperty(t, repo, "New", "Jujuy", "House", ListingTypeSale, now)

	properties, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, properties, 2)
	assert.Equal(t, "New", properties[0].Title)
	assert.Equal(t, "Old", properties[1].Title)
}

func TestRepositoryFindFiltered(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.Now()
	seedProperty(t, repo, "Casa Roca", "Jujuy", "House", ListingTypeSale, now)
	seedProperty(t, repo, "Depto Centro", "Salta", "Apartment", ListingTypeRent, now.Add(-time.Hour))

	tests := []struct {
		name       string
		filter     CatalogFilter
		wantTitles []string
	}{
		{name: "search on title", filter: CatalogFilter{Search: "roca"}, wantTitles: []string{"Casa Roca"}},
		{name: "search on location", filter: CatalogFilter{Search: "SALTA"}, wantTitles: []string{"Depto Centro"}},
		{name: "type facet", filter: CatalogFilter{Type: "Apartment"}, wantTitles: []string{"Depto Centro"}},
		{name: "listing type facet", filter: CatalogFilter{ListingType: ListingTypeRent}, wantTitles: []string{"Depto Centro"}},
		{name: "all facet disables filtering", filter: CatalogFilter{Type: FacetAll}, wantTitles: []string{"Casa Roca", "Depto Centro"}},
		{name: "combined filters exclude", filter: CatalogFilter{Search: "casa", ListingType: ListingTypeRent}, wantTitles: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			properties, err := repo.FindFiltered(context.Background(), tt.filter)
			require.NoError(t, err)
			titles := make([]string, 0, len(properties))
			for i := range properties {
				titles = append(titles, properties[i].Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestRepositoryFindByOwnerID(t *testing.T) {
	repo := setupTestRepo(t)
	mine := seedProperty(t, repo, "Mine", "Jujuy", "House", ListingTypeSale, time.Now())
	seedProperty(t, repo, "Theirs", "Salta", "House", ListingTypeSale, time.Now())

	properties, err := repo.FindByOwnerID(context.Background(), mine.OwnerID)
	require.NoError(t, err)
	require.Len(t, properties, 1)
	assert.Equal(t, "Mine", properties[0].Title)
}

func TestRepositoryRoundTripsImageList(t *testing.T) {
	repo := setupTestRepo(t)
	p := seedProperty(t, repo, "Gallery", "Jujuy", "House", ListingTypeSale, time.Now())

	found, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, found.Images, 1)
	assert.Equal(t, found.Images[0], found.ImageURL)
}

func TestRepositoryDeleteMissingRow(t *testing.T) {
	repo := setupTestRepo(t)
	err := repo.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}

func TestRepositoryRejectsDuplicateSlug(t *testing.T) {
	repo := setupTestRepo(t)
	first := &Property{Title: "A", Slug: "same-slug", Type: "House", Location: "Jujuy", OwnerID: uuid.New()}
	first.Normalize()
	require.NoError(t, repo.Create(context.Background(), first))

	second := &Property{Title: "B", Slug: "same-slug", Type: "House", Location: "Jujuy", OwnerID: uuid.New()}
	second.Normalize()
	err := repo.Create(context.Background(), second)
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
}
