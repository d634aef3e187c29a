// File: internal/property/model_test.go
package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleCatalog() []Property {
	casa := Property{
		Title:       "Casa Roca",
		Location:    "Jujuy",
		Type:        "House",
		ListingType: ListingTypeSale,
	}
	depto := Property{
		Title:       "Depto Centro",
		Location:    "Salta",
		Type:        "Apartment",
		ListingType: ListingTypeRent,
	}
	return []Property{casa, depto}
}

func TestFilterCatalog(t *testing.T) {
	catalog := sampleCatalog()

	tests := []struct {
		name       string
		filter     CatalogFilter
		wantTitles []string
	}{
		{
			name:       "no filter returns everything",
			filter:     CatalogFilter{},
			wantTitles: []string{"Casa Roca", "Depto Centro"},
		},
		{
			name:       "search matches title case-insensitively",
			filter:     CatalogFilter{Search: "roca"},
			wantTitles: []string{"Casa Roca"},
		},
		{
			name:       "search matches location",
			filter:     CatalogFilter{Search: "salta"},
			wantTitles: []string{"Depto Centro"},
		},
		{
			name:       "type facet narrows the catalog",
			filter:     CatalogFilter{Type: "Apartment"},
			wantTitles: []string{"Depto Centro"},
		},
		{
			name:       "listing type facet narrows the catalog",
			filter:     CatalogFilter{ListingType: ListingTypeRent},
			wantTitles: []string{"Depto Centro"},
		},
		{
			name:       "all facet disables the dimension",
			filter:     CatalogFilter{Type: FacetAll, ListingType: FacetAll},
			wantTitles: []string{"Casa Roca", "Depto Centro"},
		},
		{
			name:       "filters combine with AND",
			filter:     CatalogFilter{Search: "casa", ListingType: ListingTypeRent},
			wantTitles: []string{},
		},
		{
			name:       "whitespace-only search is ignored",
			filter:     CatalogFilter{Search: "   "},
			wantTitles: []string{"Casa Roca", "Depto Centro"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := FilterCatalog(catalog, tt.filter)
			titles := make([]string, 0, len(filtered))
			for i := range filtered {
				titles = append(titles, filtered[i].Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestTypeFacets(t *testing.T) {
	catalog := []Property{
		{Type: "House"},
		{Type: "Apartment"},
		{Type: "House"},
		{Type: ""},
		{Type: "Land"},
	}
	assert.Equal(t, []string{"all", "House", "Apartment", "Land"}, TypeFacets(catalog))
}

func TestTypeFacetsEmptyCatalog(t *testing.T) {
	assert.Equal(t, []string{"all"}, TypeFacets(nil))
}

func TestCarouselStep(t *testing.T) {
	tests := []struct {
		name  string
		index int
		step  int
		total int
		want  int
	}{
		{name: "forward", index: 0, step: 1, total: 3, want: 1},
		{name: "wraps forward past the end", index: 2, step: 1, total: 3, want: 0},
		{name: "wraps backward past the start", index: 0, step: -1, total: 3, want: 2},
		{name: "large negative step", index: 1, step: -7, total: 3, want: 0},
		{name: "empty gallery resolves to zero", index: 5, step: 3, total: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CarouselStep(tt.index, tt.step, tt.total))
		})
	}
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "€", CurrencySymbol("EUR"))
	assert.Equal(t, "U$S", CurrencySymbol("USD"))
	assert.Equal(t, "$", CurrencySymbol("ARS"))
	assert.Equal(t, "$", CurrencySymbol("BTC"))
	assert.Equal(t, "U$S", CurrencySymbol(" usd "))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "U$S 250,000", FormatPrice(250000, "USD"))
	assert.Equal(t, "€ 1,250,000.5", FormatPrice(1250000.5, "EUR"))
	assert.Equal(t, "$ 950", FormatPrice(950, "ARS"))
}

func TestNormalizeDerivesCoverImage(t *testing.T) {
	p := Property{Images: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}}
	p.Normalize()
	assert.Equal(t, "https://cdn.example.com/a.jpg", p.ImageURL)
	assert.Equal(t, ListingTypeSale, p.ListingType)

	p.Images = nil
	p.Normalize()
	assert.Empty(t, p.ImageURL)
}
