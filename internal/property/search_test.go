// File: internal/property/search_test.go
package property

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queryJSON renders the search body so assertions can pin the exact clauses
// sent to Elasticsearch.
func queryJSON(t *testing.T, filter CatalogFilter) string {
	t.Helper()
	body, err := json.Marshal(buildCatalogSearchQuery(filter))
	require.NoError(t, err)
	return string(body)
}

func TestBuildCatalogSearchQueryUsesSubstringWildcards(t *testing.T) {
	body := queryJSON(t, CatalogFilter{Search: "oca"})

	// Interior substrings must match: "oca" finds "Casa Roca", the same
	// rows LOWER(title) LIKE '%oca%' returns on the SQL path.
	assert.Contains(t, body, `"title.keyword":{"case_insensitive":true,"value":"*oca*"}`)
	assert.Contains(t, body, `"location.keyword":{"case_insensitive":true,"value":"*oca*"}`)
	assert.Contains(t, body, `"minimum_should_match":1`)
	assert.NotContains(t, body, "bool_prefix")
}

func TestBuildCatalogSearchQueryEscapesWildcardInput(t *testing.T) {
	body := queryJSON(t, CatalogFilter{Search: "50m*"})

	assert.Contains(t, body, `*50m\\**`)
}

func TestBuildCatalogSearchQueryFilters(t *testing.T) {
	testCases := []struct {
		name        string
		filter      CatalogFilter
		contains    []string
		notContains []string
	}{
		{
			name:     "empty filter matches everything",
			filter:   CatalogFilter{},
			contains: []string{`"match_all":{}`},
		},
		{
			name:        "all facets apply no term filters",
			filter:      CatalogFilter{Type: FacetAll, ListingType: FacetAll},
			contains:    []string{`"match_all":{}`},
			notContains: []string{`"term"`},
		},
		{
			name:     "type and listing type become term filters",
			filter:   CatalogFilter{Type: "House", ListingType: ListingTypeRent},
			contains: []string{`"term":{"type":"House"}`, `"term":{"listing_type":"rent"}`},
		},
		{
			name:        "whitespace search is ignored",
			filter:      CatalogFilter{Search: "   "},
			contains:    []string{`"match_all":{}`},
			notContains: []string{"wildcard"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body := queryJSON(t, tc.filter)
			for _, want := range tc.contains {
				assert.Contains(t, body, want)
			}
			for _, unwanted := range tc.notContains {
				assert.NotContains(t, body, unwanted)
			}
		})
	}
}

func TestBuildCatalogSearchQuerySortsNewestFirst(t *testing.T) {
	body := queryJSON(t, CatalogFilter{Search: "roca", ListingType: ListingTypeSale})

	assert.Contains(t, body, `"sort":[{"created_at":{"order":"desc"}}]`)
}

func TestElasticsearchDocCarriesGallery(t *testing.T) {
	p := &Property{
		Title:  "Casa Roca",
		Images: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	}
	p.Normalize()

	doc, err := ToElasticsearchDoc(p)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t,
		[]interface{}{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		parsed["images"],
	)
	assert.Equal(t, "https://cdn.example.com/a.jpg", parsed["image_url"])
}
