// File: internal/property/search.go
package property

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	platformES "conesa_estates_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// esSearchSize caps how many catalog hits a single search returns. The
// catalog is unpaginated, so this is effectively "everything".
const esSearchSize = 1000

type esPropertyDoc struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Type        string    `json:"type"`
	ListingType string    `json:"listing_type"`
	Location    string    `json:"location"`
	Beds        int       `json:"beds"`
	Baths       float64   `json:"baths"`
	Sqft        float64   `json:"sqft"`
	Features    []string  `json:"features"`
	Images      []string  `json:"images"`
	ImageURL    string    `json:"image_url"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string        `json:"_id"`
			Source esPropertyDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// buildCatalogSearchQuery translates a CatalogFilter into the search body.
// The search term is a case-insensitive substring over title or location —
// the same contract the SQL fallback implements with LIKE — so both read
// paths agree on what matches.
func buildCatalogSearchQuery(filter CatalogFilter) map[string]interface{} {
	boolQuery := map[string]interface{}{}

	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "*" + escapeWildcardTerm(term) + "*"
		boolQuery["must"] = []interface{}{
			map[string]interface{}{
				"bool": map[string]interface{}{
					"should": []interface{}{
						map[string]interface{}{
							"wildcard": map[string]interface{}{
								"title.keyword": map[string]interface{}{
									"value":            pattern,
									"case_insensitive": true,
								},
							},
						},
						map[string]interface{}{
							"wildcard": map[string]interface{}{
								"location.keyword": map[string]interface{}{
									"value":            pattern,
									"case_insensitive": true,
								},
							},
						},
					},
					"minimum_should_match": 1,
				},
			},
		}
	}

	var filters []interface{}
	if filter.Type != "" && filter.Type != FacetAll {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"type": filter.Type},
		})
	}
	if filter.ListingType != "" && filter.ListingType != FacetAll {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"listing_type": filter.ListingType},
		})
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	query := map[string]interface{}{
		"size": esSearchSize,
		"sort": []interface{}{
			map[string]interface{}{"created_at": map[string]interface{}{"order": "desc"}},
		},
	}
	if len(boolQuery) > 0 {
		query["query"] = map[string]interface{}{"bool": boolQuery}
	} else {
		query["query"] = map[string]interface{}{"match_all": map[string]interface{}{}}
	}
	return query
}

// escapeWildcardTerm neutralizes wildcard metacharacters in user input so
// the term matches literally.
func escapeWildcardTerm(term string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		`*`, `\*`,
		`?`, `\?`,
	).Replace(term)
}

// searchCatalogES runs the catalog filter against the properties index.
// Results keep the newest-first catalog ordering.
func searchCatalogES(ctx context.Context, es *platformES.ESClientWrapper, filter CatalogFilter, logger *zap.Logger) ([]Property, error) {
	body, err := json.Marshal(buildCatalogSearchQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{platformES.PropertiesIndexName},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, es)
	if err != nil {
		return nil, fmt.Errorf("catalog search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		logger.Warn("Elasticsearch catalog search returned an error status", zap.String("status", res.Status()))
		return nil, fmt.Errorf("catalog search returned status %s", res.Status())
	}

	var parsed esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode catalog search response: %w", err)
	}

	properties := make([]Property, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			logger.Warn("Skipping catalog hit with non-UUID document ID", zap.String("docID", hit.ID))
			continue
		}
		p := Property{
			Title:       hit.Source.Title,
			Slug:        hit.Source.Slug,
			Description: hit.Source.Description,
			Price:       hit.Source.Price,
			Currency:    hit.Source.Currency,
			Type:        hit.Source.Type,
			ListingType: hit.Source.ListingType,
			Location:    hit.Source.Location,
			Beds:        hit.Source.Beds,
			Baths:       hit.Source.Baths,
			Sqft:        hit.Source.Sqft,
			Features:    hit.Source.Features,
			Images:      hit.Source.Images,
			ImageURL:    hit.Source.ImageURL,
		}
		p.ID = id
		p.CreatedAt = hit.Source.CreatedAt
		p.UpdatedAt = hit.Source.UpdatedAt
		if ownerID, err := uuid.Parse(hit.Source.OwnerID); err == nil {
			p.OwnerID = ownerID
		}
		properties = append(properties, p)
	}
	return properties, nil
}
