// File: internal/property/doc.go
package property

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ToElasticsearchDoc converts a Property to its Elasticsearch document
// representation. The document mirrors the "properties" index mapping and
// carries the full gallery, so catalog rows hydrated from the index match
// the database rows field for field.
func ToElasticsearchDoc(p *Property) (string, error) {
	if p == nil {
		return "", errors.New("property cannot be nil")
	}

	doc := map[string]interface{}{
		"title":        p.Title,
		"slug":         p.Slug,
		"description":  p.Description,
		"price":        p.Price,
		"currency":     p.Currency,
		"type":         p.Type,
		"listing_type": p.ListingType,
		"location":     p.Location,
		"beds":         p.Beds,
		"baths":        p.Baths,
		"sqft":         p.Sqft,
		"features":     []string(p.Features),
		"images":       []string(p.Images),
		"image_url":    p.ImageURL,
		"owner_id":     p.OwnerID.String(),
		"created_at":   p.CreatedAt,
		"updated_at":   p.UpdatedAt,
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error marshalling property to JSON for ES: %w", err)
	}
	return string(docBytes), nil
}
