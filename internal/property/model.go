// File: internal/property/model.go
package property

import (
	"strconv"
	"strings"
	"time"

	"conesa_estates_backend/internal/common"

	"github.com/google/uuid"
)

// Listing type values. Every property is either for sale or for rent;
// rows without an explicit value are treated as sale listings.
const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
)

// FacetAll is the pseudo-facet that disables type or listing-type filtering.
const FacetAll = "all"

// Property represents a real-estate listing row in the database.
type Property struct {
	common.BaseModel          // Embeds ID, CreatedAt, UpdatedAt
	Title       string            `gorm:"type:varchar(255);not null"`
	Slug        string            `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description string            `gorm:"type:text"`
	Price       float64           `gorm:"not null;default:0"`
	Currency    string            `gorm:"type:varchar(10);not null;default:'ARS'"`
	Type        string            `gorm:"type:varchar(100);not null;index"`
	ListingType string            `gorm:"type:varchar(20);not null;default:'sale';index"`
	Location    string            `gorm:"type:varchar(255);not null"`
	Beds        int               `gorm:"not null;default:0"`
	Baths       float64           `gorm:"not null;default:0"`
	Sqft        float64           `gorm:"not null;default:0"`
	Features    common.StringList `gorm:"type:text"`
	Images      common.StringList `gorm:"type:text"`
	ImageURL    string            `gorm:"type:varchar(1024)"`
	OwnerID     uuid.UUID         `gorm:"type:uuid;not null;index"`
}

// TableName specifies the table name for the Property model.
func (Property) TableName() string {
	return "properties"
}

// Normalize fills derived fields before the row is persisted: the listing
// type default and the cover image, which is always the first gallery image.
func (p *Property) Normalize() {
	if strings.TrimSpace(p.ListingType) == "" {
		p.ListingType = ListingTypeSale
	}
	if len(p.Images) > 0 {
		p.ImageURL = p.Images[0]
	} else {
		p.ImageURL = ""
	}
}

// CurrencySymbol maps a currency code to the symbol shown on listing cards.
// Unknown codes fall back to the peso sign.
func CurrencySymbol(currency string) string {
	switch strings.ToUpper(strings.TrimSpace(currency)) {
	case "EUR":
		return "€"
	case "USD":
		return "U$S"
	case "ARS":
		return "$"
	default:
		return "$"
	}
}

// FormatPrice renders a price with its currency symbol and thousands
// separators, e.g. "U$S 250,000".
func FormatPrice(price float64, currency string) string {
	return CurrencySymbol(currency) + " " + groupThousands(price)
}

func groupThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}
	neg := false
	if strings.HasPrefix(intPart, "-") {
		neg = true
		intPart = intPart[1:]
	}
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// CatalogFilter is the filter triple applied to the catalog. Empty values
// and the "all" facet mean "do not filter on this dimension".
type CatalogFilter struct {
	Search      string
	Type        string
	ListingType string
}

// Matches reports whether a property passes the filter: a case-insensitive
// substring match on title or location, combined with exact type and
// listing-type facets.
func (f CatalogFilter) Matches(p *Property) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Location), term) {
			return false
		}
	}
	if f.Type != "" && f.Type != FacetAll && p.Type != f.Type {
		return false
	}
	if f.ListingType != "" && f.ListingType != FacetAll && p.ListingType != f.ListingType {
		return false
	}
	return true
}

// FilterCatalog applies the filter to an already ordered catalog slice.
func FilterCatalog(properties []Property, filter CatalogFilter) []Property {
	filtered := make([]Property, 0, len(properties))
	for i := range properties {
		if filter.Matches(&properties[i]) {
			filtered = append(filtered, properties[i])
		}
	}
	return filtered
}

// TypeFacets derives the type filter chips from the catalog: "all" first,
// then each distinct type in order of first appearance.
func TypeFacets(properties []Property) []string {
	facets := []string{FacetAll}
	seen := make(map[string]struct{}, len(properties))
	for i := range properties {
		t := properties[i].Type
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		facets = append(facets, t)
	}
	return facets
}

// CarouselStep advances a gallery index by step with wrap-around in both
// directions. A gallery with no images always resolves to index 0.
func CarouselStep(index, step, total int) int {
	if total <= 0 {
		return 0
	}
	return ((index+step)%total + total) % total
}

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// CreatePropertyRequest defines the payload for creating a property.
type CreatePropertyRequest struct {
	Title       string   `json:"title" binding:"required,min=3,max=255"`
	Description string   `json:"description" binding:"max=10000"`
	Price       float64  `json:"price" binding:"required,gte=0"`
	Currency    string   `json:"currency" binding:"required,oneof=EUR USD ARS"`
	Type        string   `json:"type" binding:"required,max=100"`
	ListingType string   `json:"listing_type" binding:"omitempty,oneof=sale rent"`
	Location    string   `json:"location" binding:"required,max=255"`
	Beds        int      `json:"beds" binding:"gte=0"`
	Baths       float64  `json:"baths" binding:"gte=0"`
	Sqft        float64  `json:"sqft" binding:"gte=0"`
	Features    []string `json:"features"`
	Images      []string `json:"images" binding:"max=10,dive,url"`
}

// UpdatePropertyRequest defines the payload for a full property update.
// The dashboard always submits the whole form, so this mirrors the create
// payload rather than a sparse patch.
type UpdatePropertyRequest struct {
	Title       string   `json:"title" binding:"required,min=3,max=255"`
	Description string   `json:"description" binding:"max=10000"`
	Price       float64  `json:"price" binding:"required,gte=0"`
	Currency    string   `json:"currency" binding:"required,oneof=EUR USD ARS"`
	Type        string   `json:"type" binding:"required,max=100"`
	ListingType string   `json:"listing_type" binding:"omitempty,oneof=sale rent"`
	Location    string   `json:"location" binding:"required,max=255"`
	Beds        int      `json:"beds" binding:"gte=0"`
	Baths       float64  `json:"baths" binding:"gte=0"`
	Sqft        float64  `json:"sqft" binding:"gte=0"`
	Features    []string `json:"features"`
	Images      []string `json:"images" binding:"max=10,dive,url"`
}

// PropertyResponse defines the structure for property data sent in API responses.
type PropertyResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	Currency       string    `json:"currency"`
	CurrencySymbol string    `json:"currency_symbol"`
	FormattedPrice string    `json:"formatted_price"`
	Type           string    `json:"type"`
	ListingType    string    `json:"listing_type"`
	Location       string    `json:"location"`
	Beds           int       `json:"beds"`
	Baths          float64   `json:"baths"`
	Sqft           float64   `json:"sqft"`
	Features       []string  `json:"features"`
	Images         []string  `json:"images"`
	ImageURL       string    `json:"image_url"`
	OwnerID        uuid.UUID `json:"owner_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DashboardPropertyResponse adds the owner attribution column shown on the
// admin dashboard.
type DashboardPropertyResponse struct {
	PropertyResponse
	OwnerName string `json:"owner_name"`
}

// CatalogResponse bundles the filtered catalog with its type facets so the
// filter bar and the grid render from a single round trip.
type CatalogResponse struct {
	Properties []PropertyResponse `json:"properties"`
	Types      []string           `json:"types"`
	Total      int                `json:"total"`
}

// CarouselResponse is the resolved gallery position for a carousel step.
type CarouselResponse struct {
	Index int    `json:"index"`
	Image string `json:"image"`
	Total int    `json:"total"`
}

// ToPropertyResponse converts a Property model to a PropertyResponse DTO.
func ToPropertyResponse(p *Property) PropertyResponse {
	features := p.Features
	if features == nil {
		features = common.StringList{}
	}
	images := p.Images
	if images == nil {
		images = common.StringList{}
	}
	return PropertyResponse{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Description:    p.Description,
		Price:          p.Price,
		Currency:       p.Currency,
		CurrencySymbol: CurrencySymbol(p.Currency),
		FormattedPrice: FormatPrice(p.Price, p.Currency),
		Type:           p.Type,
		ListingType:    p.ListingType,
		Location:       p.Location,
		Beds:           p.Beds,
		Baths:          p.Baths,
		Sqft:           p.Sqft,
		Features:       features,
		Images:         images,
		ImageURL:       p.ImageURL,
		OwnerID:        p.OwnerID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
