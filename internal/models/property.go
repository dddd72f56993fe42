// Package models defines core data structures for properties, conversations, and search.
package models

import (
	"fmt"
	"strings"
	"time"
)

// EmbeddingDims is the fixed dimensionality of property embeddings. The
// properties index maps the embedding field as a dense vector of exactly this
// many components, compared by cosine similarity.
const EmbeddingDims = 768

// Property statuses as stored in the catalog.
const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
)

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoDetails is the structured address attached to a property.
type GeoDetails struct {
	Address  string `json:"address,omitempty"`
	Locality string `json:"locality,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
	PlaceID  string `json:"place_id,omitempty"`
}

// NearbyAmenity is a point of interest near a property.
type NearbyAmenity struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	DistanceKm float64 `json:"distance_km"`
	Rating     float64 `json:"rating,omitempty"`
	Address    string  `json:"address,omitempty"`
	PlaceID    string  `json:"place_id,omitempty"`
}

// Property is the catalog's unit of retrieval. It is owned by the document
// store; this service never holds an authoritative in-memory copy.
type Property struct {
	PropertyID     string   `json:"property_id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	PropertyType   string   `json:"property_type,omitempty"`
	Bedrooms       int      `json:"bedrooms,omitempty"`
	Bathrooms      int      `json:"bathrooms,omitempty"`
	Floor          int      `json:"floor,omitempty"`
	TotalFloors    int      `json:"total_floors,omitempty"`
	AreaSqft       float64  `json:"area_sqft,omitempty"`
	CarpetAreaSqft float64  `json:"carpet_area_sqft,omitempty"`
	Price          float64  `json:"price,omitempty"`
	PricePerSqft   float64  `json:"price_per_sqft,omitempty"`
	Currency       string   `json:"currency,omitempty"`
	PropertyStatus string   `json:"property_status,omitempty"`
	Furnishing     string   `json:"furnishing,omitempty"`
	Locality       string   `json:"locality,omitempty"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`

	GeoLocation        *GeoPoint   `json:"geo_location,omitempty"`
	GeoLocationDetails *GeoDetails `json:"geo_location_details,omitempty"`

	BuilderName string `json:"builder_name,omitempty"`
	ProjectName string `json:"project_name,omitempty"`
	ReraID      string `json:"rera_id,omitempty"`

	Amenities       []string        `json:"amenities,omitempty"`
	NearbyAmenities []NearbyAmenity `json:"nearby_amenities,omitempty"`

	ImageURLs      []string `json:"image_urls,omitempty"`
	VirtualTourURL string   `json:"virtual_tour_url,omitempty"`

	PlatformName        string   `json:"platform_name,omitempty"`
	PlatformDescription string   `json:"platform_description,omitempty"`
	PlatformFocus       string   `json:"platform_focus,omitempty"`
	TargetAudience      []string `json:"target_audience,omitempty"`
	SpecialFeatures     []string `json:"special_features,omitempty"`

	AISummary         string `json:"ai_summary,omitempty"`
	AIHighlights      string `json:"ai_highlights,omitempty"`
	AIRecommendations string `json:"ai_recommendations,omitempty"`

	// Embedding is the dense vector for the combined text; nil when the
	// catalog entry has not been embedded yet.
	Embedding    []float32 `json:"embedding,omitempty"`
	CombinedText string    `json:"combined_text,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// BuildCombinedText concatenates the searchable text fields into the single
// string that backs the combined_text match field and the embedding input.
func (p *Property) BuildCombinedText() string {
	parts := []string{p.Name, p.Description, p.PropertyType, p.Locality, p.City}
	parts = append(parts, p.Amenities...)
	for _, a := range p.NearbyAmenities {
		if a.Name != "" {
			parts = append(parts, a.Name)
		}
	}
	var b strings.Builder
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(part)
	}
	return b.String()
}

// Validate checks the document-level invariants: a stable non-empty id, an
// embedding of exactly EmbeddingDims components when present, a geo point in
// range when present, and non-negative price and area figures.
func (p *Property) Validate() error {
	if p.PropertyID == "" {
		return fmt.Errorf("property_id cannot be empty")
	}
	if p.Embedding != nil && len(p.Embedding) != EmbeddingDims {
		return fmt.Errorf("embedding must have %d dimensions, got %d", EmbeddingDims, len(p.Embedding))
	}
	if g := p.GeoLocation; g != nil {
		if g.Lat < -90 || g.Lat > 90 {
			return fmt.Errorf("geo_location latitude out of range: %v", g.Lat)
		}
		if g.Lon < -180 || g.Lon > 180 {
			return fmt.Errorf("geo_location longitude out of range: %v", g.Lon)
		}
	}
	if p.Price < 0 {
		return fmt.Errorf("price cannot be negative: %v", p.Price)
	}
	if p.AreaSqft < 0 {
		return fmt.Errorf("area_sqft cannot be negative: %v", p.AreaSqft)
	}
	if p.CarpetAreaSqft < 0 {
		return fmt.Errorf("carpet_area_sqft cannot be negative: %v", p.CarpetAreaSqft)
	}
	return nil
}
