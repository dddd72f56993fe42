package models

// PropertyView is the client-facing projection of a property hit.
type PropertyView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	Bedrooms     int      `json:"bedrooms,omitempty"`
	Bathrooms    int      `json:"bathrooms,omitempty"`
	Price        float64  `json:"price,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	AreaSqft     float64  `json:"area_sqft,omitempty"`
	Amenities    []string `json:"amenities,omitempty"`
	Locality     string   `json:"locality,omitempty"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	PlatformName string   `json:"platform_name,omitempty"`
	ImageURLs    []string `json:"image_urls,omitempty"`

	// Score is the store's relevance score for the hit.
	Score float64 `json:"score"`
	// Mode labels the ranking path that produced the hit, for observability.
	Mode Mode `json:"mode,omitempty"`
}

// View projects a property into its client-facing form.
func (p *Property) View() *PropertyView {
	v := &PropertyView{
		ID:           p.PropertyID,
		Name:         p.Name,
		Description:  p.Description,
		PropertyType: p.PropertyType,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Price:        p.Price,
		Currency:     p.Currency,
		AreaSqft:     p.AreaSqft,
		Amenities:    p.Amenities,
		Locality:     p.Locality,
		City:         p.City,
		State:        p.State,
		PlatformName: p.PlatformName,
		ImageURLs:    p.ImageURLs,
	}
	if d := p.GeoLocationDetails; d != nil {
		if v.Locality == "" {
			v.Locality = d.Locality
		}
		if v.City == "" {
			v.City = d.City
		}
		if v.State == "" {
			v.State = d.State
		}
	}
	return v
}

// SearchResponse is the response for a search request. Mode is the ranking
// strategy actually used; when the AI subsystem is unavailable it reports the
// degraded path rather than the requested one.
type SearchResponse struct {
	Query         string          `json:"query"`
	Results       []*PropertyView `json:"results"`
	Total         int             `json:"total"`
	RequestedMode Mode            `json:"requested_mode"`
	Mode          Mode            `json:"mode"`
}

// StatsResponse reports catalog statistics. TotalProperties is exact; the
// facet lists are computed from a bounded sample of SampleSize documents and
// must be treated as estimates.
type StatsResponse struct {
	TotalProperties int64    `json:"total_properties"`
	PropertyTypes   []string `json:"property_types"`
	Cities          []string `json:"cities"`
	Platforms       []string `json:"platforms"`
	SampleSize      int      `json:"sample_size"`
	Sampled         bool     `json:"sampled"`
}
