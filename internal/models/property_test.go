package models

import (
	"strings"
	"testing"
)

func validProperty() *Property {
	return &Property{
		PropertyID:   "prop-1",
		Name:         "Skyline Residency 2BHK",
		PropertyType: "apartment",
		Bedrooms:     2,
		Price:        35000,
		AreaSqft:     950,
		City:         "Bangalore",
	}
}

func TestPropertyValidate(t *testing.T) {
	if err := validProperty().Validate(); err != nil {
		t.Fatalf("valid property rejected: %v", err)
	}
}

func TestPropertyValidate_emptyID(t *testing.T) {
	p := validProperty()
	p.PropertyID = ""
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for empty property_id")
	}
}

func TestPropertyValidate_embeddingDims(t *testing.T) {
	p := validProperty()
	p.Embedding = make([]float32, EmbeddingDims)
	if err := p.Validate(); err != nil {
		t.Fatalf("768-dim embedding rejected: %v", err)
	}
	p.Embedding = make([]float32, 512)
	err := p.Validate()
	if err == nil {
		t.Fatal("expected error for 512-dim embedding")
	}
	if !strings.Contains(err.Error(), "768") {
		t.Errorf("error should mention expected dims: %v", err)
	}
}

func TestPropertyValidate_geoRange(t *testing.T) {
	p := validProperty()
	p.GeoLocation = &GeoPoint{Lat: 12.97, Lon: 77.59}
	if err := p.Validate(); err != nil {
		t.Fatalf("valid geo point rejected: %v", err)
	}
	p.GeoLocation = &GeoPoint{Lat: 91, Lon: 0}
	if err := p.Validate(); err == nil {
		t.Error("expected error for latitude 91")
	}
	p.GeoLocation = &GeoPoint{Lat: 0, Lon: -181}
	if err := p.Validate(); err == nil {
		t.Error("expected error for longitude -181")
	}
}

func TestPropertyValidate_negativeFigures(t *testing.T) {
	p := validProperty()
	p.Price = -1
	if err := p.Validate(); err == nil {
		t.Error("expected error for negative price")
	}
	p = validProperty()
	p.AreaSqft = -10
	if err := p.Validate(); err == nil {
		t.Error("expected error for negative area")
	}
}

func TestPropertyView_fallsBackToGeoDetails(t *testing.T) {
	p := validProperty()
	p.City = ""
	p.GeoLocationDetails = &GeoDetails{Locality: "Indiranagar", City: "Bangalore", State: "Karnataka"}
	v := p.View()
	if v.City != "Bangalore" || v.Locality != "Indiranagar" || v.State != "Karnataka" {
		t.Errorf("view should fall back to geo details: %+v", v)
	}
}

func TestSearchRequestValidate(t *testing.T) {
	r := &SearchRequest{Query: "2 bhk apartment"}
	if err := r.Validate(); err != nil {
		t.Fatal(err)
	}
	if r.Limit != DefaultSearchLimit {
		t.Errorf("limit = %d, want default %d", r.Limit, DefaultSearchLimit)
	}
	if r.Mode != ModeHybrid {
		t.Errorf("mode = %q, want default hybrid", r.Mode)
	}
}

func TestSearchRequestValidate_limitClamp(t *testing.T) {
	r := &SearchRequest{Query: "villa", Limit: 500}
	if err := r.Validate(); err != nil {
		t.Fatal(err)
	}
	if r.Limit != MaxSearchLimit {
		t.Errorf("limit = %d, want clamped to %d", r.Limit, MaxSearchLimit)
	}
}

func TestSearchRequestValidate_errors(t *testing.T) {
	if err := (&SearchRequest{}).Validate(); err == nil {
		t.Error("expected error for empty query")
	}
	if err := (&SearchRequest{Query: "x", Mode: "vector"}).Validate(); err == nil {
		t.Error("expected error for unknown mode")
	}
}
