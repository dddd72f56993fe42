package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smartdwell/dwellsearch/internal/models"
	"github.com/xuri/excelize/v2"
)

// parseWorkbook reads properties from the first sheet of an xlsx workbook.
// The first row is a header naming the catalog fields; unknown columns are
// ignored. List-valued columns (amenities, target_audience, special_features,
// image_urls) use "|" as the separator.
func parseWorkbook(path string) ([]*models.Property, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := make(map[int]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}

	var props []*models.Property
	for _, row := range rows[1:] {
		prop := &models.Property{}
		for i, cell := range row {
			setField(prop, header[i], strings.TrimSpace(cell))
		}
		if prop.PropertyID == "" && prop.Name == "" {
			continue // blank row
		}
		props = append(props, prop)
	}
	return props, nil
}

func setField(p *models.Property, field, value string) {
	if value == "" {
		return
	}
	switch field {
	case "property_id":
		p.PropertyID = value
	case "name":
		p.Name = value
	case "description":
		p.Description = value
	case "property_type":
		p.PropertyType = value
	case "bedrooms":
		p.Bedrooms = atoi(value)
	case "bathrooms":
		p.Bathrooms = atoi(value)
	case "floor":
		p.Floor = atoi(value)
	case "total_floors":
		p.TotalFloors = atoi(value)
	case "area_sqft":
		p.AreaSqft = atof(value)
	case "carpet_area_sqft":
		p.CarpetAreaSqft = atof(value)
	case "price":
		p.Price = atof(value)
	case "price_per_sqft":
		p.PricePerSqft = atof(value)
	case "currency":
		p.Currency = value
	case "property_status":
		p.PropertyStatus = value
	case "furnishing":
		p.Furnishing = value
	case "locality":
		p.Locality = value
	case "city":
		p.City = value
	case "state":
		p.State = value
	case "builder_name":
		p.BuilderName = value
	case "project_name":
		p.ProjectName = value
	case "rera_id":
		p.ReraID = value
	case "platform_name":
		p.PlatformName = value
	case "platform_focus":
		p.PlatformFocus = value
	case "amenities":
		p.Amenities = splitList(value)
	case "target_audience":
		p.TargetAudience = splitList(value)
	case "special_features":
		p.SpecialFeatures = splitList(value)
	case "image_urls":
		p.ImageURLs = splitList(value)
	case "lat":
		ensureGeo(p).Lat = atof(value)
	case "lon":
		ensureGeo(p).Lon = atof(value)
	case "combined_text":
		p.CombinedText = value
	}
}

func ensureGeo(p *models.Property) *models.GeoPoint {
	if p.GeoLocation == nil {
		p.GeoLocation = &models.GeoPoint{}
	}
	return p.GeoLocation
}

func splitList(value string) []string {
	parts := strings.Split(value, "|")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
