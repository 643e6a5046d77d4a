package core

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Category is a supported query intent.
type Category string

const (
	CategoryProductSearch   Category = "product_search"
	CategoryStoreLocation   Category = "store_location"
	CategoryPricing         Category = "pricing"
	CategoryTechnicalAdvice Category = "technical_advice"
	CategoryGeneral         Category = "general"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryProductSearch, CategoryStoreLocation, CategoryPricing,
		CategoryTechnicalAdvice, CategoryGeneral:
		return true
	}
	return false
}

// Intent is the result of classifying one user query. It is created fresh
// per query and never mutated afterwards.
type Intent struct {
	Primary    Category `json:"primary_intent"`
	Secondary  Category `json:"secondary_intent,omitempty"`
	Entities   Entities `json:"entities"`
	Confidence float64  `json:"confidence"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is either a free-text place description or resolved coordinates.
type Location struct {
	Text   string
	Coords *Coordinates
}

func (l Location) IsZero() bool {
	return l.Text == "" && l.Coords == nil
}

// Entities is the typed view of what the classifier extracted from a query.
// The classifier's output is free-form JSON; unmarshalling is tolerant of
// absent keys and mildly wrong types (numeric strings, floats for ints) and
// silently drops anything unusable.
type Entities struct {
	PartNumber  string
	PartNumbers []string
	ProductName string
	StoreID     int
	Radius      int
	Unit        string
	Location    Location
	Latitude    *float64
	Longitude   *float64
}

func (e Entities) IsZero() bool {
	return e.PartNumber == "" && len(e.PartNumbers) == 0 && e.ProductName == "" &&
		e.StoreID == 0 && e.Radius == 0 && e.Unit == "" && e.Location.IsZero() &&
		e.Latitude == nil && e.Longitude == nil
}

func (e *Entities) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["part_number"]; ok {
		e.PartNumber = asString(v)
	}
	if v, ok := raw["part_numbers"]; ok {
		var list []json.RawMessage
		if err := json.Unmarshal(v, &list); err == nil {
			for _, item := range list {
				if s := asString(item); s != "" {
					e.PartNumbers = append(e.PartNumbers, s)
				}
			}
		}
	}
	if v, ok := raw["product_name"]; ok {
		e.ProductName = asString(v)
	}
	if v, ok := raw["store_id"]; ok {
		e.StoreID = asInt(v)
	}
	if v, ok := raw["radius"]; ok {
		e.Radius = asInt(v)
	}
	if v, ok := raw["unit"]; ok {
		e.Unit = asString(v)
	}
	if v, ok := raw["latitude"]; ok {
		if f, ok := asFloat(v); ok {
			e.Latitude = &f
		}
	}
	if v, ok := raw["longitude"]; ok {
		if f, ok := asFloat(v); ok {
			e.Longitude = &f
		}
	}
	if v, ok := raw["location"]; ok {
		var coords Coordinates
		if err := json.Unmarshal(v, &coords); err == nil && (coords.Latitude != 0 || coords.Longitude != 0) {
			e.Location.Coords = &coords
		} else if s := asString(v); s != "" {
			e.Location.Text = s
		}
	}
	return nil
}

func (e Entities) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)
	if e.PartNumber != "" {
		out["part_number"] = e.PartNumber
	}
	if len(e.PartNumbers) > 0 {
		out["part_numbers"] = e.PartNumbers
	}
	if e.ProductName != "" {
		out["product_name"] = e.ProductName
	}
	if e.StoreID != 0 {
		out["store_id"] = e.StoreID
	}
	if e.Radius != 0 {
		out["radius"] = e.Radius
	}
	if e.Unit != "" {
		out["unit"] = e.Unit
	}
	if e.Location.Coords != nil {
		out["location"] = e.Location.Coords
	} else if e.Location.Text != "" {
		out["location"] = e.Location.Text
	}
	if e.Latitude != nil {
		out["latitude"] = *e.Latitude
	}
	if e.Longitude != nil {
		out["longitude"] = *e.Longitude
	}
	return json.Marshal(out)
}

func asString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

func asInt(v json.RawMessage) int {
	var n int
	if err := json.Unmarshal(v, &n); err == nil {
		return n
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if parsed, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return parsed
		}
	}
	return 0
}

func asFloat(v json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}
