package core

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestEntities_UnmarshalTolerant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, e Entities)
	}{
		{
			name:  "empty object",
			input: `{}`,
			check: func(t *testing.T, e Entities) {
				if !e.IsZero() {
					t.Errorf("expected zero entities, got %+v", e)
				}
			},
		},
		{
			name:  "part number",
			input: `{"part_number": "LZA406103A"}`,
			check: func(t *testing.T, e Entities) {
				if e.PartNumber != "LZA406103A" {
					t.Errorf("PartNumber = %q", e.PartNumber)
				}
			},
		},
		{
			name:  "part numbers list",
			input: `{"part_numbers": ["A1B2C3", "D4E5F6"]}`,
			check: func(t *testing.T, e Entities) {
				want := []string{"A1B2C3", "D4E5F6"}
				if !reflect.DeepEqual(e.PartNumbers, want) {
					t.Errorf("PartNumbers = %v, want %v", e.PartNumbers, want)
				}
			},
		},
		{
			name:  "store id as numeric string",
			input: `{"store_id": "42"}`,
			check: func(t *testing.T, e Entities) {
				if e.StoreID != 42 {
					t.Errorf("StoreID = %d, want 42", e.StoreID)
				}
			},
		},
		{
			name:  "store id as float",
			input: `{"store_id": 42.0, "radius": 25}`,
			check: func(t *testing.T, e Entities) {
				if e.StoreID != 42 {
					t.Errorf("StoreID = %d, want 42", e.StoreID)
				}
				if e.Radius != 25 {
					t.Errorf("Radius = %d, want 25", e.Radius)
				}
			},
		},
		{
			name:  "location as text",
			input: `{"location": "Boston"}`,
			check: func(t *testing.T, e Entities) {
				if e.Location.Text != "Boston" {
					t.Errorf("Location.Text = %q", e.Location.Text)
				}
				if e.Location.Coords != nil {
					t.Error("expected no coords")
				}
			},
		},
		{
			name:  "location as coordinates",
			input: `{"location": {"latitude": 40.7128, "longitude": -74.006}}`,
			check: func(t *testing.T, e Entities) {
				if e.Location.Coords == nil {
					t.Fatal("expected coords")
				}
				if e.Location.Coords.Latitude != 40.7128 {
					t.Errorf("Latitude = %v", e.Location.Coords.Latitude)
				}
			},
		},
		{
			name:  "top level coordinates",
			input: `{"latitude": 33.75, "longitude": "-84.39"}`,
			check: func(t *testing.T, e Entities) {
				if e.Latitude == nil || *e.Latitude != 33.75 {
					t.Errorf("Latitude = %v", e.Latitude)
				}
				if e.Longitude == nil || *e.Longitude != -84.39 {
					t.Errorf("Longitude = %v", e.Longitude)
				}
			},
		},
		{
			name:  "unknown keys ignored",
			input: `{"technical_issue": "pump is loud", "unit": "EA"}`,
			check: func(t *testing.T, e Entities) {
				if e.Unit != "EA" {
					t.Errorf("Unit = %q", e.Unit)
				}
			},
		},
		{
			name:  "garbage value dropped",
			input: `{"part_number": {"nested": true}}`,
			check: func(t *testing.T, e Entities) {
				if e.PartNumber != "" {
					t.Errorf("PartNumber = %q, want empty", e.PartNumber)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Entities
			if err := json.Unmarshal([]byte(tt.input), &e); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			tt.check(t, e)
		})
	}
}

func TestIntent_Unmarshal(t *testing.T) {
	input := `{
		"primary_intent": "pricing",
		"secondary_intent": "product_search",
		"entities": {"part_number": "LZA406103A"},
		"confidence": 0.92
	}`

	var intent Intent
	if err := json.Unmarshal([]byte(input), &intent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if intent.Primary != CategoryPricing {
		t.Errorf("Primary = %q", intent.Primary)
	}
	if intent.Secondary != CategoryProductSearch {
		t.Errorf("Secondary = %q", intent.Secondary)
	}
	if intent.Entities.PartNumber != "LZA406103A" {
		t.Errorf("PartNumber = %q", intent.Entities.PartNumber)
	}
	if intent.Confidence != 0.92 {
		t.Errorf("Confidence = %v", intent.Confidence)
	}
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range []Category{CategoryProductSearch, CategoryStoreLocation, CategoryPricing, CategoryTechnicalAdvice, CategoryGeneral} {
		if !c.Valid() {
			t.Errorf("%q should be valid", c)
		}
	}
	if Category("weather").Valid() {
		t.Error("unknown category should be invalid")
	}
}
