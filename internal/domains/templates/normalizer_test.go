package templates

import (
	"math"
	"testing"
)

func TestSafeString(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "plain", value: "Greeting", want: "Greeting"},
		{name: "surrounding whitespace", value: "  MARKETING \n", want: "MARKETING"},
		{name: "nil", value: nil, want: ""},
		{name: "NaN", value: math.NaN(), want: ""},
		{name: "integer", value: int64(42), want: ""},
		{name: "bool", value: true, want: ""},
		{name: "slice", value: []string{"a"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeString(tt.value); got != tt.want {
				t.Errorf("SafeString(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

// TestNormalize_AllFieldsPresent tests a complete row with a footer pair
func TestNormalize_AllFieldsPresent(t *testing.T) {
	row := MapFields{
		"name":                  " greeting ",
		"category":              "MARKETING",
		"allow_category_change": true,
		"language":              "en_US ",
		"type":                  "BODY",
		"text":                  " Hello {{1}} ",
		"example":               "['Alice']",
		"type.1":                " FOOTER ",
		"text.1":                " Reply STOP to opt out ",
	}

	rec := Normalize(row)

	if rec.Name != "greeting" {
		t.Errorf("Name = %q, want %q", rec.Name, "greeting")
	}
	if rec.Category != "MARKETING" {
		t.Errorf("Category = %q, want %q", rec.Category, "MARKETING")
	}
	if rec.Language != "en_US" {
		t.Errorf("Language = %q, want %q", rec.Language, "en_US")
	}
	if rec.Text != "Hello {{1}}" {
		t.Errorf("Text = %q, want %q", rec.Text, "Hello {{1}}")
	}
	if rec.Example != "['Alice']" {
		t.Errorf("Example = %q, want %q", rec.Example, "['Alice']")
	}
	if rec.AllowCategoryChange != true {
		t.Errorf("AllowCategoryChange = %v, want true", rec.AllowCategoryChange)
	}
	if rec.Footer == nil {
		t.Fatal("Footer should not be nil")
	}
	if rec.Footer.Type != "FOOTER" || rec.Footer.Text != "Reply STOP to opt out" {
		t.Errorf("Footer = %+v, want FOOTER / Reply STOP to opt out", *rec.Footer)
	}
}

// TestNormalize_NonStringFields tests that numeric and missing values degrade to empty strings
func TestNormalize_NonStringFields(t *testing.T) {
	row := MapFields{
		"name":     math.NaN(),
		"category": float64(3),
		"language": nil,
		"text":     int64(7),
	}

	rec := Normalize(row)

	if rec.Name != "" || rec.Category != "" || rec.Language != "" || rec.Text != "" || rec.Example != "" {
		t.Errorf("expected empty text fields, got %+v", rec)
	}
	if rec.AllowCategoryChange != nil {
		t.Errorf("AllowCategoryChange = %v, want nil", rec.AllowCategoryChange)
	}
}

// TestNormalize_AllowCategoryChangePassedThrough tests that the flag keeps its source type
func TestNormalize_AllowCategoryChangePassedThrough(t *testing.T) {
	for _, v := range []any{true, false, "yes", int64(1)} {
		rec := Normalize(MapFields{"allow_category_change": v})
		if rec.AllowCategoryChange != v {
			t.Errorf("AllowCategoryChange = %#v, want %#v", rec.AllowCategoryChange, v)
		}
	}
}

func TestNormalize_FooterDetection(t *testing.T) {
	tests := []struct {
		name       string
		row        MapFields
		wantFooter bool
	}{
		{name: "no footer columns", row: MapFields{"text": "Hi"}},
		{name: "only type column", row: MapFields{"type.1": "FOOTER"}},
		{name: "only text column", row: MapFields{"text.1": "Bye"}},
		{name: "type missing value", row: MapFields{"type.1": nil, "text.1": "Bye"}},
		{name: "text missing value", row: MapFields{"type.1": "FOOTER", "text.1": nil}},
		{name: "blank text", row: MapFields{"type.1": "FOOTER", "text.1": "   "}},
		{name: "numeric text", row: MapFields{"type.1": "FOOTER", "text.1": float64(1)}},
		{name: "both present", row: MapFields{"type.1": "FOOTER", "text.1": "Bye"}, wantFooter: true},
		{name: "explicit footer columns", row: MapFields{"footer_type": "FOOTER", "footer_text": "Bye"}, wantFooter: true},
		{name: "renamed pair empty falls back to explicit", row: MapFields{
			"type.1": nil, "text.1": nil, "footer_type": "FOOTER", "footer_text": "Bye",
		}, wantFooter: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Normalize(tt.row)
			if got := rec.Footer != nil; got != tt.wantFooter {
				t.Errorf("footer present = %v, want %v", got, tt.wantFooter)
			}
		})
	}
}
