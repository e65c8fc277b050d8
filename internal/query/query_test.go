package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name                    string
		category, city, country string
		want                    string
	}{
		{"all parts", "gym", "Toronto", "Canada", "gym Toronto Canada"},
		{"no city", "law firm", "", "India", "law firm India"},
		{"category only", "dentist", "", "", "dentist"},
		{"collapses whitespace", "  yoga   studio ", " New  York", "USA", "yoga studio New York USA"},
		{"empty", "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(tt.category, tt.city, tt.country))
		})
	}
}

func TestVariants_WithCity(t *testing.T) {
	got := Variants("gym", "Toronto", "Canada")
	assert.Equal(t, []string{
		"gym Toronto Canada",
		"gym Toronto",
		"gym near Toronto Canada",
	}, got)
}

func TestVariants_WithoutCity(t *testing.T) {
	assert.Equal(t, []string{"gym Canada"}, Variants("gym", "", "Canada"))
}

func TestVariants_CityNoCountryDropsDuplicate(t *testing.T) {
	// primary and "{category} {city}" coincide when country is empty
	assert.Equal(t, []string{"gym Toronto", "gym near Toronto"}, Variants("gym", "Toronto", ""))
}

func TestVariants_Empty(t *testing.T) {
	assert.Nil(t, Variants("", "", ""))
}
