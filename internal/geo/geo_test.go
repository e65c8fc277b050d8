package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FranksOps/leadburr/internal/lead"
)

func TestValidate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name                   string
		target, city, pageText string
		want                   bool
	}{
		{"no target", "", "", "Based in India", true},
		{"target found", "Canada", "", "Iron Gym, Toronto, Ontario, Canada", true},
		{"case insensitive", "canada", "", "PROUDLY CANADIAN? no: CANADA", true},
		{"city found", "Canada", "Toronto", "Visit our Toronto studio", true},
		{"other country only", "Canada", "Toronto", "Our studio in Mumbai, India", false},
		{"no evidence", "Canada", "Toronto", "Best gym around", true},
		{"empty page", "Canada", "", "", true},
		{"whole word only", "India", "", "Indiana Jones fan club in France", false},
		{"code matches exactly", "United States", "", "Austin, TX, USA", true},
		{"lowercase us is not a code", "Canada", "", "Contact us today", true},
		{"target by code", "UK", "", "London, United Kingdom", true},
		{"accent folded", "Mexico", "", "Ciudad de México", true},
		{"accent folded target", "España", "", "Madrid, Spain", true},
		{"unknown target found", "Portugal", "", "Lisbon, Portugal", true},
		{"unknown target other found", "Portugal", "", "Madrid, Spain", false},
		{"city accent", "France", "Orléans", "Salle de sport à Orleans", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.target, tt.city, tt.pageText))
		})
	}
}

func TestApply(t *testing.T) {
	v := NewValidator()
	e := lead.Enriched{Candidate: lead.Candidate{City: "Toronto"}, PageText: "Toronto's best gym"}
	v.Apply("Canada", &e)
	assert.True(t, e.CountryValid)

	e = lead.Enriched{PageText: "Delhi, India"}
	v.Apply("Canada", &e)
	assert.False(t, e.CountryValid)
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("in canada.", "canada"))
	assert.False(t, containsWord("canadas", "canada"))
	assert.True(t, containsWord("canadas and canada", "canada"))
	assert.True(t, containsWord("made in the U.S.", "U.S."))
	assert.False(t, containsWord("", "x"))
	assert.False(t, containsWord("x", ""))
}

func TestCountries(t *testing.T) {
	c := Countries()
	assert.Len(t, c, 25)
	c[0].Name = "changed"
	assert.Equal(t, "India", Countries()[0].Name)
}
