package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestNormalize(t *testing.T) {
	req := Request{Category: "  gym ", City: " Toronto", Country: "Canada  ", Client: " acme "}.Normalize()
	assert.Equal(t, Request{Category: "gym", City: "Toronto", Country: "Canada", Client: "acme"}, req)
}

func TestEnrichedHasContact(t *testing.T) {
	assert.False(t, Enriched{}.HasContact())
	assert.True(t, Enriched{Email: "a@b.co"}.HasContact())
	assert.True(t, Enriched{Phone: "+1 416 555 0100"}.HasContact())
}

func TestNewRecord(t *testing.T) {
	req := Request{Category: "gym", Country: "Canada", Client: "acme"}
	e := Enriched{
		Candidate: Candidate{Title: "Gym", Link: "https://gym.example.ca", City: "Toronto"},
		Email:     "info@gym.example.ca",
	}

	rec := NewRecord(req, e)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "acme", rec.Client)
	assert.Equal(t, "gym", rec.Category)
	assert.Equal(t, "Toronto", rec.City)
	assert.Equal(t, "Canada", rec.Country)
	assert.Equal(t, "https://gym.example.ca", rec.Link)
	assert.Equal(t, "info@gym.example.ca", rec.Email)
	assert.False(t, rec.CreatedAt.IsZero())
}
