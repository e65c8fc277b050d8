// Package storagetest holds the behaviour every storage.LeadStore must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/storage"
)

// Record returns a populated record for link created at the given time.
func Record(link string, at time.Time) *lead.Record {
	return &lead.Record{
		ID:               "id-" + link,
		Client:           "acme",
		Category:         "gym",
		City:             "Toronto",
		Country:          "Canada",
		Title:            "Gym " + link,
		Link:             link,
		Snippet:          "best gym",
		Email:            "info@example.ca",
		Phone:            "+1 416 555 0100",
		HasTechFootprint: true,
		CreatedAt:        at.UTC().Truncate(time.Millisecond),
	}
}

// Run exercises the LeadStore contract against a fresh store.
func Run(t *testing.T, s storage.LeadStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	first := Record("https://one.example.ca", base)
	second := Record("https://two.example.ca", base.Add(time.Minute))
	second.Country = "India"
	second.Client = "other"

	ok, err := s.ExistsByLink(ctx, first.Link)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, second))

	ok, err = s.ExistsByLink(ctx, first.Link)
	require.NoError(t, err)
	assert.True(t, ok)

	dup := Record(first.Link, base.Add(2*time.Minute))
	assert.ErrorIs(t, s.Create(ctx, dup), storage.ErrDuplicate)

	all, err := s.List(ctx, storage.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.Link, all[0].Link, "newest first")

	got := all[1]
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, first.Client, got.Client)
	assert.Equal(t, first.Category, got.Category)
	assert.Equal(t, first.City, got.City)
	assert.Equal(t, first.Country, got.Country)
	assert.Equal(t, first.Title, got.Title)
	assert.Equal(t, first.Snippet, got.Snippet)
	assert.Equal(t, first.Email, got.Email)
	assert.Equal(t, first.Phone, got.Phone)
	assert.Equal(t, first.HasTechFootprint, got.HasTechFootprint)
	assert.Equal(t, first.CreatedAt.Unix(), got.CreatedAt.Unix())

	byCountry, err := s.List(ctx, storage.Filter{Country: "India"})
	require.NoError(t, err)
	require.Len(t, byCountry, 1)
	assert.Equal(t, second.Link, byCountry[0].Link)

	byClient, err := s.List(ctx, storage.Filter{Client: "acme"})
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	assert.Equal(t, first.Link, byClient[0].Link)

	since := base.Add(30 * time.Second)
	recent, err := s.List(ctx, storage.Filter{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, second.Link, recent[0].Link)

	paged, err := s.List(ctx, storage.Filter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, first.Link, paged[0].Link)
}
