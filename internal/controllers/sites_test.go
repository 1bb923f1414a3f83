package controllers

import (
	"context"
	"testing"

	"github.com/amaumene/cinelist/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitesInitializeAndCRUD(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Database: newTestDatabase(t)}
	c := NewSitesController("user-1", store, testLogger())
	_, err := c.Refresh(ctx)
	require.NoError(t, err)

	_, err = c.Initialize(ctx)
	require.NoError(t, err)
	sites := c.List()
	require.Len(t, sites, len(DefaultSearchSites))
	assert.Equal(t, "1337x", sites[0].Name)
	assert.Equal(t, "LimeTorrents", sites[len(sites)-1].Name)

	// second initialize is a no-op
	notice, err := c.Initialize(ctx)
	require.NoError(t, err)
	assert.Nil(t, notice)
	assert.Len(t, c.List(), len(DefaultSearchSites))

	site, _, err := c.Add(ctx, "Example", "https://example.com/?q=query")
	require.NoError(t, err)
	assert.NotEmpty(t, site.ID)

	_, err = c.Update(ctx, site.ID, "Example", "https://example.com/?q=")
	assert.ErrorIs(t, err, models.ErrInvalidTemplate)
	got, _ := c.Get(site.ID)
	assert.Equal(t, "https://example.com/?q=query", got.SearchURL)

	_, err = c.Update(ctx, site.ID, "Renamed", "https://example.com/s/query")
	require.NoError(t, err)
	got, _ = c.Get(site.ID)
	assert.Equal(t, "Renamed", got.Name)

	_, err = c.Update(ctx, "missing", "X", "https://x/query")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = c.Delete(ctx, site.ID)
	require.NoError(t, err)
	_, ok := c.Get(site.ID)
	assert.False(t, ok)
}

func TestSitesAddRejectsTemplateWithoutPlaceholder(t *testing.T) {
	ctx := context.Background()
	c := NewSitesController("user-1", newTestDatabase(t), testLogger())

	_, notice, err := c.Add(ctx, "Bad", "https://example.com/search")
	assert.ErrorIs(t, err, models.ErrInvalidTemplate)
	assert.Equal(t, "Invalid URL Format", notice.Title)
	assert.Empty(t, c.List())
}

func TestSitesInitializeFailure(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Database: newTestDatabase(t), failSites: true}
	c := NewSitesController("user-1", store, testLogger())

	notice, err := c.Initialize(ctx)
	require.Error(t, err)
	assert.Equal(t, models.NoticeError, notice.Level)
	assert.Empty(t, c.List())
}

func TestSitesSelect(t *testing.T) {
	ctx := context.Background()
	c := NewSitesController("user-1", newTestDatabase(t), testLogger())
	a, _, err := c.Add(ctx, "A", "https://a/query")
	require.NoError(t, err)
	_, _, err = c.Add(ctx, "B", "https://b/query")
	require.NoError(t, err)

	assert.Len(t, c.Select(nil), 2)
	selected := c.Select([]string{a.ID, "unknown"})
	require.Len(t, selected, 1)
	assert.Equal(t, "A", selected[0].Name)
}

func TestKeywords(t *testing.T) {
	ctx := context.Background()
	c := NewKeywordsController("user-1", newTestDatabase(t), testLogger())
	_, err := c.Refresh(ctx)
	require.NoError(t, err)

	notice, err := c.Add(ctx, "hdr")
	require.NoError(t, err)
	assert.Equal(t, "Keyword Exists", notice.Title, "defaults are matched ignoring case")

	notice, err = c.Add(ctx, "REMUX")
	require.NoError(t, err)
	assert.Equal(t, "Keyword Added", notice.Title)

	notice, err = c.Add(ctx, "remux")
	require.NoError(t, err)
	assert.Equal(t, "Keyword Exists", notice.Title)

	_, err = c.Add(ctx, "Atmos")
	require.NoError(t, err)

	assert.Equal(t, []string{"Atmos", "REMUX"}, c.Custom())
	assert.Equal(t, []string{"1080p", "2160p", "4K", "720p", "Atmos", "HDR", "REMUX"}, c.All())

	_, err = c.Delete(ctx, "Remux")
	require.NoError(t, err)
	assert.Equal(t, []string{"Atmos"}, c.Custom())

	_, err = c.Delete(ctx, "4K")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = c.Add(ctx, "   ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
