package market

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchSessionAdvance(t *testing.T) {
	ss := SearchSession{IDs: []int64{3, 2, 1}}
	assert.False(t, ss.Advance(DirPrev))
	assert.Equal(t, 0, ss.Cursor)
	assert.True(t, ss.Advance(DirNext))
	assert.True(t, ss.Advance(DirNext))
	assert.False(t, ss.Advance(DirNext))
	assert.Equal(t, 2, ss.Cursor)
	assert.False(t, ss.Advance("sideways"))

	var empty SearchSession
	assert.False(t, empty.Advance(DirNext))
	_, ok := empty.CurrentID()
	assert.False(t, ok)
}

func TestSearchBrowsesPinnedFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	first := h.seed(1, "TEXAS", "Car", ActionSell)
	second := h.seed(2, "TEXAS", "Car", ActionBuy)
	third := h.seed(3, "TEXAS", "Car", ActionSell)
	h.seed(4, "FLORIDA", "Car", ActionSell)
	ok, err := h.store.SetPinned(ctx, first, true)
	require.NoError(t, err)
	require.True(t, ok)

	r := h.send(EventMenu, MenuSearch)
	assert.True(t, hasButton(r[0], CallbackSearchServer, "TEXAS"))
	r = h.send(EventSearchServer, "TEXAS")
	assert.True(t, hasButton(r[0], CallbackSearchCategory, "Car"))
	r = h.send(EventSearchCategory, "Car")
	assert.True(t, hasButton(r[0], CallbackSearchRun, SearchAll))

	r = h.send(EventSearchRun, SearchAll)
	assert.Equal(t, []int64{first, third, second}, h.session().Search.IDs)
	assert.Contains(t, r[0].Text, "Result 1 of 3")
	assert.Contains(t, r[0].Text, "📌")
	assert.False(t, hasButton(r[0], CallbackSearchNav, string(DirPrev)))
	assert.True(t, hasButton(r[0], CallbackSearchNav, string(DirNext)))
	assert.True(t, hasButton(r[0], CallbackMenu, MenuBack))

	r = h.send(EventSearchNav, string(DirNext))
	assert.Contains(t, r[0].Text, "Result 2 of 3")
	assert.True(t, hasButton(r[0], CallbackSearchNav, string(DirPrev)))
	assert.True(t, hasButton(r[0], CallbackSearchNav, string(DirNext)))

	h.send(EventSearchNav, string(DirNext))
	r = h.send(EventSearchNav, string(DirNext))
	assert.Equal(t, noFurtherText, r[0].Text)
	assert.Equal(t, 2, h.session().Search.Cursor)

	r = h.send(EventSearchNav, string(DirPrev))
	assert.Contains(t, r[0].Text, "Result 2 of 3")
}

func TestSearchActionFilter(t *testing.T) {
	h := newHarness(t)
	h.seed(1, "HAWAII", "Items", ActionSell)
	buy := h.seed(2, "HAWAII", "Items", ActionBuy)

	h.send(EventMenu, MenuSearch)
	h.send(EventSearchServer, "HAWAII")
	h.send(EventSearchCategory, "Items")
	r := h.send(EventSearchRun, string(ActionBuy))
	assert.Equal(t, []int64{buy}, h.session().Search.IDs)
	assert.Contains(t, r[0].Text, "Action: Buy")
	assert.False(t, hasButton(r[0], CallbackSearchNav, string(DirNext)))
}

func TestSearchNoResults(t *testing.T) {
	h := newHarness(t)
	h.send(EventMenu, MenuSearch)
	h.send(EventSearchServer, "INDIANA")
	h.send(EventSearchCategory, "Costumes")
	r := h.send(EventSearchRun, SearchAll)
	assert.Equal(t, noResultsText, r[0].Text)
}

func TestSearchShowsVanishedListing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.seed(1, "TEXAS", "Car", ActionSell)
	h.seed(1, "TEXAS", "Car", ActionSell)

	h.send(EventMenu, MenuSearch)
	h.send(EventSearchServer, "TEXAS")
	h.send(EventSearchCategory, "Car")
	h.send(EventSearchRun, SearchAll)

	ok, err := h.store.DeleteListing(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	r := h.send(EventSearchNav, string(DirNext))
	assert.Equal(t, vanishedText, r[0].Text)
	assert.True(t, hasButton(r[0], CallbackSearchNav, string(DirPrev)))

	cur, err := h.svc.Current(ctx, h.session().Search)
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestSearchAttachesPhotos(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.AddListing(context.Background(), NewListing{
		Owner: 1, Server: "TEXAS", Category: "Car", Type: TypeStandard, Action: ActionSell,
		Photos: []string{"a", "b"},
	})
	require.NoError(t, err)

	h.send(EventMenu, MenuSearch)
	h.send(EventSearchServer, "TEXAS")
	h.send(EventSearchCategory, "Car")
	r := h.send(EventSearchRun, SearchAll)
	require.Len(t, r, 2)
	assert.Equal(t, []string{"a", "b"}, r[1].Photos)
}

func TestSearchExpiredSession(t *testing.T) {
	h := newHarness(t)

	r := h.send(EventSearchRun, SearchAll)
	assert.Equal(t, searchExpiredText, r[0].Text)
	assert.True(t, hasButton(r[1], CallbackSearchServer, "TEXAS"))

	r = h.send(EventSearchCategory, "Car")
	assert.Equal(t, searchExpiredText, r[0].Text)

	r = h.send(EventSearchNav, string(DirNext))
	assert.Equal(t, searchExpiredText, r[0].Text)
}

func TestSearchLimit(t *testing.T) {
	h := newHarness(t)
	h.svc.cfg.SearchLimit = 2
	for i := 0; i < 5; i++ {
		h.seed(1, "TEXAS", "Car", ActionSell)
	}
	var ss SearchSession
	require.NoError(t, h.svc.Search(context.Background(), &ss, Filter{Server: "TEXAS"}))
	assert.Equal(t, []int64{5, 4}, ss.IDs)
	assert.Equal(t, 0, ss.Cursor)
}
