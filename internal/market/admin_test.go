package market

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteOwnListing(t *testing.T) {
	h := newHarness(t)
	mine := h.seed(testUser, "TEXAS", "Car", ActionSell)
	theirs := h.seed(7, "TEXAS", "Car", ActionSell)

	cases := []struct {
		arg  string
		want string
	}{
		{"", "Usage: /del <listing number>"},
		{"abc", invalidIDText},
		{"-3", invalidIDText},
		{"999", "Listing #999 not found."},
		{"2", "You can only delete your own listings."},
		{"1 extra words", "Listing #1 deleted."},
	}
	for _, tc := range cases {
		r := h.send(EventDeleteOwn, tc.arg)
		assert.Equal(t, tc.want, r[0].Text, tc.arg)
	}

	l, err := h.store.GetListing(context.Background(), mine)
	require.NoError(t, err)
	assert.Nil(t, l)
	l, err = h.store.GetListing(context.Background(), theirs)
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestForceDelete(t *testing.T) {
	h := newHarness(t)
	id := h.seed(7, "TEXAS", "Car", ActionSell)

	assert.Equal(t, "Usage: /deleted <listing number>", h.send(EventForceDelete, " ")[0].Text)
	assert.Equal(t, "Listing #1 deleted.", h.send(EventForceDelete, "1")[0].Text)
	assert.Equal(t, "Listing #1 not found.", h.send(EventForceDelete, "1")[0].Text)
	_, ok := h.store.listings[id]
	assert.False(t, ok)
}

func TestGrantVIP(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, invalidIDText, h.send(EventGrantVIP, "@someone")[0].Text)
	assert.Equal(t, "User 777 is now VIP.", h.send(EventGrantVIP, "777")[0].Text)

	u, err := h.store.GetUser(context.Background(), 777)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.True(t, u.VIP)
}

func TestPinAndUnpin(t *testing.T) {
	h := newHarness(t)
	id := h.seed(7, "TEXAS", "Car", ActionSell)

	assert.Equal(t, "Listing #1 pinned.", h.send(EventPin, "1")[0].Text)
	assert.True(t, h.store.listings[id].Pinned)
	assert.Equal(t, "Listing #1 unpinned.", h.send(EventUnpin, "1")[0].Text)
	assert.False(t, h.store.listings[id].Pinned)

	assert.Equal(t, "Listing #9 not found.", h.send(EventPin, "9")[0].Text)
	assert.Equal(t, "Usage: /unzakrep <listing number>", h.send(EventUnpin, "")[0].Text)
}
