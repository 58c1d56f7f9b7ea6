package market

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillCarForm drives the wizard up to the photo step of a car sale.
func fillCarForm(h *harness) {
	h.t.Helper()
	h.send(EventMenu, MenuSell)
	h.send(EventServer, "TEXAS")
	h.send(EventCategory, "Car")
	h.send(EventType, string(TypeEvent))
	for _, a := range []string{"Nick_Name", "Infernus", "1000000", "@seller"} {
		h.send(EventText, a)
	}
	require.Equal(h.t, StateAttachPhotos, h.session().State)
}

func TestWizardPublishesListing(t *testing.T) {
	h := newHarness(t)

	r := h.send(EventMenu, MenuSell)
	assert.Equal(t, StateSelectServer, h.session().State)
	assert.True(t, hasButton(r[0], CallbackServer, "TEXAS"))

	r = h.send(EventServer, "TEXAS")
	assert.True(t, hasButton(r[0], CallbackCategory, "Car"))
	r = h.send(EventCategory, "Car")
	assert.True(t, hasButton(r[0], CallbackType, string(TypePass)))

	r = h.send(EventType, string(TypeEvent))
	assert.Contains(t, r[0].Text, "Enter: Nickname")
	assert.Equal(t, Template("Car", ActionSell), h.session().Draft.Questions)

	r = h.send(EventText, "Nick_Name")
	assert.Equal(t, "Enter: Car model", r[0].Text)
	h.send(EventText, "  Infernus ")
	h.send(EventText, "1000000")
	r = h.send(EventText, "@seller")
	assert.True(t, hasButton(r[0], CallbackAttach, AttachSkip))

	r = h.send(EventPhoto, "file-1")
	assert.Equal(t, "Photo accepted (1/5). Send more or /done to continue.", r[0].Text)
	h.send(EventPhoto, "file-2")

	r = h.send(EventDone, "")
	require.Len(t, r, 2)
	assert.Contains(t, r[0].Text, "New listing • TEXAS • Car")
	assert.Contains(t, r[0].Text, "Car model: Infernus")
	assert.True(t, hasButton(r[0], CallbackConfirm, ConfirmPublish))
	assert.Equal(t, []string{"file-1", "file-2"}, r[1].Photos)

	r = h.send(EventConfirm, ConfirmPublish)
	assert.Equal(t, "Your listing is published. Listing number #1", r[0].Text)
	assert.Equal(t, StateIdle, h.session().State)

	l, err := h.store.GetListing(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, testUser, l.Owner)
	assert.Equal(t, testHandle, l.Handle)
	assert.Equal(t, ActionSell, l.Action)
	assert.Equal(t, TypeEvent, l.Type)
	assert.Equal(t, Template("Car", ActionSell), l.Fields.Questions())
	v, _ := l.Fields.Get("Car model")
	assert.Equal(t, "Infernus", v)
	assert.Equal(t, []string{"file-1", "file-2"}, l.Photos)
	assert.False(t, l.VIP)
}

func TestWizardPhotoCapMovesToConfirm(t *testing.T) {
	h := newHarness(t)
	fillCarForm(h)

	for i := 0; i < MaxPhotos-1; i++ {
		h.send(EventPhoto, "p")
	}
	r := h.send(EventPhoto, "last")
	assert.Equal(t, "5 photos added (maximum).", r[0].Text)
	assert.Equal(t, StateConfirm, h.session().State)
	assert.Len(t, h.session().Draft.Photos, MaxPhotos)
	assert.Len(t, r[len(r)-1].Photos, MaxPhotos)
}

func TestWizardSkipPhotos(t *testing.T) {
	h := newHarness(t)
	fillCarForm(h)

	r := h.send(EventAttach, AttachPhotos)
	assert.Contains(t, r[0].Text, "Send photos")
	assert.Equal(t, StateAttachPhotos, h.session().State)

	r = h.send(EventAttach, AttachSkip)
	require.Len(t, r, 1, "no album without photos")
	assert.Equal(t, StateConfirm, h.session().State)
}

func TestWizardRepromptsInPlace(t *testing.T) {
	h := newHarness(t)
	h.send(EventMenu, MenuBuy)

	r := h.send(EventText, "hello")
	assert.True(t, hasButton(r[0], CallbackServer, "NEVADA"))
	assert.Equal(t, StateSelectServer, h.session().State)

	r = h.send(EventServer, "ATLANTIS")
	assert.True(t, hasButton(r[0], CallbackServer, "NEVADA"))
	assert.Equal(t, StateSelectServer, h.session().State)

	r = h.send(EventCategory, "Car")
	assert.True(t, hasButton(r[0], CallbackServer, "NEVADA"), "out-of-step button repeats the server prompt")

	h.send(EventServer, "NEVADA")
	h.send(EventCategory, "Business")
	r = h.send(EventType, "legendary")
	assert.True(t, hasButton(r[0], CallbackType, string(TypeStandard)))
	h.send(EventType, string(TypeStandard))

	r = h.send(EventPhoto, "early")
	assert.Contains(t, r[0].Text, "Please answer with text.")
	r = h.send(EventText, "   ")
	assert.True(t, strings.HasPrefix(r[0].Text, "Enter: Nickname"))
	assert.Empty(t, h.session().Draft.Answers)
	assert.Empty(t, h.session().Draft.Photos)

	d := h.session().Draft
	assert.Equal(t, ActionBuy, d.Action)
	assert.Equal(t, Template("Business", ActionBuy), d.Questions)
}

func TestWizardCancelFromAnyState(t *testing.T) {
	steps := []func(h *harness){
		func(h *harness) { h.send(EventMenu, MenuSell) },
		func(h *harness) { h.send(EventServer, "TEXAS") },
		func(h *harness) { h.send(EventCategory, "Items") },
		func(h *harness) { h.send(EventType, string(TypePass)) },
	}
	for n := 1; n <= len(steps); n++ {
		h := newHarness(t)
		for _, step := range steps[:n] {
			step(h)
		}
		require.NotEqual(t, StateIdle, h.session().State)
		r := h.send(EventCancel, "")
		assert.Equal(t, "Operation cancelled.", r[0].Text)
		assert.Equal(t, Session{}, h.session())
	}

	h := newHarness(t)
	fillCarForm(h)
	h.send(EventDone, "")
	r := h.send(EventConfirm, ConfirmCancel)
	assert.Equal(t, "Publishing cancelled.", r[0].Text)
	assert.Equal(t, StateIdle, h.session().State)
	assert.Empty(t, h.store.listings)
}

func TestWizardRestartDiscardsDraft(t *testing.T) {
	h := newHarness(t)
	fillCarForm(h)
	h.send(EventPhoto, "p1")

	h.send(EventMenu, MenuBuy)
	sess := h.session()
	assert.Equal(t, StateSelectServer, sess.State)
	assert.Equal(t, Draft{Action: ActionBuy}, sess.Draft)
}

func TestUnrelatedEventAbandonsDraft(t *testing.T) {
	h := newHarness(t)
	fillCarForm(h)

	h.send(EventStart, "")
	assert.Equal(t, StateIdle, h.session().State)

	r := h.send(EventConfirm, ConfirmPublish)
	assert.Equal(t, staleFormText, r[0].Text)
	assert.Empty(t, h.store.listings)

	r = h.send(EventDone, "")
	assert.Equal(t, unknownText, r[0].Text)
}

func TestPublishRequiresMembership(t *testing.T) {
	h := newHarness(t)
	h.members.member = false
	fillCarForm(h)
	h.send(EventDone, "")

	r := h.send(EventConfirm, ConfirmPublish)
	assert.Contains(t, r[0].Text, "@market_channel")
	assert.Equal(t, Session{}, h.session())
	assert.Empty(t, h.store.listings)
	assert.Equal(t, 1, h.members.calls)
}

func TestPublishFailsOpenOnMembershipError(t *testing.T) {
	h := newHarness(t)
	h.members.member = false
	h.members.err = errBoom
	fillCarForm(h)
	h.send(EventDone, "")

	r := h.send(EventConfirm, ConfirmPublish)
	assert.Contains(t, r[0].Text, "#1")
	assert.Len(t, h.store.listings, 1)
}

func TestPublishReadsVIPAtCommit(t *testing.T) {
	h := newHarness(t)
	fillCarForm(h)
	h.send(EventDone, "")
	require.NoError(t, h.store.SetVIP(context.Background(), testUser, true))

	h.send(EventConfirm, ConfirmPublish)
	l, err := h.store.GetListing(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, l.VIP)
}

func TestPublishStoreFailureKeepsDraft(t *testing.T) {
	h := newHarness(t)
	fillCarForm(h)
	h.send(EventDone, "")
	h.store.addErr = errBoom

	_, err := h.svc.Handle(context.Background(), Event{Kind: EventConfirm, UserID: testUser, Data: ConfirmPublish})
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, StateConfirm, h.session().State)

	h.store.addErr = nil
	r := h.send(EventConfirm, ConfirmPublish)
	assert.Contains(t, r[0].Text, "#1")
}

func TestEnsureUserFailureIsSwallowed(t *testing.T) {
	h := newHarness(t)
	h.store.ensureErr = errBoom
	r := h.send(EventStart, "")
	assert.Equal(t, greetingText, r[0].Text)
}

func TestUsersDoNotShareDrafts(t *testing.T) {
	h := newHarness(t)
	h.send(EventMenu, MenuSell)
	h.sendAs(7, EventMenu, MenuBuy)

	other, ok := h.sessions.Get(7)
	require.True(t, ok)
	assert.Equal(t, ActionBuy, other.Draft.Action)
	assert.Equal(t, ActionSell, h.session().Draft.Action)
}

func TestPublishedCarListingFormats(t *testing.T) {
	h := newHarness(t)
	fillCarForm(h)
	h.send(EventDone, "")
	h.send(EventConfirm, ConfirmPublish)

	l, err := h.store.GetListing(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.False(t, l.Pinned)
	assert.Empty(t, l.Photos)

	out := Format(*l)
	for _, want := range []string{"TEXAS", "Car", "Nick_Name", "Infernus", "1000000", "@seller"} {
		assert.Contains(t, out, want)
	}
}
