package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartShowsMainMenu(t *testing.T) {
	h := newHarness(t)
	r := h.send(EventStart, "")
	assert.Equal(t, greetingText, r[0].Text)
	for _, data := range []string{MenuSell, MenuBuy, MenuSearch, MenuProfile, MenuVIP, MenuServices} {
		assert.True(t, hasButton(r[0], CallbackMenu, data), data)
	}
	last := r[0].Buttons[len(r[0].Buttons)-1]
	assert.Equal(t, "https://t.me/support", last[0].URL)
	assert.False(t, r[0].Edit)

	r = h.send(EventMenu, MenuBack)
	assert.Equal(t, greetingText, r[0].Text)
	assert.True(t, r[0].Edit)
}

func TestProfile(t *testing.T) {
	h := newHarness(t)
	r := h.send(EventMenu, MenuProfile)
	assert.Equal(t, "You have no active listings.", r[0].Text)

	h.seed(testUser, "TEXAS", "Car", ActionSell)
	h.seed(testUser, "NEVADA", "Items", ActionBuy)
	h.seed(7, "TEXAS", "Car", ActionSell)

	r = h.send(EventMenu, MenuProfile)
	assert.Contains(t, r[0].Text, "#2 • NEVADA • Items • Standard • Buy\n#1 • TEXAS • Car • Standard • Sell")
	assert.NotContains(t, r[0].Text, "#3")
}

func TestInfoScreensShowPrices(t *testing.T) {
	h := newHarness(t)
	r := h.send(EventMenu, MenuVIP)
	assert.Contains(t, r[0].Text, "25₽")
	assert.Contains(t, r[0].Text, "@support")

	r = h.send(EventMenu, MenuServices)
	assert.Contains(t, r[0].Text, "15₽")
	assert.Contains(t, r[0].Text, "50₽")
	assert.True(t, hasButton(r[0], CallbackMenu, MenuBack))
}

func TestUnknownInput(t *testing.T) {
	h := newHarness(t)
	r := h.send(EventUnknownCommand, "/frobnicate")
	assert.Equal(t, unknownText, r[0].Text)
	assert.True(t, hasButton(r[0], CallbackMenu, MenuSell))

	r = h.send(EventText, "hello?")
	assert.Equal(t, unknownText, r[0].Text)

	r = h.send(EventPhoto, "file")
	assert.Equal(t, unknownText, r[0].Text)
}

func TestMenuLeavesWizard(t *testing.T) {
	h := newHarness(t)
	h.send(EventMenu, MenuSell)
	h.send(EventMenu, MenuVIP)
	assert.Equal(t, StateIdle, h.session().State)
}
