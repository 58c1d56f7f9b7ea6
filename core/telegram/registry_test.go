package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/marketbot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Main menu"}))
	require.NoError(t, reg.RegisterCommand("/done", commands.Command{Handler: noop, Description: "Finish photos", Aliases: []string{"/skip"}}))
	require.NoError(t, reg.RegisterCommand("/vipp", commands.Command{Handler: noop, Description: "Grant VIP", Hidden: true}))

	assert.Error(t, reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "again"}))
	assert.Error(t, reg.RegisterCommand("cancel", commands.Command{Handler: noop, Description: "no slash"}))
	assert.Error(t, reg.RegisterCommand("/x", commands.Command{Description: "nil handler"}))

	visible := reg.ListCommands(true)
	require.Len(t, visible, 2)
	assert.Equal(t, "done", visible[0].Text)
	assert.Equal(t, "start", visible[1].Text)
	assert.Len(t, reg.ListCommands(false), 3)

	key, _, ok := reg.LookupCommand("/skip")
	require.True(t, ok)
	assert.Equal(t, "/done", key)
	key, _, ok = reg.LookupCommand("start")
	require.True(t, ok)
	assert.Equal(t, "/start", key)
	_, _, ok = reg.LookupCommand("/nope")
	assert.False(t, ok)
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCallback("menu", noop))
	require.NoError(t, reg.RegisterCallback("search_nav", noop))
	assert.Error(t, reg.RegisterCallback("menu", noop))
	assert.Error(t, reg.RegisterCallback("", noop))

	_, ok := reg.GetCallback("menu")
	assert.True(t, ok)
	assert.Equal(t, []string{"menu", "search_nav"}, reg.ListCallbacks())
	assert.NotNil(t, reg.CallbackNotFound())
}
