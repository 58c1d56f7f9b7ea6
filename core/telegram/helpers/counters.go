package helpers

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/marketbot/core/metrics"
)

const (
	messagesKey = "messages"
	keyboardKey = "kb"
)

// ResetCounters zeroes the per-update reply counters.
func ResetCounters(c tele.Context) {
	c.Set(messagesKey, 0)
	c.Set(keyboardKey, false)
}

// countMessage records one outgoing reply for the update summary.
func countMessage(c tele.Context, hasKeyboard bool) {
	n, _ := c.Get(messagesKey).(int)
	c.Set(messagesKey, n+1)
	if hasKeyboard {
		c.Set(keyboardKey, true)
	}
	metrics.MessagesSent.Inc()
}

// Counters reports how many replies were queued for the update and whether
// any carried a keyboard.
func Counters(c tele.Context) (int, bool) {
	n, _ := c.Get(messagesKey).(int)
	kb, _ := c.Get(keyboardKey).(bool)
	return n, kb
}
