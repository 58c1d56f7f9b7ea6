package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/marketbot/core/logger"
	"github.com/m3rciful/marketbot/core/telegram/sender"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
// A nil dispatcher makes every helper send synchronously.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func sendAsync(c tele.Context, action string, run func() error) error {
	disp := globalDispatcher.Load()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	err := disp.Enqueue(ctx, action, run)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("action", action),
			slog.String("err", err.Error()),
		)
		return run()
	}
	return err
}

// SendText sends plain text to the current chat with optional markup.
func SendText(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	countMessage(c, markup != nil)
	return sendAsync(c, "send.text", func() error {
		if markup != nil {
			return c.Send(text, markup)
		}
		return c.Send(text)
	})
}

// EditOrSendText edits the message behind a callback, or sends a new one
// when the update carries nothing to edit.
func EditOrSendText(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	countMessage(c, markup != nil)
	return sendAsync(c, "edit.text", func() error {
		if markup != nil {
			return c.EditOrSend(text, markup)
		}
		return c.EditOrSend(text)
	})
}

// SendAlbum sends photos referenced by Telegram file id as one media group.
// A single photo is sent as a regular photo message.
func SendAlbum(c tele.Context, fileIDs []string) error {
	if len(fileIDs) == 0 {
		return nil
	}
	countMessage(c, false)
	if len(fileIDs) == 1 {
		photo := &tele.Photo{File: tele.File{FileID: fileIDs[0]}}
		return sendAsync(c, "send.photo", func() error {
			return c.Send(photo)
		})
	}
	album := make(tele.Album, 0, len(fileIDs))
	for _, id := range fileIDs {
		album = append(album, &tele.Photo{File: tele.File{FileID: id}})
	}
	return sendAsync(c, "send.album", func() error {
		return c.SendAlbum(album)
	})
}
