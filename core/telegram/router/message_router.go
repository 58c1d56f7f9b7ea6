package router

import (
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/marketbot/core/telegram"
	"github.com/m3rciful/marketbot/core/telegram/middleware"
)

// MessageOptions holds the handlers for non-command messages.
type MessageOptions struct {
	// Text receives plain text.
	Text tele.HandlerFunc
	// Photo receives photo messages.
	Photo tele.HandlerFunc
	// UnknownCommand receives "/..." messages that match no command or alias.
	UnknownCommand tele.HandlerFunc
	// Admin gates AdminOnly commands reached through an alias.
	Admin middleware.AdminOptions
}

// MessageRoutes builds the OnText and OnPhoto routes. Telebot delivers
// unregistered commands as text, so aliases are resolved here.
func MessageRoutes(reg *tg.Registry, opts MessageOptions) []tg.Route {
	text := func(c tele.Context) error {
		start := time.Now()
		msg := c.Text()

		if strings.HasPrefix(msg, "/") {
			if reg != nil {
				if key, cmd, ok := reg.LookupCommand(commandName(msg)); ok {
					h := cmd.Handler
					if cmd.AdminOnly {
						h = middleware.AdminOnlyMiddleware(opts.Admin)(h)
					}
					return handleWithSummary(c, normalizeHandlerName(key), start, func() error {
						return h(c)
					})
				}
			}
			return handleWithSummary(c, "unknown_command", start, func() error {
				if opts.UnknownCommand != nil {
					return opts.UnknownCommand(c)
				}
				return errSkipped
			})
		}

		return handleWithSummary(c, "text", start, func() error {
			if opts.Text != nil {
				return opts.Text(c)
			}
			return errSkipped
		})
	}

	photo := func(c tele.Context) error {
		return handleWithSummary(c, "photo", time.Now(), func() error {
			if opts.Photo != nil {
				return opts.Photo(c)
			}
			return errSkipped
		})
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: middleware.RecoverMiddleware(middleware.LoggerMiddleware(text))},
		{Endpoint: tele.OnPhoto, Handler: middleware.RecoverMiddleware(middleware.LoggerMiddleware(photo))},
	}
}

// commandName strips arguments and a "@botname" suffix from a command line.
func commandName(text string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	name, _, _ = strings.Cut(name, "@")
	return name
}
