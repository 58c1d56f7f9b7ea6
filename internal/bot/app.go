// Package bot adapts the marketplace service to Telegram: it translates
// updates into market events and renders the replies.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/marketbot/core/logger"
	tg "github.com/m3rciful/marketbot/core/telegram"
	"github.com/m3rciful/marketbot/core/telegram/callbacks"
	"github.com/m3rciful/marketbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/marketbot/core/telegram/helpers"
	"github.com/m3rciful/marketbot/core/telegram/keyboard"
	"github.com/m3rciful/marketbot/core/telegram/middleware"
	"github.com/m3rciful/marketbot/core/telegram/router"
	"github.com/m3rciful/marketbot/core/telegram/sender"
	"github.com/m3rciful/marketbot/core/telegram/state"
	"github.com/m3rciful/marketbot/internal/market"
)

const (
	apologyText = "Something went wrong. Please try again later."
	slowDown    = "Too many requests. Please slow down."
)

// App is the Telegram face of the marketplace.
type App struct {
	cfg      *Config
	svc      *market.Service
	members  *channelMembers
	sessions *state.Store[market.Session]
	closers  []func() error
}

// New builds the app on top of an open store. closers run on shutdown.
func New(cfg *Config, store market.Store, closers ...func() error) *App {
	members := &channelMembers{channel: cfg.Market.ChannelUsername}
	sessions := state.NewStore(state.WithIdle(func(s market.Session) bool { return s.Idle() }))
	return &App{
		cfg:      cfg,
		svc:      market.NewService(store, members, sessions, cfg.Market),
		members:  members,
		sessions: sessions,
		closers:  closers,
	}
}

// TelegramRunOptions wires commands, callbacks and message routes.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg, err := a.registry()
	if err != nil {
		return tg.RunOptions{}, err
	}
	core := &a.cfg.Config
	admin := middleware.AdminOptions{
		AdminID:  core.Telegram.AdminID,
		OnReject: a.handle(market.EventUnknownCommand, text),
	}
	onLimited := func(c tele.Context) error {
		return tghelpers.SendText(c, slowDown, nil)
	}

	return tg.RunOptions{
		Config:   core,
		Registry: reg,
		DispatcherOptions: sender.Options{
			QueueSize:    128,
			Workers:      8,
			MaxRetries:   3,
			RetryBackoff: 500 * time.Millisecond,
			MaxDuration:  20 * time.Second,
		},
		Middlewares: tg.DefaultMiddlewares(core, onLimited),
		RoutesFor: func(b *tele.Bot) []tg.Route {
			a.members.api = b
			routes := router.CommandRoutes(reg, router.CommandRouteOptions{
				AdminID:       admin.AdminID,
				OnAdminReject: admin.OnReject,
			})
			routes = append(routes, router.CallbackRoute(reg))
			return append(routes, router.MessageRoutes(reg, router.MessageOptions{
				Text:           a.handle(market.EventText, text),
				Photo:          a.handle(market.EventPhoto, photoID),
				UnknownCommand: a.handle(market.EventUnknownCommand, text),
				Admin:          admin,
			})...)
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			logger.LogEvent(ctx, logger.Market, slog.LevelInfo, "sessions.dropped",
				slog.Int("active", a.sessions.Len()),
			)
			return a.Close()
		},
	}, nil
}

// Close releases what New was given to close.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) registry() (*tg.Registry, error) {
	reg := tg.NewRegistry()
	for _, spec := range market.Commands {
		err := reg.RegisterCommand(spec.Name, commands.Command{
			Handler:     a.handle(spec.Kind, commandArg),
			Description: spec.Description,
			Aliases:     spec.Aliases,
			Hidden:      spec.Privileged,
			AdminOnly:   spec.Privileged && a.cfg.Market.PrivilegedAdminOnly,
		})
		if err != nil {
			return nil, err
		}
	}
	for unique, kind := range market.CallbackKinds() {
		if err := reg.RegisterCallback(unique, a.handle(kind, callbacks.CallbackPayload)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// handle turns an update into a market event and renders the replies.
// Failures are logged with the update context and answered with an apology.
func (a *App) handle(kind market.EventKind, data func(tele.Context) string) tele.HandlerFunc {
	return func(c tele.Context) error {
		user := c.Sender()
		if user == nil {
			return nil
		}
		ctx := tghelpers.BuildContext(c)
		replies, err := a.svc.Handle(ctx, market.Event{
			Kind:   kind,
			UserID: user.ID,
			Handle: user.Username,
			Data:   data(c),
		})
		if err != nil {
			logger.LogEvent(ctx, logger.Market, slog.LevelError, "event.failed",
				slog.String("kind", kind.String()),
				slog.String("err", err.Error()),
			)
			_ = tghelpers.SendText(c, apologyText, nil)
			return err
		}
		return render(c, replies)
	}
}

func render(c tele.Context, replies []market.Reply) error {
	for _, r := range replies {
		if r.Text != "" {
			send := tghelpers.SendText
			if r.Edit {
				send = tghelpers.EditOrSendText
			}
			if err := send(c, r.Text, inlineMarkup(r.Buttons)); err != nil {
				return err
			}
		}
		if err := tghelpers.SendAlbum(c, r.Photos); err != nil {
			return err
		}
	}
	return nil
}

func inlineMarkup(rows [][]market.Button) *tele.ReplyMarkup {
	kb := make([][]keyboard.InlineBtn, 0, len(rows))
	for _, row := range rows {
		out := make([]keyboard.InlineBtn, 0, len(row))
		for _, b := range row {
			out = append(out, keyboard.InlineBtn{Text: b.Text, Unique: b.Unique, Data: b.Data, URL: b.URL})
		}
		kb = append(kb, out)
	}
	return keyboard.InlineButtonsRows(kb...)
}

func text(c tele.Context) string { return c.Text() }

func commandArg(c tele.Context) string {
	if m := c.Message(); m != nil {
		return m.Payload
	}
	return ""
}

func photoID(c tele.Context) string {
	if m := c.Message(); m != nil && m.Photo != nil {
		return m.Photo.FileID
	}
	return ""
}
