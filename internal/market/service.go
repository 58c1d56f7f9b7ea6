package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/marketbot/core/logger"
)

// ErrNoRoute is returned for an event kind the service does not handle.
var ErrNoRoute = errors.New("market: no route for event")

type handlerFunc func(ctx context.Context, sess *Session, ev Event) ([]Reply, error)

type route struct {
	handle handlerFunc
	// wizard routes may run while a draft is open; every other route
	// abandons the draft first.
	wizard bool
}

// Service turns user events into replies.
type Service struct {
	store    Store
	members  MembershipChecker
	sessions Sessions
	cfg      Config
	routes   map[EventKind]route
}

// NewService wires the service. members may be nil when no channel check
// is configured.
func NewService(store Store, members MembershipChecker, sessions Sessions, cfg Config) *Service {
	s := &Service{
		store:    store,
		members:  members,
		sessions: sessions,
		cfg:      cfg,
	}
	s.routes = map[EventKind]route{
		EventStart:          {handle: s.handleStart},
		EventCancel:         {handle: s.handleCancel, wizard: true},
		EventDone:           {handle: s.handleDone, wizard: true},
		EventMenu:           {handle: s.handleMenu, wizard: true},
		EventServer:         {handle: s.handleServer, wizard: true},
		EventCategory:       {handle: s.handleCategory, wizard: true},
		EventType:           {handle: s.handleType, wizard: true},
		EventAttach:         {handle: s.handleAttach, wizard: true},
		EventConfirm:        {handle: s.handleConfirm, wizard: true},
		EventText:           {handle: s.handleText, wizard: true},
		EventPhoto:          {handle: s.handlePhoto, wizard: true},
		EventSearchServer:   {handle: s.handleSearchServer},
		EventSearchCategory: {handle: s.handleSearchCategory},
		EventSearchRun:      {handle: s.handleSearchRun},
		EventSearchNav:      {handle: s.handleSearchNav},
		EventDeleteOwn:      {handle: s.handleDeleteOwn},
		EventGrantVIP:       {handle: s.handleGrantVIP},
		EventForceDelete:    {handle: s.handleForceDelete},
		EventPin:            {handle: s.handlePin},
		EventUnpin:          {handle: s.handleUnpin},
		EventUnknownCommand: {handle: s.handleUnknown},
	}
	return s
}

// Routes reports whether kind has a handler.
func (s *Service) Routes(kind EventKind) bool {
	_, ok := s.routes[kind]
	return ok
}

// Handle routes ev under the user's session lock.
func (s *Service) Handle(ctx context.Context, ev Event) ([]Reply, error) {
	r, ok := s.routes[ev.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoRoute, ev.Kind)
	}
	if ev.UserID == 0 {
		return nil, fmt.Errorf("market: %s event without user", ev.Kind)
	}
	s.ensureUser(ctx, ev)

	var replies []Reply
	err := s.sessions.Update(ev.UserID, func(sess *Session) error {
		if !r.wizard && sess.State != StateIdle {
			logger.LogEvent(ctx, logger.Market, slog.LevelDebug, "wizard.abandoned",
				slog.String("state", sess.State.String()),
				slog.String("by", ev.Kind.String()),
			)
			sess.ResetWizard()
		}
		var err error
		replies, err = r.handle(ctx, sess, ev)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("market: %s: %w", ev.Kind, err)
	}
	return replies, nil
}

func (s *Service) ensureUser(ctx context.Context, ev Event) {
	if err := s.store.EnsureUser(ctx, ev.UserID, ev.Handle); err != nil {
		logger.LogEvent(ctx, logger.Market, slog.LevelWarn, "user.ensure_failed", slog.String("err", err.Error()))
	}
}

// isMember fails open: a lookup error counts as membership.
func (s *Service) isMember(ctx context.Context, userID int64) bool {
	if s.members == nil {
		return true
	}
	ok, err := s.members.IsMember(ctx, userID)
	if err != nil {
		logger.LogEvent(ctx, logger.Market, slog.LevelWarn, "membership.check_failed", slog.String("err", err.Error()))
		return true
	}
	return ok
}

func text(msg string, rows ...[]Button) Reply {
	return Reply{Text: msg, Buttons: rows}
}
