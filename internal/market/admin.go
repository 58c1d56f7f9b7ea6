package market

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/m3rciful/marketbot/core/logger"
)

const invalidIDText = "Invalid id."

// parseID reads the first word of a command argument as a positive id.
// The returned reply is non-nil when the argument is unusable.
func parseID(arg, usage string) (int64, []Reply) {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return 0, []Reply{text("Usage: " + usage)}
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, []Reply{text(invalidIDText)}
	}
	return id, nil
}

func (s *Service) handleDeleteOwn(ctx context.Context, _ *Session, ev Event) ([]Reply, error) {
	id, bad := parseID(ev.Data, "/del <listing number>")
	if bad != nil {
		return bad, nil
	}
	l, err := s.store.GetListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing %d: %w", id, err)
	}
	if l == nil {
		return []Reply{text(fmt.Sprintf("Listing #%d not found.", id))}, nil
	}
	if l.Owner != ev.UserID {
		return []Reply{text("You can only delete your own listings.")}, nil
	}
	if _, err := s.store.DeleteListing(ctx, id); err != nil {
		return nil, fmt.Errorf("delete listing %d: %w", id, err)
	}
	logger.LogEvent(ctx, logger.Market, slog.LevelInfo, "listing.deleted", slog.Int64("listing_id", id), slog.String("by", "owner"))
	return []Reply{text(fmt.Sprintf("Listing #%d deleted.", id))}, nil
}

func (s *Service) handleGrantVIP(ctx context.Context, _ *Session, ev Event) ([]Reply, error) {
	target, bad := parseID(ev.Data, "/vipp <user_id>")
	if bad != nil {
		return bad, nil
	}
	if err := s.store.SetVIP(ctx, target, true); err != nil {
		return nil, fmt.Errorf("set vip %d: %w", target, err)
	}
	logger.LogEvent(ctx, logger.Market, slog.LevelInfo, "user.vip_granted", slog.Int64("target_id", target))
	return []Reply{text(fmt.Sprintf("User %d is now VIP.", target))}, nil
}

func (s *Service) handleForceDelete(ctx context.Context, _ *Session, ev Event) ([]Reply, error) {
	id, bad := parseID(ev.Data, "/deleted <listing number>")
	if bad != nil {
		return bad, nil
	}
	ok, err := s.store.DeleteListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete listing %d: %w", id, err)
	}
	if !ok {
		return []Reply{text(fmt.Sprintf("Listing #%d not found.", id))}, nil
	}
	logger.LogEvent(ctx, logger.Market, slog.LevelInfo, "listing.deleted", slog.Int64("listing_id", id), slog.String("by", "privileged"))
	return []Reply{text(fmt.Sprintf("Listing #%d deleted.", id))}, nil
}

func (s *Service) handlePin(ctx context.Context, _ *Session, ev Event) ([]Reply, error) {
	return s.setPinned(ctx, ev, true)
}

func (s *Service) handleUnpin(ctx context.Context, _ *Session, ev Event) ([]Reply, error) {
	return s.setPinned(ctx, ev, false)
}

func (s *Service) setPinned(ctx context.Context, ev Event, pinned bool) ([]Reply, error) {
	usage, done := "/zakrepp <listing number>", "pinned"
	if !pinned {
		usage, done = "/unzakrep <listing number>", "unpinned"
	}
	id, bad := parseID(ev.Data, usage)
	if bad != nil {
		return bad, nil
	}
	ok, err := s.store.SetPinned(ctx, id, pinned)
	if err != nil {
		return nil, fmt.Errorf("set pinned %d: %w", id, err)
	}
	if !ok {
		return []Reply{text(fmt.Sprintf("Listing #%d not found.", id))}, nil
	}
	logger.LogEvent(ctx, logger.Market, slog.LevelInfo, "listing."+done, slog.Int64("listing_id", id))
	return []Reply{text(fmt.Sprintf("Listing #%d %s.", id, done))}, nil
}
