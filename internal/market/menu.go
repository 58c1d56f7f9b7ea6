package market

import (
	"context"
	"fmt"
	"strings"
)

// Payloads of the menu callback.
const (
	MenuSell     = "sell"
	MenuBuy      = "buy"
	MenuSearch   = "search"
	MenuProfile  = "profile"
	MenuVIP      = "vip"
	MenuServices = "services"
	MenuBack     = "back"
)

const (
	greetingText = "Welcome! Here you can quickly sell or buy cars, accessories, real estate, " +
		"businesses, SIM cards and license plates.\n\nYou can attach photos of the item before publishing."
	unknownText = "Unknown command. Use the menu below."
)

func backButton() []Button {
	return []Button{{Text: "⬅️ Back", Unique: CallbackMenu, Data: MenuBack}}
}

// MainMenu is the keyboard shown under the greeting.
func (s *Service) MainMenu() [][]Button {
	return [][]Button{
		{
			{Text: "Sell", Unique: CallbackMenu, Data: MenuSell},
			{Text: "Buy", Unique: CallbackMenu, Data: MenuBuy},
		},
		{
			{Text: "🔎 Search", Unique: CallbackMenu, Data: MenuSearch},
			{Text: "👤 Profile", Unique: CallbackMenu, Data: MenuProfile},
		},
		{
			{Text: "VIP / Subscription", Unique: CallbackMenu, Data: MenuVIP},
			{Text: "Services", Unique: CallbackMenu, Data: MenuServices},
		},
		{{Text: "Support", URL: s.cfg.SupportURL}},
	}
}

func (s *Service) withMenu(msg string) []Reply {
	return []Reply{text(msg, s.MainMenu()...)}
}

func (s *Service) handleStart(context.Context, *Session, Event) ([]Reply, error) {
	return s.withMenu(greetingText), nil
}

func (s *Service) handleMenu(ctx context.Context, sess *Session, ev Event) ([]Reply, error) {
	switch ev.Data {
	case MenuSell, MenuBuy:
		return s.startWizard(sess, Action(ev.Data)), nil
	}
	sess.ResetWizard()
	switch ev.Data {
	case MenuSearch:
		return s.searchServerPrompt(sess), nil
	case MenuProfile:
		return s.profile(ctx, ev.UserID)
	case MenuVIP:
		return s.vipScreen(), nil
	case MenuServices:
		return s.servicesScreen(), nil
	}
	r := text(greetingText, s.MainMenu()...)
	r.Edit = ev.Data == MenuBack
	return []Reply{r}, nil
}

func (s *Service) profile(ctx context.Context, userID int64) ([]Reply, error) {
	ls, err := s.store.ListUserListings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user listings: %w", err)
	}
	if len(ls) == 0 {
		return s.withMenu("You have no active listings."), nil
	}
	lines := make([]string, 0, len(ls))
	for _, l := range ls {
		lines = append(lines, FormatSummary(l))
	}
	msg := "Your listings:\n\n" + strings.Join(lines, "\n") + "\n\nDelete one with /del <number>."
	return s.withMenu(msg), nil
}

func (s *Service) vipScreen() []Reply {
	msg := fmt.Sprintf("VIP: with a VIP subscription your listings are shown to every bot user after publishing.\n"+
		"Price: %s forever.\n\nTo buy, message %s.", s.cfg.VIPPrice, s.cfg.SupportContact)
	return s.withMenu(msg)
}

func (s *Service) servicesScreen() []Reply {
	msg := fmt.Sprintf("1. Pin a listing for 24h: %s.\nThe listing stays on top of every search.\n\n"+
		"2. Lifetime VIP: %s.\nAll your listings are shown to every bot user.\n\nTo order, message %s.",
		s.cfg.PinPrice, s.cfg.LifetimeVIPPrice, s.cfg.SupportContact)
	return []Reply{text(msg, backButton())}
}

func (s *Service) handleUnknown(context.Context, *Session, Event) ([]Reply, error) {
	return s.withMenu(unknownText), nil
}
