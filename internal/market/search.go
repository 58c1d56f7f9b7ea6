package market

import (
	"context"
	"fmt"
)

// SearchAll is the search_do payload that matches both actions.
const SearchAll = "all"

const (
	searchExpiredText = "This search has expired. Start a new one."
	noResultsText     = "No listings found."
	noFurtherText     = "No further listings."
	vanishedText      = "Listing not found. It may have been deleted."
)

// Search snapshots the ids matching f into ss and rewinds its cursor.
func (s *Service) Search(ctx context.Context, ss *SearchSession, f Filter) error {
	ls, err := s.store.ListListings(ctx, f, s.cfg.SearchLimit)
	if err != nil {
		return fmt.Errorf("list listings: %w", err)
	}
	ss.IDs = make([]int64, 0, len(ls))
	for _, l := range ls {
		ss.IDs = append(ss.IDs, l.ID)
	}
	ss.Cursor = 0
	return nil
}

// Current loads the listing under the cursor. It returns nil, nil when the
// listing was deleted after the search ran.
func (s *Service) Current(ctx context.Context, ss SearchSession) (*Listing, error) {
	id, ok := ss.CurrentID()
	if !ok {
		return nil, nil
	}
	l, err := s.store.GetListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing %d: %w", id, err)
	}
	return l, nil
}

func (s *Service) searchServerPrompt(sess *Session) []Reply {
	sess.Search = SearchSession{}
	rows := make([][]Button, 0, len(Servers)+1)
	for _, srv := range Servers {
		rows = append(rows, []Button{{Text: srv, Unique: CallbackSearchServer, Data: srv}})
	}
	rows = append(rows, backButton())
	return []Reply{{Text: "Search. Choose a server:", Buttons: rows, Edit: true}}
}

func searchCategoryPrompt(ss SearchSession) []Reply {
	rows := make([][]Button, 0, len(Categories)+1)
	for _, cat := range Categories {
		rows = append(rows, []Button{{Text: cat, Unique: CallbackSearchCategory, Data: cat}})
	}
	rows = append(rows, backButton())
	msg := fmt.Sprintf("Search on %s. Choose a category:", ss.Server)
	return []Reply{{Text: msg, Buttons: rows, Edit: true}}
}

func searchActionPrompt(ss SearchSession) []Reply {
	msg := fmt.Sprintf("Server: %s\nCategory: %s\nWhat are you looking for?", ss.Server, ss.Category)
	return []Reply{{Text: msg, Edit: true, Buttons: [][]Button{
		{{Text: "All", Unique: CallbackSearchRun, Data: SearchAll}},
		{
			{Text: ActionSell.Label(), Unique: CallbackSearchRun, Data: string(ActionSell)},
			{Text: ActionBuy.Label(), Unique: CallbackSearchRun, Data: string(ActionBuy)},
		},
		backButton(),
	}}}
}

func (s *Service) searchExpired(sess *Session) []Reply {
	out := []Reply{text(searchExpiredText)}
	return append(out, s.searchServerPrompt(sess)...)
}

func (s *Service) handleSearchServer(_ context.Context, sess *Session, ev Event) ([]Reply, error) {
	if !IsServer(ev.Data) {
		return s.searchServerPrompt(sess), nil
	}
	sess.Search = SearchSession{Server: ev.Data}
	return searchCategoryPrompt(sess.Search), nil
}

func (s *Service) handleSearchCategory(_ context.Context, sess *Session, ev Event) ([]Reply, error) {
	if sess.Search.Server == "" {
		return s.searchExpired(sess), nil
	}
	if !IsCategory(ev.Data) {
		return searchCategoryPrompt(sess.Search), nil
	}
	sess.Search.Category = ev.Data
	sess.Search.IDs = nil
	sess.Search.Cursor = 0
	return searchActionPrompt(sess.Search), nil
}

func (s *Service) handleSearchRun(ctx context.Context, sess *Session, ev Event) ([]Reply, error) {
	if sess.Search.Server == "" || sess.Search.Category == "" {
		return s.searchExpired(sess), nil
	}
	f := Filter{Server: sess.Search.Server, Category: sess.Search.Category}
	if ev.Data != SearchAll {
		a, ok := ParseAction(ev.Data)
		if !ok {
			return searchActionPrompt(sess.Search), nil
		}
		f.Action = a
	}
	if err := s.Search(ctx, &sess.Search, f); err != nil {
		return nil, err
	}
	if len(sess.Search.IDs) == 0 {
		return s.withMenu(noResultsText), nil
	}
	return s.showCurrent(ctx, sess.Search)
}

func (s *Service) handleSearchNav(ctx context.Context, sess *Session, ev Event) ([]Reply, error) {
	if len(sess.Search.IDs) == 0 {
		return s.withMenu(searchExpiredText), nil
	}
	if !sess.Search.Advance(Direction(ev.Data)) {
		return []Reply{text(noFurtherText)}, nil
	}
	return s.showCurrent(ctx, sess.Search)
}

func (s *Service) showCurrent(ctx context.Context, ss SearchSession) ([]Reply, error) {
	l, err := s.Current(ctx, ss)
	if err != nil {
		return nil, err
	}
	rows := s.navRows(ss)
	if l == nil {
		return []Reply{text(vanishedText, rows...)}, nil
	}
	msg := fmt.Sprintf("Result %d of %d\n\n%s", ss.Cursor+1, len(ss.IDs), Format(*l))
	out := []Reply{text(msg, rows...)}
	if len(l.Photos) > 0 {
		out = append(out, Reply{Photos: l.Photos})
	}
	return out, nil
}

func (s *Service) navRows(ss SearchSession) [][]Button {
	var nav []Button
	if ss.HasPrev() {
		nav = append(nav, Button{Text: "⬅️ Prev", Unique: CallbackSearchNav, Data: string(DirPrev)})
	}
	if ss.HasNext() {
		nav = append(nav, Button{Text: "Next ➡️", Unique: CallbackSearchNav, Data: string(DirNext)})
	}
	var rows [][]Button
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	return append(rows,
		[]Button{{Text: "Report / Support", URL: s.cfg.SupportURL}},
		[]Button{{Text: "🏠 Menu", Unique: CallbackMenu, Data: MenuBack}},
	)
}
