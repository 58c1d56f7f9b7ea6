package market

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/marketbot/core/telegram/state"
)

type memStore struct {
	mu       sync.Mutex
	users    map[int64]*User
	listings map[int64]*Listing
	nextID   int64
	clock    int64

	addErr    error
	ensureErr error
}

func newMemStore() *memStore {
	return &memStore{users: map[int64]*User{}, listings: map[int64]*Listing{}}
}

func (m *memStore) EnsureUser(_ context.Context, id int64, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ensureErr != nil {
		return m.ensureErr
	}
	if u, ok := m.users[id]; ok {
		u.Handle = handle
		return nil
	}
	m.users[id] = &User{ID: id, Handle: handle}
	return nil
}

func (m *memStore) SetVIP(_ context.Context, id int64, vip bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.VIP = vip
		return nil
	}
	m.users[id] = &User{ID: id, VIP: vip}
	return nil
}

func (m *memStore) GetUser(_ context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) AddListing(_ context.Context, nl NewListing) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return 0, m.addErr
	}
	m.nextID++
	m.clock++
	m.listings[m.nextID] = &Listing{
		ID: m.nextID, Owner: nl.Owner, Handle: nl.Handle, Server: nl.Server,
		Category: nl.Category, Type: nl.Type, Action: nl.Action,
		Fields: slices.Clone(nl.Fields), Photos: slices.Clone(nl.Photos),
		VIP: nl.VIP, CreatedAt: m.clock,
	}
	return m.nextID, nil
}

func (m *memStore) GetListing(_ context.Context, id int64) (*Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *memStore) DeleteListing(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.listings[id]
	delete(m.listings, id)
	return ok, nil
}

func (m *memStore) sorted(keep func(*Listing) bool) []Listing {
	var out []Listing
	for _, l := range m.listings {
		if keep(l) {
			out = append(out, *l)
		}
	}
	slices.SortFunc(out, func(a, b Listing) int {
		switch {
		case a.Pinned != b.Pinned:
			if a.Pinned {
				return -1
			}
			return 1
		case a.CreatedAt != b.CreatedAt:
			return int(b.CreatedAt - a.CreatedAt)
		}
		return int(b.ID - a.ID)
	})
	return out
}

func (m *memStore) ListListings(_ context.Context, f Filter, limit int) ([]Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted(func(l *Listing) bool {
		return (f.Server == "" || l.Server == f.Server) &&
			(f.Category == "" || l.Category == f.Category) &&
			(f.Action == "" || l.Action == f.Action)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) ListUserListings(_ context.Context, owner int64) ([]Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(l *Listing) bool { return l.Owner == owner }), nil
}

func (m *memStore) SetPinned(_ context.Context, id int64, pinned bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if ok {
		l.Pinned = pinned
	}
	return ok, nil
}

type stubMembers struct {
	member bool
	err    error
	calls  int
}

func (s *stubMembers) IsMember(context.Context, int64) (bool, error) {
	s.calls++
	return s.member, s.err
}

var errBoom = errors.New("boom")

const (
	testUser   int64 = 42
	testHandle       = "seller"
)

type harness struct {
	t        *testing.T
	svc      *Service
	store    *memStore
	members  *stubMembers
	sessions *state.Store[Session]
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := Config{ChannelUsername: "market_channel"}
	require.NoError(t, cfg.Normalize())
	h := &harness{
		t:        t,
		store:    newMemStore(),
		members:  &stubMembers{member: true},
		sessions: state.NewStore[Session](),
	}
	h.svc = NewService(h.store, h.members, h.sessions, cfg)
	return h
}

func (h *harness) send(kind EventKind, data string) []Reply {
	h.t.Helper()
	return h.sendAs(testUser, kind, data)
}

func (h *harness) sendAs(user int64, kind EventKind, data string) []Reply {
	h.t.Helper()
	replies, err := h.svc.Handle(context.Background(), Event{Kind: kind, UserID: user, Handle: testHandle, Data: data})
	require.NoError(h.t, err)
	require.NotEmpty(h.t, replies)
	return replies
}

func (h *harness) session() Session {
	sess, _ := h.sessions.Get(testUser)
	return sess
}

// seed adds one listing straight to the store.
func (h *harness) seed(owner int64, server, category string, action Action) int64 {
	h.t.Helper()
	id, err := h.store.AddListing(context.Background(), NewListing{
		Owner: owner, Handle: "owner", Server: server, Category: category,
		Type: TypeStandard, Action: action,
		Fields: Fields{{Question: "Price", Answer: "100"}},
	})
	require.NoError(h.t, err)
	return id
}

func buttons(r Reply) []Button {
	var out []Button
	for _, row := range r.Buttons {
		out = append(out, row...)
	}
	return out
}

func hasButton(r Reply, unique, data string) bool {
	return slices.ContainsFunc(buttons(r), func(b Button) bool {
		return b.Unique == unique && b.Data == data
	})
}
