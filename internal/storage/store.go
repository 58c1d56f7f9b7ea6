// Package storage persists users and listings with sqlx on Postgres or
// SQLite. Queries use '?' bindvars and are rebound for the open driver.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/marketbot/core/logger"
	"github.com/m3rciful/marketbot/internal/market"
)

// Store implements market.Store.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ market.Store = (*Store)(nil)

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the source of created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New wraps an open, migrated database.
func New(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type userRow struct {
	ID     int64  `db:"user_id"`
	Handle string `db:"handle"`
	VIP    bool   `db:"vip"`
}

type listingRow struct {
	ID        int64  `db:"id"`
	Owner     int64  `db:"owner"`
	Handle    string `db:"handle"`
	Server    string `db:"server"`
	Category  string `db:"category"`
	Type      string `db:"type"`
	Action    string `db:"action"`
	Fields    string `db:"fields"`
	Photos    string `db:"photos"`
	VIP       bool   `db:"vip"`
	Pinned    bool   `db:"pinned"`
	CreatedAt int64  `db:"created_at"`
}

const listingColumns = `id, owner, handle, server, category, type, action, fields, photos, vip, pinned, created_at`

func (r listingRow) listing() (market.Listing, error) {
	l := market.Listing{
		ID:        r.ID,
		Owner:     r.Owner,
		Handle:    r.Handle,
		Server:    r.Server,
		Category:  r.Category,
		Type:      market.ListingType(r.Type),
		Action:    market.Action(r.Action),
		VIP:       r.VIP,
		Pinned:    r.Pinned,
		CreatedAt: r.CreatedAt,
	}
	if err := json.Unmarshal([]byte(r.Fields), &l.Fields); err != nil {
		return l, fmt.Errorf("decode fields of listing %d: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.Photos), &l.Photos); err != nil {
		return l, fmt.Errorf("decode photos of listing %d: %w", r.ID, err)
	}
	return l, nil
}

// EnsureUser inserts the user or refreshes a changed handle.
func (s *Store) EnsureUser(ctx context.Context, id int64, handle string) error {
	const q = `INSERT INTO users (user_id, handle) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET handle = excluded.handle
		WHERE users.handle <> excluded.handle`
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(q), id, handle); err != nil {
		return fmt.Errorf("ensure user %d: %w", id, err)
	}
	return nil
}

// SetVIP upserts the user's VIP flag.
func (s *Store) SetVIP(ctx context.Context, id int64, vip bool) error {
	const q = `INSERT INTO users (user_id, vip) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET vip = excluded.vip`
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(q), id, vip); err != nil {
		return fmt.Errorf("set vip %d: %w", id, err)
	}
	return nil
}

// GetUser returns nil, nil for an unknown user.
func (s *Store) GetUser(ctx context.Context, id int64) (*market.User, error) {
	const q = `SELECT user_id, handle, vip FROM users WHERE user_id = ?`
	var row userRow
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(q), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &market.User{ID: row.ID, Handle: row.Handle, VIP: row.VIP}, nil
}

// AddListing stores a new listing and returns its id. Photos past
// market.MaxPhotos are dropped.
func (s *Store) AddListing(ctx context.Context, nl market.NewListing) (int64, error) {
	photos := nl.Photos
	if len(photos) > market.MaxPhotos {
		logger.LogEvent(ctx, logger.Store, slog.LevelWarn, "listing.photos_truncated",
			slog.Int("photos", len(photos)),
			slog.Int("kept", market.MaxPhotos),
		)
		photos = photos[:market.MaxPhotos]
	}
	if photos == nil {
		photos = []string{}
	}
	fields := nl.Fields
	if fields == nil {
		fields = market.Fields{}
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return 0, fmt.Errorf("encode fields: %w", err)
	}
	photosJSON, err := json.Marshal(photos)
	if err != nil {
		return 0, fmt.Errorf("encode photos: %w", err)
	}

	const q = `INSERT INTO listings (owner, handle, server, category, type, action, fields, photos, vip, pinned, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`
	var id int64
	err = s.db.QueryRowxContext(ctx, s.db.Rebind(q),
		nl.Owner, nl.Handle, nl.Server, nl.Category, string(nl.Type), string(nl.Action),
		string(fieldsJSON), string(photosJSON), nl.VIP, false, s.now().Unix(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert listing: %w", err)
	}
	logger.LogEvent(ctx, logger.Store, slog.LevelDebug, "listing.inserted",
		slog.Int64("listing_id", id),
		slog.Int("photos", len(photos)),
	)
	return id, nil
}

// GetListing returns nil, nil for an unknown id.
func (s *Store) GetListing(ctx context.Context, id int64) (*market.Listing, error) {
	q := `SELECT ` + listingColumns + ` FROM listings WHERE id = ?`
	var row listingRow
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(q), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing %d: %w", id, err)
	}
	l, err := row.listing()
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteListing reports whether a row was removed.
func (s *Store) DeleteListing(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM listings WHERE id = ?`
	res, err := s.db.ExecContext(ctx, s.db.Rebind(q), id)
	if err != nil {
		return false, fmt.Errorf("delete listing %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete listing %d: %w", id, err)
	}
	return n > 0, nil
}

// ListListings returns at most limit listings matching f, pinned first and
// newest first. limit <= 0 means no limit.
func (s *Store) ListListings(ctx context.Context, f market.Filter, limit int) ([]market.Listing, error) {
	var (
		where []string
		args  []any
	)
	if f.Server != "" {
		where = append(where, "server = ?")
		args = append(args, f.Server)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Action != "" {
		where = append(where, "action = ?")
		args = append(args, string(f.Action))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + listingColumns + ` FROM listings`)
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY pinned DESC, created_at DESC, id DESC")
	if limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	return s.selectListings(ctx, b.String(), args...)
}

// ListUserListings returns the owner's listings, newest first.
func (s *Store) ListUserListings(ctx context.Context, owner int64) ([]market.Listing, error) {
	q := `SELECT ` + listingColumns + ` FROM listings WHERE owner = ? ORDER BY created_at DESC, id DESC`
	return s.selectListings(ctx, q, owner)
}

// SetPinned reports whether the listing exists.
func (s *Store) SetPinned(ctx context.Context, id int64, pinned bool) (bool, error) {
	const q = `UPDATE listings SET pinned = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, s.db.Rebind(q), pinned, id)
	if err != nil {
		return false, fmt.Errorf("set pinned %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set pinned %d: %w", id, err)
	}
	return n > 0, nil
}

func (s *Store) selectListings(ctx context.Context, q string, args ...any) ([]market.Listing, error) {
	var rows []listingRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("select listings: %w", err)
	}
	out := make([]market.Listing, 0, len(rows))
	for _, r := range rows {
		l, err := r.listing()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
