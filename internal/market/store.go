package market

import "context"

// Store persists users and listings. Lookups return nil, nil when the row
// does not exist.
type Store interface {
	EnsureUser(ctx context.Context, id int64, handle string) error
	SetVIP(ctx context.Context, id int64, vip bool) error
	GetUser(ctx context.Context, id int64) (*User, error)

	AddListing(ctx context.Context, l NewListing) (int64, error)
	GetListing(ctx context.Context, id int64) (*Listing, error)
	DeleteListing(ctx context.Context, id int64) (bool, error)
	// ListListings orders pinned first, then newest first.
	ListListings(ctx context.Context, f Filter, limit int) ([]Listing, error)
	ListUserListings(ctx context.Context, owner int64) ([]Listing, error)
	// SetPinned reports whether the listing exists.
	SetPinned(ctx context.Context, id int64, pinned bool) (bool, error)
}

// MembershipChecker tells whether a user has joined the announcement channel.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID int64) (bool, error)
}
