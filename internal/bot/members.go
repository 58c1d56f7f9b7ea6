package bot

import (
	"context"
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"
)

var errNoBot = errors.New("membership: bot not started")

// chatAPI is the slice of *tele.Bot used for membership lookups.
type chatAPI interface {
	ChatByUsername(name string) (*tele.Chat, error)
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

// channelMembers checks that a user has joined the announcement channel.
// Errors are returned as is; the service treats them as membership.
type channelMembers struct {
	channel string
	api     chatAPI
}

func (m *channelMembers) IsMember(_ context.Context, userID int64) (bool, error) {
	if m.channel == "" {
		return true, nil
	}
	if m.api == nil {
		return false, errNoBot
	}
	chat, err := m.api.ChatByUsername(m.channel)
	if err != nil {
		return false, fmt.Errorf("resolve channel %s: %w", m.channel, err)
	}
	member, err := m.api.ChatMemberOf(chat, &tele.User{ID: userID})
	if err != nil {
		return false, fmt.Errorf("chat member %d: %w", userID, err)
	}
	switch member.Role {
	case tele.Left, tele.Kicked:
		return false, nil
	}
	return true, nil
}
