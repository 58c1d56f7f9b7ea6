package market

import (
	"fmt"
	"strings"
)

// DefaultSearchLimit caps how many listings one search snapshots.
const DefaultSearchLimit = 100

// Config holds the marketplace texts and switches.
type Config struct {
	// ChannelUsername is the channel users must join before publishing.
	// Empty disables the check.
	ChannelUsername string `yaml:"channel_username" envconfig:"CHANNEL_USERNAME"`
	SupportContact  string `yaml:"support_contact" envconfig:"SUPPORT_CONTACT"`
	SupportURL      string `yaml:"support_url" envconfig:"SUPPORT_URL"`

	VIPPrice         string `yaml:"vip_price"`
	PinPrice         string `yaml:"pin_price"`
	LifetimeVIPPrice string `yaml:"lifetime_vip_price"`

	SearchLimit int `yaml:"search_limit"`
	// PrivilegedAdminOnly restricts /vipp, /deleted, /zakrepp and /unzakrep
	// to telegram.admin_id.
	PrivilegedAdminOnly bool `yaml:"privileged_admin_only" envconfig:"PRIVILEGED_ADMIN_ONLY"`
}

// Normalize fills defaults and validates the section.
func (c *Config) Normalize() error {
	c.ChannelUsername = strings.TrimSpace(c.ChannelUsername)
	if c.ChannelUsername != "" && !strings.HasPrefix(c.ChannelUsername, "@") {
		c.ChannelUsername = "@" + c.ChannelUsername
	}
	if c.SupportContact == "" {
		c.SupportContact = "@support"
	}
	if !strings.HasPrefix(c.SupportContact, "@") {
		c.SupportContact = "@" + c.SupportContact
	}
	if c.SupportURL == "" {
		c.SupportURL = "https://t.me/" + strings.TrimPrefix(c.SupportContact, "@")
	}
	if !strings.HasPrefix(c.SupportURL, "https://") && !strings.HasPrefix(c.SupportURL, "http://") {
		return fmt.Errorf("market.support_url must be an http(s) URL, got %q", c.SupportURL)
	}
	if c.VIPPrice == "" {
		c.VIPPrice = "25₽"
	}
	if c.PinPrice == "" {
		c.PinPrice = "15₽"
	}
	if c.LifetimeVIPPrice == "" {
		c.LifetimeVIPPrice = "50₽"
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = DefaultSearchLimit
	}
	return nil
}
