package normalize

import (
	"regexp"

	"github.com/mnfst/outreach/internal/models"
)

// Channel names, as stored in a contact's availableChannels.
const (
	ChannelEmail     = "email"
	ChannelPhone     = "phone"
	ChannelLinkedIn  = "linkedin"
	ChannelInstagram = "instagram"
	ChannelFacebook  = "facebook"
	ChannelTwitter   = "twitter"
	ChannelTikTok    = "tiktok"
	ChannelWhatsApp  = "whatsapp"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^(?:\+\d{1,3}[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})$`)
	// E.164: leading +, up to 15 digits, no punctuation.
	whatsappPattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	urlPattern      = regexp.MustCompile(`(?i)^https?://.+`)
)

// AvailableChannels returns the channels a contact can be reached on: a
// field must be present, not the "N/A" placeholder, and well-formed for
// its channel. Order is fixed so derivation is deterministic.
func AvailableChannels(c *models.Contact) models.StringList {
	var channels models.StringList

	if valid(c.Email, emailPattern) {
		channels = append(channels, ChannelEmail)
	}
	if valid(c.Phone, phonePattern) {
		channels = append(channels, ChannelPhone)
	}
	if valid(c.LinkedIn, urlPattern) {
		channels = append(channels, ChannelLinkedIn)
	}
	if valid(c.Instagram, urlPattern) {
		channels = append(channels, ChannelInstagram)
	}
	if valid(c.Facebook, urlPattern) {
		channels = append(channels, ChannelFacebook)
	}
	if valid(c.Twitter, urlPattern) {
		channels = append(channels, ChannelTwitter)
	}
	if valid(c.TikTok, urlPattern) {
		channels = append(channels, ChannelTikTok)
	}
	if valid(c.WhatsApp, whatsappPattern) {
		channels = append(channels, ChannelWhatsApp)
	}

	return channels
}

func valid(value string, pattern *regexp.Regexp) bool {
	return value != "" && value != placeholder && pattern.MatchString(value)
}
