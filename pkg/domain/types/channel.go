package types

import "fmt"

// Channel is the source a report arrived through
type Channel string

const (
	ChannelWeb       Channel = "web"
	ChannelInstagram Channel = "instagram"
	ChannelFacebook  Channel = "facebook"
	ChannelWhatsApp  Channel = "whatsapp"
	ChannelEmail     Channel = "email"
	ChannelPhone     Channel = "phone"
	ChannelSlack     Channel = "slack"
)

// IsExternal reports whether reports from the channel come from outside the
// tenant's authenticated users
func (c Channel) IsExternal() bool {
	switch c {
	case ChannelInstagram, ChannelFacebook, ChannelWhatsApp, ChannelEmail, ChannelPhone, ChannelSlack:
		return true
	default:
		return false
	}
}

// String returns the string representation of the channel
func (c Channel) String() string {
	return string(c)
}

// ParseChannel parses an external channel name
func ParseChannel(s string) (Channel, error) {
	c := Channel(s)
	if !c.IsExternal() {
		return "", fmt.Errorf("unknown channel: %s", s)
	}
	return c, nil
}
