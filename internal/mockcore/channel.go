package mockcore

import "github.com/mssola/useragent"

// Registration channels recorded on the customer.
const (
	ChannelAPI    = "api"
	ChannelMobile = "mobile"
	ChannelWeb    = "web"
)

// channelFromUserAgent classifies the client that registered a customer.
func channelFromUserAgent(raw string) string {
	if raw == "" {
		return ChannelAPI
	}
	ua := useragent.New(raw)
	switch {
	case ua.Bot():
		return ChannelAPI
	case ua.Mobile():
		return ChannelMobile
	default:
		return ChannelWeb
	}
}
