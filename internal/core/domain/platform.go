package domain

import "fmt"

// Platform identifies a connected social network
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformYouTube   Platform = "youtube"
	PlatformPinterest Platform = "pinterest"
)

// AllPlatforms lists every supported platform in display order.
var AllPlatforms = []Platform{
	PlatformFacebook,
	PlatformTwitter,
	PlatformInstagram,
	PlatformLinkedIn,
	PlatformYouTube,
	PlatformPinterest,
}

// ParsePlatform validates a platform identifier.
// Returns ErrUnsupportedPlatform for anything outside the known set.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	switch p {
	case PlatformFacebook, PlatformTwitter, PlatformInstagram,
		PlatformLinkedIn, PlatformYouTube, PlatformPinterest:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, s)
}

// DisplayName returns a human-readable name for a platform.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformFacebook:
		return "Facebook"
	case PlatformTwitter:
		return "X (Twitter)"
	case PlatformInstagram:
		return "Instagram"
	case PlatformLinkedIn:
		return "LinkedIn"
	case PlatformYouTube:
		return "YouTube"
	case PlatformPinterest:
		return "Pinterest"
	default:
		return string(p)
	}
}

// ProviderConfig is the immutable OAuth endpoint and credential bundle
// for one platform. Built once at startup, safe for concurrent reads.
type ProviderConfig struct {
	Platform Platform

	// OAuth endpoints
	AuthURL    string
	TokenURL   string
	ProfileURL string

	// Scope is the space- or comma-separated scope string the platform expects.
	Scope string

	// App credentials
	ClientID     string
	ClientSecret string

	// RedirectURI is the callback the authorization flow registered with the app.
	RedirectURI string
}

// IsConfigured reports whether client credentials are present.
func (c ProviderConfig) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
