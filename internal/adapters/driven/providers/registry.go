package providers

import (
	"fmt"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
	"github.com/brandloop-labs/brandloop-core/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ProviderRegistry = (*Registry)(nil)

// Credentials holds the app-level OAuth credentials for one platform.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// endpoints are the static OAuth endpoint URLs and scope per platform.
// Credentials are injected at construction; everything else is fixed.
var endpoints = map[domain.Platform]domain.ProviderConfig{
	domain.PlatformFacebook: {
		Platform:   domain.PlatformFacebook,
		AuthURL:    "https://www.facebook.com/v18.0/dialog/oauth",
		TokenURL:   "https://graph.facebook.com/v18.0/oauth/access_token",
		ProfileURL: "https://graph.facebook.com/v18.0/me",
		Scope:      "pages_show_list,pages_manage_posts,pages_read_engagement",
	},
	domain.PlatformTwitter: {
		Platform:   domain.PlatformTwitter,
		AuthURL:    "https://twitter.com/i/oauth2/authorize",
		TokenURL:   "https://api.twitter.com/2/oauth2/token",
		ProfileURL: "https://api.twitter.com/2/users/me",
		Scope:      "tweet.read tweet.write users.read offline.access",
	},
	domain.PlatformInstagram: {
		Platform:   domain.PlatformInstagram,
		AuthURL:    "https://api.instagram.com/oauth/authorize",
		TokenURL:   "https://api.instagram.com/oauth/access_token",
		ProfileURL: "https://graph.instagram.com/me",
		Scope:      "user_profile,user_media",
	},
	domain.PlatformLinkedIn: {
		Platform:   domain.PlatformLinkedIn,
		AuthURL:    "https://www.linkedin.com/oauth/v2/authorization",
		TokenURL:   "https://www.linkedin.com/oauth/v2/accessToken",
		ProfileURL: "https://api.linkedin.com/v2/userinfo",
		Scope:      "openid profile w_member_social",
	},
	domain.PlatformYouTube: {
		Platform:   domain.PlatformYouTube,
		AuthURL:    "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:   "https://oauth2.googleapis.com/token",
		ProfileURL: "https://www.googleapis.com/youtube/v3/channels",
		Scope:      "https://www.googleapis.com/auth/youtube.upload https://www.googleapis.com/auth/youtube.readonly",
	},
	domain.PlatformPinterest: {
		Platform:   domain.PlatformPinterest,
		AuthURL:    "https://www.pinterest.com/oauth/",
		TokenURL:   "https://api.pinterest.com/v5/oauth/token",
		ProfileURL: "https://api.pinterest.com/v5/user_account",
		Scope:      "boards:read,pins:read,pins:write",
	},
}

// Registry resolves per-platform provider configuration.
// Built once at startup, safe for concurrent reads.
type Registry struct {
	configs map[domain.Platform]domain.ProviderConfig
}

// NewRegistry builds a registry from per-platform credentials.
// Platforms without credentials are still resolvable; callers can check
// IsConfigured when they need working app credentials.
func NewRegistry(creds map[domain.Platform]Credentials) *Registry {
	configs := make(map[domain.Platform]domain.ProviderConfig, len(endpoints))
	for platform, cfg := range endpoints {
		if c, ok := creds[platform]; ok {
			cfg.ClientID = c.ClientID
			cfg.ClientSecret = c.ClientSecret
			cfg.RedirectURI = c.RedirectURI
		}
		configs[platform] = cfg
	}
	return &Registry{configs: configs}
}

// ConfigFor returns the provider config for a platform.
func (r *Registry) ConfigFor(platform domain.Platform) (domain.ProviderConfig, error) {
	cfg, ok := r.configs[platform]
	if !ok {
		return domain.ProviderConfig{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedPlatform, platform)
	}
	return cfg, nil
}

// Configured returns the platforms with app credentials present,
// in display order.
func (r *Registry) Configured() []domain.Platform {
	var out []domain.Platform
	for _, platform := range domain.AllPlatforms {
		if cfg, ok := r.configs[platform]; ok && cfg.IsConfigured() {
			out = append(out, platform)
		}
	}
	return out
}
