package providers

import (
	"errors"
	"testing"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
)

func TestRegistry_ConfigFor(t *testing.T) {
	r := NewRegistry(map[domain.Platform]Credentials{
		domain.PlatformTwitter: {
			ClientID:     "tw-client",
			ClientSecret: "tw-secret",
			RedirectURI:  "https://app.example.com/callback/twitter",
		},
	})

	cfg, err := r.ConfigFor(domain.PlatformTwitter)
	if err != nil {
		t.Fatalf("ConfigFor(twitter) error = %v", err)
	}
	if cfg.TokenURL != "https://api.twitter.com/2/oauth2/token" {
		t.Errorf("token URL = %q", cfg.TokenURL)
	}
	if cfg.ClientID != "tw-client" || cfg.ClientSecret != "tw-secret" {
		t.Errorf("credentials not applied: %+v", cfg)
	}
	if !cfg.IsConfigured() {
		t.Error("expected twitter to be configured")
	}
}

func TestRegistry_AllPlatformsResolvable(t *testing.T) {
	r := NewRegistry(nil)

	for _, platform := range domain.AllPlatforms {
		cfg, err := r.ConfigFor(platform)
		if err != nil {
			t.Errorf("ConfigFor(%s) error = %v", platform, err)
			continue
		}
		if cfg.AuthURL == "" || cfg.TokenURL == "" || cfg.ProfileURL == "" {
			t.Errorf("%s has incomplete endpoints: %+v", platform, cfg)
		}
		if cfg.IsConfigured() {
			t.Errorf("%s should not be configured without credentials", platform)
		}
	}
}

func TestRegistry_UnknownPlatform(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.ConfigFor(domain.Platform("myspace"))
	if !errors.Is(err, domain.ErrUnsupportedPlatform) {
		t.Errorf("ConfigFor(myspace) = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestRegistry_Configured(t *testing.T) {
	r := NewRegistry(map[domain.Platform]Credentials{
		domain.PlatformFacebook:  {ClientID: "fb", ClientSecret: "s1"},
		domain.PlatformPinterest: {ClientID: "pin", ClientSecret: "s2"},
		domain.PlatformLinkedIn:  {ClientID: "li"}, // missing secret
	})

	got := r.Configured()
	want := []domain.Platform{domain.PlatformFacebook, domain.PlatformPinterest}
	if len(got) != len(want) {
		t.Fatalf("Configured() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Configured()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
