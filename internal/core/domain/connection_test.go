package domain

import (
	"testing"
	"time"
)

func TestTokenExpired_Buffer(t *testing.T) {
	buffer := 5 * time.Minute

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"already expired", time.Now().Add(-1 * time.Hour), true},
		{"expires within buffer", time.Now().Add(4 * time.Minute), true},
		{"expires just outside buffer", time.Now().Add(6 * time.Minute), false},
		{"far in the future", time.Now().Add(24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenExpired(tt.expiresAt, buffer); got != tt.want {
				t.Errorf("TokenExpired(%v) = %v, want %v", tt.expiresAt, got, tt.want)
			}
		})
	}
}

func TestConnection_Status(t *testing.T) {
	active := &Connection{
		ID:       "conn-1",
		Platform: PlatformTwitter,
		IsActive: true,
		// Stale diagnostics must not leak into an active status
		LastError:  "old failure",
		ErrorCount: 3,
	}
	status := active.Status()
	if status.State != StateActive {
		t.Errorf("Status().State = %s, want %s", status.State, StateActive)
	}
	if status.Reason != "" || status.FailureCount != 0 {
		t.Errorf("active status carries failure info: %+v", status)
	}

	inactive := &Connection{
		ID:         "conn-2",
		Platform:   PlatformFacebook,
		IsActive:   false,
		LastError:  "refresh rejected",
		ErrorCount: 2,
	}
	status = inactive.Status()
	if status.State != StateInactive {
		t.Errorf("Status().State = %s, want %s", status.State, StateInactive)
	}
	if status.Reason != "refresh rejected" {
		t.Errorf("Status().Reason = %q, want %q", status.Reason, "refresh rejected")
	}
	if status.FailureCount != 2 {
		t.Errorf("Status().FailureCount = %d, want 2", status.FailureCount)
	}
}

func TestParsePlatform(t *testing.T) {
	for _, p := range AllPlatforms {
		got, err := ParsePlatform(string(p))
		if err != nil {
			t.Errorf("ParsePlatform(%q) error = %v", p, err)
		}
		if got != p {
			t.Errorf("ParsePlatform(%q) = %q", p, got)
		}
	}

	if _, err := ParsePlatform("myspace"); err == nil {
		t.Error("ParsePlatform(myspace) expected error")
	}
}

func TestConnection_ToSummary_NoSecrets(t *testing.T) {
	now := time.Now()
	conn := &Connection{
		ID:             "conn-1",
		Platform:       PlatformLinkedIn,
		AccountName:    "Acme Inc",
		AccessToken:    "ciphertext-a",
		RefreshToken:   "ciphertext-r",
		TokenExpiresAt: now.Add(time.Hour),
		IsActive:       true,
		UpdatedAt:      now,
	}

	summary := conn.ToSummary()
	if summary.ID != "conn-1" || summary.Platform != PlatformLinkedIn {
		t.Errorf("unexpected summary identity: %+v", summary)
	}
	if summary.Status.State != StateActive {
		t.Errorf("summary status = %s, want active", summary.Status.State)
	}
	if summary.AccountName != "Acme Inc" {
		t.Errorf("summary account name = %q", summary.AccountName)
	}
}
