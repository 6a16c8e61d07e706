package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
	"github.com/brandloop-labs/brandloop-core/internal/core/ports/driven/mocks"
)

// recordingTokenService records which connections were refreshed.
type recordingTokenService struct {
	mu        sync.Mutex
	refreshed []string
	failFor   map[string]error
}

func newRecordingTokenService() *recordingTokenService {
	return &recordingTokenService{failFor: make(map[string]error)}
}

func (s *recordingTokenService) GetValidAccessToken(ctx context.Context, id string) (string, error) {
	return "", errors.New("not used by the refresher")
}

func (s *recordingTokenService) RefreshConnection(ctx context.Context, id string) (*domain.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[id]; ok {
		return nil, err
	}
	s.refreshed = append(s.refreshed, id)
	return &domain.Connection{ID: id, IsActive: true}, nil
}

func (s *recordingTokenService) GetConnection(ctx context.Context, id string) (*domain.ConnectionSummary, error) {
	return nil, errors.New("not used by the refresher")
}

func (s *recordingTokenService) refreshedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.refreshed...)
}

func seedConnection(store *mocks.MockConnectionStore, id string, expiresIn time.Duration, hasRefresh bool) {
	refresh := ""
	if hasRefresh {
		refresh = "enc:refresh-" + id
	}
	store.Seed(&domain.Connection{
		ID:             id,
		Platform:       domain.PlatformTwitter,
		AccessToken:    "enc:access-" + id,
		RefreshToken:   refresh,
		TokenExpiresAt: time.Now().Add(expiresIn),
		IsActive:       true,
	})
}

func TestRefresher_Sweep(t *testing.T) {
	store := mocks.NewMockConnectionStore()
	tokens := newRecordingTokenService()

	seedConnection(store, "expiring-1", 2*time.Minute, true)
	seedConnection(store, "expiring-2", 5*time.Minute, true)
	seedConnection(store, "fresh", 48*time.Hour, true)

	r := NewRefresher(RefresherConfig{
		Store:  store,
		Tokens: tokens,
		Window: 10 * time.Minute,
	})

	stats := r.Sweep(context.Background())

	if stats.Scanned != 2 {
		t.Errorf("Scanned = %d, want 2", stats.Scanned)
	}
	if stats.Refreshed != 2 {
		t.Errorf("Refreshed = %d, want 2", stats.Refreshed)
	}

	ids := tokens.refreshedIDs()
	if len(ids) != 2 {
		t.Fatalf("refreshed %v, want two connections", ids)
	}
	for _, id := range ids {
		if id == "fresh" {
			t.Error("fresh connection should not be refreshed")
		}
	}
}

func TestRefresher_Sweep_SkipsWithoutRefreshToken(t *testing.T) {
	store := mocks.NewMockConnectionStore()
	tokens := newRecordingTokenService()

	seedConnection(store, "no-refresh", time.Minute, false)

	r := NewRefresher(RefresherConfig{Store: store, Tokens: tokens})

	stats := r.Sweep(context.Background())

	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
	if len(tokens.refreshedIDs()) != 0 {
		t.Errorf("refreshed = %v, want none", tokens.refreshedIDs())
	}
}

func TestRefresher_Sweep_CountsFailures(t *testing.T) {
	store := mocks.NewMockConnectionStore()
	tokens := newRecordingTokenService()
	tokens.failFor["bad"] = &domain.RefreshExchangeError{
		Platform: domain.PlatformTwitter,
		Detail:   "invalid_grant",
	}

	seedConnection(store, "bad", time.Minute, true)
	seedConnection(store, "good", time.Minute, true)

	r := NewRefresher(RefresherConfig{Store: store, Tokens: tokens})

	stats := r.Sweep(context.Background())

	if stats.Failed != 1 {
		t.Errorf("Failed = %d, want 1", stats.Failed)
	}
	if stats.Refreshed != 1 {
		t.Errorf("Refreshed = %d, want 1", stats.Refreshed)
	}
}

func TestRefresher_Sweep_SkipsWhenLockHeld(t *testing.T) {
	store := mocks.NewMockConnectionStore()
	tokens := newRecordingTokenService()
	lock := mocks.NewMockDistributedLock()
	lock.FailAcquire()

	seedConnection(store, "expiring", time.Minute, true)

	r := NewRefresher(RefresherConfig{Store: store, Tokens: tokens, Lock: lock})

	stats := r.Sweep(context.Background())

	if stats.Scanned != 0 || stats.Refreshed != 0 {
		t.Errorf("stats = %+v, want empty sweep when lock is contended", stats)
	}
	if len(tokens.refreshedIDs()) != 0 {
		t.Errorf("refreshed = %v, want none", tokens.refreshedIDs())
	}
}

func TestRefresher_Sweep_ReleasesLock(t *testing.T) {
	store := mocks.NewMockConnectionStore()
	tokens := newRecordingTokenService()
	lock := mocks.NewMockDistributedLock()

	r := NewRefresher(RefresherConfig{Store: store, Tokens: tokens, Lock: lock})

	r.Sweep(context.Background())

	if lock.Held(sweepLockName) {
		t.Error("sweep lock still held after sweep")
	}
}

func TestRefresher_StartStop(t *testing.T) {
	store := mocks.NewMockConnectionStore()
	tokens := newRecordingTokenService()

	r := NewRefresher(RefresherConfig{
		Store:    store,
		Tokens:   tokens,
		Interval: 50 * time.Millisecond,
	})

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Second start is a no-op
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	health := r.Health(context.Background())
	if !health.Running {
		t.Error("expected running health")
	}

	r.Stop()

	health = r.Health(context.Background())
	if health.Running {
		t.Error("expected stopped health")
	}

	// Second stop is a no-op
	r.Stop()
}

func TestRefresher_Health_LockPing(t *testing.T) {
	r := NewRefresher(RefresherConfig{
		Store:  mocks.NewMockConnectionStore(),
		Tokens: newRecordingTokenService(),
		Lock:   mocks.NewMockDistributedLock(),
	})

	health := r.Health(context.Background())
	if !health.LockHealth {
		t.Errorf("LockHealth = false, want true: %+v", health)
	}
}
