package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestManager(accessTTL, refreshTTL time.Duration) (*Manager, *InMemorySessionStore) {
	store := NewInMemorySessionStore()
	return NewManager("access-secret", "refresh-secret", accessTTL, refreshTTL, store), store
}

func TestManagerIssueAndRefresh(t *testing.T) {
	manager, store := newTestManager(time.Minute, time.Hour)

	tokens, err := manager.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected non-empty tokens: %+v", tokens)
	}

	userID, err := manager.Verify(tokens.AccessToken)
	if err != nil || userID != "user-1" {
		t.Fatalf("verify access token: %q %v", userID, err)
	}

	refreshed, err := manager.Refresh(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == tokens.RefreshToken {
		t.Fatal("expected new refresh token")
	}

	stored, err := store.Find(context.Background(), "user-1")
	if err != nil || stored != refreshed.RefreshToken {
		t.Fatalf("expected rotated token to be stored, got %q %v", stored, err)
	}

	if _, err := manager.Refresh(context.Background(), tokens.RefreshToken); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected reused refresh token to be rejected, got %v", err)
	}
}

func TestManagerConcurrentRefreshIsSingleUse(t *testing.T) {
	manager, store := newTestManager(time.Minute, time.Hour)

	tokens, err := manager.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded []string
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			refreshed, err := manager.Refresh(context.Background(), tokens.RefreshToken)
			if err != nil {
				if !errors.Is(err, ErrSessionNotFound) {
					t.Errorf("unexpected refresh error: %v", err)
				}
				return
			}
			mu.Lock()
			succeeded = append(succeeded, refreshed.RefreshToken)
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	if len(succeeded) != 1 {
		t.Fatalf("expected exactly one refresh to succeed, got %d", len(succeeded))
	}
	stored, err := store.Find(context.Background(), "user-1")
	if err != nil || stored != succeeded[0] {
		t.Fatalf("expected the winning token to be stored, got %q %v", stored, err)
	}
}

func TestInMemorySessionStoreRotate(t *testing.T) {
	store := NewInMemorySessionStore()
	ctx := context.Background()

	if err := store.Rotate(ctx, "user-1", "", "next"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected missing session to fail, got %v", err)
	}
	if err := store.Save(ctx, "user-1", "first"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Rotate(ctx, "user-1", "stale", "next"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected stale token to fail, got %v", err)
	}
	if err := store.Rotate(ctx, "user-1", "first", "second"); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if token, _ := store.Find(ctx, "user-1"); token != "second" {
		t.Fatalf("expected rotated token, got %q", token)
	}
}

func TestManagerIssueValidation(t *testing.T) {
	manager, _ := newTestManager(time.Minute, time.Hour)
	if _, err := manager.Issue(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestManagerRefreshFailures(t *testing.T) {
	manager, store := newTestManager(time.Minute, time.Hour)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	manager.NowFunc = func() time.Time { return now }

	if _, err := manager.Refresh(context.Background(), ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session not found got %v", err)
	}

	if _, err := manager.Refresh(context.Background(), "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token got %v", err)
	}

	tokens, err := manager.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := manager.Refresh(context.Background(), tokens.RefreshToken); !errors.Is(err, ErrRefreshTokenExpired) {
		t.Fatalf("expected refresh expired got %v", err)
	}

	tokens, err = manager.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := manager.Revoke(context.Background(), "user-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if store.Has("user-1") {
		t.Fatal("expected stored token to be removed")
	}
	if _, err := manager.Refresh(context.Background(), tokens.RefreshToken); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session not found after revoke got %v", err)
	}
}

func TestManagerVerifyRejectsWrongTokenKind(t *testing.T) {
	manager, _ := newTestManager(time.Minute, time.Hour)

	tokens, err := manager.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := manager.Verify(tokens.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected refresh token to be rejected as access token, got %v", err)
	}
	if _, err := manager.Refresh(context.Background(), tokens.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected access token to be rejected as refresh token, got %v", err)
	}
}

func TestManagerVerifyExpiredAccessToken(t *testing.T) {
	manager, _ := newTestManager(time.Minute, time.Hour)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	manager.NowFunc = func() time.Time { return now }

	tokens, err := manager.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := manager.Verify(tokens.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired access token to be rejected, got %v", err)
	}
}

func TestManagerVerifyRejectsForeignSecret(t *testing.T) {
	manager, _ := newTestManager(time.Minute, time.Hour)
	other := NewManager("other-secret", "refresh-secret", time.Minute, time.Hour, NewInMemorySessionStore())

	tokens, err := other.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := manager.Verify(tokens.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token signed with another secret to be rejected, got %v", err)
	}
}
