package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adiprasetyo/evently-api/internal/domain/entity"
	"github.com/adiprasetyo/evently-api/pkg/helpers"
)

func testUser() *entity.User {
	return &entity.User{ID: "user-1", Name: "Alice", Email: "alice@example.com", Provider: entity.ProviderCredentials}
}

func TestSessionIssueResolve(t *testing.T) {
	m := testSessions()
	ctx := context.Background()

	pair, err := m.Issue(ctx, testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}
	if !pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry) {
		t.Fatal("refresh token must outlive the access token")
	}

	p, err := m.Resolve(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if p.ID != "user-1" {
		t.Fatalf("principal id = %q, want user-1", p.ID)
	}
}

func TestSessionResolveRejects(t *testing.T) {
	m := testSessions()
	ctx := context.Background()

	pair, err := m.Issue(ctx, testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	otherKey := helpers.NewJWTManager("some-other-secret", "another-secret", time.Hour, 24*time.Hour)
	foreign, _, err := otherKey.GenerateAccessToken("user-1", "sid")
	if err != nil {
		t.Fatalf("sign foreign token: %v", err)
	}

	expired := NewSessionManager(
		helpers.NewJWTManager("test-access-secret", "test-refresh-secret", -time.Minute, -time.Minute), nil, nil)
	stale, err := expired.Issue(ctx, testUser())
	if err != nil {
		t.Fatalf("Issue expired pair: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"refresh token used as access", pair.RefreshToken},
		{"wrong signing key", foreign},
		{"expired", stale.AccessToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Resolve(ctx, tt.token); !errors.Is(err, ErrUnauthenticated) {
				t.Fatalf("got %v, want ErrUnauthenticated", err)
			}
		})
	}
}

func TestAuthorizeOwner(t *testing.T) {
	owner := &Principal{ID: "user-1"}

	if err := AuthorizeOwner(owner, "user-1"); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
	if err := AuthorizeOwner(owner, "user-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
	if err := AuthorizeOwner(nil, "user-1"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("got %v, want ErrUnauthenticated", err)
	}
}
