package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/adiprasetyo/evently-api/internal/domain/entity"
	"github.com/adiprasetyo/evently-api/pkg/helpers"
)

const sessionTTL = 24 * time.Hour

// Principal is the authenticated identity resolved from a session token for
// the current request. It is a projection of User, never persisted.
type Principal struct {
	ID    string
	Name  string
	Email string
}

// TokenPair is the signed session credential handed to the transport layer.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// SessionManager issues and resolves session tokens. It is the single
// authority on "who is the caller": every session-gated route resolves its
// principal here and nowhere else.
//
// Tokens are HS256 JWTs carrying the user id and a session id; the session id
// must match the active session hash in Redis. Redis is optional (nil skips
// the session-hash check), which keeps the manager usable in tests.
type SessionManager struct {
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewSessionManager(jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *SessionManager {
	return &SessionManager{JWT: jwt, Redis: rdb, Logger: logger}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Issue generates a token pair for the user and records the session in Redis.
func (m *SessionManager) Issue(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := m.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if m.Logger != nil {
			m.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := m.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if m.Logger != nil {
			m.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if m.Redis != nil {
		key := sessionKey(u.ID)
		pipe := m.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"image_url":  u.ImageURL,
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && m.Logger != nil {
			m.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Resolve validates an access token and returns the caller's principal.
// Missing, malformed, expired or signature-invalid tokens all fail uniformly
// with ErrUnauthenticated, as does a token whose session id no longer matches
// the active session.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := m.JWT.ParseAccessToken(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	p := &Principal{ID: claims.UserID}
	if m.Redis != nil {
		data, err := m.Redis.HGetAll(ctx, sessionKey(claims.UserID)).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return nil, ErrUnauthenticated
		}
		p.Name = data["name"]
		p.Email = data["email"]
	}
	return p, nil
}

// Rotate validates a refresh token, checks the active session id, and issues
// a fresh pair under a new session id.
func (m *SessionManager) Rotate(ctx context.Context, u *entity.User, claims *helpers.Claims) (TokenPair, error) {
	if m.Redis != nil {
		data, err := m.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, ErrUnauthenticated
		}
	}
	return m.Issue(ctx, u)
}

// Destroy drops the user's active session. Tokens already issued stop
// resolving once the session hash is gone.
func (m *SessionManager) Destroy(ctx context.Context, userID string) {
	if m.Redis == nil {
		return
	}
	if err := m.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && m.Logger != nil {
		m.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

// RefreshSession updates cached profile fields on the session hash,
// preserving the remaining TTL.
func (m *SessionManager) RefreshSession(ctx context.Context, u *entity.User) {
	if m.Redis == nil {
		return
	}
	key := sessionKey(u.ID)
	pipe := m.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"name":       u.Name,
		"email":      u.Email,
		"image_url":  u.ImageURL,
		"updated_at": nowRFC3339(),
	})
	if ttl, err := m.Redis.TTL(ctx, key).Result(); err == nil && ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil && m.Logger != nil {
		m.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}
