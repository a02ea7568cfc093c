package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/adiprasetyo/evently-api/internal/domain/entity"
	repo "github.com/adiprasetyo/evently-api/internal/domain/repository"
	"github.com/adiprasetyo/evently-api/pkg/helpers"
)

const profileCacheTTL = 5 * time.Minute

// UserService serves the profile operations behind the session-gated profile
// page. Reads go through a short-lived Redis cache; any profile write drops
// the cached copy.
type UserService struct {
	Repo      repo.UserRepository
	Sessions  *SessionManager
	Redis     *redis.Client
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewUserService(r repo.UserRepository, sessions *SessionManager, rdb *redis.Client, gcs *storage.Client, gcsBucket string, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, Sessions: sessions, Redis: rdb, GCS: gcs, GCSBucket: gcsBucket, Logger: logger}
}

func profileKey(userID string) string {
	return "user:profile:" + userID
}

func (s *UserService) GetProfile(ctx context.Context, p *Principal) (*entity.User, error) {
	if p == nil {
		return nil, ErrUnauthenticated
	}

	if s.Redis != nil {
		var cached entity.User
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, profileKey(p.ID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	u, err := s.Repo.GetByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, upstream(err)
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, profileKey(u.ID), u, profileCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("profile cache write failed")
		}
	}
	return u, nil
}

func (s *UserService) dropCachedProfile(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, profileKey(userID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("profile cache invalidation failed")
	}
}

type UpdateProfileInput struct {
	Name     string
	ImageURL string
}

// UpdateProfile applies non-empty fields and refreshes the cached session
// projection.
func (s *UserService) UpdateProfile(ctx context.Context, p *Principal, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, p)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.ImageURL != "" {
		u.ImageURL = in.ImageURL
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, upstream(err)
	}
	s.dropCachedProfile(ctx, u.ID)
	s.Sessions.RefreshSession(ctx, u)
	return u, nil
}

// UploadProfileImage stores the image in GCS and records its URL on the user.
func (s *UserService) UploadProfileImage(ctx context.Context, p *Principal, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.GetProfile(ctx, p)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", upstream(errors.New("gcs not configured"))
	}

	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("profiles", u.ID, id+ext))
	url, err := helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", upstream(err)
	}

	u.ImageURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", upstream(err)
	}
	s.dropCachedProfile(ctx, u.ID)
	s.Sessions.RefreshSession(ctx, u)
	return url, nil
}
