package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/adiprasetyo/evently-api/internal/domain/entity"
	repo "github.com/adiprasetyo/evently-api/internal/domain/repository"
	"github.com/adiprasetyo/evently-api/internal/oauth"
	"github.com/adiprasetyo/evently-api/pkg/helpers"
	"github.com/adiprasetyo/evently-api/pkg/mailer"
	tpl "github.com/adiprasetyo/evently-api/pkg/mailer/templates"
)

// AuthService verifies credentials or delegates to the OAuth provider,
// producing a session principal. Auto-provisioning on first Google login is
// its only implicit write.
type AuthService struct {
	Repo      repo.UserRepository
	Sessions  *SessionManager
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
	Pub       *helpers.RabbitPublisher

	AppName     string
	FrontendURL string
	MailEnabled bool
}

func NewAuthService(r repo.UserRepository, sessions *SessionManager, gcs *storage.Client, gcsBucket string, logger *logrus.Logger, pub *helpers.RabbitPublisher, appName, frontendURL string, mailEnabled bool) *AuthService {
	return &AuthService{
		Repo:        r,
		Sessions:    sessions,
		GCS:         gcs,
		GCSBucket:   gcsBucket,
		Logger:      logger,
		Pub:         pub,
		AppName:     appName,
		FrontendURL: frontendURL,
		MailEnabled: mailEnabled,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string

	// Optional profile image; stored in GCS when provided.
	Image            io.Reader
	ImageFilename    string
	ImageContentType string
}

// Register creates a credentials account. A duplicate email fails with
// ErrEmailTaken and performs no write.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	missing := []string{}
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	if existing, err := s.Repo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, upstream(err)
	}

	imageURL := ""
	if in.Image != nil {
		url, err := s.uploadImage(ctx, in.Image, in.ImageFilename, in.ImageContentType)
		if err != nil {
			return nil, upstream(err)
		}
		imageURL = url
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, upstream(err)
	}

	u := &entity.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		ImageURL:     imageURL,
		Provider:     entity.ProviderCredentials,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			// Lost a race with a concurrent registration or OAuth provision.
			return nil, ErrEmailTaken
		}
		return nil, upstream(err)
	}

	s.enqueueWelcome(ctx, u)
	return u, nil
}

// Login authenticates a credentials account. Accounts provisioned through
// Google fail with ErrWrongProvider before any password comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, TokenPair{}, ErrUserNotFound
		}
		return nil, TokenPair{}, upstream(err)
	}
	if u.Provider != entity.ProviderCredentials {
		return nil, TokenPair{}, ErrWrongProvider
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, TokenPair{}, ErrInvalidPassword
	}

	pair, err := s.Sessions.Issue(ctx, u)
	if err != nil {
		return nil, TokenPair{}, upstream(err)
	}
	return u, pair, nil
}

// LoginWithGoogle logs in from a verified provider profile, auto-provisioning
// the account on first login with provider=google and no password hash.
func (s *AuthService) LoginWithGoogle(ctx context.Context, p *oauth.Profile) (*entity.User, TokenPair, error) {
	u, err := s.Repo.GetByEmail(ctx, p.Email)
	if errors.Is(err, repo.ErrNotFound) {
		u = &entity.User{
			Name:     p.Name,
			Email:    p.Email,
			ImageURL: p.Picture,
			Provider: entity.ProviderGoogle,
		}
		if cErr := s.Repo.Create(ctx, u); cErr != nil {
			if !errors.Is(cErr, repo.ErrDuplicateEmail) {
				return nil, TokenPair{}, upstream(cErr)
			}
			// A concurrent registration won; log in as that account.
			u, err = s.Repo.GetByEmail(ctx, p.Email)
			if err != nil {
				return nil, TokenPair{}, upstream(err)
			}
		} else {
			if s.Logger != nil {
				s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("auto-provisioned google account")
			}
			s.enqueueWelcome(ctx, u)
		}
	} else if err != nil {
		return nil, TokenPair{}, upstream(err)
	}

	pair, err := s.Sessions.Issue(ctx, u)
	if err != nil {
		return nil, TokenPair{}, upstream(err)
	}
	return u, pair, nil
}

// Refresh rotates the token pair. The refresh token's session id must still
// match the active session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.Sessions.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrUnauthenticated
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, ErrUnauthenticated
	}
	pair, err := s.Sessions.Rotate(ctx, u, claims)
	if err != nil {
		return TokenPair{}, ErrUnauthenticated
	}
	return pair, nil
}

// Logout drops the caller's session.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	s.Sessions.Destroy(ctx, userID)
}

func (s *AuthService) uploadImage(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("profiles", id+ext))
	return helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
}

func (s *AuthService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl.Welcome,
		Data: map[string]any{
			"AppName":  s.AppName,
			"Name":     u.Name,
			"Email":    u.Email,
			"LoginURL": s.FrontendURL + "/login",
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Warn("enqueue welcome email failed")
	}
}
