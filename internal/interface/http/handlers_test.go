package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adiprasetyo/evently-api/internal/application"
	"github.com/adiprasetyo/evently-api/internal/domain/entity"
	repo "github.com/adiprasetyo/evently-api/internal/domain/repository"
	"github.com/adiprasetyo/evently-api/internal/interface/middleware"
	"github.com/adiprasetyo/evently-api/internal/oauth"
	"github.com/adiprasetyo/evently-api/pkg/helpers"
	"github.com/adiprasetyo/evently-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeUserRepo is an in-memory UserRepository keyed by email.
type fakeUserRepo struct {
	seq     int
	byEmail map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return repo.ErrDuplicateEmail
	}
	f.seq++
	u.ID = "user-" + strconv.Itoa(f.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := f.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := f.byEmail[u.Email]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

// fakeAddressRepo is an in-memory AddressRepository preserving insertion order.
type fakeAddressRepo struct {
	seq   int
	items []*entity.Address
}

func (f *fakeAddressRepo) Create(_ context.Context, a *entity.Address) error {
	f.seq++
	a.ID = "addr-" + strconv.Itoa(f.seq)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeAddressRepo) GetByID(_ context.Context, id string) (*entity.Address, error) {
	for _, a := range f.items {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeAddressRepo) ListByUser(_ context.Context, userID string) ([]entity.Address, error) {
	out := []entity.Address{}
	for _, a := range f.items {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAddressRepo) Update(_ context.Context, a *entity.Address) error {
	for i, got := range f.items {
		if got.ID == a.ID {
			a.UpdatedAt = time.Now()
			cp := *a
			f.items[i] = &cp
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeAddressRepo) Delete(_ context.Context, id string) error {
	for i, a := range f.items {
		if a.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

// fakeOAuth satisfies oauth.Provider without any network.
type fakeOAuth struct {
	profile *oauth.Profile
	err     error
}

func (f *fakeOAuth) LoginURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeOAuth) ExchangeCode(_ context.Context, _ string) (*oauth.Profile, error) {
	return f.profile, f.err
}

// app bundles a wired router and its backing fakes for a single test.
type app struct {
	router   *gin.Engine
	users    *fakeUserRepo
	addrs    *fakeAddressRepo
	sessions *application.SessionManager
	authSvc  *application.AuthService
}

func newApp(t *testing.T, provider oauth.Provider) *app {
	t.Helper()

	logger := quietLogger()
	jwt := helpers.NewJWTManager("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
	sessions := application.NewSessionManager(jwt, nil, logger)
	cookies := helpers.NewCookie("", false)

	users := newFakeUserRepo()
	addrs := &fakeAddressRepo{}

	authSvc := application.NewAuthService(users, sessions, nil, "", logger, nil, "evently", "http://localhost:3000", false)
	addrSvc := application.NewAddressService(addrs, nil, "", logger)

	ah := NewAuthHandler(authSvc, provider, logger, cookies, "http://localhost:3000")
	addrh := NewAddressHandler(addrSvc, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/register", ah.Register)
	api.POST("/login", ah.Login)
	api.GET("/auth/google/login", ah.GoogleLogin)
	api.GET("/auth/google/callback", ah.GoogleCallback)
	api.POST("/refresh", ah.Refresh)

	guarded := api.Group("")
	guarded.Use(middleware.Auth(sessions))
	guarded.POST("/logout", ah.Logout)
	guarded.GET("/addresses", addrh.List)
	guarded.POST("/addresses", addrh.Create)
	guarded.GET("/addresses/search", addrh.Search)
	guarded.PUT("/addresses/:id", addrh.Update)
	guarded.DELETE("/addresses/:id", addrh.Delete)

	return &app{router: r, users: users, addrs: addrs, sessions: sessions, authSvc: authSvc}
}

// envelope mirrors the response wrapper with raw payloads for assertions.
type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func (a *app) do(t *testing.T, method, path string, body io.Reader, opts ...func(*http.Request)) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if len(w.Body.Bytes()) > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func withCookies(cs []*http.Cookie) func(*http.Request) {
	return func(req *http.Request) {
		for _, c := range cs {
			req.AddCookie(c)
		}
	}
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(b)
}

// register creates a credentials account through the HTTP surface.
func (a *app) register(t *testing.T, name, email, password string) envelope {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", name)
	_ = mw.WriteField("email", email)
	_ = mw.WriteField("password", password)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, w.Code, w.Body.String())
	}
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return env
}

// login returns the session cookies for the account.
func (a *app) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()
	w, _ := a.do(t, http.MethodPost, "/api/login", jsonBody(t, gin.H{"email": email, "password": password}))
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", email, w.Code, w.Body.String())
	}
	cs := w.Result().Cookies()
	if len(cs) == 0 {
		t.Fatalf("login %s set no cookies", email)
	}
	return cs
}

func cookieNamed(cs []*http.Cookie, name string) *http.Cookie {
	for _, c := range cs {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func validAddressBody() gin.H {
	return gin.H{
		"street":  "1 Main St",
		"city":    "Springfield",
		"state":   "IL",
		"country": "US",
		"zipCode": "62704",
	}
}
