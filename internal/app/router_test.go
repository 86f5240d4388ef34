package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shinshu-solutions/shinshu-web/internal/app"
	"github.com/shinshu-solutions/shinshu-web/internal/assets"
	"github.com/shinshu-solutions/shinshu-web/internal/auth"
	"github.com/shinshu-solutions/shinshu-web/internal/content"
	"github.com/shinshu-solutions/shinshu-web/internal/messages"
	"github.com/shinshu-solutions/shinshu-web/internal/platform/storage"
	"github.com/shinshu-solutions/shinshu-web/internal/shared"
	"github.com/shinshu-solutions/shinshu-web/internal/users"
	_ "github.com/shinshu-solutions/shinshu-web/testing"
)

type routerAuthRepo struct {
	user     *auth.User
	sessions map[string]time.Time
}

func (r *routerAuthRepo) FindActiveUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	if r.user == nil || r.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return r.user, nil
}

func (r *routerAuthRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	return nil
}

func (r *routerAuthRepo) InsertSession(ctx context.Context, id, userID string, expiresAt time.Time) error {
	r.sessions[id] = expiresAt
	return nil
}

func (r *routerAuthRepo) FindValidSession(ctx context.Context, id string, now time.Time) (*shared.UserView, error) {
	if expiresAt, ok := r.sessions[id]; ok && expiresAt.After(now) {
		return &shared.UserView{ID: r.user.ID, Email: r.user.Email, Name: r.user.Name, Role: r.user.Role}, nil
	}
	return nil, shared.ErrNotFound
}

func (r *routerAuthRepo) DeleteSession(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *routerAuthRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type routerStore struct {
	pages map[string]string
}

func (s *routerStore) Get(ctx context.Context, key string) (*storage.Object, error) {
	body, ok := s.pages[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &storage.Object{
		Body:        io.NopCloser(bytes.NewReader([]byte(body))),
		ContentType: "text/html; charset=utf-8",
		Size:        int64(len(body)),
	}, nil
}

func (s *routerStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.pages[key] = string(data)
	return nil
}

func (s *routerStore) Delete(ctx context.Context, key string) error {
	delete(s.pages, key)
	return nil
}

func (s *routerStore) List(ctx context.Context, prefix string, limit int32) ([]storage.ObjectInfo, error) {
	return nil, nil
}

type routerContentRepo struct {
	blocks map[string]*content.Block
}

func (r *routerContentRepo) FindBySlug(ctx context.Context, slug string) (*content.Block, error) {
	b, ok := r.blocks[slug]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

func (r *routerContentRepo) List(ctx context.Context) ([]content.Block, error) {
	return nil, nil
}

func (r *routerContentRepo) Create(ctx context.Context, slug, title, body string) (*content.Block, error) {
	b := &content.Block{Slug: slug, Title: title, Body: body, UpdatedAt: time.Now()}
	r.blocks[slug] = b
	return b, nil
}

func (r *routerContentRepo) Update(ctx context.Context, slug, title, body string) (*content.Block, error) {
	return r.Create(ctx, slug, title, body)
}

func (r *routerContentRepo) Delete(ctx context.Context, slug string) error {
	delete(r.blocks, slug)
	return nil
}

type routerMessageRepo struct {
	stored []*messages.Message
}

func (r *routerMessageRepo) Insert(ctx context.Context, msg *messages.Message) error {
	r.stored = append(r.stored, msg)
	return nil
}

func (r *routerMessageRepo) List(ctx context.Context) ([]messages.Message, error) {
	return nil, nil
}

func (r *routerMessageRepo) Delete(ctx context.Context, id string) error {
	return nil
}

type routerUserRepo struct{}

func (routerUserRepo) ListUsers(ctx context.Context) ([]users.User, error) { return nil, nil }
func (routerUserRepo) CreateUser(ctx context.Context, id, email, passwordHash, name, role string) error {
	return nil
}
func (routerUserRepo) SetActive(ctx context.Context, id string, active bool) error { return nil }
func (routerUserRepo) FindByID(ctx context.Context, id string) (*users.User, error) {
	return &users.User{ID: id}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *routerAuthRepo, *shared.CSRFManager) {
	t.Helper()

	hash, err := auth.HashPassword("router-password")
	require.NoError(t, err)
	authRepo := &routerAuthRepo{
		user: &auth.User{
			ID: "u-1", Email: "admin@example.com", PasswordHash: hash,
			Name: "Admin", Role: "admin", IsActive: true,
		},
		sessions: make(map[string]time.Time),
	}

	cfg := &app.Config{
		AppEnv:            "test",
		AppRequestTimeout: 10 * time.Second,
		SessionCookie:     "test_session",
		SessionTTL:        time.Hour,
		CSRFSecret:        "router-csrf-secret",
	}

	csrf := shared.NewCSRFManager(cfg.CSRFSecret)
	sessions := auth.NewSessionManager(authRepo, cfg.SessionTTL)
	authHandler := auth.NewHandler(nil, auth.NewService(authRepo, nil), sessions, csrf, cfg.SessionCookie, false)

	store := &routerStore{pages: map[string]string{
		"index.html":   "<h1>Home</h1>",
		"pricing.html": "<h1>Pricing</h1>",
	}}
	assetsHandler := assets.NewHandler(nil, assets.NewGateway(store), store)

	contentRepo := &routerContentRepo{blocks: make(map[string]*content.Block)}
	contentHandler := content.NewHandler(nil, content.NewService(contentRepo, content.NewCache(nil, time.Minute)))

	messagesHandler := messages.NewHandler(nil, messages.NewService(&routerMessageRepo{}, nil, nil))
	usersHandler := users.NewHandler(nil, users.NewService(routerUserRepo{}))

	router := app.NewRouter(app.RouterParams{
		Config:          cfg,
		SessionManager:  sessions,
		CSRFManager:     csrf,
		AuthHandler:     authHandler,
		AssetsHandler:   assetsHandler,
		ContentHandler:  contentHandler,
		MessagesHandler: messagesHandler,
		UsersHandler:    usersHandler,
	})
	return router, authRepo, csrf
}

func TestRouterServesHealth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, res.Code)

	apiRes := httptest.NewRecorder()
	router.ServeHTTP(apiRes, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, apiRes.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(apiRes.Body.Bytes(), &body))
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, "test", body["environment"])
}

func TestRouterCatchAllServesSite(t *testing.T) {
	router, _, _ := newTestRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/pricing", nil))
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "Pricing")
}

func TestRouterUnknownAPIRouteIs404JSON(t *testing.T) {
	router, _, _ := newTestRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	require.Equal(t, http.StatusNotFound, res.Code)
	require.Contains(t, res.Header().Get("Content-Type"), "application/json")
}

func TestRouterAdminRequiresSession(t *testing.T) {
	router, _, _ := newTestRouter(t)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/admin/content/", nil))
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRouterAdminFlowWithCSRF(t *testing.T) {
	router, _, _ := newTestRouter(t)

	loginReq := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"router-password"}`))
	loginReq.Header.Set("Content-Type", "application/json")
	loginRes := httptest.NewRecorder()
	router.ServeHTTP(loginRes, loginReq)
	require.Equal(t, http.StatusOK, loginRes.Code)

	var login struct {
		CSRFToken string `json:"csrf_token"`
	}
	require.NoError(t, json.Unmarshal(loginRes.Body.Bytes(), &login))
	require.NotEmpty(t, login.CSRFToken)

	var cookie *http.Cookie
	for _, c := range loginRes.Result().Cookies() {
		if c.Name == "test_session" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	// Mutation without the CSRF header is rejected.
	blocked := httptest.NewRequest(http.MethodPost, "/admin/content/",
		strings.NewReader(`{"slug":"about","title":"About","body":"hello"}`))
	blocked.Header.Set("Content-Type", "application/json")
	blocked.AddCookie(cookie)
	blockedRes := httptest.NewRecorder()
	router.ServeHTTP(blockedRes, blocked)
	require.Equal(t, http.StatusForbidden, blockedRes.Code)

	// With the token it succeeds.
	allowed := httptest.NewRequest(http.MethodPost, "/admin/content/",
		strings.NewReader(`{"slug":"about","title":"About","body":"hello"}`))
	allowed.Header.Set("Content-Type", "application/json")
	allowed.AddCookie(cookie)
	allowed.Header.Set(shared.CSRFHeader, login.CSRFToken)
	allowedRes := httptest.NewRecorder()
	router.ServeHTTP(allowedRes, allowed)
	require.Equal(t, http.StatusCreated, allowedRes.Code)
}
