package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coinboard/coinboard-go/internal/crypto"
	"github.com/coinboard/coinboard-go/internal/middleware"
	"github.com/coinboard/coinboard-go/internal/model"
	"github.com/coinboard/coinboard-go/internal/repository"
	"github.com/coinboard/coinboard-go/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testCookie = "coinboard_session"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterGuarding(t, "/portfolio", "/spin")
}

func newTestRouterGuarding(t *testing.T, prefixes ...string) http.Handler {
	t.Helper()
	store := repository.NewMemoryStore()
	denylist := crypto.NewDenylist()

	authService := service.NewAuthService(store.Users(), denylist, testSecret, time.Hour)
	articleService := service.NewArticleService(store.Articles(), store.Users())

	return NewRouter(Routes{
		Auth:       NewAuthHandler(authService, CookieConfig{Name: testCookie}),
		Articles:   NewArticleHandler(articleService),
		JWTSecret:  testSecret,
		CookieName: testCookie,
		Denylist:   denylist,
		Guard: middleware.GuardConfig{
			Secret:     testSecret,
			CookieName: testCookie,
			LoginPath:  "/login",
			Prefixes:   prefixes,
		},
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) model.Envelope {
	t.Helper()
	var env model.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

// signup registers and logs in a user, returning its id and token.
func signup(t *testing.T, h http.Handler, username, email string) (string, string) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/register", model.RegisterRequest{
		Username: username, Email: email, Password: "pw123456",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v1/login", model.LoginRequest{Email: email, Password: "pw123456"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := envelope(t, rec)
	require.NotNil(t, env.User)
	return env.User.ID, env.Token
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRegister(t *testing.T) {
	h := newTestRouter(t)
	req := model.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw123456"}

	rec := do(t, h, http.MethodPost, "/api/v1/register", req, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	env := envelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "User created successfully", env.Message)
	require.NotNil(t, env.User)
	assert.NotEmpty(t, env.User.ID)
	assert.Equal(t, "alice", env.User.Username)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = do(t, h, http.MethodPost, "/api/v1/register", req, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User already exists", envelope(t, rec).Message)

	rec = do(t, h, http.MethodPost, "/api/v1/register", model.RegisterRequest{Email: "b@x.com"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", envelope(t, rec).Message)
}

func TestRegister_BadBody(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	big := `{"username":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(big))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestLogin(t *testing.T) {
	h := newTestRouter(t)
	signup(t, h, "alice", "a@x.com")

	rec := do(t, h, http.MethodPost, "/api/v1/login", model.LoginRequest{Email: "a@x.com", Password: "pw123456"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := envelope(t, rec)
	assert.Equal(t, "User logged in successfully", env.Message)
	assert.NotEmpty(t, env.Token)

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			session = c
		}
	}
	require.NotNil(t, session, "session cookie not set")
	assert.Equal(t, env.Token, session.Value)
	assert.True(t, session.HttpOnly)

	tests := []struct {
		name    string
		req     model.LoginRequest
		status  int
		message string
	}{
		{"wrong password", model.LoginRequest{Email: "a@x.com", Password: "nope"}, http.StatusUnauthorized, "Password doesn't match"},
		{"unknown email", model.LoginRequest{Email: "z@x.com", Password: "pw123456"}, http.StatusNotFound, "Account Not Exists"},
		{"missing password", model.LoginRequest{Email: "a@x.com"}, http.StatusBadRequest, "All fields are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/login", tt.req, "")
			assert.Equal(t, tt.status, rec.Code)
			env := envelope(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Message)
		})
	}
}

func TestMeAndLogout(t *testing.T) {
	h := newTestRouter(t)
	id, token := signup(t, h, "alice", "a@x.com")

	rec := do(t, h, http.MethodGet, "/api/v1/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, envelope(t, rec).User.ID)

	rec = do(t, h, http.MethodPost, "/api/v1/logout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Less(t, cookies[0].MaxAge, 0)

	rec = do(t, h, http.MethodGet, "/api/v1/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh(t *testing.T) {
	h := newTestRouter(t)
	_, token := signup(t, h, "alice", "a@x.com")

	rec := do(t, h, http.MethodPost, "/api/v1/session/refresh", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	next := envelope(t, rec).Token
	require.NotEmpty(t, next)
	assert.NotEqual(t, token, next)

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/v1/me", nil, token).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/me", nil, next).Code)
}

func TestArticleLifecycle(t *testing.T) {
	h := newTestRouter(t)
	aliceID, aliceToken := signup(t, h, "alice", "a@x.com")
	_, bobToken := signup(t, h, "bob", "b@x.com")

	rec := do(t, h, http.MethodGet, "/api/v1/articles", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := envelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "No article found", env.Message)

	draft := model.CreateArticleRequest{Title: "BTC", Content: "up"}
	rec = do(t, h, http.MethodPost, "/api/v1/articles", draft, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/articles", draft, aliceToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env = envelope(t, rec)
	assert.Equal(t, "Your article has been saved successfully", env.Message)
	require.NotNil(t, env.Article)
	assert.Equal(t, aliceID, env.Article.AuthorID)
	assert.Equal(t, "alice", env.Article.AuthorName)
	articleID := env.Article.ID
	path := "/api/v1/articles/" + articleID

	rec = do(t, h, http.MethodGet, "/api/v1/articles", nil, "")
	env = envelope(t, rec)
	assert.True(t, env.Success)
	assert.Len(t, env.Articles, 1)

	rec = do(t, h, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.ArticleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "BTC", got.Title)

	rec = do(t, h, http.MethodGet, "/api/v1/articles/not-an-id", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Article not found", envelope(t, rec).Message)

	edit := model.UpdateArticleRequest{Title: "BTC", Content: "down"}
	rec = do(t, h, http.MethodPut, path, edit, bobToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Article not found or you are not the author", envelope(t, rec).Message)

	rec = do(t, h, http.MethodPut, path, edit, aliceToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "down", got.Content)
	assert.Equal(t, "alice", got.AuthorName)

	rec = do(t, h, http.MethodDelete, path, nil, bobToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, path, nil, aliceToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Article deleted successfully", envelope(t, rec).Message)

	rec = do(t, h, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouteGuardPages(t *testing.T) {
	h := newTestRouter(t)
	_, token := signup(t, h, "alice", "a@x.com")

	rec := do(t, h, http.MethodGet, "/portfolio", nil, "")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?callbackUrl=%2Fportfolio", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/spin", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	env := envelope(t, rec)
	require.NotNil(t, env.User)
	assert.Equal(t, "alice", env.User.Username)

	rec = do(t, h, http.MethodGet, "/login?callbackUrl=%2Fspin", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/spin", envelope(t, rec).CallbackURL)

	rec = do(t, h, http.MethodGet, "/login?callbackUrl=https%3A%2F%2Fevil.example", nil, "")
	assert.Equal(t, "/", envelope(t, rec).CallbackURL)
}

func TestCreateArticle_BlankAuthorNameDefaultsToUsername(t *testing.T) {
	h := newTestRouter(t)
	_, token := signup(t, h, "alice", "a@x.com")

	rec := do(t, h, http.MethodPost, "/api/v1/articles", model.CreateArticleRequest{
		Title: "T", Content: "C", AuthorName: "   ",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := envelope(t, rec)
	require.NotNil(t, env.Article)
	assert.Equal(t, "alice", env.Article.AuthorName)
}

func TestOverlongFieldsAreClientErrors(t *testing.T) {
	h := newTestRouter(t)
	_, token := signup(t, h, "alice", "a@x.com")

	rec := do(t, h, http.MethodPost, "/api/v1/register", model.RegisterRequest{
		Username: strings.Repeat("u", 65), Email: "long@x.com", Password: "pw123456",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "One or more fields are too long", envelope(t, rec).Message)

	rec = do(t, h, http.MethodPost, "/api/v1/articles", model.CreateArticleRequest{
		Title: strings.Repeat("t", 300), Content: "C",
	}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "One or more fields are too long", envelope(t, rec).Message)
}

func TestMemberPagesFollowGuardedPrefixes(t *testing.T) {
	h := newTestRouterGuarding(t, "/portfolio", "/vault/")
	_, token := signup(t, h, "alice", "a@x.com")

	rec := do(t, h, http.MethodGet, "/vault/coins", nil, "")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?callbackUrl=%2Fvault%2Fcoins", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/vault", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "vault", envelope(t, rec).Message)

	rec = do(t, h, http.MethodGet, "/spin", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMemberPaths(t *testing.T) {
	got := memberPaths(middleware.GuardConfig{
		LoginPath: "/login",
		Prefixes:  []string{"/spin/", "/spin", "", "portfolio", "/api/v1", "/health", "/login", "/portfolio"},
	})
	assert.Equal(t, []string{"/spin", "/portfolio"}, got)
}
