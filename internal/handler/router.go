package handler

import (
	"net/http"
	"strings"

	"github.com/coinboard/coinboard-go/internal/crypto"
	"github.com/coinboard/coinboard-go/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Routes collects what the HTTP surface needs.
type Routes struct {
	Auth     *AuthHandler
	Articles *ArticleHandler

	JWTSecret  string
	CookieName string
	Denylist   *crypto.Denylist
	Guard      middleware.GuardConfig

	// RateLimit wraps the credential endpoints. Nil disables limiting.
	RateLimit func(http.Handler) http.Handler
}

// NewRouter builds the HTTP router.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RouteGuard(rt.Guard))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get(rt.Guard.LoginPath, HandleLoginPage)
	for _, p := range memberPaths(rt.Guard) {
		page := MemberPage(memberTitle(p))
		r.Get(p, page)
		r.Get(p+"/*", page)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if rt.RateLimit != nil {
				r.Use(rt.RateLimit)
			}
			r.Post("/register", rt.Auth.HandleRegister)
			r.Post("/login", rt.Auth.HandleLogin)
		})

		r.Get("/articles", rt.Articles.HandleList)
		r.Get("/articles/{id}", rt.Articles.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(rt.JWTSecret, rt.CookieName, rt.Denylist))
			r.Post("/logout", rt.Auth.HandleLogout)
			r.Post("/session/refresh", rt.Auth.HandleRefresh)
			r.Get("/me", rt.Auth.HandleMe)

			r.Post("/articles", rt.Articles.HandleCreate)
			r.Put("/articles/{id}", rt.Articles.HandleUpdate)
			r.Delete("/articles/{id}", rt.Articles.HandleDelete)
		})
	})

	return r
}

var memberTitles = map[string]string{
	"/portfolio": "Portfolio",
	"/spin":      "Spin the wheel",
}

func memberTitle(path string) string {
	if title, ok := memberTitles[path]; ok {
		return title
	}
	return strings.TrimPrefix(path, "/")
}

// memberPaths returns the guarded prefixes that get a member page, one per
// prefix. Prefixes overlapping the API, health or login routes are skipped.
func memberPaths(guard middleware.GuardConfig) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, p := range guard.Prefixes {
		p = strings.TrimSuffix(p, "/")
		if !strings.HasPrefix(p, "/") || seen[p] {
			continue
		}
		if p == "/api" || strings.HasPrefix(p, "/api/") || p == "/health" || p == guard.LoginPath {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	return paths
}
