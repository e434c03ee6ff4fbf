package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/coinboard/coinboard-go/internal/crypto"
)

type contextKey string

const claimsKey contextKey = "claims"

// CallbackParam is the query parameter carrying the originally requested path.
const CallbackParam = "callbackUrl"

// TokenFromRequest returns the bearer token from the Authorization header,
// falling back to the session cookie. Other authorization schemes are ignored.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		return strings.TrimSpace(token)
	}
	if cookieName == "" {
		return ""
	}
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// JWTAuth returns API middleware that requires a valid, unrevoked session
// token and answers 401 otherwise.
func JWTAuth(secret, cookieName string, denylist *crypto.Denylist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, cookieName)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing session token")
				return
			}

			claims, err := crypto.ValidateToken(token, secret)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if denylist != nil && denylist.IsRevoked(claims.ID) {
				writeJSONError(w, http.StatusUnauthorized, "session has been revoked")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// GuardConfig configures RouteGuard.
type GuardConfig struct {
	Secret     string
	CookieName string
	LoginPath  string
	Prefixes   []string
}

// RouteGuard redirects unauthenticated requests for protected paths to the
// login page, passing the requested path as callbackUrl. Only the token
// signature and expiry are checked. Other paths pass through untouched.
func RouteGuard(cfg GuardConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isProtected(r.URL.Path, cfg.Prefixes) {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := crypto.ValidateToken(TokenFromRequest(r, cfg.CookieName), cfg.Secret)
			if err != nil {
				http.Redirect(w, r, loginURL(cfg.LoginPath, r.URL.RequestURI()), http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// isProtected matches whole path segments: "/spin" covers "/spin" and
// "/spin/daily" but not "/spinner".
func isProtected(path string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			continue
		}
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func loginURL(loginPath, callback string) string {
	return loginPath + "?" + url.Values{CallbackParam: {callback}}.Encode()
}

// SafeCallback returns raw when it is a same-origin relative path and "/"
// otherwise, so a crafted callbackUrl cannot redirect off site.
func SafeCallback(raw string) string {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	return raw
}

// WithClaims returns a copy of ctx carrying the session claims.
func WithClaims(ctx context.Context, claims *crypto.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext extracts the session claims placed by JWTAuth or RouteGuard.
func ClaimsFromContext(ctx context.Context) (*crypto.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*crypto.Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
