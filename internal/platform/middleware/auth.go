package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"almanah/internal/platform/config"
	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
	"almanah/pkg/platform/httputil"
	"almanah/pkg/requestcontext"
)

// UserResolver turns a bearer token into the current user.
type UserResolver interface {
	ResolveUser(token string) (id.UserRef, error)
}

// AuthOptions configures where the token is read from.
type AuthOptions struct {
	// CookieName is checked when no Authorization header is present.
	CookieName string
	// CookiePolicy is applied when an invalid cookie is expired.
	CookiePolicy config.CookiePolicy
}

// RequireAuth rejects requests without a valid token and stores the UserRef in context.
func RequireAuth(resolver UserResolver, opts AuthOptions, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			token, fromCookie := extractToken(r, opts.CookieName)
			if token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			user, err := resolver.ResolveUser(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				if fromCookie {
					expireCookie(w, opts)
				}
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithUser(ctx, user)))
		})
	}
}

func extractToken(r *http.Request, cookieName string) (token string, fromCookie bool) {
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after), false
	}
	if cookieName == "" {
		return "", false
	}
	c, err := r.Cookie(cookieName)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func expireCookie(w http.ResponseWriter, opts AuthOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.CookiePolicy.Secure,
		SameSite: opts.CookiePolicy.SameSite,
	})
}
