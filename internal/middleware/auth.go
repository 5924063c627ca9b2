package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/healthme/internal/auth"
	"github.com/2beens/healthme/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type sessionChecker interface {
	SessionUser(ctx context.Context, token string) (*auth.Session, error)
}

const LoginFormPath = "/login-form"

type AuthMiddlewareHandler struct {
	sessionChecker       sessionChecker
	secureCookies        bool
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(
	sessionChecker sessionChecker,
	secureCookies bool,
) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		sessionChecker: sessionChecker,
		secureCookies:  secureCookies,
		allowedPaths: map[string]bool{
			"/":            true,
			"/favicon.ico": true,

			// register-login-logout:
			"/register-form": true,
			"/register":      true,
			LoginFormPath:    true,
			"/login":         true,
			"/logout":        true,
		},
		allowedPathsPrefixes: []string{
			"/assets/",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AuthCheck resolves the session cookie into the request context.
// Requests to protected pages without a valid session are sent to the login form.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			token := auth.TokenFromRequest(r)
			allowed := h.pathIsAlwaysAllowed(r.URL.Path)

			if token == "" {
				if allowed {
					span.SetStatus(codes.Ok, "ok")
					next.ServeHTTP(w, r)
					return
				}
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "missing-session-token")
				http.Redirect(w, r, LoginFormPath, http.StatusSeeOther)
				return
			}

			session, err := h.sessionChecker.SessionUser(ctx, token)
			if err != nil {
				if !errors.Is(err, auth.ErrSessionNotFound) && !errors.Is(err, auth.ErrSessionExpired) {
					log.Errorf("[failed session check] => %s: %s", r.URL.Path, err)
					span.RecordError(err)
				}
				auth.ClearSessionCookie(w, h.secureCookies)
				if allowed {
					span.SetStatus(codes.Ok, "ok-stale-session")
					next.ServeHTTP(w, r)
					return
				}
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "not-logged")
				http.Redirect(w, r, LoginFormPath, http.StatusSeeOther)
				return
			}

			span.SetAttributes(attribute.Int("user.id", session.UserID))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.ContextWithSession(r.Context(), session)))
		})
	}
}
