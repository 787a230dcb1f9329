package router

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/shandysiswandi/greenvista/internal/pkg/authz"
	"github.com/shandysiswandi/greenvista/internal/pkg/jwt"
)

func middlewareAuthentication(verifier jwt.JWT, isPublic func(method, path string) bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.Method, matchedRoutePath(r)) {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				writeJSON(w, errorResponse{Message: MsgAuthRequired}, http.StatusUnauthorized)
				return
			}

			if verifier == nil {
				writeJSON(w, errorResponse{Message: MsgInvalidToken}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				writeJSON(w, errorResponse{Message: MsgInvalidToken}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}

// Require rejects callers whose role does not hold scope with 403. It runs
// after authentication, so a request without claims is answered with 401.
func (r *Router) Require(scope authz.Scope) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			clm := jwt.GetAuth(req.Context())
			if clm == nil {
				writeJSON(w, errorResponse{Message: MsgAuthRequired}, http.StatusUnauthorized)
				return
			}

			if r.gate == nil {
				writeJSON(w, errorResponse{Message: MsgAccessDenied}, http.StatusForbidden)
				return
			}

			ok, err := r.gate.Allow(clm.Role, scope)
			if err != nil {
				slog.ErrorContext(req.Context(), "failed to check authorization", "user_id", clm.UserID, "scope", scope, "error", err)
				writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
				return
			}
			if !ok {
				slog.WarnContext(req.Context(), "access denied", "user_id", clm.UserID, "role", clm.Role, "scope", scope)
				writeJSON(w, errorResponse{Message: MsgAccessDenied}, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}
