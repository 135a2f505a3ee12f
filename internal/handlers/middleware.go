package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ainews/apiserver/internal/security"
	"github.com/ainews/apiserver/internal/services"
	"github.com/ainews/apiserver/internal/store"
)

const (
	detailBadCredentials        = "Could not validate credentials"
	detailInactiveUser          = "Inactive user"
	detailInsufficientPrivilege = "The user doesn't have enough privileges"
)

// AccessGuard resolves bearer tokens to user records and enforces
// activity and privilege gates. All gates are read-only.
type AccessGuard struct {
	issuer      *security.TokenIssuer
	userService *services.UserService
}

func NewAccessGuard(issuer *security.TokenIssuer, userService *services.UserService) *AccessGuard {
	return &AccessGuard{
		issuer:      issuer,
		userService: userService,
	}
}

// RequireAuth verifies the bearer token, loads the subject's user
// record, and injects it into the request context. A missing or
// malformed header, an invalid or expired token, and a token whose
// subject no longer exists all produce the same 401 body, so callers
// cannot tell which one failed.
func (g *AccessGuard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		subject, err := g.issuer.Verify(tokenString)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		user, err := g.userService.GetByUsername(r.Context(), subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeUnauthorized(w)
				return
			}
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), contextUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireActiveUser rejects deactivated accounts. Runs after
// RequireAuth.
func (g *AccessGuard) RequireActiveUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := userFromContext(r.Context())
		if err != nil {
			writeUnauthorized(w)
			return
		}
		if !user.IsActive {
			writeDetail(w, http.StatusBadRequest, detailInactiveUser)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSuperuser rejects accounts without elevated privilege. Runs
// after RequireAuth.
func (g *AccessGuard) RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := userFromContext(r.Context())
		if err != nil {
			writeUnauthorized(w)
			return
		}
		if !user.IsSuperuser {
			writeDetail(w, http.StatusBadRequest, detailInsufficientPrivilege)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detailBadCredentials)
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
