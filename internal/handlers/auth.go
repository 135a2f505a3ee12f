package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ainews/apiserver/internal/security"
	"github.com/ainews/apiserver/internal/services"
	"github.com/ainews/apiserver/internal/store"
	"github.com/ainews/apiserver/types"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	detailAlreadyRegistered = "Email or username already registered"
	detailBadLogin          = "Incorrect username or password"
)

// AuthHandler provides registration, login, and current-user endpoints.
type AuthHandler struct {
	userService *services.UserService
	issuer      *security.TokenIssuer
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, issuer *security.TokenIssuer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		issuer:      issuer,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler, guard *AccessGuard) {
	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.With(guard.RequireAuth, guard.RequireActiveUser).Get("/me", handler.Me)
}

// RegisterRequest is the JSON body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate runs validation rules for registration input.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// TokenResponse is the success body of POST /auth/login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new user account.
//
// A duplicate email or username produces one generic message that does
// not reveal which field collided.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationErrors(w, errors.New("invalid JSON body"))
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := req.Validate(); err != nil {
		writeValidationErrors(w, err)
		return
	}

	if _, err := h.userService.GetByEmail(r.Context(), req.Email); err == nil {
		writeDetail(w, http.StatusBadRequest, detailAlreadyRegistered)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if _, err := h.userService.GetByUsername(r.Context(), req.Username); err == nil {
		writeDetail(w, http.StatusBadRequest, detailAlreadyRegistered)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.userService.Create(r.Context(), types.User{
		Email:          req.Email,
		Username:       req.Username,
		HashedPassword: hashed,
		IsActive:       true,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeDetail(w, http.StatusBadRequest, detailAlreadyRegistered)
			return
		}
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Login verifies form-encoded credentials and returns a bearer token.
//
// Unknown username and wrong password produce the identical response,
// so usernames cannot be enumerated. Lookups are by username only and
// case-sensitive.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeValidationErrors(w, errors.New("invalid form body"))
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	fieldErrs := validation.Errors{}
	if username == "" {
		fieldErrs["username"] = errors.New("cannot be blank")
	}
	if password == "" {
		fieldErrs["password"] = errors.New("cannot be blank")
	}
	if len(fieldErrs) > 0 {
		writeValidationErrors(w, fieldErrs)
		return
	}

	user, err := h.userService.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeDetail(w, http.StatusBadRequest, detailBadLogin)
			return
		}
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !security.VerifyPassword(password, user.HashedPassword) {
		writeDetail(w, http.StatusBadRequest, detailBadLogin)
		return
	}

	if !user.IsActive {
		writeDetail(w, http.StatusBadRequest, detailInactiveUser)
		return
	}

	token, err := h.issuer.Issue(user.Username)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
