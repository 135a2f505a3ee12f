package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/ainews/apiserver/types"
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

type contextKey string

const contextUserKey contextKey = "user"

// ErrorResponse is the generic failure body: {"detail": "..."}.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// FieldError is one entry of a 422 validation failure body.
type FieldError struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

// ValidationErrorResponse is the 422 failure body: a per-field list.
type ValidationErrorResponse struct {
	Detail []FieldError `json:"detail"`
}

func userFromContext(ctx context.Context) (types.User, error) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	if !ok {
		return types.User{}, errors.New("missing user")
	}
	return user, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// writeValidationErrors renders ozzo validation results as a 422 with
// one entry per failed field.
func writeValidationErrors(w http.ResponseWriter, err error) {
	writeFieldErrors(w, "body", err)
}

// writeQueryValidationErrors is writeValidationErrors for query
// parameter failures.
func writeQueryValidationErrors(w http.ResponseWriter, err error) {
	writeFieldErrors(w, "query", err)
}

func writeFieldErrors(w http.ResponseWriter, section string, err error) {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
			Detail: []FieldError{{Loc: []string{section}, Msg: err.Error()}},
		})
		return
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]FieldError, 0, len(fields))
	for _, field := range fields {
		details = append(details, FieldError{
			Loc: []string{section, field},
			Msg: fieldErrs[field].Error(),
		})
	}
	writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Detail: details})
}

// parsePagination reads page and per_page query parameters; limit is
// accepted as an alias for per_page.
func parsePagination(r *http.Request) (page, limit, offset int, err error) {
	page = defaultPage
	limit = defaultLimit

	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, 0, validation.Errors{"page": errors.New("must be an integer no less than 1")}
		}
	}

	rawLimit := strings.TrimSpace(r.URL.Query().Get("per_page"))
	if rawLimit == "" {
		rawLimit = strings.TrimSpace(r.URL.Query().Get("limit"))
	}
	if rawLimit != "" {
		limit, err = strconv.Atoi(rawLimit)
		if err != nil || limit < 1 {
			return 0, 0, 0, validation.Errors{"per_page": errors.New("must be an integer no less than 1")}
		}
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	offset = (page - 1) * limit
	return page, limit, offset, nil
}
