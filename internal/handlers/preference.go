package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ainews/apiserver/internal/services"
	"github.com/ainews/apiserver/types"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
)

// PreferenceHandler manages the caller's own preference set.
type PreferenceHandler struct {
	preferenceService *services.PreferenceService
}

func NewPreferenceHandler(preferenceService *services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService}
}

// PreferenceRouter registers preference routes under the active-user
// gate.
func PreferenceRouter(r chi.Router, handler *PreferenceHandler, guard *AccessGuard) {
	r.With(guard.RequireAuth, guard.RequireActiveUser).Get("/", handler.ListPreferences)
	r.With(guard.RequireAuth, guard.RequireActiveUser).Put("/", handler.ReplacePreferences)
}

// PreferenceItem is one entry of the PUT body.
type PreferenceItem struct {
	Type   string  `json:"preference_type"`
	Value  string  `json:"preference_value"`
	Weight float64 `json:"weight"`
}

func (p PreferenceItem) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Type, validation.Required, validation.In(
			types.PreferenceTypeCategory,
			types.PreferenceTypeSource,
			types.PreferenceTypeKeyword,
		)),
		validation.Field(&p.Value, validation.Required),
	)
}

func (h *PreferenceHandler) ListPreferences(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	preferences, err := h.preferenceService.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to list preferences")
		return
	}

	writeJSON(w, http.StatusOK, preferences)
}

func (h *PreferenceHandler) ReplacePreferences(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var items []PreferenceItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeValidationErrors(w, errors.New("invalid JSON body"))
		return
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			writeValidationErrors(w, err)
			return
		}
	}

	preferences := make([]types.UserPreference, 0, len(items))
	for _, item := range items {
		weight := item.Weight
		if weight == 0 {
			weight = 1.0
		}
		preferences = append(preferences, types.UserPreference{
			Type:   item.Type,
			Value:  item.Value,
			Weight: weight,
		})
	}

	stored, err := h.preferenceService.Replace(r.Context(), user.ID, preferences)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	writeJSON(w, http.StatusOK, stored)
}
