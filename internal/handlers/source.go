package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ainews/apiserver/internal/services"
	"github.com/ainews/apiserver/internal/store"
	"github.com/ainews/apiserver/types"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// SourceHandler provides HTTP handlers for news sources.
type SourceHandler struct {
	sourceService *services.SourceService
}

func NewSourceHandler(sourceService *services.SourceService) *SourceHandler {
	return &SourceHandler{sourceService: sourceService}
}

// SourceRouter registers source routes. Creation is superuser-gated.
func SourceRouter(r chi.Router, handler *SourceHandler, guard *AccessGuard) {
	r.Get("/", handler.ListSources)
	r.Get("/{sourceID}", handler.GetSource)
	r.With(guard.RequireAuth, guard.RequireActiveUser, guard.RequireSuperuser).
		Post("/", handler.CreateSource)
}

// SourceListResponse is the paginated listing body.
type SourceListResponse struct {
	Sources    []types.NewsSource `json:"sources"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	TotalPages int                `json:"total_pages"`
}

// SourceCreateRequest is the JSON body for creating a news source.
type SourceCreateRequest struct {
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	RSSURL   *string `json:"rss_url"`
	Category *string `json:"category"`
}

func (r SourceCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.URL, validation.Required, is.URL),
	)
}

func (h *SourceHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeQueryValidationErrors(w, err)
		return
	}

	sources, total, err := h.sourceService.List(r.Context(), offset, limit)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to list sources")
		return
	}

	resp := SourceListResponse{
		Sources:    sources,
		Total:      total,
		Page:       page,
		PerPage:    limit,
		TotalPages: (total + limit - 1) / limit,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SourceHandler) GetSource(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "sourceID"))
	if err != nil || id < 1 {
		writeDetail(w, http.StatusBadRequest, "invalid source id")
		return
	}

	source, err := h.sourceService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "Source not found")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "Failed to fetch source")
		return
	}

	writeJSON(w, http.StatusOK, source)
}

func (h *SourceHandler) CreateSource(w http.ResponseWriter, r *http.Request) {
	var req SourceCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationErrors(w, errors.New("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationErrors(w, err)
		return
	}

	source, err := h.sourceService.Create(r.Context(), types.NewsSource{
		Name:     strings.TrimSpace(req.Name),
		URL:      strings.TrimSpace(req.URL),
		RSSURL:   req.RSSURL,
		IsActive: true,
		Category: req.Category,
	})
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to create source")
		return
	}

	writeJSON(w, http.StatusCreated, source)
}
