package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ainews/apiserver/internal/services"
	"github.com/ainews/apiserver/internal/store"
	"github.com/ainews/apiserver/types"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// ArticleHandler provides HTTP handlers for articles.
type ArticleHandler struct {
	articleService *services.ArticleService
}

// NewArticleHandler constructs a handler over the article service.
func NewArticleHandler(articleService *services.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// ArticleRouter registers article routes on the given router. Writes
// are gated on an active superuser.
func ArticleRouter(r chi.Router, handler *ArticleHandler, guard *AccessGuard) {
	r.Get("/", handler.ListArticles)
	r.With(guard.RequireAuth, guard.RequireActiveUser, guard.RequireSuperuser).
		Post("/", handler.CreateArticle)
	r.Route("/{articleID}", func(r chi.Router) {
		r.Get("/", handler.GetArticle)
		r.With(guard.RequireAuth, guard.RequireActiveUser, guard.RequireSuperuser).
			Put("/", handler.UpdateArticle)
		r.With(guard.RequireAuth, guard.RequireActiveUser, guard.RequireSuperuser).
			Delete("/", handler.DeleteArticle)
	})
}

// ArticleListResponse is the paginated listing body.
type ArticleListResponse struct {
	Articles   []types.Article `json:"articles"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
}

// ArticleUpsertRequest is the JSON body for creating or updating an
// article.
type ArticleUpsertRequest struct {
	Title          string     `json:"title"`
	URL            string     `json:"url"`
	Summary        *string    `json:"summary"`
	Author         *string    `json:"author"`
	PublishedAt    *time.Time `json:"published_at"`
	SentimentScore *float64   `json:"sentiment_score"`
	SourceID       int        `json:"source_id"`
	Tags           []string   `json:"tags"`
}

// Validate runs validation rules for article input.
func (r ArticleUpsertRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.URL, validation.Required, is.URL),
		validation.Field(&r.SourceID, validation.Required, validation.Min(1)),
	)
}

func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeQueryValidationErrors(w, err)
		return
	}

	filter := types.ArticleFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	}

	articles, total, err := h.articleService.List(r.Context(), filter, offset, limit)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to list articles")
		return
	}

	resp := ArticleListResponse{
		Articles:   articles,
		Total:      total,
		Page:       page,
		PerPage:    limit,
		TotalPages: (total + limit - 1) / limit,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseArticleID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articleService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "Article not found")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "Failed to fetch article")
		return
	}

	writeJSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	req, err := decodeArticleRequest(r)
	if err != nil {
		writeValidationErrors(w, err)
		return
	}

	article, err := h.articleService.Create(r.Context(), req.toArticle(0))
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeDetail(w, http.StatusConflict, "Article URL already exists")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "Failed to create article")
		return
	}

	writeJSON(w, http.StatusCreated, article)
}

func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseArticleID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := decodeArticleRequest(r)
	if err != nil {
		writeValidationErrors(w, err)
		return
	}

	article, err := h.articleService.Update(r.Context(), req.toArticle(id))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeDetail(w, http.StatusNotFound, "Article not found")
		case errors.Is(err, store.ErrConflict):
			writeDetail(w, http.StatusConflict, "Article URL already exists")
		default:
			writeDetail(w, http.StatusInternalServerError, "Failed to update article")
		}
		return
	}

	writeJSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseArticleID(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.articleService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "Article not found")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "Failed to delete article")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (r ArticleUpsertRequest) toArticle(id int) types.Article {
	return types.Article{
		ID:             id,
		Title:          strings.TrimSpace(r.Title),
		URL:            strings.TrimSpace(r.URL),
		Summary:        r.Summary,
		Author:         r.Author,
		PublishedAt:    r.PublishedAt,
		SentimentScore: r.SentimentScore,
		SourceID:       r.SourceID,
		Tags:           r.Tags,
	}
}

func decodeArticleRequest(r *http.Request) (ArticleUpsertRequest, error) {
	var req ArticleUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ArticleUpsertRequest{}, errors.New("invalid JSON body")
	}
	if err := req.Validate(); err != nil {
		return ArticleUpsertRequest{}, err
	}
	return req, nil
}

func parseArticleID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "articleID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid article id")
	}
	return id, nil
}
