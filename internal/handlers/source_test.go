package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ainews/apiserver/types"
	"github.com/stretchr/testify/require"
)

func seedSource(t *testing.T, env *testEnv, name, url string) types.NewsSource {
	t.Helper()
	source, err := env.sourceRepo.Create(context.Background(), types.NewsSource{
		Name:     name,
		URL:      url,
		IsActive: true,
	})
	require.NoError(t, err)
	return source
}

func TestListSources(t *testing.T) {
	env := newTestEnv(t)
	seedSource(t, env, "Example News", "https://example.com")
	seedSource(t, env, "Tech Wire", "https://techwire.example.com")

	req := httptest.NewRequest(http.MethodGet, "/sources", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SourceListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sources, 2)
	require.Equal(t, 2, resp.Total)
}

func TestGetSource(t *testing.T) {
	env := newTestEnv(t)
	source := seedSource(t, env, "Example News", "https://example.com")

	req := httptest.NewRequest(http.MethodGet, "/sources/1", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, source.Name, body["name"])
	require.Equal(t, source.URL, body["url"])
}

func TestGetSource_NotFound(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/sources/42", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Source not found", decodeBody(t, rec)["detail"])
}

func TestGetSource_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/sources/abc", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSource_RequiresSuperuser(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "reader@x.com", "reader", "pw12345", true, false)
	token, err := env.issuer.Issue(user.Username)
	require.NoError(t, err)

	rec := postJSONAuth(t, env, "/sources", map[string]any{
		"name": "Example News",
		"url":  "https://example.com",
	}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, detailInsufficientPrivilege, decodeBody(t, rec)["detail"])
}

func TestCreateSource(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@x.com", "admin", "pw12345", true, true)
	token, err := env.issuer.Issue(admin.Username)
	require.NoError(t, err)

	rec := postJSONAuth(t, env, "/sources", map[string]any{
		"name":     "Example News",
		"url":      "https://example.com",
		"category": "technology",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "Example News", body["name"])
	require.Equal(t, true, body["is_active"])
}
