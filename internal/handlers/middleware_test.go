package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func getMe(env *testEnv, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestGuard_MissingAndMalformedHeader(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "g@x.com", "guarded", "pw12345", true, false)

	tests := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"no scheme", "sometoken"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := getMe(env, tt.authorization)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			require.Equal(t, "Could not validate credentials", decodeBody(t, rec)["detail"])
		})
	}
}

func TestGuard_InvalidToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "g@x.com", "guarded", "pw12345", true, false)

	valid, err := env.issuer.Issue(user.Username)
	require.NoError(t, err)
	expired, err := env.issuer.IssueWithTTL(user.Username, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"tampered", valid[:len(valid)-2] + "xx"},
		{"expired", expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := getMe(env, "Bearer "+tt.token)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			require.Equal(t, "Could not validate credentials", decodeBody(t, rec)["detail"])
		})
	}
}

func TestGuard_UnknownSubjectMatchesTokenFailures(t *testing.T) {
	env := newTestEnv(t)

	// Token is valid but no backing account exists; the body must be
	// identical to a bad-token rejection.
	token, err := env.issuer.Issue("ghost")
	require.NoError(t, err)

	withUnknownSubject := getMe(env, "Bearer "+token)
	withBadToken := getMe(env, "Bearer garbage")

	require.Equal(t, http.StatusUnauthorized, withUnknownSubject.Code)
	require.Equal(t, http.StatusUnauthorized, withBadToken.Code)
	require.JSONEq(t, withBadToken.Body.String(), withUnknownSubject.Body.String())
}

func TestGuard_InactiveUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "in@x.com", "inactive", "pw12345", false, false)

	token, err := env.issuer.Issue(user.Username)
	require.NoError(t, err)

	rec := getMe(env, "Bearer "+token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Inactive user", decodeBody(t, rec)["detail"])
}

func TestGuard_SuperuserGate(t *testing.T) {
	env := newTestEnv(t)
	regular := env.seedUser(t, "r@x.com", "regular", "pw12345", true, false)
	admin := env.seedUser(t, "s@x.com", "admin", "pw12345", true, true)

	body := map[string]any{
		"title":     "Title",
		"url":       "https://example.com/a",
		"source_id": 1,
	}

	regularToken, err := env.issuer.Issue(regular.Username)
	require.NoError(t, err)
	adminToken, err := env.issuer.Issue(admin.Username)
	require.NoError(t, err)

	rec := postJSONAuth(t, env, "/articles", body, regularToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "The user doesn't have enough privileges", decodeBody(t, rec)["detail"])

	rec = postJSONAuth(t, env, "/articles", body, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)
}
