package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallHandlerRedirectsToConsent(t *testing.T) {
	f := newFakeShop(t)
	h := newTestHandler(t, f)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/install?shop=demo", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/admin/oauth/authorize", loc.Path)
	assert.Equal(t, testKey, loc.Query().Get("client_id"))
	assert.Equal(t, "write_products,write_draft_orders", loc.Query().Get("scope"))
	assert.Equal(t, "https://app.example.com/auth/callback", loc.Query().Get("redirect_uri"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, stateCookie, cookies[0].Name)
	assert.Equal(t, cookies[0].Value, loc.Query().Get("state"))
	assert.True(t, cookies[0].HttpOnly)
}

func TestInstallHandlerRejectsBadShop(t *testing.T) {
	h := newTestHandler(t, newFakeShop(t))

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/install?shop=evil.com/x", nil))

	assertJSONError(t, rec, http.StatusBadRequest, "A valid shop parameter is required")
}

func callbackRequest(state, cookie string, tamper bool) *http.Request {
	q := oauthQuery(url.Values{
		"code":      {"auth-code"},
		"shop":      {"fresh.myshopify.com"},
		"state":     {state},
		"timestamp": {"1700000000"},
	})
	if tamper {
		q += "&extra=1"
	}
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+q, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: stateCookie, Value: cookie})
	}
	return req
}

func TestCallbackHandlerStoresSession(t *testing.T) {
	f := newFakeShop(t)
	h := newTestHandler(t, f)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, callbackRequest("nonce-1", "nonce-1", false))

	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "https://fresh.myshopify.com/admin/apps/"+testKey, rec.Header().Get("Location"))

	session, err := h.Sessions.Get(t.Context(), "fresh.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "shpat_new", session.AccessToken)
	assert.Equal(t, "write_products,write_draft_orders", session.Scope)
	assert.False(t, session.CreatedAt.IsZero())
}

func TestCallbackHandlerRejects(t *testing.T) {
	f := newFakeShop(t)
	h := newTestHandler(t, f)

	tests := []struct {
		name    string
		req     *http.Request
		message string
	}{
		{"tampered query", callbackRequest("nonce-1", "nonce-1", true), "Invalid hmac"},
		{"missing state cookie", callbackRequest("nonce-1", "", false), "State invalid"},
		{"state mismatch", callbackRequest("nonce-1", "nonce-2", false), "State invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, tt.req)
			assertJSONError(t, rec, http.StatusBadRequest, tt.message)
		})
	}

	_, err := h.Sessions.Get(t.Context(), "fresh.myshopify.com")
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t, newFakeShop(t))

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeJSON(t, rec)["status"])
}
