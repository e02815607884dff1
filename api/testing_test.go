package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/raushankrgupta/printlabs/config"
	"github.com/raushankrgupta/printlabs/models"
	"github.com/raushankrgupta/printlabs/shopify"
	"github.com/raushankrgupta/printlabs/store"
	"github.com/raushankrgupta/printlabs/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testShop   = "demo.myshopify.com"
	testKey    = "app-key"
	testSecret = "app-secret"
)

type graphQLCall struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// fakeShop stands in for the shop's admin host and the staged upload bucket
type fakeShop struct {
	t   *testing.T
	srv *httptest.Server

	mu           sync.Mutex
	responses    map[string]string
	calls        []graphQLCall
	uploadStatus int
	uploads      [][]byte
}

func newFakeShop(t *testing.T) *fakeShop {
	f := &fakeShop{t: t, responses: map[string]string{}, uploadStatus: http.StatusCreated}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeShop) on(marker, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[marker] = body
}

func (f *fakeShop) operations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ops []string
	for _, c := range f.calls {
		ops = append(ops, opName(c.Query))
	}
	return ops
}

func (f *fakeShop) call(op string) *graphQLCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.calls {
		if opName(f.calls[i].Query) == op {
			return &f.calls[i]
		}
	}
	return nil
}

func opName(query string) string {
	for _, kw := range []string{"query ", "mutation "} {
		if i := strings.Index(query, kw); i >= 0 {
			rest := query[i+len(kw):]
			if j := strings.IndexAny(rest, "( {"); j >= 0 {
				return rest[:j]
			}
		}
	}
	return ""
}

func (f *fakeShop) serve(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/upload":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, _ := io.ReadAll(file)
		f.mu.Lock()
		f.uploads = append(f.uploads, b)
		status := f.uploadStatus
		f.mu.Unlock()
		w.WriteHeader(status)

	case r.URL.Path == "/admin/oauth/access_token":
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"shpat_new","scope":"write_products,write_draft_orders"}`)

	case strings.HasSuffix(r.URL.Path, "/graphql.json"):
		var call graphQLCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.calls = append(f.calls, call)
		body, ok := f.responses[opName(call.Query)]
		f.mu.Unlock()
		if !ok {
			http.Error(w, `{"errors":"unexpected operation"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeShop) stagedTargetResponse() string {
	return fmt.Sprintf(`{"data":{"stagedUploadsCreate":{"stagedTargets":[{"url":"%s/upload","resourceUrl":"%s/upload/tmp/design.png","parameters":[{"name":"key","value":"tmp/design.png"}]}],"userErrors":[]}}}`,
		f.srv.URL, f.srv.URL)
}

func newTestHandler(t *testing.T, f *fakeShop) *Handler {
	t.Helper()
	sessions := store.NewMemoryStore()
	require.NoError(t, sessions.Save(t.Context(), &models.Session{Shop: testShop, AccessToken: "shpat_test"}))
	return &Handler{
		Config: &config.Config{
			ShopifyAPIKey:     testKey,
			ShopifyAPISecret:  testSecret,
			ShopifyAPIVersion: shopify.DefaultAPIVersion,
			ShopifyScopes:     []string{"write_products", "write_draft_orders"},
			AppURL:            "https://app.example.com",
		},
		Sessions:    sessions,
		Logger:      zap.NewNop(),
		ShopBaseURL: f.srv.URL,
		HTTPClient:  f.srv.Client(),
	}
}

func bearer(t *testing.T, shop string) string {
	t.Helper()
	token, err := utils.GenerateSessionToken(shop, testKey, testSecret, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func generateToken(shop, apiKey string) (string, error) {
	return utils.GenerateSessionToken(shop, apiKey, testSecret, time.Minute)
}

// oauthQuery adds the admin hmac to q and encodes it
func oauthQuery(q url.Values) string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + q.Get(k)
	}
	q.Set("hmac", shopify.Sign(strings.Join(pairs, "&"), testSecret))
	return q.Encode()
}

// proxyQuery signs an app proxy query string for shop
func proxyQuery(shop string) string {
	q := url.Values{
		"shop":        {shop},
		"path_prefix": {"/apps/proxy"},
		"timestamp":   {"1700000000"},
	}
	msg := "path_prefix=/apps/proxyshop=" + shop + "timestamp=1700000000"
	q.Set("signature", shopify.Sign(msg, testSecret))
	return q.Encode()
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func assertJSONError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	assert.Equal(t, status, rec.Code)
	assert.Equal(t, message, decodeJSON(t, rec)["error"])
}
