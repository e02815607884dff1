package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminCall struct {
	Token     string
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// fakeAdmin answers GraphQL calls with the first response whose marker is
// contained in the query.
func fakeAdmin(t *testing.T, responses map[string]string) (*httptest.Server, *[]adminCall) {
	t.Helper()
	var mu sync.Mutex
	var calls []adminCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call adminCall
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&call)) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		call.Token = r.Header.Get("X-Shopify-Access-Token")
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()
		for marker, body := range responses {
			if strings.Contains(call.Query, marker) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, body)
				return
			}
		}
		http.Error(w, "unexpected query", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--shop", "demo", "--token", "shpat_cli", "--base-url", srv.URL))
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestProductsList(t *testing.T) {
	srv, calls := fakeAdmin(t, map[string]string{
		"getProducts": `{"data":{"products":{"edges":[
			{"node":{"id":"gid://shopify/Product/42","title":"Mug","images":{"edges":[]}}},
			{"node":{"id":"gid://shopify/Product/43","title":"Shirt","images":{"edges":[]}}}]}}}`,
	})

	out, err := run(t, srv, "products", "list", "--limit", "10")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"ID", "TITLE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"42", "Mug"}, strings.Fields(lines[1]))
	require.Len(t, *calls, 1)
	assert.Equal(t, "shpat_cli", (*calls)[0].Token)
	assert.Equal(t, float64(10), (*calls)[0].Variables["first"])
}

func TestVariantsShow(t *testing.T) {
	srv, _ := fakeAdmin(t, map[string]string{
		"getProduct": `{"data":{"product":{"id":"gid://shopify/Product/42","title":"Mug","images":{"edges":[]},
			"metafield":{"value":"[{\"variantTitle\":\"Size\",\"options\":[{\"label\":\"Small\",\"value\":\"5\"}]}]"}}}}`,
	})

	out, err := run(t, srv, "variants", "show", "42", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"variantTitle":"Size","options":[{"label":"Small","value":"5"}]}]`, out)

	out, err = run(t, srv, "variants", "show", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "variantTitle: Size")
	assert.Contains(t, out, "label: Small")
}

func TestVariantsShowMissingProduct(t *testing.T) {
	srv, _ := fakeAdmin(t, map[string]string{"getProduct": `{"data":{"product":null}}`})

	_, err := run(t, srv, "variants", "show", "99")

	assert.EqualError(t, err, "product 99 not found")
}

func TestVariantsSetFromYAML(t *testing.T) {
	srv, calls := fakeAdmin(t, map[string]string{
		"metafieldsSet": `{"data":{"metafieldsSet":{"metafields":[{"id":"gid://shopify/Metafield/1"}],"userErrors":[]}}}`,
	})
	path := filepath.Join(t.TempDir(), "defs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- variantTitle: Size
  options:
    - label: Small
      value: "5"
    - label: Large
      value: "9"
- variantTitle: Finish
`), 0o644))

	out, err := run(t, srv, "variants", "set", "42", "--file", path)

	require.NoError(t, err)
	assert.Equal(t, "Saved 2 variants to product 42\n", out)
	require.Len(t, *calls, 1)
	mf := (*calls)[0].Variables["metafields"].([]any)[0].(map[string]any)
	assert.Equal(t, "gid://shopify/Product/42", mf["ownerId"])
	assert.JSONEq(t, `[
		{"variantTitle":"Size","options":[{"label":"Small","value":"5"},{"label":"Large","value":"9"}]},
		{"variantTitle":"Finish","options":[]}
	]`, mf["value"].(string))
}

func TestVariantsSetUserErrors(t *testing.T) {
	srv, _ := fakeAdmin(t, map[string]string{
		"metafieldsSet": `{"data":{"metafieldsSet":{"metafields":[],"userErrors":[{"field":["metafields","0","ownerId"],"message":"Owner does not exist"}]}}}`,
	})
	path := filepath.Join(t.TempDir(), "defs.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"variantTitle":"Size","options":[]}]`), 0o644))

	_, err := run(t, srv, "variants", "set", "42", "--file", path)

	assert.EqualError(t, err, "metafields.0.ownerId: Owner does not exist")
}

func TestVariantsSetRejectsBadFile(t *testing.T) {
	srv, calls := fakeAdmin(t, nil)
	path := filepath.Join(t.TempDir(), "defs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := run(t, srv, "variants", "set", "42", "--file", path)

	assert.Error(t, err)
	assert.Empty(t, *calls)
}
