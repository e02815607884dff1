package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIVersion is used when the caller does not pin a version
const DefaultAPIVersion = "2025-01"

// Client talks to the Admin GraphQL API of a single shop
type Client struct {
	Shop       string
	APIVersion string
	// Endpoint is the GraphQL URL; NewClient derives it from Shop and APIVersion.
	Endpoint   string
	HTTPClient *http.Client

	accessToken string
}

// ShopURL is the base URL of a shop's admin host
func ShopURL(shop string) string {
	return "https://" + shop
}

// NewClient creates a client for shop (e.g. "demo.myshopify.com")
func NewClient(shop, accessToken, apiVersion string) *Client {
	return NewClientWithBaseURL(ShopURL(shop), shop, accessToken, apiVersion)
}

// NewClientWithBaseURL creates a client whose requests go to baseURL instead
// of the shop's own host.
func NewClientWithBaseURL(baseURL, shop, accessToken, apiVersion string) *Client {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &Client{
		Shop:        shop,
		APIVersion:  apiVersion,
		Endpoint:    fmt.Sprintf("%s/admin/api/%s/graphql.json", strings.TrimRight(baseURL, "/"), apiVersion),
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		accessToken: accessToken,
	}
}

// GraphQLError is one entry of the top-level "errors" array
type GraphQLError struct {
	Message string `json:"message"`
}

// GraphQLErrors is returned by Do when the response carries top-level errors
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ge := range e {
		msgs[i] = ge.Message
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// UserError is a mutation-level validation error
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrors wraps mutation user errors as an error
type UserErrors []UserError

func (e UserErrors) Error() string {
	if len(e) == 0 {
		return "user errors"
	}
	msgs := make([]string, len(e))
	for i, ue := range e {
		if len(ue.Field) > 0 {
			msgs[i] = strings.Join(ue.Field, ".") + ": " + ue.Message
		} else {
			msgs[i] = ue.Message
		}
	}
	return strings.Join(msgs, "; ")
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// Do executes a query or mutation and decodes "data" into out
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read graphql response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("graphql request failed: status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var gr graphQLResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return fmt.Errorf("decode graphql response: %w", err)
	}
	if err := decodeErrors(gr.Errors); err != nil {
		return err
	}
	if out == nil || len(gr.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}

// decodeErrors handles both the array form and the plain string form the API
// uses for authentication failures.
func decodeErrors(raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var list GraphQLErrors
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return nil
		}
		return list
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return GraphQLErrors{{Message: msg}}
	}
	return GraphQLErrors{{Message: string(raw)}}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
