package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/raushankrgupta/printlabs/config"
	"github.com/raushankrgupta/printlabs/shopify"
	"github.com/raushankrgupta/printlabs/store"
	"github.com/raushankrgupta/printlabs/utils"
	"go.uber.org/zap"
)

// DesignMirror stores a copy of a customer design and returns a link to it
type DesignMirror interface {
	Mirror(ctx context.Context, shop, filename, contentType string, data []byte) (string, error)
}

// OrderNotifier tells the merchant about a new customization draft order
type OrderNotifier interface {
	DraftOrderCreated(shop, invoiceURL, designURL string) error
}

// Handler serves the admin screens, the app proxy endpoint and the install flow
type Handler struct {
	Config   *config.Config
	Sessions store.SessionStore
	Logger   *zap.Logger

	// Optional integrations; nil disables them.
	Mirror   DesignMirror
	Notifier OrderNotifier

	// ShopBaseURL overrides the shop host for Admin API and OAuth calls.
	// Empty means https://{shop}.
	ShopBaseURL string
	HTTPClient  *http.Client
}

type contextKey string

const (
	shopKey   contextKey = "shop"
	clientKey contextKey = "admin_client"
)

// GetShopFromContext returns the authenticated shop domain
func GetShopFromContext(ctx context.Context) (string, error) {
	shop, ok := ctx.Value(shopKey).(string)
	if !ok || shop == "" {
		return "", fmt.Errorf("shop not found in context")
	}
	return shop, nil
}

// GetClientFromContext returns the Admin API client of the authenticated shop
func GetClientFromContext(ctx context.Context) (*shopify.Client, error) {
	client, ok := ctx.Value(clientKey).(*shopify.Client)
	if !ok || client == nil {
		return nil, fmt.Errorf("admin client not found in context")
	}
	return client, nil
}

func withShop(ctx context.Context, shop string, client *shopify.Client) context.Context {
	ctx = context.WithValue(ctx, shopKey, shop)
	return context.WithValue(ctx, clientKey, client)
}

func (h *Handler) baseURL(shop string) string {
	if h.ShopBaseURL != "" {
		return h.ShopBaseURL
	}
	return shopify.ShopURL(shop)
}

// adminClient builds an Admin API client from the shop's stored session
func (h *Handler) adminClient(ctx context.Context, shop string) (*shopify.Client, error) {
	session, err := h.Sessions.Get(ctx, shop)
	if err != nil {
		return nil, err
	}
	client := shopify.NewClientWithBaseURL(h.baseURL(shop), shop, session.AccessToken, h.Config.ShopifyAPIVersion)
	if h.HTTPClient != nil {
		client.HTTPClient = h.HTTPClient
	}
	return client, nil
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// Routes registers every endpoint on a new mux wrapped in the common middleware
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /app", h.AdminAuth(http.HandlerFunc(h.ProductsHandler)))
	mux.Handle("GET /app/details/{id}", h.AdminAuth(http.HandlerFunc(h.DetailsLoaderHandler)))
	mux.Handle("POST /app/details/{id}", h.AdminAuth(http.HandlerFunc(h.DetailsActionHandler)))

	mux.Handle("POST /apps/proxy/customprice", h.ProxyAuth(http.HandlerFunc(h.CustomPriceHandler)))

	mux.HandleFunc("GET /auth/install", h.InstallHandler)
	mux.HandleFunc("GET /auth/callback", h.CallbackHandler)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return utils.CORSMiddleware(utils.LatencyMiddleware(h.logger(), mux))
}
