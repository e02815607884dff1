package api

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/raushankrgupta/printlabs/shopify"
	"github.com/raushankrgupta/printlabs/utils"
	"github.com/raushankrgupta/printlabs/views"
	"go.uber.org/zap"
)

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// ProductsHandler lists the shop's products with links to the variant builder
func (h *Handler) ProductsHandler(w http.ResponseWriter, r *http.Request) {
	logger := h.logger().With(zap.String("api", "Products API"))

	client, err := GetClientFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, logger, "Unauthorized", http.StatusUnauthorized)
		return
	}

	products, err := client.ListProducts(r.Context(), shopify.DefaultProductPageSize)
	if err != nil {
		logger.Error("failed to list products", zap.Error(err))
		utils.RespondError(w, nil, "Failed to load products", http.StatusBadGateway)
		return
	}
	logger.Debug("products loaded", zap.Int("count", len(products)))

	if wantsJSON(r) {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"products": products})
		return
	}
	page := views.Page("Print Labs", h.Config.ShopifyAPIKey, views.ProductsPage(products))
	templ.Handler(page).ServeHTTP(w, r)
}
