package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/raushankrgupta/printlabs/shopify"
	"github.com/raushankrgupta/printlabs/store"
	"github.com/raushankrgupta/printlabs/utils"
	"go.uber.org/zap"
)

// AdminAuth authenticates embedded admin requests. It accepts a session token
// (Authorization bearer header or id_token parameter) or, for direct loads,
// a signed shop/hmac query. Shops without a stored session are sent to the
// install flow.
func (h *Handler) AdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := h.logger().With(zap.String("api", "Admin Auth"))

		shop, err := h.adminShop(r)
		if err != nil {
			utils.RespondError(w, logger, "Unauthorized", http.StatusUnauthorized)
			logger.Debug("admin auth failed", zap.Error(err))
			return
		}

		client, err := h.adminClient(r.Context(), shop)
		if errors.Is(err, store.ErrSessionNotFound) {
			logger.Info("no session for shop, redirecting to install", zap.String("shop", shop))
			http.Redirect(w, r, "/auth/install?shop="+shop, http.StatusFound)
			return
		}
		if err != nil {
			logger.Error("failed to load session", zap.String("shop", shop), zap.Error(err))
			utils.RespondError(w, nil, "Failed to load session", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(withShop(r.Context(), shop, client)))
	})
}

// maxAdminLinkAge bounds how long a signed admin query stays usable.
// maxClockSkew allows timestamps slightly ahead of the local clock.
const (
	maxAdminLinkAge = 24 * time.Hour
	maxClockSkew    = time.Minute
)

func (h *Handler) adminShop(r *http.Request) (string, error) {
	token := ""
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if token == "" {
		token = r.URL.Query().Get("id_token")
	}
	if token == "" && r.Method == http.MethodPost {
		token = r.PostFormValue("id_token")
	}
	if token != "" {
		return utils.ValidateSessionToken(token, h.Config.ShopifyAPIKey, h.Config.ShopifyAPISecret)
	}

	q := r.URL.Query()
	if !shopify.VerifyOAuthHMAC(q, h.Config.ShopifyAPISecret) {
		return "", errors.New("missing session token and valid hmac")
	}
	if err := checkSignedAt(q.Get("timestamp"), time.Now()); err != nil {
		return "", err
	}
	return utils.NormalizeShopDomain(q.Get("shop"))
}

// checkSignedAt rejects signed admin links whose timestamp is absent or
// outside the accepted window.
func checkSignedAt(raw string, now time.Time) error {
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q", raw)
	}
	signed := time.Unix(sec, 0)
	if now.Sub(signed) > maxAdminLinkAge {
		return fmt.Errorf("signed link expired at %s", signed.Add(maxAdminLinkAge).UTC().Format(time.RFC3339))
	}
	if signed.Sub(now) > maxClockSkew {
		return fmt.Errorf("timestamp %s is in the future", signed.UTC().Format(time.RFC3339))
	}
	return nil
}

// ProxyAuth authenticates storefront requests forwarded by the app proxy
func (h *Handler) ProxyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := h.logger().With(zap.String("api", "App Proxy Auth"))

		q := r.URL.Query()
		if !shopify.VerifyProxySignature(q, h.Config.ShopifyAPISecret) {
			utils.RespondError(w, logger, "Unauthorized", http.StatusUnauthorized)
			return
		}
		shop, err := utils.NormalizeShopDomain(q.Get("shop"))
		if err != nil {
			utils.RespondError(w, logger, "Unauthorized", http.StatusUnauthorized)
			return
		}

		client, err := h.adminClient(r.Context(), shop)
		if err != nil {
			logger.Error("no admin session for proxied shop", zap.String("shop", shop), zap.Error(err))
			utils.RespondError(w, nil, "App is not installed on this shop", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(withShop(r.Context(), shop, client)))
	})
}
