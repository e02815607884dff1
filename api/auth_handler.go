package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/raushankrgupta/printlabs/models"
	"github.com/raushankrgupta/printlabs/shopify"
	"github.com/raushankrgupta/printlabs/utils"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const stateCookie = "printlabs_oauth_state"

func (h *Handler) oauthConfig(shop string) *oauth2.Config {
	return shopify.OAuthConfig(
		h.baseURL(shop),
		h.Config.ShopifyAPIKey,
		h.Config.ShopifyAPISecret,
		utils.JoinURL(h.Config.AppURL, "/auth/callback"),
		h.Config.ShopifyScopes,
	)
}

// InstallHandler redirects the merchant to the platform's consent screen
func (h *Handler) InstallHandler(w http.ResponseWriter, r *http.Request) {
	logger := h.logger().With(zap.String("api", "Install API"))

	shop, err := utils.NormalizeShopDomain(r.URL.Query().Get("shop"))
	if err != nil {
		utils.RespondError(w, logger, "A valid shop parameter is required", http.StatusBadRequest)
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("redirecting to consent screen", zap.String("shop", shop))
	http.Redirect(w, r, h.oauthConfig(shop).AuthCodeURL(state), http.StatusFound)
}

// CallbackHandler completes the install and stores the shop's offline token
func (h *Handler) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	logger := h.logger().With(zap.String("api", "OAuth Callback API"))
	q := r.URL.Query()

	if !shopify.VerifyOAuthHMAC(q, h.Config.ShopifyAPISecret) {
		utils.RespondError(w, logger, "Invalid hmac", http.StatusBadRequest)
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(q.Get("state"))) != 1 {
		utils.RespondError(w, logger, "State invalid", http.StatusBadRequest)
		return
	}

	shop, err := utils.NormalizeShopDomain(q.Get("shop"))
	if err != nil {
		utils.RespondError(w, logger, "Invalid shop", http.StatusBadRequest)
		return
	}
	code := q.Get("code")
	if code == "" {
		utils.RespondError(w, logger, "Code not found", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if h.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, h.HTTPClient)
	}
	accessToken, scope, err := shopify.ExchangeCode(ctx, h.oauthConfig(shop), code)
	if err != nil {
		logger.Error("failed to exchange token", zap.String("shop", shop), zap.Error(err))
		utils.RespondError(w, nil, "Failed to exchange token", http.StatusBadGateway)
		return
	}

	now := time.Now().UTC()
	session := &models.Session{
		Shop:        shop,
		AccessToken: accessToken,
		Scope:       scope,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Sessions.Save(r.Context(), session); err != nil {
		logger.Error("failed to save session", zap.String("shop", shop), zap.Error(err))
		utils.RespondError(w, nil, "Failed to save session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/auth", MaxAge: -1})
	logger.Info("app installed", zap.String("shop", shop), zap.String("scope", scope))
	http.Redirect(w, r, shopify.ShopURL(shop)+"/admin/apps/"+h.Config.ShopifyAPIKey, http.StatusFound)
}
