package shopify

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// OAuthConfig returns the authorization code flow configuration for the shop
// served at baseURL (see ShopURL). The platform scopes are comma separated,
// so they are passed as a single entry.
func OAuthConfig(baseURL, apiKey, apiSecret, redirectURL string, scopes []string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     apiKey,
		ClientSecret: apiSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{strings.Join(scopes, ",")},
		Endpoint: oauth2.Endpoint{
			AuthURL:   strings.TrimRight(baseURL, "/") + "/admin/oauth/authorize",
			TokenURL:  strings.TrimRight(baseURL, "/") + "/admin/oauth/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// ExchangeCode trades the callback code for an offline access token and
// returns the token together with the granted scope.
func ExchangeCode(ctx context.Context, cfg *oauth2.Config, code string) (accessToken, scope string, err error) {
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return "", "", fmt.Errorf("exchange code: %w", err)
	}
	if s, ok := token.Extra("scope").(string); ok {
		scope = s
	}
	return token.AccessToken, scope, nil
}
