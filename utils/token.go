package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims of an embedded admin session token
type SessionClaims struct {
	Dest string `json:"dest"`
	SID  string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a session token for shop. The platform issues
// these in production; the app uses it for the operator CLI and tests.
func GenerateSessionToken(shop, apiKey, apiSecret string, ttl time.Duration) (string, error) {
	if apiSecret == "" {
		return "", fmt.Errorf("api secret is not set")
	}
	now := time.Now()
	claims := SessionClaims{
		Dest: "https://" + shop,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://" + shop + "/admin",
			Audience:  jwt.ClaimStrings{apiKey},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(apiSecret))
}

// ValidateSessionToken parses and validates the token and returns the shop
// domain it was issued for.
func ValidateSessionToken(tokenString, apiKey, apiSecret string) (string, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(apiSecret), nil
	},
		jwt.WithAudience(apiKey),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		return "", err
	}

	shop, err := NormalizeShopDomain(claims.Dest)
	if err != nil {
		return "", fmt.Errorf("invalid dest claim: %w", err)
	}
	return shop, nil
}
