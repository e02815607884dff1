package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// VerifyProxySignature checks the "signature" parameter the platform adds to
// app proxy requests.
func VerifyProxySignature(query url.Values, secret string) bool {
	sig := query.Get("signature")
	if sig == "" || secret == "" {
		return false
	}
	pairs := make([]string, 0, len(query))
	for k, v := range query {
		if k == "signature" {
			continue
		}
		pairs = append(pairs, k+"="+strings.Join(v, ","))
	}
	sort.Strings(pairs)
	return validMAC(strings.Join(pairs, ""), sig, secret)
}

// VerifyOAuthHMAC checks the "hmac" parameter on install and callback requests.
func VerifyOAuthHMAC(query url.Values, secret string) bool {
	mac := query.Get("hmac")
	if mac == "" || secret == "" {
		return false
	}
	pairs := make([]string, 0, len(query))
	for k, v := range query {
		if k == "hmac" || k == "signature" {
			continue
		}
		pairs = append(pairs, k+"="+strings.Join(v, ","))
	}
	sort.Strings(pairs)
	return validMAC(strings.Join(pairs, "&"), mac, secret)
}

// Sign returns the hex HMAC-SHA256 of message
func Sign(message, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

func validMAC(message, got, secret string) bool {
	want := Sign(message, secret)
	return hmac.Equal([]byte(strings.ToLower(got)), []byte(want))
}
