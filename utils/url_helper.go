package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const shopSuffix = ".myshopify.com"

var shopNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)

// NormalizeShopDomain turns "demo", "demo.myshopify.com" or
// "https://demo.myshopify.com/admin" into "demo.myshopify.com".
func NormalizeShopDomain(raw string) (string, error) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return "", fmt.Errorf("shop is empty")
	}
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("invalid shop url %q: %w", raw, err)
		}
		s = u.Host
	}
	s = strings.TrimSuffix(s, "/")

	name := strings.TrimSuffix(s, shopSuffix)
	if !shopNameRe.MatchString(name) {
		return "", fmt.Errorf("invalid shop domain %q", raw)
	}
	return name + shopSuffix, nil
}

// JoinURL appends path to base, keeping exactly one slash between them
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
