package shopify

import "strings"

const gidPrefix = "gid://"

// ProductGID builds the global ID of a product from its numeric id
func ProductGID(id string) string {
	if strings.Contains(id, gidPrefix) {
		return id
	}
	return "gid://shopify/Product/" + id
}

// VariantGID builds the global ID of a product variant. Values that already
// are global IDs pass through unchanged.
func VariantGID(id string) string {
	if strings.Contains(id, gidPrefix) {
		return id
	}
	return "gid://shopify/ProductVariant/" + id
}

// LegacyID returns the numeric tail of a global ID
func LegacyID(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}
