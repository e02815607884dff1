// Package views holds the embedded admin pages. Markup lives in the .templ
// sources; run `templ generate` after editing them.
package views

import (
	"github.com/raushankrgupta/printlabs/models"
	"github.com/raushankrgupta/printlabs/shopify"
)

// BannerImage is the illustration shown above the product table
const BannerImage = "https://cdn.shopify.com/s/files/1/0733/2796/8301/files/Adobe_Express_-_file_1.jpg?v=1769962481"

// DetailsPath is the admin URL of a product's variant builder
func DetailsPath(productGID string) string {
	return "/app/details/" + shopify.LegacyID(productGID)
}

// DetailsData is everything the variant builder screen shows
type DetailsData struct {
	Product  models.Product
	Variants models.VariantSet
	Saved    bool
	Errors   []string
}
