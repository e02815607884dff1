package models

// Image is a product image as returned by the Admin API
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

// Product is the slice of a platform product the admin screens need
type Product struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image *Image `json:"image,omitempty"` // first product image, if any

	// CustomVariants is the raw custom.custom_variants metafield value
	CustomVariants string `json:"customVariants,omitempty"`
}

// ImageURL returns the first image URL or an empty string
func (p Product) ImageURL() string {
	if p.Image == nil {
		return ""
	}
	return p.Image.URL
}

// ImageAlt returns the first image alt text, falling back to fallback
func (p Product) ImageAlt(fallback string) string {
	if p.Image == nil || p.Image.AltText == "" {
		return fallback
	}
	return p.Image.AltText
}
