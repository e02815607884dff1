package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/raushankrgupta/printlabs/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestProductsPage(t *testing.T) {
	products := []models.Product{
		{ID: "gid://shopify/Product/101", Title: "Mug", Image: &models.Image{URL: "https://cdn.example.com/mug.png", AltText: "A mug"}},
		{ID: "gid://shopify/Product/102", Title: "Shirt <b>"},
	}

	doc := render(t, Page("Print Labs", "key-1", ProductsPage(products)))

	assert.Equal(t, "key-1", doc.Find(`meta[name="shopify-api-key"]`).AttrOr("content", ""))
	rows := doc.Find("s-table-row.product-row")
	require.Equal(t, 2, rows.Length())

	first := rows.Eq(0)
	assert.Equal(t, "/app/details/101", first.Find("s-link").AttrOr("href", ""))
	assert.Equal(t, "Mug", first.Find("s-link").Text())
	assert.Equal(t, "A mug", first.Find("s-image").AttrOr("alt", ""))
	assert.Equal(t, "Active", first.Find("s-badge").Text())

	second := rows.Eq(1)
	assert.Equal(t, "Shirt <b>", second.Find("s-link").Text())
	assert.Equal(t, "Product image", second.Find("s-image").AttrOr("alt", ""))
	assert.Equal(t, "", second.Find("s-image").AttrOr("src", "missing"))
}

func TestDetailsPage(t *testing.T) {
	data := DetailsData{
		Product: models.Product{ID: "gid://shopify/Product/101", Title: "Mug"},
		Variants: models.VariantSet{
			{VariantTitle: "Size", Options: []models.Option{{Label: "S", Value: "10"}, {Label: "L", Value: "14"}}},
			{VariantTitle: "Color", Options: []models.Option{{Label: "Red", Value: "1"}}},
		},
		Saved: true,
	}

	doc := render(t, DetailsPage(data))

	assert.Equal(t, "Mug", doc.Find("s-heading").Text())
	assert.Equal(t, "Product Image", doc.Find("s-thumbnail").AttrOr("alt", ""))
	assert.Equal(t, 1, doc.Find("s-text.saved").Length())
	assert.Equal(t, 0, doc.Find("s-text.error").Length())

	variants := doc.Find("s-box.variant")
	require.Equal(t, 2, variants.Length())
	assert.Equal(t, 2, variants.Eq(0).Find(".option").Length())
	assert.Equal(t, "Size", doc.Find(`input[name="title_0"]`).AttrOr("value", ""))
	assert.Equal(t, "14", doc.Find(`input[name="value_0_1"]`).AttrOr("value", ""))
	assert.Equal(t, 1, doc.Find(`button[value="delete_option:1:0"]`).Length())
	assert.Equal(t, 1, doc.Find(`button[value="add_option:1"]`).Length())

	state := doc.Find(`input[name="variantData"]`).AttrOr("value", "")
	parsed, err := models.ParseVariantSet(state)
	require.NoError(t, err)
	assert.Equal(t, data.Variants, parsed)
}

func TestDetailsPageShowsFirstError(t *testing.T) {
	doc := render(t, DetailsPage(DetailsData{
		Variants: models.DefaultVariantSet(),
		Errors:   []string{"Value is invalid JSON", "second"},
	}))

	assert.Equal(t, "Value is invalid JSON", doc.Find("s-text.error").Text())
	assert.Equal(t, 0, doc.Find("s-text.saved").Length())
}
