package shopify

import (
	"context"
	"fmt"

	"github.com/raushankrgupta/printlabs/models"
)

const draftOrderCreateMutation = `#graphql
mutation draftOrderCreate($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder { id invoiceUrl }
    userErrors { field message }
  }
}`

// DraftOrderLineItem is either a variant line (VariantID set) or a custom
// line (Title and OriginalUnitPrice set).
type DraftOrderLineItem struct {
	VariantID         string             `json:"variantId,omitempty"`
	Title             string             `json:"title,omitempty"`
	Quantity          int                `json:"quantity"`
	OriginalUnitPrice string             `json:"originalUnitPrice,omitempty"`
	CustomAttributes  []models.Attribute `json:"customAttributes,omitempty"`
}

// DraftOrderInput is the subset of the platform input this app sends
type DraftOrderInput struct {
	LineItems []DraftOrderLineItem `json:"lineItems"`
	Note      string               `json:"note,omitempty"`
}

// DraftOrder is the created order reference
type DraftOrder struct {
	ID         string `json:"id"`
	InvoiceURL string `json:"invoiceUrl"`
}

// DraftOrderCreate creates a draft order. When the platform rejects the
// input the returned error is a UserErrors value.
func (c *Client) DraftOrderCreate(ctx context.Context, input DraftOrderInput) (*DraftOrder, error) {
	var data struct {
		DraftOrderCreate struct {
			DraftOrder *DraftOrder `json:"draftOrder"`
			UserErrors UserErrors  `json:"userErrors"`
		} `json:"draftOrderCreate"`
	}
	if err := c.Do(ctx, draftOrderCreateMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, fmt.Errorf("draft order create: %w", err)
	}
	res := data.DraftOrderCreate
	if res.DraftOrder == nil {
		return nil, res.UserErrors
	}
	return res.DraftOrder, nil
}

// CustomizationDraftOrder builds the two-line draft order for a storefront
// customization request: the chosen variant carrying the customer's
// properties, and a custom charge line for the computed price.
func CustomizationDraftOrder(req models.CustomPriceRequest, designURL string) DraftOrderInput {
	var price models.Price
	if req.TotalPrice != nil {
		price = *req.TotalPrice
	}
	return DraftOrderInput{
		LineItems: []DraftOrderLineItem{
			{
				VariantID:        VariantGID(string(req.VariantID)),
				Quantity:         1,
				CustomAttributes: req.Attributes(designURL),
			},
			{
				Title:             "Customization Charge",
				Quantity:          1,
				OriginalUnitPrice: price.String(),
			},
		},
		Note: "Customer Design URL: " + designURL,
	}
}
