package shopify

import (
	"context"
	"fmt"

	"github.com/raushankrgupta/printlabs/models"
)

// Metafield coordinates of the custom variant definitions
const (
	VariantsNamespace = "custom"
	VariantsKey       = "custom_variants"
)

// DefaultProductPageSize matches the admin index page
const DefaultProductPageSize = 50

const listProductsQuery = `#graphql
query getProducts($first: Int!) {
  products(first: $first) {
    edges {
      node {
        id
        title
        images(first: 1) {
          edges {
            node {
              url
              altText
            }
          }
        }
      }
    }
  }
}`

const getProductQuery = `#graphql
query getProduct($id: ID!) {
  product(id: $id) {
    id
    title
    images(first: 1) {
      edges {
        node {
          url
          altText
        }
      }
    }
    metafield(namespace: "custom", key: "custom_variants") {
      value
    }
  }
}`

const metafieldsSetMutation = `#graphql
mutation metafieldsSet($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

type imageConnection struct {
	Edges []struct {
		Node models.Image `json:"node"`
	} `json:"edges"`
}

func (c imageConnection) first() *models.Image {
	if len(c.Edges) == 0 {
		return nil
	}
	img := c.Edges[0].Node
	return &img
}

type productNode struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Images    imageConnection `json:"images"`
	Metafield *struct {
		Value string `json:"value"`
	} `json:"metafield"`
}

func (n productNode) toModel() models.Product {
	p := models.Product{
		ID:    n.ID,
		Title: n.Title,
		Image: n.Images.first(),
	}
	if n.Metafield != nil {
		p.CustomVariants = n.Metafield.Value
	}
	return p
}

// ListProducts returns the first products of the shop with their first image
func (c *Client) ListProducts(ctx context.Context, first int) ([]models.Product, error) {
	if first <= 0 {
		first = DefaultProductPageSize
	}
	var data struct {
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.Do(ctx, listProductsQuery, map[string]any{"first": first}, &data); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]models.Product, 0, len(data.Products.Edges))
	for _, e := range data.Products.Edges {
		products = append(products, e.Node.toModel())
	}
	return products, nil
}

// GetProduct loads a product with its custom variant metafield. It returns
// nil, nil when the product does not exist.
func (c *Client) GetProduct(ctx context.Context, productGID string) (*models.Product, error) {
	var data struct {
		Product *productNode `json:"product"`
	}
	if err := c.Do(ctx, getProductQuery, map[string]any{"id": productGID}, &data); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if data.Product == nil {
		return nil, nil
	}
	p := data.Product.toModel()
	return &p, nil
}

// SetCustomVariants writes the variant definitions JSON to the product
// metafield and returns the mutation's user errors.
func (c *Client) SetCustomVariants(ctx context.Context, productGID, value string) ([]UserError, error) {
	vars := map[string]any{
		"metafields": []map[string]any{{
			"ownerId":   productGID,
			"namespace": VariantsNamespace,
			"key":       VariantsKey,
			"type":      "json",
			"value":     value,
		}},
	}
	var data struct {
		MetafieldsSet struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	if err := c.Do(ctx, metafieldsSetMutation, vars, &data); err != nil {
		return nil, fmt.Errorf("set custom variants: %w", err)
	}
	if data.MetafieldsSet.UserErrors == nil {
		return []UserError{}, nil
	}
	return data.MetafieldsSet.UserErrors, nil
}
