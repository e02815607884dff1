package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/raushankrgupta/printlabs/models"
	"github.com/raushankrgupta/printlabs/shopify"
	"github.com/raushankrgupta/printlabs/utils"
	"github.com/raushankrgupta/printlabs/views"
	"go.uber.org/zap"
)

// DetailsResponse is the JSON form of the variant builder screen
type DetailsResponse struct {
	Product  models.Product      `json:"product"`
	Variants models.VariantSet   `json:"variants"`
	Success  bool                `json:"success"`
	Errors   []shopify.UserError `json:"errors"`
}

// DetailsLoaderHandler shows the custom variant builder for one product
func (h *Handler) DetailsLoaderHandler(w http.ResponseWriter, r *http.Request) {
	logger := h.logger().With(zap.String("api", "Details Loader API"))

	client, err := GetClientFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, logger, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productGID := shopify.ProductGID(r.PathValue("id"))

	product, err := client.GetProduct(r.Context(), productGID)
	if err != nil {
		logger.Error("failed to load product", zap.String("product", productGID), zap.Error(err))
		utils.RespondError(w, nil, "Failed to load product", http.StatusBadGateway)
		return
	}
	if product == nil {
		utils.RespondError(w, logger, "Product not found", http.StatusNotFound)
		return
	}

	data := views.DetailsData{Product: *product}
	existing, err := models.ParseVariantSet(product.CustomVariants)
	if err != nil {
		logger.Warn("stored variants are unreadable", zap.String("product", productGID), zap.Error(err))
		data.Errors = []string{"Stored variants could not be read"}
	}
	data.Variants = existing
	if data.Variants == nil {
		data.Variants = models.DefaultVariantSet()
	}

	h.renderDetails(w, r, data, nil)
}

// DetailsActionHandler applies a builder edit, or saves the posted variants
// to the product metafield.
func (h *Handler) DetailsActionHandler(w http.ResponseWriter, r *http.Request) {
	logger := h.logger().With(zap.String("api", "Details Action API"))

	client, err := GetClientFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, logger, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productGID := shopify.ProductGID(r.PathValue("id"))

	if err := r.ParseForm(); err != nil {
		utils.RespondError(w, logger, "Invalid form data", http.StatusBadRequest)
		return
	}

	raw := r.PostForm.Get("variantData")
	if strings.TrimSpace(raw) == "" {
		utils.RespondError(w, logger, "Invalid variantData", http.StatusBadRequest)
		return
	}
	variants, err := models.ParseVariantSet(raw)
	if err != nil {
		utils.RespondError(w, logger, fmt.Sprintf("Invalid variantData: %v", err), http.StatusBadRequest)
		return
	}
	if variants == nil {
		variants = models.VariantSet{}
	}
	variants, err = overlayFields(variants, r.PostForm)
	if err != nil {
		utils.RespondError(w, logger, err.Error(), http.StatusBadRequest)
		return
	}

	op, err := parseEditOp(r.PostForm)
	if err != nil {
		utils.RespondError(w, logger, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := client.GetProduct(r.Context(), productGID)
	if err != nil {
		logger.Error("failed to load product", zap.String("product", productGID), zap.Error(err))
		utils.RespondError(w, nil, "Failed to load product", http.StatusBadGateway)
		return
	}
	if product == nil {
		utils.RespondError(w, logger, "Product not found", http.StatusNotFound)
		return
	}

	data := views.DetailsData{Product: *product}

	if op.Name != "save" {
		variants, err = op.apply(variants)
		if err != nil {
			utils.RespondError(w, logger, err.Error(), http.StatusBadRequest)
			return
		}
		data.Variants = variants
		h.renderDetails(w, r, data, nil)
		return
	}

	value, err := variants.JSON()
	if err != nil {
		utils.RespondError(w, logger, "Failed to encode variants", http.StatusInternalServerError)
		return
	}
	userErrs, err := client.SetCustomVariants(r.Context(), productGID, value)
	if err != nil {
		logger.Error("metafieldsSet failed", zap.String("product", productGID), zap.Error(err))
		utils.RespondError(w, nil, "Failed to save variants", http.StatusBadGateway)
		return
	}

	data.Variants = variants
	data.Saved = len(userErrs) == 0
	for _, ue := range userErrs {
		data.Errors = append(data.Errors, ue.Message)
	}
	logger.Info("variants saved",
		zap.String("product", productGID),
		zap.Int("variants", len(variants)),
		zap.Bool("success", data.Saved),
	)
	h.renderDetails(w, r, data, userErrs)
}

func (h *Handler) renderDetails(w http.ResponseWriter, r *http.Request, data views.DetailsData, userErrs []shopify.UserError) {
	if wantsJSON(r) {
		if userErrs == nil {
			userErrs = []shopify.UserError{}
		}
		utils.RespondJSON(w, http.StatusOK, DetailsResponse{
			Product:  data.Product,
			Variants: data.Variants,
			Success:  data.Saved,
			Errors:   userErrs,
		})
		return
	}
	page := views.Page("Product Custom Variant Builder", h.Config.ShopifyAPIKey, views.DetailsPage(data))
	templ.Handler(page).ServeHTTP(w, r)
}

// overlayFields applies the builder's text inputs (title_i, label_i_j,
// value_i_j) on top of the posted state.
func overlayFields(set models.VariantSet, form url.Values) (models.VariantSet, error) {
	var err error
	for i := range set {
		if v, ok := form[fmt.Sprintf("title_%d", i)]; ok {
			if set, err = set.SetVariantTitle(i, v[0]); err != nil {
				return nil, err
			}
		}
		for j := range set[i].Options {
			for _, field := range []string{"label", "value"} {
				if v, ok := form[fmt.Sprintf("%s_%d_%d", field, i, j)]; ok {
					if set, err = set.SetOption(i, j, field, v[0]); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return set, nil
}

type editOp struct {
	Name    string
	Variant int
	Option  int
	Field   string
	Value   string
}

// parseEditOp reads either the compact button form ("delete_option:0:1") or
// the explicit op/variant/option/field/value fields. No op means save.
func parseEditOp(form url.Values) (editOp, error) {
	raw := strings.TrimSpace(form.Get("op"))
	if raw == "" {
		return editOp{Name: "save"}, nil
	}

	parts := strings.Split(raw, ":")
	op := editOp{
		Name:  parts[0],
		Field: form.Get("field"),
		Value: form.Get("value"),
	}

	indexes := []string{form.Get("variant"), form.Get("option")}
	for k, p := range parts[1:] {
		if k < len(indexes) {
			indexes[k] = p
		}
	}
	var err error
	if indexes[0] != "" {
		if op.Variant, err = strconv.Atoi(indexes[0]); err != nil {
			return editOp{}, fmt.Errorf("invalid variant index %q", indexes[0])
		}
	}
	if indexes[1] != "" {
		if op.Option, err = strconv.Atoi(indexes[1]); err != nil {
			return editOp{}, fmt.Errorf("invalid option index %q", indexes[1])
		}
	}
	return op, nil
}

func (op editOp) apply(set models.VariantSet) (models.VariantSet, error) {
	switch op.Name {
	case "add_variant":
		return set.AddVariant(), nil
	case "delete_variant":
		return set.DeleteVariant(op.Variant)
	case "set_title":
		return set.SetVariantTitle(op.Variant, op.Value)
	case "add_option":
		return set.AddOption(op.Variant)
	case "delete_option":
		return set.DeleteOption(op.Variant, op.Option)
	case "set_option":
		return set.SetOption(op.Variant, op.Option, op.Field, op.Value)
	default:
		return nil, fmt.Errorf("unknown op %q", op.Name)
	}
}
