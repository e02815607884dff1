package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/raushankrgupta/printlabs/models"
	"github.com/raushankrgupta/printlabs/shopify"
	"github.com/raushankrgupta/printlabs/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const designContentType = "image/png"

// maxCustomPriceBody bounds the JSON payload, which carries the base64 design
const maxCustomPriceBody = 32 << 20

// CustomPriceHandler turns a storefront customization request into a draft
// order and returns its invoice URL.
func (h *Handler) CustomPriceHandler(w http.ResponseWriter, r *http.Request) {
	logger := h.logger().With(zap.String("api", "Custom Price API"))
	logger.Info("app proxy request started")

	shop, err := GetShopFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, logger, "Unauthorized", http.StatusUnauthorized)
		return
	}
	client, err := GetClientFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, logger, "Unauthorized", http.StatusUnauthorized)
		return
	}
	logger = logger.With(zap.String("shop", shop))

	var req models.CustomPriceRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCustomPriceBody)).Decode(&req); err != nil {
		utils.RespondError(w, logger, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.VariantID == "" {
		utils.RespondError(w, logger, "variantId is required", http.StatusBadRequest)
		return
	}
	if req.TotalPrice == nil {
		utils.RespondError(w, logger, "totalPrice is required", http.StatusBadRequest)
		return
	}
	logger.Info("payload received",
		zap.String("fileName", req.FileName),
		zap.String("variantId", string(req.VariantID)),
		zap.Bool("hasImageData", req.ImageData != ""),
	)

	designURL := ""
	if req.HasImage() {
		designURL = h.uploadDesign(r.Context(), logger, client, shop, req)
	}

	logger.Info("creating draft order")
	order, err := client.DraftOrderCreate(r.Context(), shopify.CustomizationDraftOrder(req, designURL))
	if err != nil {
		var userErrs shopify.UserErrors
		if errors.As(err, &userErrs) {
			logger.Error("draft order user errors", zap.Error(err))
			utils.RespondJSON(w, http.StatusBadRequest, map[string]string{"error": "Draft Order Failed"})
			return
		}
		logger.Error("draft order request failed", zap.Error(err))
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	logger.Info("draft order created", zap.String("draftOrder", order.ID), zap.String("invoiceUrl", order.InvoiceURL))

	if h.Notifier != nil {
		if err := h.Notifier.DraftOrderCreated(shop, order.InvoiceURL, designURL); err != nil {
			logger.Warn("merchant notification failed", zap.Error(err))
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"url": order.InvoiceURL})
}

// uploadDesign runs the platform upload chain and, when configured, the S3
// mirror next to it. Failures are logged and never abort the order; the
// platform URL wins over the mirror link.
func (h *Handler) uploadDesign(ctx context.Context, logger *zap.Logger, client *shopify.Client, shop string, req models.CustomPriceRequest) string {
	data, err := utils.DecodeDataURL(req.ImageData)
	if err != nil {
		logger.Error("image data could not be decoded", zap.Error(err))
		return ""
	}

	var platformURL, mirrorURL string
	var g errgroup.Group
	g.Go(func() error {
		platformURL = h.platformUpload(ctx, logger, client, req.FileName, data)
		return nil
	})
	if h.Mirror != nil {
		g.Go(func() error {
			u, err := h.Mirror.Mirror(ctx, shop, req.FileName, designContentType, data)
			if err != nil {
				logger.Warn("design mirror failed", zap.Error(err))
				return nil
			}
			mirrorURL = u
			return nil
		})
	}
	_ = g.Wait()

	if platformURL != "" {
		return platformURL
	}
	if mirrorURL != "" {
		logger.Warn("platform upload failed, using mirrored design link")
	}
	return mirrorURL
}

// platformUpload is the fixed three step sequence: staged target, binary
// POST, file registration. A still-processing file falls back to the staged
// resource URL.
func (h *Handler) platformUpload(ctx context.Context, logger *zap.Logger, client *shopify.Client, fileName string, data []byte) string {
	logger.Info("step 1: requesting staged upload target")
	target, err := client.StagedUploadsCreate(ctx, shopify.ImageUpload(fileName))
	if err != nil {
		logger.Error("failed to get staged target", zap.Error(err))
		return ""
	}
	logger.Info("staged target received", zap.String("resourceUrl", target.ResourceURL))

	logger.Info("step 2: uploading binary to staged target")
	if err := client.UploadToStagedTarget(ctx, target, fileName, designContentType, data); err != nil {
		logger.Error("staged upload failed", zap.Error(err))
		return ""
	}

	logger.Info("step 3: registering image in files")
	cdnURL, err := client.FileCreate(ctx, target.ResourceURL, "IMAGE")
	if err != nil {
		logger.Warn("file registration failed, using resource URL", zap.Error(err))
		return target.ResourceURL
	}
	if cdnURL == "" {
		logger.Warn("file is still processing, using resource URL")
		return target.ResourceURL
	}
	logger.Info("file registered", zap.String("cdnUrl", cdnURL))
	return cdnURL
}
