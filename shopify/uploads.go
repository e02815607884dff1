package shopify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

const stagedUploadsCreateMutation = `#graphql
mutation stagedUploadsCreate($input: [StagedUploadInput!]!) {
  stagedUploadsCreate(input: $input) {
    stagedTargets {
      url
      resourceUrl
      parameters { name value }
    }
    userErrors { field message }
  }
}`

const fileCreateMutation = `#graphql
mutation fileCreate($files: [FileCreateInput!]!) {
  fileCreate(files: $files) {
    files {
      fileStatus
      ... on MediaImage {
        image {
          url
        }
      }
    }
    userErrors { field message }
  }
}`

// StagedUploadInput describes the file a staged target is requested for
type StagedUploadInput struct {
	Filename   string `json:"filename"`
	MimeType   string `json:"mimeType"`
	HTTPMethod string `json:"httpMethod"`
	Resource   string `json:"resource"`
}

// StagedUploadParameter is a form field that must precede the file part
type StagedUploadParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// StagedTarget is the signed upload location returned by stagedUploadsCreate
type StagedTarget struct {
	URL         string                  `json:"url"`
	ResourceURL string                  `json:"resourceUrl"`
	Parameters  []StagedUploadParameter `json:"parameters"`
}

// ImageUpload returns the staged upload input used for customer designs
func ImageUpload(filename string) StagedUploadInput {
	return StagedUploadInput{
		Filename:   filename,
		MimeType:   "image/png",
		HTTPMethod: http.MethodPost,
		Resource:   "IMAGE",
	}
}

// StagedUploadsCreate requests a single signed upload target
func (c *Client) StagedUploadsCreate(ctx context.Context, input StagedUploadInput) (*StagedTarget, error) {
	var data struct {
		StagedUploadsCreate struct {
			StagedTargets []StagedTarget `json:"stagedTargets"`
			UserErrors    UserErrors     `json:"userErrors"`
		} `json:"stagedUploadsCreate"`
	}
	vars := map[string]any{"input": []StagedUploadInput{input}}
	if err := c.Do(ctx, stagedUploadsCreateMutation, vars, &data); err != nil {
		return nil, fmt.Errorf("staged upload create: %w", err)
	}
	res := data.StagedUploadsCreate
	if len(res.StagedTargets) == 0 {
		if len(res.UserErrors) > 0 {
			return nil, fmt.Errorf("staged upload create: %w", res.UserErrors)
		}
		return nil, fmt.Errorf("staged upload create: no target returned")
	}
	target := res.StagedTargets[0]
	return &target, nil
}

// UploadToStagedTarget posts the file bytes as multipart form data to the
// signed target. The target's parameters are written first, in order.
func (c *Client) UploadToStagedTarget(ctx context.Context, target *StagedTarget, filename, contentType string, data []byte) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, p := range target.Parameters {
		if err := mw.WriteField(p.Name, p.Value); err != nil {
			return fmt.Errorf("write upload parameter %s: %w", p.Name, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload to staged target: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload to staged target failed: status %d", resp.StatusCode)
	}
	return nil
}

// FileCreate registers an uploaded resource in the shop's files. It returns
// the CDN URL when the image is ready, or "" while it is still processing.
func (c *Client) FileCreate(ctx context.Context, originalSource, contentType string) (string, error) {
	var data struct {
		FileCreate struct {
			Files []struct {
				FileStatus string `json:"fileStatus"`
				Image      *struct {
					URL string `json:"url"`
				} `json:"image"`
			} `json:"files"`
			UserErrors UserErrors `json:"userErrors"`
		} `json:"fileCreate"`
	}
	vars := map[string]any{
		"files": []map[string]any{{
			"originalSource": originalSource,
			"contentType":    contentType,
		}},
	}
	if err := c.Do(ctx, fileCreateMutation, vars, &data); err != nil {
		return "", fmt.Errorf("file create: %w", err)
	}
	res := data.FileCreate
	if len(res.Files) == 0 {
		if len(res.UserErrors) > 0 {
			return "", fmt.Errorf("file create: %w", res.UserErrors)
		}
		return "", nil
	}
	if img := res.Files[0].Image; img != nil {
		return img.URL, nil
	}
	return "", nil
}

func escapeQuotes(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
