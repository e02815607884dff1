package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DesignLinkKey is the line item attribute that carries the uploaded design URL
const DesignLinkKey = "Design Link"

// NoDesignImage is recorded when the customer did not upload a design or the upload failed
const NoDesignImage = "No Design Image"

// Price accepts either a JSON number or a numeric string. Trailing garbage
// and non-finite values are rejected.
type Price float64

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid price %q", string(b))
	}
	*p = Price(f)
	return nil
}

// String formats the price with two decimals
func (p Price) String() string {
	return strconv.FormatFloat(float64(p), 'f', 2, 64)
}

// ID accepts either a JSON string or a JSON number
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s", string(b))
	}
	*id = ID(n.String())
	return nil
}

// CustomPriceRequest is the storefront payload posted through the app proxy
type CustomPriceRequest struct {
	VariantID  ID             `json:"variantId"`
	TotalPrice *Price         `json:"totalPrice"` // nil when absent or null
	FileName   string         `json:"fileName"`
	ImageData  string         `json:"imageData"` // data URL, base64 payload after the first comma
	Properties map[string]any `json:"properties"`
}

// HasImage reports whether the request carries a design to upload
func (r CustomPriceRequest) HasImage() bool {
	return r.ImageData != "" && r.FileName != ""
}

// Attribute is a key/value pair attached to a draft order line item
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attributes flattens Properties into line item attributes, sorted by key,
// and appends the design link entry.
func (r CustomPriceRequest) Attributes(designURL string) []Attribute {
	keys := make([]string, 0, len(r.Properties))
	for k := range r.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]Attribute, 0, len(keys)+1)
	for _, k := range keys {
		attrs = append(attrs, Attribute{Key: k, Value: stringify(r.Properties[k])})
	}

	link := designURL
	if link == "" {
		link = NoDesignImage
	}
	return append(attrs, Attribute{Key: DesignLinkKey, Value: link})
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = stringify(e)
		}
		return strings.Join(parts, ",")
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
