package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// MaxDesignBytes bounds the decoded size of a customer design
const MaxDesignBytes = 20 << 20

// DecodeDataURL returns the bytes of a base64 data URL such as
// "data:image/png;base64,iVBOR...". A bare base64 string is accepted too.
func DecodeDataURL(dataURL string) ([]byte, error) {
	payload := dataURL
	if i := strings.Index(dataURL, ","); i >= 0 {
		payload = dataURL[i+1:]
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, fmt.Errorf("image data is empty")
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxDesignBytes {
		return nil, fmt.Errorf("image data exceeds %d bytes", MaxDesignBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// some encoders drop the padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("decode image data: %w", err)
		}
	}
	return data, nil
}
