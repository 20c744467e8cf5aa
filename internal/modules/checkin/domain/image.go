package domain

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// MaxImageBytes bounds a single upload before encoding.
const MaxImageBytes = 10 << 20

// EncodeDataURL renders an image as a data URL, the same shape a browser
// FileReader produces.
func EncodeDataURL(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image is empty")
	}
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("image is %d bytes, limit is %d", len(data), MaxImageBytes)
	}
	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("file is %s, not an image", mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
