package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	checkinout "geomoments/internal/modules/checkin/port/out"
	apperrors "geomoments/internal/platform/errors"
)

type HTTPImageUploader struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTPImageUploader(endpoint string, httpClient *http.Client) checkinout.ImageUploader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPImageUploader{endpoint: endpoint, httpClient: httpClient}
}

func (u *HTTPImageUploader) Upload(ctx context.Context, dataURL string) (string, error) {
	body, err := json.Marshal(map[string]string{"imageBase64": dataURL})
	if err != nil {
		return "", fmt.Errorf("encode upload body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(payload, &out); err != nil || out.URL == "" {
		return "", fmt.Errorf("%w: status %d", apperrors.ErrUploadFailed, resp.StatusCode)
	}
	return out.URL, nil
}
