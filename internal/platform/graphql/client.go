// Package graphql is a minimal JSON-over-HTTP GraphQL client: one POST per
// operation, server errors surfaced as *Error.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "geomoments/internal/platform/errors"
	"geomoments/internal/platform/id"
	"geomoments/internal/platform/logging"
)

const maxResponseBytes = 8 << 20

type Request struct {
	OperationName string
	Document      string
	Variables     map[string]any
	Headers       map[string]string
}

// Error carries the messages of a GraphQL error response.
type Error struct {
	StatusCode int
	Messages   []string
	Codes      []string
}

func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("graphql: request failed with status %d", e.StatusCode)
	}
	return strings.Join(e.Messages, "; ")
}

// Is lets callers match an authentication rejection with
// errors.Is(err, apperrors.ErrSessionExpired).
func (e *Error) Is(target error) bool {
	if target != apperrors.ErrSessionExpired {
		return false
	}
	if e.StatusCode == http.StatusUnauthorized {
		return true
	}
	for _, code := range e.Codes {
		if code == "UNAUTHENTICATED" {
			return true
		}
	}
	return false
}

type Client struct {
	endpoint   string
	httpClient *http.Client
	ids        id.Generator
	logger     *slog.Logger
}

func NewClient(endpoint string, httpClient *http.Client, ids id.Generator, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if ids == nil {
		ids = id.UUID{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{endpoint: endpoint, httpClient: httpClient, ids: ids, logger: logger}
}

type wireRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type wireError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type wireResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []wireError     `json:"errors"`
}

// Do executes one operation and decodes its data object into out.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	body, err := json.Marshal(wireRequest{OperationName: req.OperationName, Query: req.Document, Variables: req.Variables})
	if err != nil {
		return fmt.Errorf("encode graphql request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build graphql request: %w", err)
	}
	requestID := c.ids.New()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	logger := logging.FromContext(logging.WithRequestID(ctx, requestID), c.logger)
	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Debug("graphql transport error", "operation", req.OperationName, "error", err)
		return fmt.Errorf("graphql %s: %w", operationLabel(req), err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read graphql response: %w", err)
	}
	logger.Debug("graphql operation", "operation", req.OperationName, "status", resp.StatusCode, "duration", time.Since(started))

	var decoded wireResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &Error{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("decode graphql response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		gqlErr := &Error{StatusCode: resp.StatusCode}
		for _, e := range decoded.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
			if e.Extensions.Code != "" {
				gqlErr.Codes = append(gqlErr.Codes, e.Extensions.Code)
			}
		}
		return gqlErr
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode}
	}
	if out == nil || len(decoded.Data) == 0 || string(decoded.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}

// Bearer builds the authorization header for authenticated operations.
func Bearer(token string) map[string]string {
	return map[string]string{"authorization": "Bearer " + token}
}

func operationLabel(req Request) string {
	if req.OperationName != "" {
		return req.OperationName
	}
	return "request"
}
