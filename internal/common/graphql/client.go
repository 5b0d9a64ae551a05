// internal/common/graphql/client.go
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marketplace-facets/internal/common/logger"
)

var (
	ErrTransport = errors.New("GRAPHQL_TRANSPORT_FAILED")
	ErrAPI       = errors.New("GRAPHQL_API_ERROR")
	ErrDecode    = errors.New("GRAPHQL_DECODE_FAILED")
)

// Client posts GraphQL operations to the marketplace backend. The backend's
// query text is an external contract; callers own their operation documents
// and response shapes, the client owns transport, auth and error unwrapping.
type Client struct {
	endpoint   string
	authHeader string
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(endpoint, authHeader string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		authHeader: authHeader,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithFields(map[string]interface{}{"component": "graphql"}),
	}
}

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []apiError      `json:"errors,omitempty"`
}

// Do executes one operation and decodes the response's data object into out.
// The operation name is used only for logging.
func (c *Client) Do(ctx context.Context, operation, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	var envelope response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("%w: %s", ErrAPI, strings.Join(msgs, "; "))
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%w: decode data: %v", ErrDecode, err)
		}
	}

	c.logger.Debug("operation completed", map[string]interface{}{
		"operation": operation,
		"tookMs":    time.Since(start).Milliseconds(),
	})

	return nil
}
