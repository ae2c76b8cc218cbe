// Package client calls a remote prediction engine over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/predictsports-engine/internal/health"
	"github.com/yourusername/predictsports-engine/internal/models"
	"github.com/yourusername/predictsports-engine/internal/service"
)

// ErrServiceUnavailable is returned when the engine cannot be reached or keeps failing
var ErrServiceUnavailable = errors.New("prediction engine unavailable")

// APIError is a 4xx response from the engine
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("engine returned %d: %s", e.StatusCode, e.Message)
}

// EngineClient calls the prediction endpoints of a remote engine
type EngineClient struct {
	http    *RateLimitedHTTPClient
	baseURL string
}

// NewEngineClient creates a client for the engine at baseURL
func NewEngineClient(baseURL string, cfg HTTPClientConfig, logger *logrus.Logger) *EngineClient {
	return &EngineClient{
		http:    NewRateLimitedHTTPClient(cfg, logger),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Predict requests a full prediction
func (c *EngineClient) Predict(ctx context.Context, input models.MatchInput) (*service.PredictionResponse, error) {
	var out service.PredictionResponse
	if err := c.call(ctx, http.MethodPost, "/predictions/predict", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analyze requests a match analysis
func (c *EngineClient) Analyze(ctx context.Context, input models.MatchInput) (*service.AnalysisResponse, error) {
	var out service.AnalysisResponse
	if err := c.call(ctx, http.MethodPost, "/predictions/analyze", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Features requests the derived feature set
func (c *EngineClient) Features(ctx context.Context, input models.MatchInput) (*service.FeaturesResponse, error) {
	var out service.FeaturesResponse
	if err := c.call(ctx, http.MethodPost, "/predictions/features", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health returns the engine's health document
func (c *EngineClient) Health(ctx context.Context) (*health.HealthResponse, error) {
	var out health.HealthResponse
	if err := c.call(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Close releases idle connections
func (c *EngineClient) Close() error {
	return c.http.Close()
}

func (c *EngineClient) call(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		if errors.Is(err, ErrServiceUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		var apiErr struct {
			Error string `json:"error"`
		}
		message := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			message = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
