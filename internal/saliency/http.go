package saliency

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/kozaktomas/saliency-bias/internal/constants"
)

// HTTPOracle queries a saliency model served over HTTP.
type HTTPOracle struct {
	baseURL string
	client  *http.Client
}

// NewHTTPOracle creates a new HTTP oracle client
func NewHTTPOracle(baseURL string) *HTTPOracle {
	return &HTTPOracle{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: constants.OracleHTTPTimeout},
	}
}

// Name implements Oracle.
func (o *HTTPOracle) Name() string {
	return "http:" + o.baseURL
}

// saliencyResponse represents the response from the saliency server
type saliencyResponse struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

// SalientPoint posts the collage as multipart form data to /saliency.
func (o *HTTPOracle) SalientPoint(ctx context.Context, imagePath string) (Point, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return Point{}, fmt.Errorf("failed to read collage: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return Point{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return Point{}, fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Point{}, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/saliency", &buf)
	if err != nil {
		return Point{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Point{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var salResp saliencyResponse
	if err := json.Unmarshal(body, &salResp); err != nil {
		return Point{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if salResp.X == nil || salResp.Y == nil {
		return Point{}, fmt.Errorf("response is missing coordinates: %s", string(body))
	}

	return Point{X: *salResp.X, Y: *salResp.Y}, nil
}
