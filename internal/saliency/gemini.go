package saliency

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kozaktomas/saliency-bias/internal/constants"
	"google.golang.org/genai"
)

const geminiModel = "gemini-2.5-flash"

// GeminiOracle asks a Gemini vision model for the salient point.
type GeminiOracle struct {
	client *genai.Client
}

func NewGeminiOracle(ctx context.Context, apiKey string) (*GeminiOracle, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiOracle{client: client}, nil
}

func (o *GeminiOracle) Name() string {
	return "gemini:" + geminiModel
}

func (o *GeminiOracle) SalientPoint(ctx context.Context, imagePath string) (Point, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return Point{}, fmt.Errorf("failed to read collage: %w", err)
	}
	resized, size, scale, err := resizeForUpload(data, constants.MaxUploadSize)
	if err != nil {
		return Point{}, fmt.Errorf("failed to resize image: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildSalientPointPrompt(size)},
				{InlineData: &genai.Blob{Data: resized, MIMEType: "image/jpeg"}},
			},
		},
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	var lastError error
	var lastResponse string

	for range constants.MaxJSONRetries {
		result, err := o.client.Models.GenerateContent(ctx, geminiModel, contents, config)
		if err != nil {
			return Point{}, fmt.Errorf("gemini API error: %w", err)
		}

		content := result.Text()
		if content == "" {
			return Point{}, errors.New("no response from Gemini")
		}
		lastResponse = content

		point, err := parsePointJSON(content, scale)
		if err != nil {
			lastError = err
			contents = append(contents,
				&genai.Content{
					Role:  "model",
					Parts: []*genai.Part{{Text: content}},
				},
				&genai.Content{
					Role:  "user",
					Parts: []*genai.Part{{Text: fmt.Sprintf("JSON parse error: %v. Reply with {\"x\": <int>, \"y\": <int>} only.", err)}},
				},
			)
			continue
		}

		return point, nil
	}

	return Point{}, fmt.Errorf("failed to parse salient point JSON after %d attempts: %w (last response: %s)", constants.MaxJSONRetries, lastError, lastResponse)
}
