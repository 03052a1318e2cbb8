// Package saliency wraps the models that locate the most visually salient point of a collage.
package saliency

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/saliency-bias/internal/config"
)

// Point is a pixel coordinate in collage space, origin at the top-left corner.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Oracle returns the peak saliency point of the image stored at imagePath.
type Oracle interface {
	Name() string
	SalientPoint(ctx context.Context, imagePath string) (Point, error)
}

// Func adapts a plain function to the Oracle interface.
type Func func(ctx context.Context, imagePath string) (Point, error)

// Name implements Oracle.
func (f Func) Name() string {
	return "func"
}

// SalientPoint implements Oracle.
func (f Func) SalientPoint(ctx context.Context, imagePath string) (Point, error) {
	return f(ctx, imagePath)
}

// New creates the oracle selected by cfg.Backend.
func New(ctx context.Context, cfg *config.SaliencyConfig) (Oracle, error) {
	switch cfg.Backend {
	case config.BackendBinary, "":
		return NewBinaryOracle(cfg.BinDir, cfg.ModelPath)
	case config.BackendHTTP:
		if cfg.URL == "" {
			return nil, errors.New("SALIENCY_URL environment variable is required for the http backend")
		}
		return NewHTTPOracle(cfg.URL), nil
	case config.BackendOpenAI:
		if cfg.OpenAIToken == "" {
			return nil, errors.New("OPENAI_TOKEN environment variable is required for the openai backend")
		}
		return NewOpenAIOracle(cfg.OpenAIToken), nil
	case config.BackendGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable is required for the gemini backend")
		}
		return NewGeminiOracle(ctx, cfg.GeminiAPIKey)
	default:
		return nil, fmt.Errorf("unknown saliency backend: %s (use binary, http, openai, or gemini)", cfg.Backend)
	}
}
