package saliency

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
)

//go:embed prompts/salient_point.txt
var salientPointPrompt string

// buildSalientPointPrompt returns the prompt shared by all hosted vision models.
func buildSalientPointPrompt(size image.Point) string {
	return fmt.Sprintf(salientPointPrompt, size.X, size.Y)
}

type pointResponse struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// parsePointJSON decodes a {"x":..,"y":..} answer given in resized coordinates
// and maps it back onto the original image.
func parsePointJSON(content string, scale float64) (Point, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var resp pointResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &resp); err != nil {
		return Point{}, err
	}
	if resp.X == nil || resp.Y == nil {
		return Point{}, errors.New(`both "x" and "y" are required`)
	}
	return Point{
		X: int(math.Round(*resp.X * scale)),
		Y: int(math.Round(*resp.Y * scale)),
	}, nil
}
