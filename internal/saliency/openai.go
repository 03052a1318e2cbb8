package saliency

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/kozaktomas/saliency-bias/internal/constants"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const openAIModel = openai.ChatModelGPT4_1Mini

// OpenAIOracle asks an OpenAI vision model for the salient point.
type OpenAIOracle struct {
	client *openai.Client
}

func NewOpenAIOracle(apiKey string) *OpenAIOracle {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIOracle{client: &client}
}

func (o *OpenAIOracle) Name() string {
	return "openai:" + string(openAIModel)
}

func (o *OpenAIOracle) SalientPoint(ctx context.Context, imagePath string) (Point, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return Point{}, fmt.Errorf("failed to read collage: %w", err)
	}
	resized, size, scale, err := resizeForUpload(data, constants.MaxUploadSize)
	if err != nil {
		return Point{}, fmt.Errorf("failed to resize image: %w", err)
	}

	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(resized)
	messages := []openai.ChatCompletionMessageParamUnion{
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						openai.TextContentPart(buildSalientPointPrompt(size)),
						openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
							URL:    imageURL,
							Detail: "high",
						}),
					},
				},
			},
		},
	}

	var lastError error
	var lastResponse string

	for range constants.MaxJSONRetries {
		resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    openAIModel,
			Messages: messages,
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
			MaxTokens: openai.Int(100),
		})
		if err != nil {
			return Point{}, fmt.Errorf("OpenAI API error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return Point{}, errors.New("no response from OpenAI")
		}

		content := resp.Choices[0].Message.Content
		lastResponse = content

		point, err := parsePointJSON(content, scale)
		if err != nil {
			lastError = err
			messages = append(messages,
				openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						Content: openai.ChatCompletionAssistantMessageParamContentUnion{
							OfString: openai.String(content),
						},
					},
				},
				openai.ChatCompletionMessageParamUnion{
					OfUser: &openai.ChatCompletionUserMessageParam{
						Content: openai.ChatCompletionUserMessageParamContentUnion{
							OfString: openai.String(fmt.Sprintf("JSON parse error: %v. Reply with {\"x\": <int>, \"y\": <int>} only.", err)),
						},
					},
				},
			)
			continue
		}

		return point, nil
	}

	return Point{}, fmt.Errorf("failed to parse salient point JSON after %d attempts: %w (last response: %s)", constants.MaxJSONRetries, lastError, lastResponse)
}
