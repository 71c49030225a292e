// Package judge asks Google Gemini whether a photo contains a named target
// object. It is the backend of the hosted photo-validation endpoint.
package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("AI service not configured")

// Judge holds the Gemini settings. Clients are constructed per call.
type Judge struct {
	apiKey string
	model  string
}

func New(apiKey, model string) *Judge {
	return &Judge{apiKey: apiKey, model: model}
}

// verdict mirrors the JSON object the model is constrained to return.
type verdict struct {
	Result bool `json:"Result"`
}

// generateContent is a seam for testing the Gemini call.
var generateContent = func(ctx context.Context, apiKey, modelName string, parts ...genai.Part) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"Result": {Type: genai.TypeBoolean},
		},
		Required: []string{"Result"},
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}
	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}
	return "", fmt.Errorf("unexpected response format from Gemini")
}

// Check reports whether the image contains the target object.
func (j *Judge) Check(ctx context.Context, image []byte, mimeType, target string) (bool, error) {
	if j.apiKey == "" {
		return false, ErrNotConfigured
	}

	prompt := fmt.Sprintf("Does this image contain %s? Answer with Result true or false.", target)

	raw, err := generateContent(ctx, j.apiKey, j.model,
		genai.Blob{MIMEType: mimeType, Data: image},
		genai.Text(prompt),
	)
	if err != nil {
		return false, err
	}

	var v verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return false, fmt.Errorf("unexpected model output %q: %w", raw, err)
	}

	return v.Result, nil
}
