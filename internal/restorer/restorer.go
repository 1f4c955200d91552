// Package restorer builds and dispatches the single Gemini request that restores an image
package restorer

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnendingLoop/PhotoRestorer/internal/intake"
	"github.com/UnendingLoop/PhotoRestorer/internal/model"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash-image"

// ContentGenerator is the slice of the genai client the restorer needs; *genai.Models satisfies it
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Restorer struct {
	generator ContentGenerator
	model     string
}

func New(gen ContentGenerator, modelName string) *Restorer {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Restorer{generator: gen, model: modelName}
}

// NewGeminiClient creates a Gemini API client authenticated with apiKey
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

// Request is one outbound generateContent call
type Request struct {
	Model    string
	Contents []*genai.Content
	Config   *genai.GenerateContentConfig
}

// BuildRequest strips the data-URL prefix from the source and assembles prompt, inline image and aspect ratio
func (r *Restorer) BuildRequest(encoded string, cfg model.RestorationConfig) (*Request, error) {
	mediaType, data, err := intake.Decode(encoded)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, model.ErrInvalidImage
	}

	ratio := cfg.AspectRatio
	if ratio == "" {
		ratio = model.DefaultAspectRatio
	}

	return &Request{
		Model: r.model,
		Contents: []*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: BuildPrompt(cfg.PromptEnhancement)},
				{InlineData: &genai.Blob{MIMEType: mediaType, Data: data}},
			},
		}},
		Config: &genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{AspectRatio: string(ratio)},
		},
	}, nil
}

// Restore dispatches exactly one request and returns the first image of the response as a data URL.
// No retries; the call blocks until the provider answers or ctx is done.
func (r *Restorer) Restore(ctx context.Context, encoded string, cfg model.RestorationConfig) (string, error) {
	req, err := r.BuildRequest(encoded, cfg)
	if err != nil {
		return "", err
	}

	resp, err := r.generator.GenerateContent(ctx, req.Model, req.Contents, req.Config)
	if err != nil {
		return "", &RequestError{Message: providerMessage(err), Err: err}
	}

	return ExtractImage(resp)
}

// ExtractImage scans candidates for the first inline image part
func ExtractImage(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", model.ErrNoResult
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mediaType := part.InlineData.MIMEType
			if mediaType == "" {
				mediaType = model.PNG
			}
			return intake.Encode(mediaType, part.InlineData.Data), nil
		}
	}
	return "", model.ErrNoResult
}
