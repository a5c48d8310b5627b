package services

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"
)

// InferenceService wraps the generative model behind the two operations the
// pipeline needs. Implementations must be safe for concurrent use: the
// audit synthesizer issues two GenerateStructured calls at once and the
// embedding indexer batches Embed calls.
type InferenceService interface {
	// GenerateStructured sends free text under a fixed instruction and
	// returns the raw model output. The output is expected, but not
	// guaranteed, to contain JSON; callers parse it through llmjson.
	GenerateStructured(ctx context.Context, instruction, prompt string) (string, error)

	// Embed returns a fixed-length vector for text. A zero-length slice is
	// the explicit "embedding failed" sentinel; Embed never returns an
	// error because every caller treats failure as a degraded result.
	Embed(ctx context.Context, text string) []float32
}

type geminiService struct {
	client        *genai.Client
	modelName     string
	embedModel    string
	embedFallback string
	maxRetries    int
}

func NewInferenceService(apiKey string, maxRetries int) (InferenceService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if maxRetries < 1 {
		maxRetries = 1
	}

	return &geminiService{
		client:        client,
		modelName:     "gemini-2.5-flash",
		embedModel:    "gemini-embedding-exp-03-07",
		embedFallback: "text-embedding-004",
		maxRetries:    maxRetries,
	}, nil
}

// GenerateStructured implements InferenceService.
func (g *geminiService) GenerateStructured(ctx context.Context, instruction, prompt string) (string, error) {
	temperature := float32(0.3)
	config := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   4096,
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
		if err == nil {
			if text := resp.Text(); text != "" {
				return text, nil
			}
			err = fmt.Errorf("no text content in response")
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < g.maxRetries {
			log.Printf("⚠️  Generation attempt %d failed: %v. Retrying...\n", attempt, err)
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
}

// Embed implements InferenceService. The primary embedding model gets one
// shot, then the alternate model, then the zero-length sentinel.
func (g *geminiService) Embed(ctx context.Context, text string) []float32 {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	for _, model := range []string{g.embedModel, g.embedFallback} {
		result, err := g.client.Models.EmbedContent(ctx, model, genai.Text(text), nil)
		if err != nil {
			log.Printf("⚠️  Embedding with %s failed: %v\n", model, err)
			continue
		}
		if result == nil || len(result.Embeddings) == 0 {
			log.Printf("⚠️  Embedding with %s returned an empty result\n", model)
			continue
		}
		return result.Embeddings[0].Values
	}

	log.Println("⚠️  All embedding models failed")
	return []float32{}
}
