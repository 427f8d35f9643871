// README: Gemini text-embedding-004 wrapper used by the vector index.
package ai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder embeds text with Gemini's text-embedding-004 model. It
// satisfies the vector store's Embedder interface.
type GeminiEmbedder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
}

func NewGeminiEmbedder(ctx context.Context, apiKey string) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiEmbedder{
		client: client,
		model:  client.EmbeddingModel("text-embedding-004"),
	}, nil
}

func (e *GeminiEmbedder) Close() {
	e.client.Close()
}

// Embed returns the embedding vector for the given text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding error: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding from Gemini")
	}
	return resp.Embedding.Values, nil
}
