package llm

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// GeminiClient calls the Gemini API through a chat session so the prior
// history rides along with every request.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient constructs a Gemini-backed client. It reads the API key
// from GEMINI_API_KEY and the model from GEMINI_MODEL.
func NewGeminiClient(ctx context.Context) (*GeminiClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, goerr.New("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gemini client")
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Generate creates a chat seeded with the prior history and sends the
// current message.
func (c *GeminiClient) Generate(ctx context.Context, input GenerateInput) (string, error) {
	history := make([]*genai.Content, 0, len(input.History))
	for _, t := range input.History {
		role := genai.RoleUser
		if t.Role == "model" {
			role = genai.RoleModel
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(t.Content)},
		})
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(input.SystemPrompt)},
		},
		// Low temperature for diagnostic consistency.
		Temperature: genai.Ptr[float32](0.2),
	}

	chat, err := c.client.Chats.Create(ctx, c.model, config, history)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create gemini chat", goerr.V("model", c.model))
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: input.Message})
	if err != nil {
		return "", goerr.Wrap(err, "gemini generation failed", goerr.V("model", c.model))
	}

	text := resp.Text()
	if text == "" {
		return "", goerr.New("gemini returned an empty response", goerr.V("model", c.model))
	}
	return text, nil
}
