package llm

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient calls the OpenAI chat completion API. Credentials and the
// model name are loaded from the environment.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient constructs an OpenAI-backed client. It reads the API key
// from OPENAI_API_KEY and the model from OPENAI_MODEL_CHAT, falling back to
// a modern small model.
func NewOpenAIClient() *OpenAIClient {
	model := os.Getenv("OPENAI_MODEL_CHAT")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{
		client: openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		model:  model,
	}
}

// Generate sends the system prompt, prior history and current message to the
// chat completion API and returns the assistant's reply.
func (c *OpenAIClient) Generate(ctx context.Context, input GenerateInput) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(input.History)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: input.SystemPrompt,
	})
	for _, t := range input.History {
		role := openai.ChatMessageRoleUser
		if t.Role == "model" {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: input.Message,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
		// Low temperature for diagnostic consistency.
		Temperature: 0.2,
	})
	if err != nil {
		return "", goerr.Wrap(err, "openai chat completion failed", goerr.V("model", c.model))
	}
	if len(resp.Choices) == 0 {
		return "", goerr.New("openai returned no choices", goerr.V("model", c.model))
	}
	return resp.Choices[0].Message.Content, nil
}
