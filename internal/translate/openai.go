package translate

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	openaiModel       = openai.GPT4oMini
	openaiTemperature = 0.3
)

const openaiSystemPrompt = "You translate subtitle lines for films. " +
	"Reply with only the translated text, keeping it natural and conversational. " +
	"Do not add explanations, quotes or extra text."

// OpenAITranslator translates text through the OpenAI chat completion API.
// Slower than the Google endpoint but holds up better on idiomatic dialog.
type OpenAITranslator struct {
	client *openai.Client
	model  string
}

// NewOpenAITranslator creates an OpenAI translator with the given API key.
func NewOpenAITranslator(apiKey string) *OpenAITranslator {
	return &OpenAITranslator{
		client: openai.NewClient(apiKey),
		model:  openaiModel,
	}
}

// Translate translates a single text string.
func (o *OpenAITranslator) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	var prompt string
	if sourceLang == "" || sourceLang == "auto" {
		prompt = fmt.Sprintf("Translate to %s:\n%s", LanguageName(targetLang), text)
	} else {
		prompt = fmt.Sprintf("Translate from %s to %s:\n%s",
			LanguageName(sourceLang), LanguageName(targetLang), text)
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: openaiTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openaiSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &ServiceError{Provider: ProviderOpenAI, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ServiceError{Provider: ProviderOpenAI, Err: fmt.Errorf("no choices in response")}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
