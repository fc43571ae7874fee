package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"itsour/internal/models"

	openai "github.com/sashabaranov/go-openai"
)

// aiRequestTimeout bounds the upstream completion call. The summary is
// requested synchronously from the editor, so a hung provider must fail the
// request rather than hold it open.
const aiRequestTimeout = 30 * time.Second

// maxSummaryInputRunes truncates article content before prompting to stay
// clear of provider token limits.
const maxSummaryInputRunes = 3000

type GenerateSummaryInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AIService generates article summaries through an OpenAI-compatible chat
// completion endpoint. Credentials and prompt come from the settings table
// on every call, so admin changes apply immediately.
type AIService struct {
	settings *SettingsService

	// newClient is swappable in tests; the default builds a real client
	// against the configured base URL.
	newClient func(apiKey, baseURL string) completionClient
}

type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

func NewAIService(settings *SettingsService) *AIService {
	return &AIService{
		settings: settings,
		newClient: func(apiKey, baseURL string) completionClient {
			cfg := openai.DefaultConfig(apiKey)
			if baseURL != "" {
				cfg.BaseURL = baseURL
			}
			return openai.NewClientWithConfig(cfg)
		},
	}
}

// GenerateSummary asks the configured model for a short summary of the given
// article. An unconfigured API key is a client error; any upstream failure
// maps to a bad-gateway error with the provider's message when available.
func (s *AIService) GenerateSummary(ctx context.Context, in GenerateSummaryInput) (string, error) {
	if strings.TrimSpace(in.Content) == "" {
		return "", models.NewValidationError("Content is required")
	}

	apiKey, err := s.settings.get(ctx, SettingAPIKey)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if apiKey == "" {
		return "", models.NewValidationError("AI API key is not configured")
	}
	model, err := s.settings.get(ctx, SettingModel)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	baseURL, err := s.settings.get(ctx, SettingBaseURL)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	prompt, err := s.settings.get(ctx, SettingSummaryPrompt)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	article := []rune(in.Content)
	if len(article) > maxSummaryInputRunes {
		article = article[:maxSummaryInputRunes]
	}
	userMsg := fmt.Sprintf("標題：%s\n\n內容：\n%s", in.Title, string(article))

	ctx, cancel := context.WithTimeout(ctx, aiRequestTimeout)
	defer cancel()

	resp, err := s.newClient(apiKey, baseURL).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: userMsg},
		},
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return "", models.NewBadGatewayError(apiErr.Message, err)
		}
		return "", models.NewBadGatewayError("AI request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", models.NewBadGatewayError("AI returned no completion", nil)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
