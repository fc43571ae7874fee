package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openai "github.com/sashabaranov/go-openai"
)

type completionStub struct {
	fn func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

func (s *completionStub) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return s.fn(req)
}

func newAIService(t *testing.T, apiKey string, fn func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)) *AIService {
	t.Helper()
	repo := newSettingRepoStub()
	if apiKey != "" {
		repo.values[SettingAPIKey] = apiKey
	}
	svc := NewAIService(NewSettingsService(repo))
	svc.newClient = func(_, _ string) completionClient {
		return &completionStub{fn: fn}
	}
	return svc
}

func completion(text string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: text}},
		},
	}
}

func TestAIServiceGenerateSummary(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	svc := newAIService(t, "sk-test", func(req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		gotReq = req
		return completion("  a concise summary  "), nil
	})

	summary, err := svc.GenerateSummary(context.Background(), GenerateSummaryInput{
		Title:   "My Post",
		Content: "Some long article body",
	})
	require.NoError(t, err)
	assert.Equal(t, "a concise summary", summary)

	assert.Equal(t, "gpt-4o-mini", gotReq.Model, "unset model falls back to the default")
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "My Post")
	assert.Contains(t, gotReq.Messages[1].Content, "Some long article body")
}

func TestAIServiceGenerateSummaryTruncatesContent(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	svc := newAIService(t, "sk-test", func(req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		gotReq = req
		return completion("ok"), nil
	})

	_, err := svc.GenerateSummary(context.Background(), GenerateSummaryInput{
		Content: strings.Repeat("字", 5000),
	})
	require.NoError(t, err)
	assert.Equal(t, maxSummaryInputRunes, strings.Count(gotReq.Messages[1].Content, "字"))
}

func TestAIServiceGenerateSummaryRequiresContent(t *testing.T) {
	svc := newAIService(t, "sk-test", nil)
	_, err := svc.GenerateSummary(context.Background(), GenerateSummaryInput{Content: "  "})
	assertValidationError(t, err)
}

func TestAIServiceGenerateSummaryRequiresAPIKey(t *testing.T) {
	svc := newAIService(t, "", nil)
	_, err := svc.GenerateSummary(context.Background(), GenerateSummaryInput{Content: "body"})
	assertValidationError(t, err)
}

func TestAIServiceGenerateSummaryUpstreamErrors(t *testing.T) {
	svc := newAIService(t, "sk-test", func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, &openai.APIError{Message: "model overloaded"}
	})
	_, err := svc.GenerateSummary(context.Background(), GenerateSummaryInput{Content: "body"})
	assertBadGatewayError(t, err)
	assert.Contains(t, err.Error(), "model overloaded")

	svc = newAIService(t, "sk-test", func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, errors.New("connection refused")
	})
	_, err = svc.GenerateSummary(context.Background(), GenerateSummaryInput{Content: "body"})
	assertBadGatewayError(t, err)

	svc = newAIService(t, "sk-test", func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, nil
	})
	_, err = svc.GenerateSummary(context.Background(), GenerateSummaryInput{Content: "body"})
	assertBadGatewayError(t, err)
}
