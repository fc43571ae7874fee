package service

import (
	"context"
	"fmt"

	"itsour/internal/models"
	"itsour/internal/repository"
)

// Setting keys for the AI summary integration.
const (
	SettingAPIKey        = "ai_api_key"
	SettingModel         = "ai_model"
	SettingBaseURL       = "ai_base_url"
	SettingSummaryPrompt = "ai_summary_prompt"
)

// settingDefaults are returned for unset keys so the settings payload is
// always complete.
var settingDefaults = map[string]string{
	SettingAPIKey:        "",
	SettingModel:         "gpt-4o-mini",
	SettingBaseURL:       "https://api.openai.com/v1",
	SettingSummaryPrompt: "請根據以下文章內容，用繁體中文撰寫一段 50 字以內的摘要，直接輸出摘要文字即可，不要加任何前綴。",
}

var settingKeys = []string{SettingAPIKey, SettingModel, SettingBaseURL, SettingSummaryPrompt}

// Settings is the API projection of the key/value table. The API key is
// always masked.
type Settings struct {
	APIKey        string `json:"ai_api_key"`
	Model         string `json:"ai_model"`
	BaseURL       string `json:"ai_base_url"`
	SummaryPrompt string `json:"ai_summary_prompt"`
}

// UpdateSettingsInput is a partial update of the settings table. Nil fields
// are left untouched.
type UpdateSettingsInput struct {
	APIKey        *string `json:"ai_api_key"`
	Model         *string `json:"ai_model"`
	BaseURL       *string `json:"ai_base_url"`
	SummaryPrompt *string `json:"ai_summary_prompt"`
}

// SettingsService reads and writes the admin-editable settings. Plaintext
// secret values never leave this package except to the AI client.
type SettingsService struct {
	settings repository.SettingRepository
}

func NewSettingsService(settings repository.SettingRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

func (s *SettingsService) get(ctx context.Context, key string) (string, error) {
	value, found, err := s.settings.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !found || value == "" {
		return settingDefaults[key], nil
	}
	return value, nil
}

// Get returns all settings with the API key masked.
func (s *SettingsService) Get(ctx context.Context) (*Settings, error) {
	values := make(map[string]string, len(settingKeys))
	for _, key := range settingKeys {
		value, err := s.get(ctx, key)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		values[key] = value
	}
	return &Settings{
		APIKey:        MaskSecret(values[SettingAPIKey]),
		Model:         values[SettingModel],
		BaseURL:       values[SettingBaseURL],
		SummaryPrompt: values[SettingSummaryPrompt],
	}, nil
}

// Update overwrites the provided keys and returns the resulting settings,
// masked like Get.
func (s *SettingsService) Update(ctx context.Context, in UpdateSettingsInput) (*Settings, error) {
	updates := map[string]*string{
		SettingAPIKey:        in.APIKey,
		SettingModel:         in.Model,
		SettingBaseURL:       in.BaseURL,
		SettingSummaryPrompt: in.SummaryPrompt,
	}
	for key, value := range updates {
		if value == nil {
			continue
		}
		if err := s.settings.Set(ctx, key, *value); err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	return s.Get(ctx)
}

// MaskSecret hides a secret for display: long values keep a recognizable
// prefix and suffix, short ones are fully redacted. Empty stays empty so the
// UI can tell "unset" from "set".
func MaskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 12 {
		return "***"
	}
	return fmt.Sprintf("%s...%s", value[:8], value[len(value)-4:])
}
