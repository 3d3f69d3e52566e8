package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var ErrCaptionUnavailable = errors.New("caption generation is not configured")

const (
	captionTemperature = 0.7
	captionMaxTokens   = 300
)

var platformInstructions = map[string]string{
	"linkedin":    "Create a professional, business-focused caption for LinkedIn. Use industry insights and thought leadership. No emojis. Keep it concise and impactful. Add 3-5 relevant professional hashtags at the end.",
	"twitter":     "Create a concise, engaging caption for Twitter. Maximum 280 characters. Be direct and conversational. No emojis. Add 2-3 relevant hashtags.",
	"instagram":   "Create an engaging, authentic caption for Instagram. Tell a story or share value. No emojis. Use line breaks for readability. Add 5-8 relevant hashtags at the end on separate lines.",
	"facebook":    "Create a friendly, conversational caption for Facebook. Can be longer and more detailed. Encourage engagement. No emojis. Add 3-5 relevant hashtags.",
	"pinterest":   "Create a descriptive, searchable title for Pinterest. Include keywords people search for. Maximum 100 characters. No emojis. Focus on what the pin is about and benefits.",
	"youtube":     "Create an engaging video title (max 100 chars) and description. Title should be clickable and SEO-friendly. Description should be detailed with timestamps if applicable. No emojis. Add relevant tags.",
	"youtubepost": "Create an engaging caption for YouTube Community post. Be conversational and encourage discussion. No emojis. Can include questions to engage audience. Add 2-3 relevant hashtags.",
}

const genericInstruction = "You are a professional social media copywriter. Create clear, engaging captions without emojis. Keep it professional and concise. IMPORTANT: Return ONLY the caption text without any quotes, markdown, or extra formatting."

type CaptionService interface {
	Generate(ctx context.Context, prompt, platform string) (string, error)
	GenerateAll(ctx context.Context, prompt string, platforms []string) (map[string]string, error)
}

type captionService struct {
	client *openai.Client
	model  string
}

// NewCaptionService talks to any OpenAI-compatible chat endpoint. An empty
// apiKey yields a service that always returns ErrCaptionUnavailable.
func NewCaptionService(apiKey, baseURL, model string) CaptionService {
	if apiKey == "" {
		return &captionService{model: model}
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &captionService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func systemPrompt(platform string) string {
	if inst, ok := platformInstructions[platform]; ok {
		return fmt.Sprintf("You are a professional social media copywriter. %s IMPORTANT: Return ONLY the caption text without any quotes, markdown, or extra formatting. Never use emojis.", inst)
	}
	return genericInstruction
}

func (s *captionService) Generate(ctx context.Context, prompt, platform string) (string, error) {
	if s.client == nil {
		return "", ErrCaptionUnavailable
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(platform)},
			{Role: openai.ChatMessageRoleUser, Content: "Generate a professional social media caption for: " + prompt},
		},
		Temperature: captionTemperature,
		MaxTokens:   captionMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("error generating caption: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("error generating caption: empty response")
	}
	return cleanCaption(resp.Choices[0].Message.Content), nil
}

func (s *captionService) GenerateAll(ctx context.Context, prompt string, platforms []string) (map[string]string, error) {
	captions := make(map[string]string, len(platforms))
	for _, p := range platforms {
		caption, err := s.Generate(ctx, prompt, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		captions[p] = caption
	}
	return captions, nil
}

func cleanCaption(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	s = strings.Trim(s, `'`)
	return strings.TrimSpace(s)
}
