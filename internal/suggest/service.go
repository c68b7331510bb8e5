// AngelaMos | 2026
// service.go

// Package suggest asks the model for counter-move ideas against a
// named technique. Paid tiers only; the model answers strict JSON so
// the response can be typed end to end.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
)

const systemPrompt = `You are a Brazilian Jiu-Jitsu black belt coach.
Given a technique or position the user is struggling against, suggest
counter moves. Respond with ONLY a JSON object, no prose, shaped as:
{"suggestions":[{"name":"...","description":"...","difficulty":"beginner|intermediate|advanced"}]}
Return between 3 and 5 suggestions.`

type Suggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}

type suggestionPayload struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// completer is the slice of the OpenAI client the service uses.
type completer interface {
	CreateChatCompletion(
		ctx context.Context,
		req openai.ChatCompletionRequest,
	) (openai.ChatCompletionResponse, error)
}

type Service struct {
	client completer
	model  string
}

func NewService(cfg config.OpenAIConfig) *Service {
	return &Service{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.Model,
	}
}

// CounterMoves asks for counters to the given technique, optionally
// scoped to a position ("closed guard", "mount").
func (s *Service) CounterMoves(
	ctx context.Context,
	technique, position string,
) ([]Suggestion, error) {
	prompt := fmt.Sprintf("Technique I keep getting caught with: %s", technique)
	if position != "" {
		prompt += fmt.Sprintf("\nPosition: %s", position)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   1024,
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("counter moves completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("counter moves completion: empty response")
	}

	return parseSuggestions(resp.Choices[0].Message.Content)
}

// parseSuggestions tolerates models that wrap the JSON in a code fence
// despite the instructions.
func parseSuggestions(content string) ([]Suggestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}

	if len(payload.Suggestions) == 0 {
		return nil, fmt.Errorf("parse suggestions: none returned")
	}

	return payload.Suggestions, nil
}
