// AngelaMos | 2026
// service_test.go

package suggest

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(
	_ context.Context,
	req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

const validPayload = `{"suggestions":[
	{"name":"Posture up","description":"Break the grips and stand.","difficulty":"beginner"},
	{"name":"Stack pass","description":"Drive weight forward over the shoulders.","difficulty":"intermediate"},
	{"name":"Berimbolo counter","description":"Kill the far hook early.","difficulty":"advanced"}]}`

func TestCounterMovesParsesSuggestions(t *testing.T) {
	fake := &fakeCompleter{content: validPayload}
	svc := &Service{client: fake, model: "gpt-4o-mini"}

	got, err := svc.CounterMoves(
		context.Background(), "triangle choke", "closed guard",
	)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "Posture up", got[0].Name)
	assert.Equal(t, "beginner", got[0].Difficulty)

	require.Len(t, fake.lastReq.Messages, 2)
	assert.Contains(t, fake.lastReq.Messages[1].Content, "triangle choke")
	assert.Contains(t, fake.lastReq.Messages[1].Content, "closed guard")
}

func TestCounterMovesToleratesCodeFence(t *testing.T) {
	fake := &fakeCompleter{content: "```json\n" + validPayload + "\n```"}
	svc := &Service{client: fake, model: "gpt-4o-mini"}

	got, err := svc.CounterMoves(context.Background(), "armbar", "")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestCounterMovesRejectsGarbage(t *testing.T) {
	fake := &fakeCompleter{content: "sorry, I cannot help with that"}
	svc := &Service{client: fake, model: "gpt-4o-mini"}

	_, err := svc.CounterMoves(context.Background(), "armbar", "")
	assert.Error(t, err)
}

func TestCounterMovesRejectsEmptyList(t *testing.T) {
	fake := &fakeCompleter{content: `{"suggestions":[]}`}
	svc := &Service{client: fake, model: "gpt-4o-mini"}

	_, err := svc.CounterMoves(context.Background(), "armbar", "")
	assert.Error(t, err)
}
