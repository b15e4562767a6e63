package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/vladimiradmaev/reprocket/internal/domain"
)

const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = openai.GPT4oMini

	coachSystemInstruction = "You are RepRocket's AI Coach, a friendly and motivational fitness expert. " +
		"Provide concise, actionable workout advice, exercise alternatives, or form tips. " +
		"Use markdown for formatting, especially for lists. Keep responses focused on the user's request."

	calorieSystemInstruction = "You are a fitness expert AI that estimates calories burned during a workout. " +
		"Provide only a single JSON object with the key 'burnedCalories' and a number value. " +
		"Do not add any other text or explanation."
)

type GeminiProvider struct {
	client *genai.Client
	model  string
}

var _ domain.AIProvider = (*GeminiProvider)(nil)

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) StreamAdvice(ctx context.Context, prompt string) (domain.AdviceStream, error) {
	model := p.client.GenerativeModel(p.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(coachSystemInstruction))

	ctx, cancel := context.WithCancel(ctx)
	return &geminiStream{
		iter:   model.GenerateContentStream(ctx, genai.Text(prompt)),
		cancel: cancel,
	}, nil
}

func (p *GeminiProvider) EstimateCalories(ctx context.Context, prompt string) (*domain.CalorieEstimate, error) {
	model := p.client.GenerativeModel(p.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(calorieSystemInstruction))
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"burnedCalories": {Type: genai.TypeInteger},
		},
		Required: []string{"burnedCalories"},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	return parseCalorieEstimate(geminiText(resp))
}

type geminiStream struct {
	iter   *genai.GenerateContentResponseIterator
	cancel context.CancelFunc
}

func (s *geminiStream) Next() (string, error) {
	for {
		resp, err := s.iter.Next()
		if errors.Is(err, iterator.Done) {
			return "", io.EOF
		}
		if err != nil {
			return "", err
		}
		if text := geminiText(resp); text != "" {
			return text, nil
		}
	}
}

func (s *geminiStream) Close() error {
	s.cancel()
	return nil
}

func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	return sb.String()
}

type OpenAIProvider struct {
	client *openai.Client
	model  string
}

var _ domain.AIProvider = (*OpenAIProvider)(nil)

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIProvider{client: openai.NewClient(apiKey), model: model}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) StreamAdvice(ctx context.Context, prompt string) (domain.AdviceStream, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: coachSystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stream: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion stream: %w", err)
	}
	return &openAIStream{stream: stream}, nil
}

func (p *OpenAIProvider) EstimateCalories(ctx context.Context, prompt string) (*domain.CalorieEstimate, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: calorieSystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty completion")
	}
	return parseCalorieEstimate(resp.Choices[0].Message.Content)
}

type openAIStream struct {
	stream *openai.ChatCompletionStream
	closed bool
}

func (s *openAIStream) Next() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if err != nil {
			return "", err
		}
		if len(resp.Choices) > 0 && resp.Choices[0].Delta.Content != "" {
			return resp.Choices[0].Delta.Content, nil
		}
	}
}

func (s *openAIStream) Close() error {
	if !s.closed {
		s.closed = true
		s.stream.Close()
	}
	return nil
}

// parseCalorieEstimate reads the burnedCalories object out of a model
// reply, tolerating code fences or stray text around it.
func parseCalorieEstimate(text string) (*domain.CalorieEstimate, error) {
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return nil, fmt.Errorf("no valid JSON found in response")
	}

	var raw struct {
		BurnedCalories *float64 `json:"burnedCalories"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if raw.BurnedCalories == nil {
		return nil, fmt.Errorf("response has no burnedCalories")
	}
	if *raw.BurnedCalories < 0 {
		return nil, fmt.Errorf("negative burnedCalories %v", *raw.BurnedCalories)
	}
	return &domain.CalorieEstimate{BurnedCalories: int(*raw.BurnedCalories + 0.5)}, nil
}

// extractJSON attempts to extract a valid JSON object from the given string.
// It handles cases where the JSON is wrapped in code blocks (```json ... ```) or other text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
