package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"
)

// DefaultModel is the model asked when none is configured.
const DefaultModel = "gemini-3-flash-preview"

const systemInstruction = `You are a compassionate, empathetic, and encouraging quit-vaping coach named "BreathFree Coach".
Your goal is to support the user in their journey to quit nicotine/vaping.
Keep your responses short, friendly, and human-like. Avoid overly clinical language.
Focus on positive reinforcement.
If the user logs a slip-up, be non-judgmental and focus on the "next step".
If the user resists a craving, celebrate it enthusiastically.`

// GenAIProvider asks a Gemini model for structured JSON advice.
type GenAIProvider struct {
	client *genai.Client
	model  string
}

// NewGenAIProvider creates a client for apiKey. An empty model uses
// DefaultModel.
func NewGenAIProvider(ctx context.Context, apiKey, model string) (*GenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIProvider{client: client, model: model}, nil
}

func (p *GenAIProvider) Name() string { return "genai:" + p.model }

func buildPrompt(lines []LogLine) (string, error) {
	logs, err := sonic.MarshalString(lines)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("Analyze these recent user logs for quitting vaping:\n")
	b.WriteString(logs)
	b.WriteString("\n\nIdentify patterns or progress.\n")
	b.WriteString("Provide a JSON object with:\n")
	b.WriteString("- message: A brief, encouraging insight (max 20 words).\n")
	b.WriteString("- tip: A specific, actionable strategy (max 15 words).\n")
	return b.String(), nil
}

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"message": {Type: genai.TypeString},
		"tip":     {Type: genai.TypeString},
	},
	Required: []string{"message", "tip"},
}

// Advise sends lines to the model and decodes its JSON reply.
func (p *GenAIProvider) Advise(ctx context.Context, lines []LogLine) (Advice, error) {
	prompt, err := buildPrompt(lines)
	if err != nil {
		return Advice{}, fmt.Errorf("encode logs: %w", err)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    responseSchema,
		})
	if err != nil {
		return Advice{}, fmt.Errorf("generate content: %w", err)
	}

	return parseAdvice(resp.Text())
}

func parseAdvice(text string) (Advice, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Advice{}, ErrEmptyResponse
	}
	var a Advice
	if err := sonic.UnmarshalString(text, &a); err != nil {
		return Advice{}, fmt.Errorf("decode advice: %w", err)
	}
	if a.Message == "" && a.Tip == "" {
		return Advice{}, ErrEmptyResponse
	}
	a.Source = SourceProvider
	return a, nil
}
