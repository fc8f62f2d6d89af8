// Package suggest turns editor context into line-completion suggestions via
// Gemini. The prompt contract is fixed: three one-line completions separated
// by --- for a /*@@*/ placeholder in the submitted code.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/DanielEbert/lineCompletion/pkg/prompts"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Service wraps the Gemini client configured with the line-completion system
// prompt.
type Service struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	context *ContextBuilder
}

// Option configures a Service.
type Option func(*Service)

// WithContextBuilder enables prompt enrichment with definitions of functions
// called in the submitted context.
func WithContextBuilder(cb *ContextBuilder) Option {
	return func(s *Service) {
		s.context = cb
	}
}

// NewService creates the suggestion service. The API key falls back to the
// GEMINI_API_KEY environment variable; the model name and temperature come
// from the embedded completion prompt, overridable via GEMINI_MODEL.
func NewService(ctx context.Context, apiKey string, opts ...Option) (*Service, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not found")
	}

	prompt, err := prompts.LoadEmbedded("completion")
	if err != nil {
		return nil, fmt.Errorf("failed to load completion prompt: %w", err)
	}
	systemPrompt, err := prompt.Execute(nil)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	modelName := prompt.Config.Model
	if env := os.Getenv("GEMINI_MODEL"); env != "" {
		modelName = env
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(prompt.Config.Temperature)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	s := &Service{client: client, model: model}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying client.
func (s *Service) Close() error {
	return s.client.Close()
}

// Suggest returns three completion candidates for the submitted code context.
func (s *Service) Suggest(ctx context.Context, codeContext string) ([]string, error) {
	prompt := codeContext
	if s.context != nil {
		prompt = s.context.Enrich(codeContext)
	}

	start := time.Now()
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	slog.Debug("inference complete", "duration", time.Since(start))

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return ParseCompletions(sb.String())
}

// ParseCompletions splits the model output into its three completions.
// Surrounding whitespace and stray backticks are stripped; empty parts are
// dropped.
func ParseCompletions(output string) ([]string, error) {
	parts := strings.Split(output, "---")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected exactly 3 completions separated by '---', but found %d", len(parts))
	}

	var completions []string
	for _, part := range parts {
		clean := strings.Trim(part, " \n\t`")
		if clean != "" {
			completions = append(completions, clean)
		}
	}
	return completions, nil
}
