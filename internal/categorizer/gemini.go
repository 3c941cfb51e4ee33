package categorizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/madebytinystudio/bank-analyzer/internal/logging"
	"github.com/madebytinystudio/bank-analyzer/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiStrategy categorizes transaction text with the Gemini API. It is an
// optional fallback behind the keyword strategy and is only wired in when an
// API key is configured.
type GeminiStrategy struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	categories []models.CategoryConfig
	timeout    time.Duration
	logger     logging.Logger
}

// NewGeminiStrategy creates a GeminiStrategy using the given API key and
// model name. A positive timeout bounds each API call so a hung request
// cannot stall a batch.
func NewGeminiStrategy(ctx context.Context, apiKey, modelName string, timeout time.Duration, categories []models.CategoryConfig, logger logging.Logger) (*GeminiStrategy, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiStrategy{
		client:     client,
		model:      client.GenerativeModel(modelName),
		categories: categories,
		timeout:    timeout,
		logger:     logger,
	}, nil
}

// requestContext derives the per-call context, applying the configured
// timeout when one is set.
func (s *GeminiStrategy) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Name returns the name of this strategy for logging and debugging.
func (s *GeminiStrategy) Name() string {
	return "Gemini"
}

// Close releases the underlying API client.
func (s *GeminiStrategy) Close() error {
	return s.client.Close()
}

// Categorize asks the model to pick one of the configured category names for
// the given transaction text. An answer outside the configured set is
// treated as a non-match.
func (s *GeminiStrategy) Categorize(ctx context.Context, text string) (string, bool, error) {
	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}

	names := make([]string, len(s.categories))
	for i, category := range s.categories {
		names[i] = category.Name
	}

	prompt := fmt.Sprintf(`Categorize the following bank statement entry:
%s

Assign it to exactly one of the following categories:
%s

Respond in this format:
Category: [Selected Category Name]`, text, strings.Join(names, ", "))

	callCtx, cancel := s.requestContext(ctx)
	defer cancel()

	resp, err := s.model.GenerateContent(callCtx, genai.Text(prompt))
	if err != nil {
		return "", false, fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", false, fmt.Errorf("no response from Gemini API")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	answer := extractCategoryFromResponse(responseText)

	for _, name := range names {
		if strings.EqualFold(answer, name) {
			s.logger.Debug("Transaction categorized by Gemini",
				logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
				logging.Field{Key: logging.FieldCategory, Value: name})
			return name, true, nil
		}
	}

	s.logger.Debug("Gemini returned a category outside the configured set",
		logging.Field{Key: logging.FieldCategory, Value: answer})
	return "", false, nil
}

// extractCategoryFromResponse pulls the category name out of the expected
// "Category: X" response line, falling back to the first non-empty line.
func extractCategoryFromResponse(response string) string {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "Category:"); ok {
			return strings.Trim(strings.TrimSpace(after), "[]")
		}
	}
	for _, line := range strings.Split(response, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
