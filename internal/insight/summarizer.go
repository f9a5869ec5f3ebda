// Package insight turns trend analytics into a short natural-language
// briefing for warehouse staff via the Gemini API. The summarizer is a
// presentation concern: when no API key is configured the service reports
// itself unavailable instead of degrading the analytics themselves.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/warinyupa/stocklens/internal/config"
	"github.com/warinyupa/stocklens/internal/domain"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned when no Gemini API key is set.
var ErrNotConfigured = errors.New("insight: gemini api key not configured")

const promptTemplate = `You are a professional warehouse analyst. Summarize the
data below for floor staff with no statistics background. Answer in Markdown
with three sections: trending products (top demand risers), products to watch
(fastest stock declines), and specific strategic recommendations. Avoid
generic advice; name concrete SKUs and actions.

Demand spike:
%s

Low stock trends:
%s
`

type Summarizer struct {
	cfg config.InsightConfig
}

func NewSummarizer(cfg config.InsightConfig) *Summarizer {
	return &Summarizer{cfg: cfg}
}

// Available reports whether the summarizer can reach the LLM.
func (s *Summarizer) Available() bool {
	return s.cfg.GeminiAPIKey != ""
}

// Summarize renders the trend analytics through the configured Gemini model
// and returns the generated Markdown briefing.
func (s *Summarizer) Summarize(ctx context.Context, trends domain.TrendAnalytics) (string, error) {
	if !s.Available() {
		return "", ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.cfg.GeminiAPIKey))
	if err != nil {
		return "", fmt.Errorf("insight: create gemini client: %w", err)
	}
	defer client.Close()

	demand, err := json.MarshalIndent(trends.TopDemandRising, "", "  ")
	if err != nil {
		return "", fmt.Errorf("insight: encode demand trends: %w", err)
	}
	stock, err := json.MarshalIndent(trends.TopStockDeclining, "", "  ")
	if err != nil {
		return "", fmt.Errorf("insight: encode stock trends: %w", err)
	}

	model := client.GenerativeModel(s.cfg.GeminiModel)
	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(promptTemplate, demand, stock)))
	if err != nil {
		return "", fmt.Errorf("insight: generate content: %w", err)
	}

	return flattenResponse(resp), nil
}

func flattenResponse(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
