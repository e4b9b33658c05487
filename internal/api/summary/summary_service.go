package summary

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/tripweaver/tripweaver/internal/export"
	"github.com/tripweaver/tripweaver/internal/types"
)

// Service produces a short narrative description of a planned itinerary.
type Service interface {
	Summarize(ctx context.Context, it types.Itinerary) (string, error)
}

// GeminiService implements Service on top of the Gemini API. It is optional
// infrastructure: the container only wires it when an API key is configured,
// and plan responses degrade to an empty summary on any failure.
type GeminiService struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ Service = (*GeminiService)(nil)

func NewGeminiService(ctx context.Context, logger *slog.Logger) (*GeminiService, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiService{
		client: client,
		model:  "gemini-2.0-flash",
		logger: logger,
	}, nil
}

func (s *GeminiService) Summarize(ctx context.Context, it types.Itinerary) (string, error) {
	prompt := buildPrompt(it)
	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Gemini summary generation failed", slog.Any("error", err))
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	return result.Text(), nil
}

func buildPrompt(it types.Itinerary) string {
	var b strings.Builder
	b.WriteString("Write a short, friendly two-paragraph overview of this travel itinerary. ")
	b.WriteString("Mention the flow of each day, not exact clock times.\n\n")
	for _, day := range it.Days {
		fmt.Fprintf(&b, "Day %d (cost $%.2f):\n", day.Day, day.DayCost)
		if len(day.Timeline) == 0 {
			b.WriteString("  free day\n")
			continue
		}
		for _, e := range day.Timeline {
			fmt.Fprintf(&b, "  %s-%s %s (%s)\n",
				export.FormatClock(e.StartMin), export.FormatClock(e.EndMin), e.Name, e.Category)
		}
	}
	return b.String()
}
