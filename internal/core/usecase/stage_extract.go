package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
	"github.com/skulkarni-ml/supportdesk/internal/core/ports"
)

const extractTemperature = 0

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractStage pulls topic, description and sentiment out of the
// transcript. It never fails the run: when the model output is
// unusable the stage substitutes a generic record built from the
// transcript itself.
type ExtractStage struct {
	generator ports.TextGenerator
}

func NewExtractStage(generator ports.TextGenerator) *ExtractStage {
	return &ExtractStage{generator: generator}
}

func (s *ExtractStage) Name() string { return "extract" }

func (s *ExtractStage) Execute(ctx context.Context, state *domain.PipelineState) StageResult {
	raw, err := s.generator.Generate(ctx, extractionPrompt(state.Transcript), extractTemperature)
	if err == nil {
		if fields, parseErr := parseExtraction(raw); parseErr == nil {
			state.Extracted = fields
			return StageResult{
				Outcome: domain.StageSuccess,
				Detail:  fmt.Sprintf("Extracted Info: topic=%s sentiment=%s", fields.Topic, fields.Sentiment),
			}
		} else {
			err = parseErr
		}
	}

	state.Extracted = fallbackExtraction(state.Transcript)
	return StageResult{
		Outcome: domain.StageError,
		Detail:  fmt.Sprintf("Error: %v - Using fallback data", err),
	}
}

// parseExtraction tolerates markdown fencing and prose around the JSON
// object. A fenced block is stripped first; if the remainder is not
// valid JSON, the first {...} span is tried before giving up.
func parseExtraction(raw string) (domain.ExtractedFields, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var payload struct {
		Topic       string `json:"topic_name"`
		Description string `json:"description"`
		Sentiment   string `json:"overall_sentiment"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		span := jsonObjectPattern.FindString(cleaned)
		if span == "" {
			return domain.ExtractedFields{}, fmt.Errorf("no valid JSON found in response")
		}
		if err := json.Unmarshal([]byte(strings.TrimSpace(span)), &payload); err != nil {
			return domain.ExtractedFields{}, fmt.Errorf("parse extracted JSON: %w", err)
		}
	}

	return domain.ExtractedFields{
		Topic:       payload.Topic,
		Description: payload.Description,
		Sentiment:   domain.ParseSentiment(payload.Sentiment),
	}, nil
}

func fallbackExtraction(transcript string) domain.ExtractedFields {
	summary := transcript
	if len(summary) > 100 {
		summary = summary[:100]
	}
	return domain.ExtractedFields{
		Topic:       "general_inquiry",
		Description: summary + "...",
		Sentiment:   domain.SentimentNeutral,
	}
}
