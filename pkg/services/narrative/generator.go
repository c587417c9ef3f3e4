package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/rs/zerolog"
)

// DefaultTemperature keeps the narrative close to the numbers
const DefaultTemperature = 0.2

// ErrGeneration marks a failed call to the text generation service
var ErrGeneration = errors.New("narrative generation failed")

type CompletionRequest struct {
	System      string
	User        string
	Model       string
	Temperature float32
}

// Completer sends one completion request and returns the raw text
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type Settings struct {
	Model       string
	Temperature float32
}

type Generator struct {
	completer Completer
	settings  Settings
}

func NewGenerator(completer Completer, settings Settings) *Generator {
	return &Generator{
		completer: completer,
		settings:  settings,
	}
}

// Generate asks the completer for the narrative of one report. There is no
// retry: any failure ends the report attempt.
func (g *Generator) Generate(ctx context.Context, reportType domain.ReportType, p domain.Payload) (string, error) {
	logger := zerolog.Ctx(ctx)

	user, err := UserPrompt(reportType, p)
	if err != nil {
		return "", err
	}

	logger.Info().
		Str("model", g.settings.Model).
		Str("report_type", string(reportType)).
		Int("review_rows", len(p.CoverageReviewSample)).
		Msg("requesting narrative")

	text, err := g.completer.Complete(ctx, CompletionRequest{
		System:      SystemPrompt,
		User:        user,
		Model:       g.settings.Model,
		Temperature: g.settings.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: model returned an empty narrative", ErrGeneration)
	}
	return text, nil
}
