package classifier

import (
	"context"
	"log/slog"

	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
)

// Fallback runs primary and falls back to the heuristic when it fails. Fields
// missing from the primary result are filled from the heuristic. It never
// returns an error.
type Fallback struct {
	primary   interfaces.Classifier
	heuristic *Heuristic
	name      string
}

var _ interfaces.Classifier = &Fallback{}

func NewFallback(name string, primary interfaces.Classifier, heuristic *Heuristic) *Fallback {
	return &Fallback{
		primary:   primary,
		heuristic: heuristic,
		name:      name,
	}
}

func (f *Fallback) Analyze(ctx context.Context, text string) (*model.Classification, error) {
	result, err := f.primary.Analyze(ctx, text)
	if err != nil || result == nil {
		logging.From(ctx).Warn("classifier failed, using heuristic",
			slog.String("classifier", f.name),
			slog.Any("error", err),
		)
		return f.heuristic.Analyze(ctx, text)
	}

	if result.Categories == nil {
		result.Categories = f.heuristic.Classify(text)
	}
	if level, ok := types.NormalizePriorityLevel(string(result.Priority.Level)); ok {
		result.Priority.Level = level
	} else {
		result.Priority = f.heuristic.EvaluatePriority(text)
	}
	if result.Summary == "" {
		result.Summary = Summarize(text)
	}
	return result, nil
}
