package interfaces

import (
	"context"

	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
)

// Classifier derives categories, priority and summary from a report text
type Classifier interface {
	Analyze(ctx context.Context, text string) (*model.Classification, error)
}
