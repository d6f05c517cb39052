package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// LLM classifies reports with a language model constrained to a JSON schema.
// Categories outside the configured set are dropped.
type LLM struct {
	client     gollem.LLMClient
	categories []string
}

var _ interfaces.Classifier = &LLM{}

func NewLLM(client gollem.LLMClient, cfg *Config) *LLM {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &LLM{
		client:     client,
		categories: cfg.CategoryNames(),
	}
}

type llmResult struct {
	Categories []string `json:"categories"`
	Score      *int     `json:"priority_score"`
	Level      string   `json:"priority_level"`
	Summary    string   `json:"summary"`
}

func (l *LLM) schema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ReportClassification",
		Description: "Classification of a whistleblower report",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"categories": {
				Type:        gollem.TypeArray,
				Description: "Matching categories, most relevant first. Allowed values: " + strings.Join(l.categories, ", "),
				Items:       &gollem.Parameter{Type: gollem.TypeString},
				Required:    true,
			},
			"priority_score": {
				Type:        gollem.TypeInteger,
				Description: "Severity score. 5 or more is high, 2 to 4 is medium, below 2 is low.",
				Required:    true,
			},
			"priority_level": {
				Type:        gollem.TypeString,
				Description: "One of baixo, medio, alto",
				Required:    true,
			},
			"summary": {
				Type:        gollem.TypeString,
				Description: "Neutral one-paragraph summary in the language of the report, without names or contact data.",
				Required:    true,
			},
		},
	}
}

func (l *LLM) Analyze(ctx context.Context, text string) (*model.Classification, error) {
	session, err := l.client.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(l.schema()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create classification session")
	}

	prompt := fmt.Sprintf(`Classify the following whistleblower report.
Use only these categories: %s.
Return an empty category list if none applies.

Report:
%s`, strings.Join(l.categories, ", "), text)

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate classification")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("classification generation returned empty result")
	}

	return l.parse(resp.Texts[0])
}

func (l *LLM) parse(raw string) (*model.Classification, error) {
	var result llmResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, goerr.Wrap(err, "failed to parse classification JSON", goerr.V("length", len(raw)))
	}

	allowed := make(map[string]struct{}, len(l.categories))
	for _, c := range l.categories {
		allowed[c] = struct{}{}
	}

	classification := &model.Classification{
		Categories: []string{},
		Summary:    result.Summary,
	}
	for _, c := range result.Categories {
		if _, ok := allowed[c]; ok {
			classification.Categories = append(classification.Categories, c)
		}
	}

	if result.Score != nil {
		classification.Priority = model.Priority{
			Score: *result.Score,
			Level: types.PriorityLevelFromScore(*result.Score),
		}
	} else if level := types.PriorityLevel(result.Level); level.IsValid() {
		classification.Priority = model.Priority{Level: level}
	}

	return classification, nil
}
