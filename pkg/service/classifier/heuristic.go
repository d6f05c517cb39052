package classifier

import (
	"context"
	"sort"
	"strings"

	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"golang.org/x/text/cases"
)

// SummaryMaxRunes is the summary length before truncation
const SummaryMaxRunes = 300

// Heuristic classifies by keyword presence. It never fails.
type Heuristic struct {
	categories map[string][]string
	high       []string
	medium     []string
}

var _ interfaces.Classifier = &Heuristic{}

// NewHeuristic builds a Heuristic from cfg, or from DefaultConfig when cfg is nil
func NewHeuristic(cfg *Config) *Heuristic {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	h := &Heuristic{
		categories: make(map[string][]string, len(cfg.Categories)),
		high:       foldAll(cfg.Priority.High),
		medium:     foldAll(cfg.Priority.Medium),
	}
	for name, keywords := range cfg.Categories {
		h.categories[name] = foldAll(keywords)
	}
	return h
}

// fold applies Unicode case folding. A Caser is stateful so one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func foldAll(terms []string) []string {
	folded := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		f := fold(t)
		if _, ok := seen[f]; ok || f == "" {
			continue
		}
		seen[f] = struct{}{}
		folded = append(folded, f)
	}
	return folded
}

func countPresent(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}

// Classify returns the categories with at least one keyword in text, highest
// score first, ties by name.
func (h *Heuristic) Classify(text string) []string {
	folded := fold(text)

	type scored struct {
		name  string
		score int
	}
	var hits []scored
	for name, keywords := range h.categories {
		if score := countPresent(folded, keywords); score > 0 {
			hits = append(hits, scored{name: name, score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].name < hits[j].name
	})

	categories := make([]string, 0, len(hits))
	for _, hit := range hits {
		categories = append(categories, hit.name)
	}
	return categories
}

// EvaluatePriority scores high and medium terms present in text
func (h *Heuristic) EvaluatePriority(text string) model.Priority {
	folded := fold(text)
	score := highTermWeight*countPresent(folded, h.high) + mediumTermWeight*countPresent(folded, h.medium)
	return model.Priority{
		Score: score,
		Level: types.PriorityLevelFromScore(score),
	}
}

// Summarize truncates text to SummaryMaxRunes runes followed by "..."
func Summarize(text string) string {
	runes := []rune(text)
	if len(runes) <= SummaryMaxRunes {
		return text
	}
	return string(runes[:SummaryMaxRunes]) + "..."
}

func (h *Heuristic) Analyze(ctx context.Context, text string) (*model.Classification, error) {
	return &model.Classification{
		Categories: h.Classify(text),
		Priority:   h.EvaluatePriority(text),
		Summary:    Summarize(text),
	}, nil
}
