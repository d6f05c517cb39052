package usecase

import (
	"time"

	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/service/classifier"
	"github.com/secmon-lab/ouvidoria/pkg/service/metrics"
	"github.com/secmon-lab/ouvidoria/pkg/service/vault"
)

type UseCases struct {
	repo       interfaces.Repository
	vaults     *vault.Vaults
	classifier interfaces.Classifier
	directory  interfaces.UserDirectory
	metrics    *metrics.Metrics
	now        func() time.Time

	Case   *CaseUseCase
	Ingest *IngestUseCase
	Task   *TaskUseCase
}

type Option func(*UseCases)

// WithClassifier sets the classification strategy. The default is the built-in heuristic.
func WithClassifier(c interfaces.Classifier) Option {
	return func(uc *UseCases) {
		uc.classifier = c
	}
}

// WithUserDirectory enables assignee validation
func WithUserDirectory(d interfaces.UserDirectory) Option {
	return func(uc *UseCases) {
		uc.directory = d
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *UseCases) {
		uc.metrics = m
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, vaults *vault.Vaults, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		vaults: vaults,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.classifier == nil {
		uc.classifier = classifier.NewHeuristic(nil)
	}

	uc.Task = NewTaskUseCase(repo, uc.directory, uc.now)
	uc.Case = NewCaseUseCase(repo, vaults, uc.classifier, uc.Task, uc.directory, uc.now)
	uc.Ingest = NewIngestUseCase(repo, vaults.Message, uc.classifier, uc.metrics, uc.now)

	return uc
}
