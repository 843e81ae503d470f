package usecase

import (
	"time"

	"github.com/secmon-lab/hva/pkg/domain/interfaces"
	"github.com/secmon-lab/hva/pkg/domain/model"
)

// DefaultAssessmentName names reports of unsaved ratings
const DefaultAssessmentName = "Hazard Vulnerability Assessment"

type UseCases struct {
	repo       interfaces.Repository
	catalog    *model.HazardCatalog
	storage    interfaces.ReportStorage
	now        func() time.Time
	Assessment *AssessmentUseCase
}

type Option func(*UseCases)

// WithCatalog sets the hazard catalog new assessments are seeded from
func WithCatalog(catalog *model.HazardCatalog) Option {
	return func(uc *UseCases) {
		uc.catalog = catalog
	}
}

// WithReportStorage enables report publishing
func WithReportStorage(storage interfaces.ReportStorage) Option {
	return func(uc *UseCases) {
		uc.storage = storage
	}
}

// WithClock replaces the time source used for report timestamps
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Assessment = NewAssessmentUseCase(repo, uc.catalog, uc.storage)
	uc.Assessment.now = uc.now

	return uc
}
