package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hva/pkg/domain/interfaces"
	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/secmon-lab/hva/pkg/domain/types"
	"github.com/secmon-lab/hva/pkg/service/report"
	"github.com/secmon-lab/hva/pkg/utils/logging"
)

// MaxAssessmentNameLength is the maximum number of characters in an assessment name
const MaxAssessmentNameLength = 200

type AssessmentUseCase struct {
	repo    interfaces.Repository
	catalog *model.HazardCatalog
	storage interfaces.ReportStorage
	now     func() time.Time
}

func NewAssessmentUseCase(repo interfaces.Repository, catalog *model.HazardCatalog, storage interfaces.ReportStorage) *AssessmentUseCase {
	return &AssessmentUseCase{
		repo:    repo,
		catalog: catalog,
		storage: storage,
		now:     time.Now,
	}
}

// Template returns a fresh all-zero rating collection seeded from the catalog
func (uc *AssessmentUseCase) Template() []model.HazardRating {
	if uc.catalog == nil {
		return []model.HazardRating{}
	}
	return uc.catalog.Seed()
}

// Calculate scores ratings without persisting anything
func (uc *AssessmentUseCase) Calculate(ratings []model.HazardRating) *model.RiskResults {
	return model.CalculateRiskScores(uc.withCategories(ratings))
}

// Save computes results for ratings and stores them together as a new
// assessment of owner
func (uc *AssessmentUseCase) Save(ctx context.Context, owner types.OwnerID, name string, ratings []model.HazardRating) (*model.Assessment, error) {
	if err := owner.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidAssessment, "invalid owner", goerr.V("cause", err.Error()))
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, goerr.Wrap(ErrInvalidAssessment, "assessment name is required")
	}
	if utf8.RuneCountInString(name) > MaxAssessmentNameLength {
		return nil, goerr.Wrap(ErrInvalidAssessment, "assessment name is too long",
			goerr.V("length", utf8.RuneCountInString(name)),
			goerr.V("max", MaxAssessmentNameLength))
	}

	normalized := uc.withCategories(ratings)
	for i := range normalized {
		normalized[i] = normalized[i].Normalized()
	}

	assessment := &model.Assessment{
		OwnerID: owner,
		Name:    name,
		Ratings: normalized,
		Results: model.CalculateRiskScores(normalized),
	}

	created, err := uc.repo.Assessment().Create(ctx, assessment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save assessment", goerr.V(OwnerIDKey, owner))
	}

	logging.From(ctx).Info("assessment saved",
		"assessment_id", created.ID,
		"hazards", len(created.Ratings),
		"top_risks", len(created.Results.TopRisks),
	)
	return created, nil
}

// Get returns an assessment of owner. Assessments of other owners are
// reported as ErrAssessmentNotFound.
func (uc *AssessmentUseCase) Get(ctx context.Context, owner types.OwnerID, id model.AssessmentID) (*model.Assessment, error) {
	assessment, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrAssessmentNotFound, "assessment not found", goerr.V(AssessmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(AssessmentIDKey, id))
	}

	if assessment.OwnerID != owner {
		return nil, goerr.Wrap(ErrAssessmentNotFound, "assessment not found",
			goerr.V(AssessmentIDKey, id), goerr.V(OwnerIDKey, owner))
	}

	if assessment.Results == nil {
		assessment.Results = model.CalculateRiskScores(assessment.Ratings)
	}
	return assessment, nil
}

// List returns the owner's assessments, newest first
func (uc *AssessmentUseCase) List(ctx context.Context, owner types.OwnerID) ([]*model.Assessment, error) {
	if err := owner.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidAssessment, "invalid owner", goerr.V("cause", err.Error()))
	}

	assessments, err := uc.repo.Assessment().ListByOwner(ctx, owner)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V(OwnerIDKey, owner))
	}
	return assessments, nil
}

// Delete removes an assessment of owner
func (uc *AssessmentUseCase) Delete(ctx context.Context, owner types.OwnerID, id model.AssessmentID) error {
	if _, err := uc.Get(ctx, owner, id); err != nil {
		return err
	}

	if err := uc.repo.Assessment().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrAssessmentNotFound, "assessment not found", goerr.V(AssessmentIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete assessment", goerr.V(AssessmentIDKey, id))
	}
	return nil
}

// Export renders an assessment of owner to w. It returns the file name the
// report should be downloaded as.
func (uc *AssessmentUseCase) Export(ctx context.Context, owner types.OwnerID, id model.AssessmentID, format report.Format, w io.Writer) (string, error) {
	assessment, err := uc.Get(ctx, owner, id)
	if err != nil {
		return "", err
	}

	doc := report.NewDocument(assessment.Name, assessment.Results, uc.now())
	if err := report.Render(w, format, doc); err != nil {
		return "", goerr.Wrap(err, "failed to export assessment", goerr.V(AssessmentIDKey, id))
	}
	return report.FileName(assessment.Name, format), nil
}

// ExportRatings scores ratings without persisting them and renders the
// results to w. An empty name falls back to DefaultAssessmentName. It returns
// the file name the report should be downloaded as.
func (uc *AssessmentUseCase) ExportRatings(name string, ratings []model.HazardRating, format report.Format, w io.Writer) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultAssessmentName
	}

	doc := report.NewDocument(name, uc.Calculate(ratings), uc.now())
	if err := report.Render(w, format, doc); err != nil {
		return "", goerr.Wrap(err, "failed to export ratings", goerr.V("name", name))
	}
	return report.FileName(name, format), nil
}

// Publish renders an assessment of owner and stores it in the report
// storage. It returns the URI of the stored report.
func (uc *AssessmentUseCase) Publish(ctx context.Context, owner types.OwnerID, id model.AssessmentID, format report.Format) (string, error) {
	if uc.storage == nil {
		return "", goerr.Wrap(ErrStorageNotConfigured, "cannot publish report", goerr.V(AssessmentIDKey, id))
	}

	assessment, err := uc.Get(ctx, owner, id)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	doc := report.NewDocument(assessment.Name, assessment.Results, uc.now())
	if err := report.Render(&buf, format, doc); err != nil {
		return "", goerr.Wrap(err, "failed to render report", goerr.V(AssessmentIDKey, id))
	}

	key := strings.Join([]string{
		url.PathEscape(owner.String()),
		assessment.ID.String(),
		report.FileName(assessment.Name, format),
	}, "/")

	uri, err := uc.storage.Put(ctx, key, format.ContentType(), buf.Bytes())
	if err != nil {
		return "", goerr.Wrap(err, "failed to publish report",
			goerr.V(AssessmentIDKey, id), goerr.V("key", key))
	}

	logging.From(ctx).Info("report published", "assessment_id", id, "format", format, "uri", uri)
	return uri, nil
}

// withCategories returns a copy of ratings where a missing category is
// filled in from the catalog entry with the same ID
func (uc *AssessmentUseCase) withCategories(ratings []model.HazardRating) []model.HazardRating {
	out := make([]model.HazardRating, len(ratings))
	copy(out, ratings)
	if uc.catalog == nil {
		return out
	}
	for i := range out {
		if out[i].Category != "" {
			continue
		}
		if h, ok := uc.catalog.Get(out[i].ID); ok {
			out[i].Category = h.Category
		}
	}
	return out
}
