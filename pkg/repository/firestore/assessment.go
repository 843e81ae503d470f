package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/secmon-lab/hva/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ratingDocument struct {
	ID               int    `firestore:"id"`
	Name             string `firestore:"name"`
	Category         string `firestore:"category"`
	Probability      int64  `firestore:"probability"`
	Alerts           int64  `firestore:"alerts"`
	Activations      int64  `firestore:"activations"`
	HumanImpact      int64  `firestore:"human_impact"`
	PropertyImpact   int64  `firestore:"property_impact"`
	BusinessImpact   int64  `firestore:"business_impact"`
	Preparedness     int64  `firestore:"preparedness"`
	InternalResponse int64  `firestore:"internal_response"`
	ExternalResponse int64  `firestore:"external_response"`
}

type scoredHazardDocument struct {
	Rating ratingDocument `firestore:"rating"`
	Score  int64          `firestore:"score"`
}

type topRiskDocument struct {
	Name  string `firestore:"name"`
	Score int64  `firestore:"score"`
}

type resultsDocument struct {
	HazardsWithScores   []scoredHazardDocument `firestore:"hazards_with_scores"`
	TopRisks            []topRiskDocument      `firestore:"top_risks"`
	OverallPreparedness string                 `firestore:"overall_preparedness"`
}

type assessmentDocument struct {
	ID        string           `firestore:"id"`
	OwnerID   string           `firestore:"owner_id"`
	Name      string           `firestore:"name"`
	Ratings   []ratingDocument `firestore:"ratings"`
	Results   *resultsDocument `firestore:"results"`
	CreatedAt time.Time        `firestore:"created_at"`
	UpdatedAt time.Time        `firestore:"updated_at"`
}

func toRatingDocument(r model.HazardRating) ratingDocument {
	return ratingDocument{
		ID:               r.ID,
		Name:             r.Name,
		Category:         string(r.Category),
		Probability:      int64(r.Probability),
		Alerts:           int64(r.Alerts),
		Activations:      int64(r.Activations),
		HumanImpact:      int64(r.HumanImpact),
		PropertyImpact:   int64(r.PropertyImpact),
		BusinessImpact:   int64(r.BusinessImpact),
		Preparedness:     int64(r.Preparedness),
		InternalResponse: int64(r.InternalResponse),
		ExternalResponse: int64(r.ExternalResponse),
	}
}

func fromRatingDocument(d ratingDocument) model.HazardRating {
	return model.HazardRating{
		ID:               d.ID,
		Name:             d.Name,
		Category:         types.HazardCategory(d.Category),
		Probability:      types.Normalize(d.Probability),
		Alerts:           types.Normalize(d.Alerts),
		Activations:      types.Normalize(d.Activations),
		HumanImpact:      types.Normalize(d.HumanImpact),
		PropertyImpact:   types.Normalize(d.PropertyImpact),
		BusinessImpact:   types.Normalize(d.BusinessImpact),
		Preparedness:     types.Normalize(d.Preparedness),
		InternalResponse: types.Normalize(d.InternalResponse),
		ExternalResponse: types.Normalize(d.ExternalResponse),
	}
}

func toAssessmentDocument(a *model.Assessment) *assessmentDocument {
	doc := &assessmentDocument{
		ID:        string(a.ID),
		OwnerID:   string(a.OwnerID),
		Name:      a.Name,
		Ratings:   make([]ratingDocument, len(a.Ratings)),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	for i, r := range a.Ratings {
		doc.Ratings[i] = toRatingDocument(r)
	}

	if a.Results != nil {
		results := &resultsDocument{
			HazardsWithScores:   make([]scoredHazardDocument, len(a.Results.HazardsWithScores)),
			TopRisks:            make([]topRiskDocument, len(a.Results.TopRisks)),
			OverallPreparedness: string(a.Results.OverallPreparedness),
		}
		for i, h := range a.Results.HazardsWithScores {
			results.HazardsWithScores[i] = scoredHazardDocument{
				Rating: toRatingDocument(h.HazardRating),
				Score:  int64(h.Score),
			}
		}
		for i, top := range a.Results.TopRisks {
			results.TopRisks[i] = topRiskDocument{Name: top.Name, Score: int64(top.Score)}
		}
		doc.Results = results
	}

	return doc
}

func fromAssessmentDocument(d *assessmentDocument) *model.Assessment {
	a := &model.Assessment{
		ID:        model.AssessmentID(d.ID),
		OwnerID:   types.OwnerID(d.OwnerID),
		Name:      d.Name,
		Ratings:   make([]model.HazardRating, len(d.Ratings)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for i, r := range d.Ratings {
		a.Ratings[i] = fromRatingDocument(r)
	}

	if d.Results != nil {
		results := &model.RiskResults{
			HazardsWithScores:   make([]model.ScoredHazard, len(d.Results.HazardsWithScores)),
			TopRisks:            make([]model.TopRisk, len(d.Results.TopRisks)),
			OverallPreparedness: types.Verdict(d.Results.OverallPreparedness),
		}
		for i, h := range d.Results.HazardsWithScores {
			results.HazardsWithScores[i] = model.ScoredHazard{
				HazardRating: fromRatingDocument(h.Rating),
				Score:        int(h.Score),
			}
		}
		for i, top := range d.Results.TopRisks {
			results.TopRisks[i] = model.TopRisk{Name: top.Name, Score: int(top.Score)}
		}
		a.Results = results
	}

	return a
}

type assessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssessmentRepository(client *firestore.Client) *assessmentRepository {
	return &assessmentRepository{
		client:           client,
		collectionPrefix: "",
	}
}

// AssessmentsCollection returns the name of the assessments collection for
// a collection prefix
func AssessmentsCollection(prefix string) string {
	if prefix != "" {
		return prefix + "_assessments"
	}
	return "assessments"
}

func (r *assessmentRepository) assessmentsCollection() string {
	return AssessmentsCollection(r.collectionPrefix)
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	created := assessment.Copy()
	if created.ID == "" {
		created.ID = model.NewAssessmentID()
	}

	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.assessmentsCollection()).Doc(string(created.ID))
	if _, err := docRef.Create(ctx, toAssessmentDocument(created)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(err, "assessment already exists", goerr.V("id", created.ID))
		}
		return nil, goerr.Wrap(err, "failed to create assessment", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *assessmentRepository) Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error) {
	docRef := r.client.Collection(r.assessmentsCollection()).Doc(string(id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	var d assessmentDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("id", id))
	}

	return fromAssessmentDocument(&d), nil
}

func (r *assessmentRepository) ListByOwner(ctx context.Context, ownerID types.OwnerID) ([]*model.Assessment, error) {
	iter := r.client.Collection(r.assessmentsCollection()).
		Where("owner_id", "==", string(ownerID)).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	assessments := make([]*model.Assessment, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments", goerr.V("ownerID", ownerID))
		}

		var d assessmentDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("docID", doc.Ref.ID))
		}

		assessments = append(assessments, fromAssessmentDocument(&d))
	}

	return assessments, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id model.AssessmentID) error {
	docRef := r.client.Collection(r.assessmentsCollection()).Doc(string(id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete assessment", goerr.V("id", id))
	}

	return nil
}
