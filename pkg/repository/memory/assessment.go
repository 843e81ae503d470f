package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/secmon-lab/hva/pkg/domain/types"
)

type assessmentRepository struct {
	mu          sync.RWMutex
	assessments map[model.AssessmentID]*model.Assessment
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[model.AssessmentID]*model.Assessment),
	}
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := assessment.Copy()
	if created.ID == "" {
		created.ID = model.NewAssessmentID()
	}
	if _, exists := r.assessments[created.ID]; exists {
		return nil, goerr.New("assessment already exists", goerr.V("id", created.ID))
	}

	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.assessments[created.ID] = created
	return created.Copy(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessment, exists := r.assessments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}

	// Return a copy to prevent external modification
	return assessment.Copy(), nil
}

func (r *assessmentRepository) ListByOwner(ctx context.Context, ownerID types.OwnerID) ([]*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessments := make([]*model.Assessment, 0)
	for _, a := range r.assessments {
		if a.OwnerID == ownerID {
			assessments = append(assessments, a.Copy())
		}
	}

	sort.Slice(assessments, func(i, j int) bool {
		if assessments[i].CreatedAt.Equal(assessments[j].CreatedAt) {
			return assessments[i].ID > assessments[j].ID
		}
		return assessments[i].CreatedAt.After(assessments[j].CreatedAt)
	})

	return assessments, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id model.AssessmentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assessments[id]; !exists {
		return goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}

	delete(r.assessments, id)
	return nil
}
