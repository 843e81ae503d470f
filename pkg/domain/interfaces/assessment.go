package interfaces

import (
	"context"

	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/secmon-lab/hva/pkg/domain/types"
)

type AssessmentRepository interface {
	// Create stores a new assessment. ID is generated when empty and
	// CreatedAt/UpdatedAt are set by the repository.
	Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error)

	// Get retrieves an assessment by ID
	Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error)

	// ListByOwner retrieves all assessments of an owner, newest first
	ListByOwner(ctx context.Context, ownerID types.OwnerID) ([]*model.Assessment, error)

	// Delete deletes an assessment by ID
	Delete(ctx context.Context, id model.AssessmentID) error
}
