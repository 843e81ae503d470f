package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hva/pkg/domain/interfaces"
	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/secmon-lab/hva/pkg/domain/types"
	"github.com/secmon-lab/hva/pkg/repository/firestore"
	"github.com/secmon-lab/hva/pkg/repository/memory"
)

func newTestAssessment(owner types.OwnerID, name string) *model.Assessment {
	ratings := []model.HazardRating{
		{
			ID: 1, Name: "Earthquake", Category: types.HazardCategoryNatural,
			Probability: 3, Alerts: 5, Activations: 1,
			HumanImpact: 3, PropertyImpact: 2, BusinessImpact: 1,
			Preparedness: 2, InternalResponse: 1, ExternalResponse: 3,
		},
		{
			ID: 20, Name: "Power Outage", Category: types.HazardCategoryTechnological,
			Probability: 1, HumanImpact: 1,
		},
	}
	return &model.Assessment{
		OwnerID: owner,
		Name:    name,
		Ratings: ratings,
		Results: model.CalculateRiskScores(ratings),
	}
}

func runRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		input := newTestAssessment("owner-a", "Main campus 2026")
		created, err := repo.Assessment().Create(ctx, input)
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(model.AssessmentID(""))
		gt.Value(t, created.Name).Equal("Main campus 2026")
		gt.Value(t, created.OwnerID).Equal(types.OwnerID("owner-a"))
		gt.B(t, created.CreatedAt.IsZero()).False()
		gt.B(t, created.UpdatedAt.IsZero()).False()

		// input must not be mutated
		gt.Value(t, input.ID).Equal(model.AssessmentID(""))
	})

	t.Run("Get returns stored ratings and results", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Create(ctx, newTestAssessment("owner-a", "roundtrip"))
		gt.NoError(t, err).Required()

		got, err := repo.Assessment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, got.ID).Equal(created.ID)
		gt.Value(t, got.Name).Equal("roundtrip")
		gt.Array(t, got.Ratings).Length(2).Required()
		gt.Value(t, got.Ratings[0]).Equal(created.Ratings[0])
		gt.Value(t, got.Ratings[1].Category).Equal(types.HazardCategoryTechnological)

		gt.Value(t, got.Results).NotNil().Required()
		gt.Array(t, got.Results.HazardsWithScores).Length(2).Required()
		gt.Value(t, got.Results.HazardsWithScores[0].Score).Equal(created.Results.HazardsWithScores[0].Score)
		gt.Value(t, got.Results.TopRisks).Equal(created.Results.TopRisks)
		gt.Value(t, got.Results.OverallPreparedness).Equal(created.Results.OverallPreparedness)
	})

	t.Run("Get returns error for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Assessment().Get(ctx, model.NewAssessmentID())
		gt.Error(t, err)
	})

	t.Run("ListByOwner returns only the owner's assessments newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner := types.OwnerID(fmt.Sprintf("owner-%d", time.Now().UnixNano()))
		first, err := repo.Assessment().Create(ctx, newTestAssessment(owner, "first"))
		gt.NoError(t, err).Required()
		time.Sleep(10 * time.Millisecond)
		second, err := repo.Assessment().Create(ctx, newTestAssessment(owner, "second"))
		gt.NoError(t, err).Required()

		_, err = repo.Assessment().Create(ctx, newTestAssessment("someone-else", "other"))
		gt.NoError(t, err).Required()

		list, err := repo.Assessment().ListByOwner(ctx, owner)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[0].ID).Equal(second.ID)
		gt.Value(t, list[1].ID).Equal(first.ID)
	})

	t.Run("ListByOwner returns empty slice for unknown owner", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		list, err := repo.Assessment().ListByOwner(ctx, types.OwnerID(fmt.Sprintf("nobody-%d", time.Now().UnixNano())))
		gt.NoError(t, err).Required()
		gt.Bool(t, list != nil).True()
		gt.Array(t, list).Length(0)
	})

	t.Run("Delete removes assessment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Create(ctx, newTestAssessment("owner-a", "to delete"))
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Assessment().Delete(ctx, created.ID)).Required()

		_, err = repo.Assessment().Get(ctx, created.ID)
		gt.Error(t, err)
	})

	t.Run("Delete returns error for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.Error(t, repo.Assessment().Delete(ctx, model.NewAssessmentID()))
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func TestMemoryAssessmentRepository(t *testing.T) {
	runRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreAssessmentRepository(t *testing.T) {
	runRepositoryTest(t, newFirestoreRepository)
}

func TestMemoryAssessmentRepository_NotFoundSentinel(t *testing.T) {
	repo := memory.New()
	_, err := repo.Assessment().Get(context.Background(), "missing")
	gt.Error(t, err).Is(memory.ErrNotFound)
}

func TestFirestoreAssessmentRepository_NotFoundSentinel(t *testing.T) {
	repo := newFirestoreRepository(t)
	_, err := repo.Assessment().Get(context.Background(), model.NewAssessmentID())
	gt.Error(t, err).Is(interfaces.ErrNotFound)
}
