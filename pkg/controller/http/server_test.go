package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/hva/pkg/controller/http"
	"github.com/secmon-lab/hva/pkg/domain/interfaces"
	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/secmon-lab/hva/pkg/domain/types"
	"github.com/secmon-lab/hva/pkg/repository/memory"
	"github.com/secmon-lab/hva/pkg/service/report"
	"github.com/secmon-lab/hva/pkg/usecase"
)

type recordingStorage struct {
	keys []string
}

func (s *recordingStorage) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	s.keys = append(s.keys, key)
	return "gs://reports/" + key, nil
}

func newTestServer(t *testing.T, opts ...usecase.Option) *httpctrl.Server {
	t.Helper()

	catalog, err := model.NewHazardCatalog([]model.Hazard{
		{ID: 1, Name: "Earthquake", Category: types.HazardCategoryNatural},
		{ID: 20, Name: "Power Outage", Category: types.HazardCategoryTechnological},
	})
	gt.NoError(t, err).Required()

	opts = append([]usecase.Option{usecase.WithCatalog(catalog)}, opts...)
	uc := usecase.New(memory.New(), opts...)
	return httpctrl.New(uc.Assessment, httpctrl.WithDefaultOwner("default-owner"))
}

func doRequest(t *testing.T, srv http.Handler, method, path, owner, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if owner != "" {
		req.Header.Set(httpctrl.OwnerHeader, owner)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

const saveBody = `{
	"name": "Main Campus",
	"hazards": [
		{"id": 1, "name": "Earthquake", "probability": 3, "alerts": 5, "activations": 1,
		 "humanImpact": 3, "propertyImpact": 2, "businessImpact": 1,
		 "preparedness": 2, "internalResponse": 1, "externalResponse": 3},
		{"id": 20, "name": "Power Outage", "probability": "1", "humanImpact": 1, "alerts": null}
	]
}`

func saveAssessment(t *testing.T, srv http.Handler, owner string) model.Assessment {
	t.Helper()
	w := doRequest(t, srv, http.MethodPost, "/api/assessments", owner, saveBody)
	gt.Value(t, w.Code).Equal(http.StatusCreated)

	var saved model.Assessment
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved)).Required()
	return saved
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)
	w := doRequest(t, srv, http.MethodGet, "/health", "", "")
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.Value(t, w.Body.String()).Equal("ok")
}

func TestServer_Hazards(t *testing.T) {
	srv := newTestServer(t)
	w := doRequest(t, srv, http.MethodGet, "/api/hazards", "", "")
	gt.Value(t, w.Code).Equal(http.StatusOK)

	var resp struct {
		Hazards []model.HazardRating `json:"hazards"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
	gt.Array(t, resp.Hazards).Length(2).Required()
	gt.Value(t, resp.Hazards[1].Category).Equal(types.HazardCategoryTechnological)
	gt.Value(t, resp.Hazards[1].Probability).Equal(types.Rating(0))
}

func TestServer_Score(t *testing.T) {
	srv := newTestServer(t)

	t.Run("scores without persisting", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodPost, "/api/score", "", saveBody)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		var results model.RiskResults
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &results)).Required()
		gt.Value(t, results.TopRisks).Equal([]model.TopRisk{
			{Name: "Earthquake", Score: 45},
			{Name: "Power Outage", Score: 10},
		})
		gt.Value(t, results.OverallPreparedness).Equal(types.VerdictPoor)

		list := doRequest(t, srv, http.MethodGet, "/api/assessments", "", "")
		gt.String(t, list.Body.String()).Equal(`{"assessments":[]}`)
	})

	t.Run("garbage ratings count as zero", func(t *testing.T) {
		body := `{"hazards":[{"id":1,"name":"X","probability":"high","humanImpact":{"a":1},"preparedness":-5}]}`
		w := doRequest(t, srv, http.MethodPost, "/api/score", "", body)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		var results model.RiskResults
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &results)).Required()
		gt.Value(t, results.HazardsWithScores[0].Score).Equal(0)
		gt.Array(t, results.TopRisks).Length(0)
		gt.Value(t, results.OverallPreparedness).Equal(types.VerdictUnknown)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodPost, "/api/score", "", `{"hazards":`)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("downloads unsaved results as a report", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodPost, "/api/score?format=xlsx", "", saveBody)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.Value(t, w.Header().Get("Content-Type")).Equal(report.FormatXLSX.ContentType())
		gt.String(t, w.Header().Get("Content-Disposition")).Contains(`filename="main-campus.xlsx"`)
		// xlsx is a zip container
		gt.B(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK"))).True()

		list := doRequest(t, srv, http.MethodGet, "/api/assessments", "", "")
		gt.String(t, list.Body.String()).Equal(`{"assessments":[]}`)
	})

	t.Run("unsaved report without a name", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodPost, "/api/score?format=pdf", "", `{"hazards":[]}`)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Header().Get("Content-Disposition")).Contains(`filename="hazard-vulnerability-assessment.pdf"`)
		gt.B(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-"))).True()
	})

	t.Run("unsaved report with unknown format", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodPost, "/api/score?format=docx", "", saveBody)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})
}

type countingRepository struct {
	interfaces.Repository
	assessments *countingAssessmentRepository
}

func (r *countingRepository) Assessment() interfaces.AssessmentRepository {
	return r.assessments
}

type countingAssessmentRepository struct {
	interfaces.AssessmentRepository
	gets int
}

func (r *countingAssessmentRepository) Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error) {
	r.gets++
	return r.AssessmentRepository.Get(ctx, id)
}

func TestServer_ExportReadsAssessmentOnce(t *testing.T) {
	mem := memory.New()
	repo := &countingRepository{
		Repository:  mem,
		assessments: &countingAssessmentRepository{AssessmentRepository: mem.Assessment()},
	}
	srv := httpctrl.New(usecase.New(repo).Assessment)

	saved := saveAssessment(t, srv, "owner-a")
	repo.assessments.gets = 0

	w := doRequest(t, srv, http.MethodGet, "/api/assessments/"+saved.ID.String()+"/export?format=json", "owner-a", "")
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Header().Get("Content-Disposition")).Contains(`filename="main-campus.json"`)
	gt.Value(t, repo.assessments.gets).Equal(1)
}

func TestServer_AssessmentLifecycle(t *testing.T) {
	srv := newTestServer(t)
	saved := saveAssessment(t, srv, "owner-a")
	gt.Value(t, saved.Name).Equal("Main Campus")
	gt.Value(t, saved.OwnerID).Equal(types.OwnerID("owner-a"))
	gt.Value(t, saved.Results.TopRisks[0].Score).Equal(45)
	gt.Value(t, saved.Ratings[1].Category).Equal(types.HazardCategoryTechnological)

	t.Run("get", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/assessments/"+saved.ID.String(), "owner-a", "")
		gt.Value(t, w.Code).Equal(http.StatusOK)
	})

	t.Run("get from another owner", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/assessments/"+saved.ID.String(), "owner-b", "")
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})

	t.Run("list", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/assessments", "owner-a", "")
		gt.Value(t, w.Code).Equal(http.StatusOK)

		var resp struct {
			Assessments []struct {
				ID         model.AssessmentID `json:"id"`
				Name       string             `json:"name"`
				TopRisks   []model.TopRisk    `json:"topRisks"`
				Statistics model.Statistics   `json:"statistics"`
			} `json:"assessments"`
		}
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
		gt.Array(t, resp.Assessments).Length(1).Required()
		gt.Value(t, resp.Assessments[0].ID).Equal(saved.ID)
		gt.Value(t, resp.Assessments[0].Statistics.HighRiskCount).Equal(1)
	})

	t.Run("export csv", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/assessments/"+saved.ID.String()+"/export?format=csv", "owner-a", "")
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.Value(t, w.Header().Get("Content-Type")).Equal("text/csv; charset=utf-8")
		gt.String(t, w.Header().Get("Content-Disposition")).Contains(`filename="main-campus.csv"`)
		gt.String(t, w.Body.String()).Contains("Earthquake")
	})

	t.Run("export defaults to pdf", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/assessments/"+saved.ID.String()+"/export", "owner-a", "")
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.Value(t, w.Header().Get("Content-Type")).Equal("application/pdf")
		gt.B(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-"))).True()
	})

	t.Run("export with unknown format", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/assessments/"+saved.ID.String()+"/export?format=docx", "owner-a", "")
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("publish without storage", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodPost, "/api/assessments/"+saved.ID.String()+"/publish?format=json", "owner-a", "")
		gt.Value(t, w.Code).Equal(http.StatusNotImplemented)
	})

	t.Run("delete from another owner", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodDelete, "/api/assessments/"+saved.ID.String(), "owner-b", "")
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodDelete, "/api/assessments/"+saved.ID.String(), "owner-a", "")
		gt.Value(t, w.Code).Equal(http.StatusNoContent)

		w = doRequest(t, srv, http.MethodGet, "/api/assessments/"+saved.ID.String(), "owner-a", "")
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})
}

func TestServer_SaveValidation(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/assessments", "owner-a", `{"name":"","hazards":[]}`)
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)

	w = doRequest(t, srv, http.MethodPost, "/api/assessments", "owner-a", `not json`)
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)
}

func TestServer_DefaultOwner(t *testing.T) {
	srv := newTestServer(t)
	saved := saveAssessment(t, srv, "")
	gt.Value(t, saved.OwnerID).Equal(types.OwnerID("default-owner"))

	t.Run("no owner at all is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New())
		srv := httpctrl.New(uc.Assessment)
		w := doRequest(t, srv, http.MethodGet, "/api/assessments", "", "")
		gt.Value(t, w.Code).Equal(http.StatusUnauthorized)
	})
}

func TestServer_Publish(t *testing.T) {
	storage := &recordingStorage{}
	srv := newTestServer(t, usecase.WithReportStorage(storage))
	saved := saveAssessment(t, srv, "owner-a")

	w := doRequest(t, srv, http.MethodPost, "/api/assessments/"+saved.ID.String()+"/publish?format=markdown", "owner-a", "")
	gt.Value(t, w.Code).Equal(http.StatusOK)

	var resp struct {
		URI string `json:"uri"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
	gt.Array(t, storage.keys).Length(1).Required()
	gt.Value(t, resp.URI).Equal("gs://reports/" + storage.keys[0])
	gt.String(t, storage.keys[0]).Contains("main-campus.md")
}
