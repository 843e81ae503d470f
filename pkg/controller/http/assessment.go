package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/secmon-lab/hva/pkg/service/report"
	"github.com/secmon-lab/hva/pkg/usecase"
	"github.com/secmon-lab/hva/pkg/utils/errutil"
	"github.com/secmon-lab/hva/pkg/utils/safe"
)

const (
	maxRequestBodySize  = 1 << 20
	defaultExportFormat = report.FormatPDF
)

type scoreRequest struct {
	Name    string               `json:"name"`
	Hazards []model.HazardRating `json:"hazards"`
}

type saveAssessmentRequest struct {
	Name    string               `json:"name"`
	Hazards []model.HazardRating `json:"hazards"`
}

type assessmentSummary struct {
	ID                  model.AssessmentID `json:"id"`
	Name                string             `json:"name"`
	OverallPreparedness string             `json:"overallPreparedness"`
	TopRisks            []model.TopRisk    `json:"topRisks"`
	Statistics          model.Statistics   `json:"statistics"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}

type assessmentListResponse struct {
	Assessments []assessmentSummary `json:"assessments"`
}

type hazardsResponse struct {
	Hazards []model.HazardRating `json:"hazards"`
}

type publishResponse struct {
	URI string `json:"uri"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(usecase.ErrInvalidAssessment, "invalid request body", goerr.V("cause", err.Error()))
	}
	return nil
}

// handleError maps use case errors to HTTP status codes
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrAssessmentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidAssessment), errors.Is(err, report.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrStorageNotConfigured):
		status = http.StatusNotImplemented
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}

func parseFormat(r *http.Request) (report.Format, error) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		return defaultExportFormat, nil
	}
	return report.ParseFormat(raw)
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, hazardsResponse{Hazards: s.assessment.Template()})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "" {
		writeJSON(w, r, http.StatusOK, s.assessment.Calculate(req.Hazards))
		return
	}

	format, err := parseFormat(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	fileName, err := s.assessment.ExportRatings(req.Name, req.Hazards, format, &buf)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeReport(w, r, format, fileName, buf.Bytes())
}

func (s *Server) handleSaveAssessment(w http.ResponseWriter, r *http.Request) {
	var req saveAssessmentRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	saved, err := s.assessment.Save(r.Context(), ownerFromContext(r.Context()), req.Name, req.Hazards)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, saved)
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	assessments, err := s.assessment.List(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := assessmentListResponse{
		Assessments: make([]assessmentSummary, len(assessments)),
	}
	for i, a := range assessments {
		summary := assessmentSummary{
			ID:         a.ID,
			Name:       a.Name,
			TopRisks:   []model.TopRisk{},
			Statistics: model.Summarize(a.Results),
			CreatedAt:  a.CreatedAt,
			UpdatedAt:  a.UpdatedAt,
		}
		if a.Results != nil {
			summary.OverallPreparedness = string(a.Results.OverallPreparedness)
			summary.TopRisks = a.Results.TopRisks
		}
		resp.Assessments[i] = summary
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	id := model.AssessmentID(chi.URLParam(r, "id"))
	assessment, err := s.assessment.Get(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, assessment)
}

func (s *Server) handleDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	id := model.AssessmentID(chi.URLParam(r, "id"))
	if err := s.assessment.Delete(r.Context(), ownerFromContext(r.Context()), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportAssessment(w http.ResponseWriter, r *http.Request) {
	format, err := parseFormat(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	ctx := r.Context()
	owner := ownerFromContext(ctx)
	id := model.AssessmentID(chi.URLParam(r, "id"))

	var buf bytes.Buffer
	fileName, err := s.assessment.Export(ctx, owner, id, format, &buf)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeReport(w, r, format, fileName, buf.Bytes())
}

func writeReport(w http.ResponseWriter, r *http.Request, format report.Format, fileName string, data []byte) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, data)
}

func (s *Server) handlePublishAssessment(w http.ResponseWriter, r *http.Request) {
	format, err := parseFormat(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	id := model.AssessmentID(chi.URLParam(r, "id"))
	uri, err := s.assessment.Publish(r.Context(), ownerFromContext(r.Context()), id, format)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, publishResponse{URI: uri})
}
