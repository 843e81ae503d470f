package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/secmon-lab/hva/pkg/domain/types"
	"github.com/secmon-lab/hva/pkg/service/report"
	"github.com/secmon-lab/hva/pkg/utils/logging"
	"github.com/secmon-lab/hva/pkg/utils/safe"
)

// AssessmentUseCase is the application interface served by the HTTP API
type AssessmentUseCase interface {
	Template() []model.HazardRating
	Calculate(ratings []model.HazardRating) *model.RiskResults
	Save(ctx context.Context, owner types.OwnerID, name string, ratings []model.HazardRating) (*model.Assessment, error)
	Get(ctx context.Context, owner types.OwnerID, id model.AssessmentID) (*model.Assessment, error)
	List(ctx context.Context, owner types.OwnerID) ([]*model.Assessment, error)
	Delete(ctx context.Context, owner types.OwnerID, id model.AssessmentID) error
	Export(ctx context.Context, owner types.OwnerID, id model.AssessmentID, format report.Format, w io.Writer) (string, error)
	ExportRatings(name string, ratings []model.HazardRating, format report.Format, w io.Writer) (string, error)
	Publish(ctx context.Context, owner types.OwnerID, id model.AssessmentID, format report.Format) (string, error)
}

type Server struct {
	router       *chi.Mux
	assessment   AssessmentUseCase
	defaultOwner types.OwnerID
}

type Options func(*Server)

// WithDefaultOwner sets the owner used for requests without an X-Owner-ID header
func WithDefaultOwner(owner types.OwnerID) Options {
	return func(s *Server) {
		s.defaultOwner = owner
	}
}

func New(uc AssessmentUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:     r,
		assessment: uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		safe.Write(r.Context(), w, []byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/hazards", s.handleTemplate)
		r.Post("/score", s.handleScore)

		r.Route("/assessments", func(r chi.Router) {
			r.Use(ownerMiddleware(s.defaultOwner))
			r.Post("/", s.handleSaveAssessment)
			r.Get("/", s.handleListAssessments)
			r.Get("/{id}", s.handleGetAssessment)
			r.Delete("/{id}", s.handleDeleteAssessment)
			r.Get("/{id}/export", s.handleExportAssessment)
			r.Post("/{id}/publish", s.handlePublishAssessment)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
