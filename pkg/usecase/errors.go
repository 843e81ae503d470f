package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	ErrAssessmentNotFound   = goerr.New("assessment not found")
	ErrInvalidAssessment    = goerr.New("invalid assessment")
	ErrStorageNotConfigured = goerr.New("report storage is not configured")
)

// Context keys for error values
const (
	AssessmentIDKey = "assessment_id"
	OwnerIDKey      = "owner_id"
)
