package ports

import (
	"context"
	"io"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
)

// CallIngestor is the inbound contract for call upload orchestration.
type CallIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.CallReview, error)
}

// PipelineRunner drives the staged processing of an uploaded call.
type PipelineRunner interface {
	RunByID(ctx context.Context, reviewID string) error
}

// ContextRetriever looks up stored cases similar to a free-text query.
// It degrades to an empty result on retrieval failure.
type ContextRetriever interface {
	RetrieveSimilar(ctx context.Context, query string, k int) []domain.CaseMatch
}

// ReviewService is the human-in-the-loop approval gate.
type ReviewService interface {
	ListPending(ctx context.Context) ([]domain.CallReview, error)
	GetByID(ctx context.Context, id string) (*domain.CallReview, error)
	Approve(ctx context.Context, id, editedSolution string) (*domain.Case, error)
	Reject(ctx context.Context, id string) error
}

// KnowledgeService manages the approved-case knowledge base.
type KnowledgeService interface {
	NextCaseID(ctx context.Context) int
	AddCase(ctx context.Context, c domain.Case) error
	ImportRows(ctx context.Context, records []domain.CaseRecord) domain.ImportReport
	ListAll(ctx context.Context) ([]domain.StoredCase, error)
	IsEmpty(ctx context.Context) bool
}
