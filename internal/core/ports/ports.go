package ports

import (
	"context"
	"io"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
)

// ReviewRepository persists call reviews and the pending-approval queue.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.CallReview) error
	GetByID(ctx context.Context, id string) (*domain.CallReview, error)
	ListPending(ctx context.Context) ([]domain.CallReview, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus) error
	SaveRunResult(ctx context.Context, review *domain.CallReview) error
}

// ObjectStorage stores uploaded call audio.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes call-received events.
type MessageQueue interface {
	PublishCallReceived(ctx context.Context, reviewID string) error
	SubscribeCallReceived(ctx context.Context, handler func(context.Context, string) error) error
}

// SpeechToText transcribes raw call audio.
type SpeechToText interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// TextGenerator produces text from a prompt. Temperature selects how
// deterministic the output should be.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

// CaseCollection is the persistent vector collection of approved cases.
type CaseCollection interface {
	Add(ctx context.Context, ids []string, documents []string, metadatas []domain.CaseMetadata) error
	GetAll(ctx context.Context) ([]domain.StoredCase, error)
	Query(ctx context.Context, text string, k int) ([]domain.CaseMatch, error)
	Count(ctx context.Context) (int, error)
}
