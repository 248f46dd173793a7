package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
	"github.com/skulkarni-ml/supportdesk/internal/core/ports"
)

var allowedAudioExtensions = map[string]struct{}{
	".m4a":  {},
	".mp3":  {},
	".wav":  {},
	".ogg":  {},
	".flac": {},
	".webm": {},
}

// IngestUseCase accepts call uploads: the audio is stored, a review
// record is created in the uploaded state and a processing event is
// published for the worker.
type IngestUseCase struct {
	reviews ports.ReviewRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
	logger  *slog.Logger
}

func NewIngestUseCase(reviews ports.ReviewRepository, storage ports.ObjectStorage, queue ports.MessageQueue, logger *slog.Logger) *IngestUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestUseCase{reviews: reviews, storage: storage, queue: queue, logger: logger}
}

func (uc *IngestUseCase) Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.CallReview, error) {
	filename = sanitizeFilename(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedAudioExtensions[ext]; !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload call",
			fmt.Errorf("unsupported audio type %q (%s)", ext, mimeType))
	}

	id := uuid.NewString()
	key := id + "_" + filename
	if err := uc.storage.Save(ctx, key, body); err != nil {
		return nil, fmt.Errorf("store call audio: %w", err)
	}

	now := time.Now().UTC()
	review := &domain.CallReview{
		ID:          id,
		Filename:    filename,
		AudioPath:   key,
		Status:      domain.ReviewUploaded,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if err := uc.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review record: %w", err)
	}

	if err := uc.queue.PublishCallReceived(ctx, review.ID); err != nil {
		return nil, fmt.Errorf("publish call received: %w", err)
	}

	uc.logger.Info("call uploaded",
		slog.String("review_id", review.ID),
		slog.String("filename", filename),
	)
	return review, nil
}

// sanitizeFilename keeps only the base name and a conservative
// character set so the upload name is safe as a storage key.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
