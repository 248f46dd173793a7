package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
	"github.com/skulkarni-ml/supportdesk/internal/core/ports"
)

// ReviewUseCase is the human approval gate. Nothing reaches the
// knowledge base without a support engineer approving it here, and a
// decided review never changes again.
type ReviewUseCase struct {
	reviews   ports.ReviewRepository
	knowledge ports.KnowledgeService
	logger    *slog.Logger
}

func NewReviewUseCase(reviews ports.ReviewRepository, knowledge ports.KnowledgeService, logger *slog.Logger) *ReviewUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewUseCase{reviews: reviews, knowledge: knowledge, logger: logger}
}

func (uc *ReviewUseCase) ListPending(ctx context.Context) ([]domain.CallReview, error) {
	return uc.reviews.ListPending(ctx)
}

func (uc *ReviewUseCase) GetByID(ctx context.Context, id string) (*domain.CallReview, error) {
	return uc.reviews.GetByID(ctx, id)
}

// Approve stores the reviewed case in the knowledge base and closes
// the review. The engineer's edited solution wins over the drafted
// one; an empty edit keeps the draft. If the store write fails the
// review stays pending so the approval can be retried.
func (uc *ReviewUseCase) Approve(ctx context.Context, id, editedSolution string) (*domain.Case, error) {
	review, err := uc.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.Status != domain.ReviewPending {
		return nil, domain.WrapError(domain.ErrConflict, "approve review",
			fmt.Errorf("review %s is %s", id, review.Status))
	}

	solution := strings.TrimSpace(editedSolution)
	if solution == "" {
		solution = review.DraftResponse
	}

	c := domain.Case{
		ID:          uc.knowledge.NextCaseID(ctx),
		Topic:       review.Extracted.Topic,
		Description: review.Extracted.Description,
		Sentiment:   review.Extracted.Sentiment,
		Solution:    solution,
		Source:      domain.SourceHumanApproved,
	}
	if err := uc.knowledge.AddCase(ctx, c); err != nil {
		return nil, fmt.Errorf("store approved case: %w", err)
	}

	if err := uc.reviews.UpdateStatus(ctx, id, domain.ReviewApproved); err != nil {
		return nil, fmt.Errorf("close approved review: %w", err)
	}

	uc.logger.Info("review approved",
		slog.String("review_id", id),
		slog.Int("case_id", c.ID),
	)
	return &c, nil
}

func (uc *ReviewUseCase) Reject(ctx context.Context, id string) error {
	review, err := uc.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.Status != domain.ReviewPending {
		return domain.WrapError(domain.ErrConflict, "reject review",
			fmt.Errorf("review %s is %s", id, review.Status))
	}

	if err := uc.reviews.UpdateStatus(ctx, id, domain.ReviewRejected); err != nil {
		return fmt.Errorf("close rejected review: %w", err)
	}
	uc.logger.Info("review rejected", slog.String("review_id", id))
	return nil
}
