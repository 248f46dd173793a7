package usecase

import (
	"context"
	"log/slog"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
	"github.com/skulkarni-ml/supportdesk/internal/core/ports"
)

// RetrievalUseCase answers similarity queries against the case
// collection. A broken vector store must never break call processing,
// so failures degrade to an empty result with a logged warning.
type RetrievalUseCase struct {
	collection ports.CaseCollection
	defaultK   int
	logger     *slog.Logger
}

func NewRetrievalUseCase(collection ports.CaseCollection, defaultK int, logger *slog.Logger) *RetrievalUseCase {
	if defaultK <= 0 {
		defaultK = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RetrievalUseCase{collection: collection, defaultK: defaultK, logger: logger}
}

func (uc *RetrievalUseCase) RetrieveSimilar(ctx context.Context, query string, k int) []domain.CaseMatch {
	if k <= 0 {
		k = uc.defaultK
	}
	matches, err := uc.collection.Query(ctx, query, k)
	if err != nil {
		uc.logger.Warn("case retrieval failed", slog.String("error", err.Error()))
		return nil
	}
	return matches
}
