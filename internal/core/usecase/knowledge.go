package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
	"github.com/skulkarni-ml/supportdesk/internal/core/ports"
)

// KnowledgeUseCase owns the append-only case knowledge base. Cases are
// only ever added, by human approval or bulk import.
type KnowledgeUseCase struct {
	collection ports.CaseCollection
	batchSize  int
	logger     *slog.Logger
}

func NewKnowledgeUseCase(collection ports.CaseCollection, batchSize int, logger *slog.Logger) *KnowledgeUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KnowledgeUseCase{collection: collection, batchSize: batchSize, logger: logger}
}

// NextCaseID scans the collection for the highest numeric case id and
// returns one past it. Non-numeric ids are skipped. On any failure it
// falls back to 1 rather than blocking an approval.
func (uc *KnowledgeUseCase) NextCaseID(ctx context.Context) int {
	stored, err := uc.collection.GetAll(ctx)
	if err != nil {
		uc.logger.Warn("next case id scan failed", slog.String("error", err.Error()))
		return 1
	}

	maxID := 0
	for _, sc := range stored {
		n, err := strconv.Atoi(sc.ID)
		if err != nil {
			continue
		}
		if n > maxID {
			maxID = n
		}
	}
	return maxID + 1
}

func (uc *KnowledgeUseCase) AddCase(ctx context.Context, c domain.Case) error {
	id := strconv.Itoa(c.ID)
	err := uc.collection.Add(ctx,
		[]string{id},
		[]string{c.IndexText()},
		[]domain.CaseMetadata{c.Metadata()},
	)
	if err != nil {
		return err
	}
	uc.logger.Info("case added to knowledge base",
		slog.String("case_id", id),
		slog.String("source", string(c.Source)),
	)
	return nil
}

// ImportRows loads bulk records in batches. A failed batch falls back
// to adding its rows one by one so a single poisoned row cannot sink
// its whole batch. Rows that still fail are counted, not returned as
// an error: an import is best effort.
func (uc *KnowledgeUseCase) ImportRows(ctx context.Context, records []domain.CaseRecord) domain.ImportReport {
	var report domain.ImportReport

	for start := 0; start < len(records); start += uc.batchSize {
		end := start + uc.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		ids := make([]string, 0, len(batch))
		documents := make([]string, 0, len(batch))
		metadatas := make([]domain.CaseMetadata, 0, len(batch))
		for _, rec := range batch {
			c := caseFromRecord(rec)
			ids = append(ids, rec.ID)
			documents = append(documents, c.IndexText())
			meta := c.Metadata()
			meta.ID = rec.ID
			metadatas = append(metadatas, meta)
		}

		err := uc.collection.Add(ctx, ids, documents, metadatas)
		if err == nil {
			report.Imported += len(batch)
			continue
		}
		uc.logger.Warn("batch import failed, retrying rows individually",
			slog.Int("batch_start", start),
			slog.String("error", err.Error()),
		)

		for i := range ids {
			err := uc.collection.Add(ctx,
				ids[i:i+1], documents[i:i+1], metadatas[i:i+1],
			)
			if err != nil {
				uc.logger.Warn("import row failed",
					slog.String("row_id", ids[i]),
					slog.String("error", err.Error()),
				)
				report.Failed++
				continue
			}
			report.Imported++
		}
	}

	uc.logger.Info("bulk import finished",
		slog.Int("imported", report.Imported),
		slog.Int("failed", report.Failed),
	)
	return report
}

func (uc *KnowledgeUseCase) ListAll(ctx context.Context) ([]domain.StoredCase, error) {
	return uc.collection.GetAll(ctx)
}

// IsEmpty treats an unreachable collection as empty, matching the
// fail-soft posture of NextCaseID.
func (uc *KnowledgeUseCase) IsEmpty(ctx context.Context) bool {
	count, err := uc.collection.Count(ctx)
	if err != nil {
		uc.logger.Warn("collection count failed", slog.String("error", err.Error()))
		return true
	}
	return count == 0
}

func caseFromRecord(rec domain.CaseRecord) domain.Case {
	return domain.Case{
		Topic:       rec.Topic,
		Description: rec.Description,
		Sentiment:   domain.ParseSentiment(rec.Sentiment),
		Solution:    rec.Solution,
		Source:      domain.SourceCSVImport,
	}
}
