package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skulkarni-ml/supportdesk/internal/config"
	"github.com/skulkarni-ml/supportdesk/internal/core/ports"
	"github.com/skulkarni-ml/supportdesk/internal/core/usecase"
	"github.com/skulkarni-ml/supportdesk/internal/infrastructure/importer"
	"github.com/skulkarni-ml/supportdesk/internal/infrastructure/llm/groq"
	"github.com/skulkarni-ml/supportdesk/internal/infrastructure/queue/nats"
	"github.com/skulkarni-ml/supportdesk/internal/infrastructure/repository/postgres"
	"github.com/skulkarni-ml/supportdesk/internal/infrastructure/resilience"
	"github.com/skulkarni-ml/supportdesk/internal/infrastructure/storage/localfs"
	"github.com/skulkarni-ml/supportdesk/internal/infrastructure/vector/chroma"
)

// App wires the whole service graph once for both binaries.
type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue   ports.MessageQueue
	Reviews ports.ReviewRepository
	Storage ports.ObjectStorage

	IngestUC    ports.CallIngestor
	PipelineUC  ports.PipelineRunner
	ReviewUC    ports.ReviewService
	KnowledgeUC ports.KnowledgeService

	storage *localfs.Storage
	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	reviews := postgres.NewReviewRepository(db)
	if err := reviews.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	groqClient := groq.NewWithOptions(
		cfg.GroqURL,
		cfg.GroqAPIKey,
		cfg.GroqWhisperModel,
		cfg.GroqGenModel,
		cfg.GroqRequestsPerMin,
		groq.Options{ResilienceExecutor: executor},
	)
	collection := chroma.New(cfg.ChromaURL, cfg.ChromaCollection)

	knowledgeUC := usecase.NewKnowledgeUseCase(collection, cfg.ImportBatchSize, logger)
	retrievalUC := usecase.NewRetrievalUseCase(collection, cfg.RetrievalTopK, logger)

	stages := []usecase.Stage{
		usecase.NewTranscribeStage(storage, groqClient),
		usecase.NewExtractStage(groqClient),
		usecase.NewDraftStage(retrievalUC, groqClient, cfg.RetrievalTopK, cfg.SupportContactAddr),
	}
	pipelineUC := usecase.NewPipelineUseCase(reviews, stages, logger)

	ingestUC := usecase.NewIngestUseCase(reviews, storage, queue, logger)
	reviewUC := usecase.NewReviewUseCase(reviews, knowledgeUC, logger)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:   queue,
		Reviews: reviews,
		Storage: storage,

		IngestUC:    ingestUC,
		PipelineUC:  pipelineUC,
		ReviewUC:    reviewUC,
		KnowledgeUC: knowledgeUC,

		storage: storage,
		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// SeedKnowledgeBase loads the configured seed file into an empty case
// collection. A populated collection is left untouched.
func (a *App) SeedKnowledgeBase(ctx context.Context) error {
	if a.Config.SeedFile == "" {
		return nil
	}
	if !a.KnowledgeUC.IsEmpty(ctx) {
		a.Logger.Info("knowledge base already populated, skipping seed")
		return nil
	}

	records, err := importer.ReadFile(a.Config.SeedFile)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	report := a.KnowledgeUC.ImportRows(ctx, records)
	a.Logger.Info("knowledge base seeded",
		slog.String("file", a.Config.SeedFile),
		slog.Int("imported", report.Imported),
		slog.Int("failed", report.Failed),
	)
	return nil
}

// PurgeTransientStorage sweeps leftover temp artifacts out of the
// audio storage directory.
func (a *App) PurgeTransientStorage() {
	a.storage.PurgeTransient()
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
