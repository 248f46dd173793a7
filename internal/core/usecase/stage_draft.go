package usecase

import (
	"context"
	"fmt"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
	"github.com/skulkarni-ml/supportdesk/internal/core/ports"
)

const draftTemperature = 0.3

// DraftStage retrieves similar resolved cases and drafts a customer
// reply grounded on them. Retrieval failure degrades to drafting
// without context; only a generation failure marks the stage as
// errored, and in that case any previously drafted text is kept.
type DraftStage struct {
	retriever   ports.ContextRetriever
	generator   ports.TextGenerator
	topK        int
	contactAddr string
}

func NewDraftStage(retriever ports.ContextRetriever, generator ports.TextGenerator, topK int, contactAddr string) *DraftStage {
	if topK <= 0 {
		topK = 3
	}
	return &DraftStage{
		retriever:   retriever,
		generator:   generator,
		topK:        topK,
		contactAddr: contactAddr,
	}
}

func (s *DraftStage) Name() string { return "draft" }

func (s *DraftStage) Execute(ctx context.Context, state *domain.PipelineState) StageResult {
	query := state.Extracted.Topic + " " + state.Extracted.Description
	state.Retrieved = s.retriever.RetrieveSimilar(ctx, query, s.topK)

	prompt := draftPrompt(state.Transcript, state.Extracted.Sentiment, state.Retrieved, s.contactAddr)
	response, err := s.generator.Generate(ctx, prompt, draftTemperature)
	if err != nil {
		return StageResult{Outcome: domain.StageError, Detail: fmt.Sprintf("Error: %v", err)}
	}

	state.DraftResponse = response
	return StageResult{Outcome: domain.StageSuccess, Detail: response}
}
