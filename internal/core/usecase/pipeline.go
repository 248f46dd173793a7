package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
	"github.com/skulkarni-ml/supportdesk/internal/core/ports"
)

// StageResult is what a stage reports back to the orchestrator.
type StageResult struct {
	Outcome domain.StageOutcome
	Detail  string
}

// Stage is one step of call processing. A stage mutates the shared run
// state and reports its outcome; it never aborts the run.
type Stage interface {
	Name() string
	Execute(ctx context.Context, state *domain.PipelineState) StageResult
}

// PipelineUseCase runs the transcribe/extract/draft sequence over an
// uploaded call and parks the result in the pending review queue. Every
// stage runs exactly once per call, in order, even after an earlier
// stage has failed: downstream stages work with whatever state the
// failed stage left behind, so a single bad transcription still yields
// a reviewable record instead of a lost call.
type PipelineUseCase struct {
	reviews ports.ReviewRepository
	stages  []Stage
	logger  *slog.Logger
}

func NewPipelineUseCase(reviews ports.ReviewRepository, stages []Stage, logger *slog.Logger) *PipelineUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineUseCase{reviews: reviews, stages: stages, logger: logger}
}

// Run executes all stages against the given state and packages the
// outcome. The returned output always demands human approval.
func (uc *PipelineUseCase) Run(ctx context.Context, state *domain.PipelineState) domain.FinalOutput {
	for _, stage := range uc.stages {
		result := stage.Execute(ctx, state)
		state.AppendLog(stage.Name(), result.Outcome, result.Detail)

		if result.Outcome == domain.StageError {
			uc.logger.Error("pipeline stage failed",
				slog.String("stage", stage.Name()),
				slog.String("detail", result.Detail),
			)
		} else {
			uc.logger.Info("pipeline stage completed", slog.String("stage", stage.Name()))
		}
	}

	return domain.FinalOutput{
		Transcript:            state.Transcript,
		Extracted:             state.Extracted,
		RetrievedCount:        len(state.Retrieved),
		DraftResponse:         state.DraftResponse,
		RequiresHumanApproval: true,
	}
}

// RunByID loads an uploaded review, runs the pipeline and persists the
// result with status pending. Redelivered events for reviews already
// past the uploaded state are acknowledged without reprocessing.
func (uc *PipelineUseCase) RunByID(ctx context.Context, reviewID string) error {
	review, err := uc.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("load review for processing: %w", err)
	}
	if review.Status != domain.ReviewUploaded {
		uc.logger.Warn("skipping review not in uploaded state",
			slog.String("review_id", reviewID),
			slog.String("status", string(review.Status)),
		)
		return nil
	}

	if err := uc.reviews.UpdateStatus(ctx, reviewID, domain.ReviewProcessing); err != nil {
		return fmt.Errorf("mark review processing: %w", err)
	}

	state := &domain.PipelineState{
		AudioRef: review.AudioPath,
		Filename: review.Filename,
	}
	output := uc.Run(ctx, state)

	review.Transcript = output.Transcript
	review.Extracted = output.Extracted
	review.RetrievedCount = output.RetrievedCount
	review.DraftResponse = output.DraftResponse
	review.StageLog = state.Log
	review.Status = domain.ReviewPending

	if err := uc.reviews.SaveRunResult(ctx, review); err != nil {
		return fmt.Errorf("persist run result: %w", err)
	}

	uc.logger.Info("call ready for human review",
		slog.String("review_id", reviewID),
		slog.Int("retrieved_solutions", output.RetrievedCount),
	)
	return nil
}
