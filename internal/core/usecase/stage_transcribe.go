package usecase

import (
	"context"
	"fmt"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
	"github.com/skulkarni-ml/supportdesk/internal/core/ports"
)

// TranscribeStage reads the stored call audio and converts it to text.
type TranscribeStage struct {
	storage ports.ObjectStorage
	stt     ports.SpeechToText
}

func NewTranscribeStage(storage ports.ObjectStorage, stt ports.SpeechToText) *TranscribeStage {
	return &TranscribeStage{storage: storage, stt: stt}
}

func (s *TranscribeStage) Name() string { return "transcribe" }

func (s *TranscribeStage) Execute(ctx context.Context, state *domain.PipelineState) StageResult {
	audio, err := s.storage.Open(ctx, state.AudioRef)
	if err != nil {
		return StageResult{Outcome: domain.StageError, Detail: fmt.Sprintf("open audio: %v", err)}
	}
	defer audio.Close()

	transcript, err := s.stt.Transcribe(ctx, state.Filename, audio)
	if err != nil {
		return StageResult{Outcome: domain.StageError, Detail: fmt.Sprintf("transcribe: %v", err)}
	}

	state.Transcript = transcript
	return StageResult{Outcome: domain.StageSuccess, Detail: "Transcript: " + transcript}
}
