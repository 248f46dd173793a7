package domain

import "time"

type StageOutcome string

const (
	StageSuccess StageOutcome = "success"
	StageError   StageOutcome = "error"
)

// StageLogEntry records one stage execution. The log order is the
// execution order and is exposed verbatim to reviewers.
type StageLogEntry struct {
	Stage   string       `json:"stage"`
	Outcome StageOutcome `json:"outcome"`
	Detail  string       `json:"detail"`
	At      time.Time    `json:"at"`
}

// ExtractedFields is the structured record produced by the extract
// stage. JSON keys match the extraction contract exactly.
type ExtractedFields struct {
	Topic       string    `json:"topic_name"`
	Description string    `json:"description"`
	Sentiment   Sentiment `json:"overall_sentiment"`
}

// PipelineState threads through one pipeline run. It is owned by a
// single run and never shared across runs.
type PipelineState struct {
	AudioRef      string          `json:"audio_ref"`
	Filename      string          `json:"filename"`
	Transcript    string          `json:"transcript"`
	Extracted     ExtractedFields `json:"extracted"`
	Retrieved     []CaseMatch     `json:"retrieved"`
	DraftResponse string          `json:"draft_response"`
	Log           []StageLogEntry `json:"log"`
}

func (s *PipelineState) AppendLog(stage string, outcome StageOutcome, detail string) {
	s.Log = append(s.Log, StageLogEntry{
		Stage:   stage,
		Outcome: outcome,
		Detail:  detail,
		At:      time.Now().UTC(),
	})
}

// FinalOutput packages a completed run for review. RequiresHumanApproval
// is always true: drafted responses are never auto-published.
type FinalOutput struct {
	Transcript            string          `json:"transcript"`
	Extracted             ExtractedFields `json:"extracted_info"`
	RetrievedCount        int             `json:"retrieved_solutions"`
	DraftResponse         string          `json:"generated_response"`
	RequiresHumanApproval bool            `json:"requires_human_approval"`
}
