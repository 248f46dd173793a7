package domain

import "time"

type ReviewStatus string

const (
	ReviewUploaded   ReviewStatus = "uploaded"
	ReviewProcessing ReviewStatus = "processing"
	ReviewPending    ReviewStatus = "pending"
	ReviewApproved   ReviewStatus = "approved"
	ReviewRejected   ReviewStatus = "rejected"
)

// CallReview is one uploaded call and its pipeline run, queued for a
// support engineer. pending -> approved|rejected are terminal; there is
// no transition back out of a terminal state.
type CallReview struct {
	ID        string       `json:"id"`
	Seq       int          `json:"case_sequence_number"`
	Filename  string       `json:"filename"`
	AudioPath string       `json:"audio_path"`
	Status    ReviewStatus `json:"status"`

	Transcript     string          `json:"transcript,omitempty"`
	Extracted      ExtractedFields `json:"extracted_info"`
	RetrievedCount int             `json:"retrieved_solutions"`
	DraftResponse  string          `json:"generated_response,omitempty"`
	StageLog       []StageLogEntry `json:"stage_log,omitempty"`

	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Output reassembles the review-facing package of a completed run.
func (r *CallReview) Output() FinalOutput {
	return FinalOutput{
		Transcript:            r.Transcript,
		Extracted:             r.Extracted,
		RetrievedCount:        r.RetrievedCount,
		DraftResponse:         r.DraftResponse,
		RequiresHumanApproval: true,
	}
}
