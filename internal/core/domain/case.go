package domain

import "fmt"

// Sentiment is the customer mood label carried through extraction and
// into the knowledge base.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ParseSentiment normalizes free-form model output to a known label.
// Anything unrecognized collapses to neutral.
func ParseSentiment(s string) Sentiment {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return Sentiment(s)
	default:
		return SentimentNeutral
	}
}

type CaseSource string

const (
	SourceHumanApproved CaseSource = "human_approved"
	SourceCSVImport     CaseSource = "csv_import"
)

// Case is a persisted, approved support interaction. Once written to the
// knowledge base it is append-only: never updated or deleted.
type Case struct {
	ID          int        `json:"id"`
	Topic       string     `json:"topic_name"`
	Description string     `json:"description"`
	Sentiment   Sentiment  `json:"sentiment"`
	Solution    string     `json:"solution"`
	Source      CaseSource `json:"source"`
}

// IndexText renders the single indexable blob stored in the vector
// collection alongside the case metadata.
func (c Case) IndexText() string {
	return fmt.Sprintf("Topic: %s. Query: %s. Solution: %s", c.Topic, c.Description, c.Solution)
}

// CaseMetadata is the per-document metadata payload in the vector
// collection. The id is stringly typed on the wire.
type CaseMetadata struct {
	ID          string `json:"id"`
	Topic       string `json:"topic_name"`
	Description string `json:"description"`
	Sentiment   string `json:"sentiment"`
	Solution    string `json:"solution"`
	Source      string `json:"source"`
}

func (c Case) Metadata() CaseMetadata {
	return CaseMetadata{
		ID:          fmt.Sprintf("%d", c.ID),
		Topic:       c.Topic,
		Description: c.Description,
		Sentiment:   string(c.Sentiment),
		Solution:    c.Solution,
		Source:      string(c.Source),
	}
}

// CaseMatch is a retrieval hit: the indexed text plus its metadata,
// ranked by the vector index.
type CaseMatch struct {
	Content  string       `json:"content"`
	Metadata CaseMetadata `json:"metadata"`
}

// StoredCase is a {id, metadata} pair from a full collection dump.
type StoredCase struct {
	ID       string       `json:"id"`
	Metadata CaseMetadata `json:"metadata"`
}

// CaseRecord is one row of a bulk-import source file.
type CaseRecord struct {
	ID          string
	Topic       string
	Description string
	Sentiment   string
	Solution    string
}

// ImportReport summarizes a bulk import run.
type ImportReport struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}
