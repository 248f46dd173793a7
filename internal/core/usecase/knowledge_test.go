package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
)

func TestNextCaseIDIsMaxPlusOne(t *testing.T) {
	coll := &fakeCollection{stored: []domain.StoredCase{
		{ID: "3"}, {ID: "17"}, {ID: "5"},
	}}
	uc := NewKnowledgeUseCase(coll, 100, nil)

	if got := uc.NextCaseID(context.Background()); got != 18 {
		t.Fatalf("expected 18, got %d", got)
	}
}

func TestNextCaseIDSkipsNonNumericIDs(t *testing.T) {
	coll := &fakeCollection{stored: []domain.StoredCase{
		{ID: "legacy-a"}, {ID: "4"},
	}}
	uc := NewKnowledgeUseCase(coll, 100, nil)

	if got := uc.NextCaseID(context.Background()); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestNextCaseIDFailsSoftToOne(t *testing.T) {
	coll := &fakeCollection{getAllErr: errors.New("store down")}
	uc := NewKnowledgeUseCase(coll, 100, nil)

	if got := uc.NextCaseID(context.Background()); got != 1 {
		t.Fatalf("expected fallback id 1, got %d", got)
	}
}

func TestNextCaseIDEmptyCollection(t *testing.T) {
	uc := NewKnowledgeUseCase(&fakeCollection{}, 100, nil)
	if got := uc.NextCaseID(context.Background()); got != 1 {
		t.Fatalf("expected 1 for empty collection, got %d", got)
	}
}

func TestAddCaseStoresDocumentAndMetadata(t *testing.T) {
	coll := &fakeCollection{}
	uc := NewKnowledgeUseCase(coll, 100, nil)

	c := domain.Case{
		ID:          7,
		Topic:       "billing",
		Description: "double charge",
		Sentiment:   domain.SentimentNegative,
		Solution:    "issued refund",
		Source:      domain.SourceHumanApproved,
	}
	if err := uc.AddCase(context.Background(), c); err != nil {
		t.Fatalf("AddCase() error = %v", err)
	}

	if len(coll.addCalls) != 1 || coll.addCalls[0][0] != "7" {
		t.Fatalf("unexpected ids %v", coll.addCalls)
	}
	if coll.documents[0] != "Topic: billing. Query: double charge. Solution: issued refund" {
		t.Fatalf("unexpected document %q", coll.documents[0])
	}
	if coll.metadatas[0].Source != "human_approved" {
		t.Fatalf("unexpected source %q", coll.metadatas[0].Source)
	}
}

func TestAddCaseListAllRoundTrip(t *testing.T) {
	coll := &fakeCollection{}
	uc := NewKnowledgeUseCase(coll, 100, nil)

	c := domain.Case{
		ID:          3,
		Topic:       "network",
		Description: "slow speeds",
		Sentiment:   domain.SentimentNeutral,
		Solution:    "reset the router",
		Source:      domain.SourceHumanApproved,
	}
	if err := uc.AddCase(context.Background(), c); err != nil {
		t.Fatalf("AddCase() error = %v", err)
	}

	stored, err := uc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored case, got %d", len(stored))
	}
	if stored[0].ID != "3" || stored[0].Metadata != c.Metadata() {
		t.Fatalf("round trip mismatch: %+v", stored[0])
	}
}

func TestImportRowsBatches(t *testing.T) {
	coll := &fakeCollection{}
	uc := NewKnowledgeUseCase(coll, 2, nil)

	records := make([]domain.CaseRecord, 5)
	for i := range records {
		records[i] = domain.CaseRecord{
			ID:        strconv.Itoa(i + 1),
			Topic:     "t",
			Sentiment: "neutral",
		}
	}

	report := uc.ImportRows(context.Background(), records)
	if report.Imported != 5 || report.Failed != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	// 5 rows at batch size 2 make batches of 2, 2 and 1.
	if len(coll.addCalls) != 3 {
		t.Fatalf("expected 3 batch calls, got %d", len(coll.addCalls))
	}
	if coll.metadatas[0].Source != "csv_import" {
		t.Fatalf("expected csv_import source, got %q", coll.metadatas[0].Source)
	}
}

func TestImportRowsFallsBackToSingleRows(t *testing.T) {
	coll := &fakeCollection{}
	coll.addErr = func(ids []string) error {
		if len(ids) > 1 {
			return errors.New("batch rejected")
		}
		if ids[0] == "2" {
			return fmt.Errorf("row 2 is poisoned")
		}
		return nil
	}
	uc := NewKnowledgeUseCase(coll, 3, nil)

	records := []domain.CaseRecord{
		{ID: "1", Topic: "a"},
		{ID: "2", Topic: "b"},
		{ID: "3", Topic: "c"},
	}
	report := uc.ImportRows(context.Background(), records)
	if report.Imported != 2 || report.Failed != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestIsEmptyTreatsErrorAsEmpty(t *testing.T) {
	coll := &fakeCollection{countErr: errors.New("store down")}
	uc := NewKnowledgeUseCase(coll, 100, nil)
	if !uc.IsEmpty(context.Background()) {
		t.Fatalf("expected unreachable collection to read as empty")
	}

	coll2 := &fakeCollection{count: 4}
	uc2 := NewKnowledgeUseCase(coll2, 100, nil)
	if uc2.IsEmpty(context.Background()) {
		t.Fatalf("expected non-empty collection")
	}
}
