package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
)

func TestRetrieveSimilarReturnsMatches(t *testing.T) {
	coll := &fakeCollection{matches: []domain.CaseMatch{
		{Content: "a"}, {Content: "b"},
	}}
	uc := NewRetrievalUseCase(coll, 3, nil)

	matches := uc.RetrieveSimilar(context.Background(), "billing refund", 2)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if coll.lastQuery != "billing refund" || coll.lastK != 2 {
		t.Fatalf("unexpected query %q k=%d", coll.lastQuery, coll.lastK)
	}
}

func TestRetrieveSimilarDefaultsK(t *testing.T) {
	coll := &fakeCollection{}
	uc := NewRetrievalUseCase(coll, 3, nil)

	uc.RetrieveSimilar(context.Background(), "q", 0)
	if coll.lastK != 3 {
		t.Fatalf("expected default k=3, got %d", coll.lastK)
	}
}

func TestRetrieveSimilarDegradesToEmptyOnError(t *testing.T) {
	coll := &fakeCollection{queryErr: errors.New("vector store down")}
	uc := NewRetrievalUseCase(coll, 3, nil)

	if matches := uc.RetrieveSimilar(context.Background(), "q", 3); len(matches) != 0 {
		t.Fatalf("expected empty result on failure, got %d", len(matches))
	}
}
