package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
)

func TestUploadStoresAudioAndPublishes(t *testing.T) {
	storage := newFakeStorage()
	repo := newFakeReviewRepo()
	queue := &fakeQueue{}
	uc := NewIngestUseCase(repo, storage, queue, nil)

	review, err := uc.Upload(context.Background(), "my call.m4a", "audio/mp4", strings.NewReader("audio-bytes"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if review.Status != domain.ReviewUploaded {
		t.Fatalf("expected uploaded status, got %s", review.Status)
	}
	if review.Filename != "my_call.m4a" {
		t.Fatalf("expected sanitized filename, got %q", review.Filename)
	}
	if !strings.HasSuffix(storage.lastSave, "_my_call.m4a") {
		t.Fatalf("unexpected storage key %q", storage.lastSave)
	}
	if storage.files[storage.lastSave] != "audio-bytes" {
		t.Fatalf("audio content not stored")
	}
	if len(queue.published) != 1 || queue.published[0] != review.ID {
		t.Fatalf("expected publish of review id, got %v", queue.published)
	}
}

func TestUploadRejectsNonAudio(t *testing.T) {
	uc := NewIngestUseCase(newFakeReviewRepo(), newFakeStorage(), &fakeQueue{}, nil)

	_, err := uc.Upload(context.Background(), "notes.txt", "text/plain", strings.NewReader("x"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUploadPropagatesPublishFailure(t *testing.T) {
	queue := &fakeQueue{err: errors.New("broker down")}
	uc := NewIngestUseCase(newFakeReviewRepo(), newFakeStorage(), queue, nil)

	_, err := uc.Upload(context.Background(), "call.m4a", "audio/mp4", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected error when publish fails")
	}
}
