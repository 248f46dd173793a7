package usecase

import (
	"context"
	"io"
	"strings"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
)

type fakeReviewRepo struct {
	reviews      map[string]*domain.CallReview
	statusLog    []domain.ReviewStatus
	saved        *domain.CallReview
	updateErr    error
	saveErr      error
	createErr    error
	createdCount int
}

func newFakeReviewRepo(reviews ...*domain.CallReview) *fakeReviewRepo {
	repo := &fakeReviewRepo{reviews: make(map[string]*domain.CallReview)}
	for _, r := range reviews {
		repo.reviews[r.ID] = r
	}
	return repo
}

func (f *fakeReviewRepo) Create(_ context.Context, review *domain.CallReview) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdCount++
	review.Seq = f.createdCount
	f.reviews[review.ID] = review
	return nil
}

func (f *fakeReviewRepo) GetByID(_ context.Context, id string) (*domain.CallReview, error) {
	review, ok := f.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	copied := *review
	return &copied, nil
}

func (f *fakeReviewRepo) ListPending(_ context.Context) ([]domain.CallReview, error) {
	var out []domain.CallReview
	for _, r := range f.reviews {
		if r.Status == domain.ReviewPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) UpdateStatus(_ context.Context, id string, status domain.ReviewStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	review, ok := f.reviews[id]
	if !ok {
		return domain.ErrReviewNotFound
	}
	review.Status = status
	f.statusLog = append(f.statusLog, status)
	return nil
}

func (f *fakeReviewRepo) SaveRunResult(_ context.Context, review *domain.CallReview) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := *review
	f.saved = &copied
	f.reviews[review.ID] = &copied
	return nil
}

type fakeCollection struct {
	addCalls  [][]string
	documents []string
	metadatas []domain.CaseMetadata
	addErr    func(ids []string) error

	stored    []domain.StoredCase
	getAllErr error

	matches   []domain.CaseMatch
	queryErr  error
	lastQuery string
	lastK     int

	count    int
	countErr error
}

func (f *fakeCollection) Add(_ context.Context, ids, documents []string, metadatas []domain.CaseMetadata) error {
	if f.addErr != nil {
		if err := f.addErr(ids); err != nil {
			return err
		}
	}
	f.addCalls = append(f.addCalls, ids)
	f.documents = append(f.documents, documents...)
	f.metadatas = append(f.metadatas, metadatas...)
	for i, id := range ids {
		f.stored = append(f.stored, domain.StoredCase{ID: id, Metadata: metadatas[i]})
	}
	return nil
}

func (f *fakeCollection) GetAll(_ context.Context) ([]domain.StoredCase, error) {
	return f.stored, f.getAllErr
}

func (f *fakeCollection) Query(_ context.Context, text string, k int) ([]domain.CaseMatch, error) {
	f.lastQuery = text
	f.lastK = k
	return f.matches, f.queryErr
}

func (f *fakeCollection) Count(_ context.Context) (int, error) {
	return f.count, f.countErr
}

type fakeGenerator struct {
	responses []string
	err       error
	prompts   []string
	temps     []float64
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, temperature float64) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.temps = append(f.temps, temperature)
	if f.err != nil {
		return "", f.err
	}
	response := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return response, nil
}

type fakeRetriever struct {
	matches   []domain.CaseMatch
	lastQuery string
	lastK     int
}

func (f *fakeRetriever) RetrieveSimilar(_ context.Context, query string, k int) []domain.CaseMatch {
	f.lastQuery = query
	f.lastK = k
	return f.matches
}

type fakeStorage struct {
	files    map[string]string
	saveErr  error
	openErr  error
	lastSave string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string]string)}
}

func (f *fakeStorage) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	content, _ := io.ReadAll(data)
	f.files[key] = string(content)
	f.lastSave = key
	return nil
}

func (f *fakeStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.files[key])), nil
}

type fakeSTT struct {
	transcript string
	err        error
	lastName   string
}

func (f *fakeSTT) Transcribe(_ context.Context, filename string, _ io.Reader) (string, error) {
	f.lastName = filename
	return f.transcript, f.err
}

type fakeQueue struct {
	published []string
	err       error
}

func (f *fakeQueue) PublishCallReceived(_ context.Context, reviewID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, reviewID)
	return nil
}

func (f *fakeQueue) SubscribeCallReceived(_ context.Context, _ func(context.Context, string) error) error {
	return nil
}

type fakeKnowledge struct {
	nextID int
	added  []domain.Case
	addErr error
}

func (f *fakeKnowledge) NextCaseID(_ context.Context) int { return f.nextID }

func (f *fakeKnowledge) AddCase(_ context.Context, c domain.Case) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, c)
	return nil
}

func (f *fakeKnowledge) ImportRows(_ context.Context, _ []domain.CaseRecord) domain.ImportReport {
	return domain.ImportReport{}
}

func (f *fakeKnowledge) ListAll(_ context.Context) ([]domain.StoredCase, error) { return nil, nil }

func (f *fakeKnowledge) IsEmpty(_ context.Context) bool { return f.nextID <= 1 }
