package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
	"github.com/skulkarni-ml/supportdesk/internal/core/ports"
	"github.com/skulkarni-ml/supportdesk/internal/infrastructure/importer"
	"github.com/skulkarni-ml/supportdesk/internal/observability/metrics"
)

const serviceName = "supportdesk-api"

type Router struct {
	ingest    ports.CallIngestor
	reviews   ports.ReviewService
	knowledge ports.KnowledgeService
	metrics   *metrics.HTTPServerMetrics
	logger    *slog.Logger
}

func NewRouter(
	ingest ports.CallIngestor,
	reviews ports.ReviewService,
	knowledge ports.KnowledgeService,
	httpMetrics *metrics.HTTPServerMetrics,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		ingest:    ingest,
		reviews:   reviews,
		knowledge: knowledge,
		metrics:   httpMetrics,
		logger:    logger,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/calls", rt.uploadCall)
	mux.HandleFunc("/v1/reviews", rt.listPendingReviews)
	mux.HandleFunc("/v1/reviews/", rt.reviewByID)
	mux.HandleFunc("/v1/cases", rt.cases)
	mux.HandleFunc("/v1/cases/import", rt.importCases)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(rt.logger, handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	review, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordUpload(serviceName)
	}
	writeJSON(w, http.StatusAccepted, review)
}

func (rt *Router) listPendingReviews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	pending, err := rt.reviews.ListPending(r.Context())
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	if pending == nil {
		pending = []domain.CallReview{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": pending})
}

// reviewByID serves GET /v1/reviews/{id} and the approve/reject
// decision endpoints beneath it.
func (rt *Router) reviewByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/reviews/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "review id is required")
		return
	}

	switch action {
	case "":
		rt.getReview(w, r, id)
	case "approve":
		rt.approveReview(w, r, id)
	case "reject":
		rt.rejectReview(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "unknown review action")
	}
}

func (rt *Router) getReview(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	review, err := rt.reviews.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (rt *Router) approveReview(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Solution string `json:"solution"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	c, err := rt.reviews.Approve(r.Context(), id, req.Solution)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordDecision(serviceName, "approved")
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": string(domain.ReviewApproved),
		"case":   c,
	})
}

func (rt *Router) rejectReview(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := rt.reviews.Reject(r.Context(), id); err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordDecision(serviceName, "rejected")
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.ReviewRejected)})
}

func (rt *Router) cases(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.listCases(w, r)
	case http.MethodPost:
		rt.addCase(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (rt *Router) listCases(w http.ResponseWriter, r *http.Request) {
	stored, err := rt.knowledge.ListAll(r.Context())
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	if stored == nil {
		stored = []domain.StoredCase{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"cases": stored, "count": len(stored)})
}

func (rt *Router) addCase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic       string `json:"topic_name"`
		Description string `json:"description"`
		Sentiment   string `json:"sentiment"`
		Solution    string `json:"solution"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Topic) == "" || strings.TrimSpace(req.Solution) == "" {
		writeError(w, http.StatusBadRequest, "topic_name and solution are required")
		return
	}

	c := domain.Case{
		ID:          rt.knowledge.NextCaseID(r.Context()),
		Topic:       req.Topic,
		Description: req.Description,
		Sentiment:   domain.ParseSentiment(req.Sentiment),
		Solution:    req.Solution,
		Source:      domain.SourceHumanApproved,
	}
	if err := rt.knowledge.AddCase(r.Context(), c); err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (rt *Router) importCases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	var records []domain.CaseRecord
	if strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
		records, err = importer.ReadXLSX(file)
	} else {
		records, err = importer.ReadCSV(file)
	}
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	report := rt.knowledge.ImportRows(r.Context(), records)
	if rt.metrics != nil {
		rt.metrics.RecordImport(serviceName, report.Imported, report.Failed)
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
