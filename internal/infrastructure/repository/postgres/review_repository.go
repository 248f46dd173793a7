package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
)

// ReviewRepository persists call reviews; rows with status=pending form
// the approval queue.
type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ReviewRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS call_reviews (
	id TEXT PRIMARY KEY,
	seq BIGINT GENERATED ALWAYS AS IDENTITY,
	filename TEXT NOT NULL,
	audio_path TEXT NOT NULL,
	status TEXT NOT NULL,
	transcript TEXT NOT NULL DEFAULT '',
	topic TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	sentiment TEXT NOT NULL DEFAULT 'neutral',
	draft_response TEXT NOT NULL DEFAULT '',
	retrieved_count INT NOT NULL DEFAULT 0,
	stage_log JSONB NOT NULL DEFAULT '[]'::jsonb,
	submitted_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_call_reviews_status ON call_reviews(status);
CREATE INDEX IF NOT EXISTS idx_call_reviews_submitted_at ON call_reviews(submitted_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.CallReview) error {
	row := r.db.QueryRowContext(ctx, `
INSERT INTO call_reviews (id, filename, audio_path, status, submitted_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING seq
`,
		review.ID, review.Filename, review.AudioPath, string(review.Status), review.SubmittedAt, review.UpdatedAt,
	)
	if err := row.Scan(&review.Seq); err != nil {
		return fmt.Errorf("insert call review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.CallReview, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id)
	review, err := scanReview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrReviewNotFound, "get review", fmt.Errorf("id %s", id))
		}
		return nil, err
	}
	return review, nil
}

func (r *ReviewRepository) ListPending(ctx context.Context) ([]domain.CallReview, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` WHERE status = $1 ORDER BY submitted_at`, string(domain.ReviewPending))
	if err != nil {
		return nil, fmt.Errorf("list pending reviews: %w", err)
	}
	defer rows.Close()

	var out []domain.CallReview
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending reviews: %w", err)
	}
	return out, nil
}

func (r *ReviewRepository) UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE call_reviews
SET status = $2, updated_at = $3
WHERE id = $1
`, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update review status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update review status rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrReviewNotFound, "update review status", fmt.Errorf("id %s", id))
	}
	return nil
}

func (r *ReviewRepository) SaveRunResult(ctx context.Context, review *domain.CallReview) error {
	logJSON, err := json.Marshal(review.StageLog)
	if err != nil {
		return fmt.Errorf("marshal stage log: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE call_reviews
SET transcript = $2, topic = $3, description = $4, sentiment = $5,
    draft_response = $6, retrieved_count = $7, stage_log = $8,
    status = $9, updated_at = $10
WHERE id = $1
`,
		review.ID, review.Transcript, review.Extracted.Topic, review.Extracted.Description,
		string(review.Extracted.Sentiment), review.DraftResponse, review.RetrievedCount, logJSON,
		string(review.Status), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save run result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save run result rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrReviewNotFound, "save run result", fmt.Errorf("id %s", review.ID))
	}
	return nil
}

const selectColumns = `
SELECT id, seq, filename, audio_path, status, transcript, topic, description, sentiment,
       draft_response, retrieved_count, stage_log, submitted_at, updated_at
FROM call_reviews`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*domain.CallReview, error) {
	var review domain.CallReview
	var status, sentiment string
	var logRaw []byte

	err := row.Scan(
		&review.ID, &review.Seq, &review.Filename, &review.AudioPath, &status,
		&review.Transcript, &review.Extracted.Topic, &review.Extracted.Description, &sentiment,
		&review.DraftResponse, &review.RetrievedCount, &logRaw,
		&review.SubmittedAt, &review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}

	if err := json.Unmarshal(logRaw, &review.StageLog); err != nil {
		return nil, fmt.Errorf("unmarshal stage log: %w", err)
	}
	review.Status = domain.ReviewStatus(status)
	review.Extracted.Sentiment = domain.ParseSentiment(sentiment)
	return &review, nil
}
