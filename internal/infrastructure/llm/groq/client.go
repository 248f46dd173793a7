package groq

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/skulkarni-ml/supportdesk/internal/infrastructure/resilience"
)

// Client talks to a Groq-style OpenAI-compatible API: Whisper for
// transcription and a chat model for generation.
type Client struct {
	baseURL      string
	apiKey       string
	whisperModel string
	genModel     string
	httpClient   *http.Client
	limiter      *rate.Limiter
	executor     *resilience.Executor
}

type Options struct {
	ResilienceExecutor *resilience.Executor
}

func New(baseURL, apiKey, whisperModel, genModel string, requestsPerMin int) *Client {
	return NewWithOptions(baseURL, apiKey, whisperModel, genModel, requestsPerMin, Options{})
}

func NewWithOptions(baseURL, apiKey, whisperModel, genModel string, requestsPerMin int, options Options) *Client {
	var limiter *rate.Limiter
	if requestsPerMin > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMin)/60.0), requestsPerMin)
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		whisperModel: whisperModel,
		genModel:     genModel,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
		limiter:      limiter,
		executor:     options.ResilienceExecutor,
	}
}

// Transcribe uploads raw call audio and returns the transcript text.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create transcription form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("copy audio into form: %w", err)
	}
	if err := writer.WriteField("model", c.whisperModel); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	var response struct {
		Text string `json:"text"`
	}
	payload := buf.Bytes()
	err = c.execute(ctx, "groq.transcribe", func(callCtx context.Context) error {
		return c.postMultipart(callCtx, "/v1/audio/transcriptions", writer.FormDataContentType(), bytes.NewReader(payload), &response, "transcribe")
	})
	if err != nil {
		return "", wrapTemporaryIfNeeded("transcribe", err)
	}
	return strings.TrimSpace(response.Text), nil
}

// Generate runs a single-turn chat completion with the given temperature.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	reqBody := map[string]any{
		"model": c.genModel,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": temperature,
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	err := c.execute(ctx, "groq.generate", func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/v1/chat/completions", reqBody, &response, "generate")
	})
	if err != nil {
		return "", wrapTemporaryIfNeeded("generate", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("groq generate: empty choices")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.executor == nil {
		return fn(ctx)
	}
	return c.executor.Execute(ctx, operation, fn, classifyGroqError)
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}
