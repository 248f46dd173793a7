package config

import "testing"

func TestLoadIncludesPipelineDefaults(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "")
	t.Setenv("IMPORT_BATCH_SIZE", "")
	t.Setenv("CHROMA_COLLECTION", "")
	t.Setenv("GROQ_WHISPER_MODEL", "")

	cfg := Load()
	if cfg.RetrievalTopK != 3 {
		t.Fatalf("expected default retrieval top k 3, got %d", cfg.RetrievalTopK)
	}
	if cfg.ImportBatchSize != 100 {
		t.Fatalf("expected default import batch size 100, got %d", cfg.ImportBatchSize)
	}
	if cfg.ChromaCollection != "customer_service_kb" {
		t.Fatalf("expected default collection name, got %q", cfg.ChromaCollection)
	}
	if cfg.GroqWhisperModel != "whisper-large-v3" {
		t.Fatalf("expected default whisper model, got %q", cfg.GroqWhisperModel)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "5")
	t.Setenv("IMPORT_BATCH_SIZE", "250")
	t.Setenv("SUPPORT_CONTACT_ADDR", "help@example.com")
	t.Setenv("GROQ_REQUESTS_PER_MIN", "12")

	cfg := Load()
	if cfg.RetrievalTopK != 5 {
		t.Fatalf("expected retrieval top k 5, got %d", cfg.RetrievalTopK)
	}
	if cfg.ImportBatchSize != 250 {
		t.Fatalf("expected import batch size 250, got %d", cfg.ImportBatchSize)
	}
	if cfg.SupportContactAddr != "help@example.com" {
		t.Fatalf("expected contact override, got %q", cfg.SupportContactAddr)
	}
	if cfg.GroqRequestsPerMin != 12 {
		t.Fatalf("expected requests per min 12, got %d", cfg.GroqRequestsPerMin)
	}
}

func TestLoadFallsBackOnBadInt(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "lots")

	cfg := Load()
	if cfg.RetrievalTopK != 3 {
		t.Fatalf("expected fallback top k 3, got %d", cfg.RetrievalTopK)
	}
}
