package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"qrsafe/internal/config"
	"qrsafe/internal/history"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Server.Bind = "127.0.0.1:0"
	cfg.Server.BaseURL = "http://127.0.0.1:8320"
	cfg.LLM.APIKey = "test-key"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfg,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithHistoryLimit overrides the retention limit on the test config.
func WithHistoryLimit(limit int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Limit = limit
	}
}

// WithMasterPassword sets the gate master password on the test config.
func WithMasterPassword(password string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Gate.MasterPassword = password
	}
}

// WithPayloadLimit overrides the payload size threshold on the test config.
func WithPayloadLimit(chars int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Limits.MaxPayloadChars = chars
	}
}

// MustOpenStore opens a history.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AppendEntry inserts a history entry for tests using the provided store.
func AppendEntry(t testing.TB, store *history.Store, templateID, displayName, payload string) *history.Entry {
	t.Helper()

	entry, err := store.Append(context.Background(), &history.Entry{
		TemplateID:  templateID,
		DisplayName: displayName,
		Payload:     payload,
		QRPNG:       []byte{0x89, 'P', 'N', 'G'},
	})
	if err != nil {
		t.Fatalf("store.Append: %v", err)
	}
	return entry
}
