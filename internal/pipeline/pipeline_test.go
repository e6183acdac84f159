package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"qrsafe/internal/config"
	"qrsafe/internal/forms"
	"qrsafe/internal/gate"
	"qrsafe/internal/history"
	"qrsafe/internal/pipeline"
	"qrsafe/internal/qrgen"
	"qrsafe/internal/services"
	"qrsafe/internal/summarize"
	"qrsafe/internal/testsupport"
)

type fakeSummarizer struct {
	calls  atomic.Int32
	result summarize.Result
	err    error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, formData string) (summarize.Result, error) {
	f.calls.Add(1)
	return f.result, f.err
}

func contactRecord(message string) *forms.Record {
	return &forms.Record{
		TemplateID: "contactForm",
		Password:   "secret",
		Fields: []forms.Field{
			{Name: "name", Value: forms.StringValue("Ada Lovelace")},
			{Name: "email", Value: forms.StringValue("ada@example.com")},
			{Name: "phone", Value: forms.StringValue("+15551234567")},
			{Name: "subject", Value: forms.StringValue("Hello")},
			{Name: "message", Value: forms.StringValue(message)},
		},
	}
}

func newPipeline(t *testing.T, cfg *config.Config, summarizer summarize.Summarizer) (*pipeline.Pipeline, *history.Store) {
	t.Helper()
	generator, err := qrgen.New(cfg.QR)
	if err != nil {
		t.Fatalf("qrgen.New: %v", err)
	}
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return pipeline.New(cfg, nil, summarizer, generator, store), store
}

func TestGenerateSmallPayload(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	summarizer := &fakeSummarizer{}
	p, store := newPipeline(t, cfg, summarizer)

	result, err := p.Generate(context.Background(), contactRecord("Looking forward to it."))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Generated == nil {
		t.Fatal("expected generated outcome")
	}
	if summarizer.calls.Load() != 0 {
		t.Fatalf("summarizer called %d times for small payload", summarizer.calls.Load())
	}
	if !strings.HasPrefix(result.Generated.URL, cfg.Server.BaseURL+"/view?data=") {
		t.Fatalf("url = %q", result.Generated.URL)
	}
	if len(result.Generated.PNG) == 0 || result.Generated.DataURI == "" {
		t.Fatal("missing rendered image")
	}
	if result.Generated.EntryID == "" {
		t.Fatal("expected history entry id")
	}

	entries, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 1 || entries[0].DisplayName != "Ada Lovelace" {
		t.Fatalf("history entries = %+v", entries)
	}
}

func TestGenerateRejectsInvalidRecord(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p, _ := newPipeline(t, cfg, &fakeSummarizer{})

	record := contactRecord("Looking forward to it.")
	record.Fields[1].Value = forms.StringValue("not-an-email")
	_, err := p.Generate(context.Background(), record)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestGenerateOversizedSummarizesOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	summarizer := &fakeSummarizer{result: summarize.Result{Summary: "Name: Ada\nSubject: Hello"}}
	p, _ := newPipeline(t, cfg, summarizer)

	result, err := p.Generate(context.Background(), contactRecord(strings.Repeat("very long message ", 200)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.SummaryPending == nil {
		t.Fatal("expected summary pending outcome")
	}
	if result.SummaryPending.NeedsUserInput {
		t.Fatal("summary should be usable")
	}
	if result.SummaryPending.Summary != "Name: Ada\nSubject: Hello" {
		t.Fatalf("summary = %q", result.SummaryPending.Summary)
	}
	if got := summarizer.calls.Load(); got != 1 {
		t.Fatalf("summarizer calls = %d, want 1", got)
	}
}

func TestGenerateOversizedNeedsUserInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	summarizer := &fakeSummarizer{result: summarize.Result{
		Summary:        "Consider removing the Message field.",
		NeedsUserInput: true,
	}}
	p, _ := newPipeline(t, cfg, summarizer)

	result, err := p.Generate(context.Background(), contactRecord(strings.Repeat("very long message ", 200)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.SummaryPending == nil || !result.SummaryPending.NeedsUserInput {
		t.Fatalf("result = %+v, want needs-user-input", result)
	}
}

func TestGenerateSummarizerFailureFallsBackToManualEdit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	summarizer := &fakeSummarizer{err: services.Wrap(services.ErrSummarization, "summarizer", "request", "boom", nil)}
	p, store := newPipeline(t, cfg, summarizer)

	result, err := p.Generate(context.Background(), contactRecord(strings.Repeat("very long message ", 200)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.SummaryPending == nil || !result.SummaryPending.NeedsUserInput {
		t.Fatalf("result = %+v, want needs-user-input fallback", result)
	}
	if result.SummaryPending.Reason == "" {
		t.Fatal("expected user-facing reason")
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("history count = %d, want 0", count)
	}
}

func TestConfirmSummaryEncodesAsIs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p, _ := newPipeline(t, cfg, &fakeSummarizer{})

	summary := "Password: secret\nForm Type: Contact Form\n\nName: Ada"
	result, err := p.ConfirmSummary(context.Background(), contactRecord("x"), summary)
	if err != nil {
		t.Fatalf("ConfirmSummary: %v", err)
	}
	if result.Generated == nil {
		t.Fatal("expected generated outcome")
	}
	if result.Generated.Payload != summary {
		t.Fatalf("payload = %q", result.Generated.Payload)
	}

	encoded := strings.TrimPrefix(result.Generated.URL, cfg.Server.BaseURL+"/view?data=")
	g := p.View(encoded)
	if g.State() != gate.StateAwaitingPassword {
		t.Fatalf("gate state = %s, want awaiting_password", g.State())
	}
	if !g.Submit("secret") {
		t.Fatal("confirmed password rejected")
	}
}

func TestViewRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p, _ := newPipeline(t, cfg, &fakeSummarizer{})

	result, err := p.Generate(context.Background(), contactRecord("Looking forward to it."))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	encoded := strings.TrimPrefix(result.Generated.URL, cfg.Server.BaseURL+"/view?data=")

	g := p.View(encoded)
	if g.State() != gate.StateAwaitingPassword {
		t.Fatalf("gate state = %s", g.State())
	}
	if g.Submit("wrong") {
		t.Fatal("wrong password accepted")
	}
	if !g.Submit("secret") {
		t.Fatal("correct password rejected")
	}
	content, ok := g.Content()
	if !ok {
		t.Fatal("content unavailable after unlock")
	}
	if !strings.Contains(content, "Name: Ada Lovelace") {
		t.Fatalf("content = %q", content)
	}
	if strings.Contains(content, "Password:") {
		t.Fatalf("password leaked into content: %q", content)
	}
}

func TestGenerateAtLimitBoundaryDoesNotSummarize(t *testing.T) {
	record := contactRecord("Exactly at the limit.")
	cfg := testsupport.NewConfig(t, testsupport.WithPayloadLimit(10_000))
	summarizer := &fakeSummarizer{}
	p, _ := newPipeline(t, cfg, summarizer)

	result, err := p.Generate(context.Background(), record)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Generated == nil {
		t.Fatal("expected generated outcome")
	}

	// Shrink the limit to exactly the payload size: still no summarization.
	cfg2 := testsupport.NewConfig(t, testsupport.WithPayloadLimit(len([]rune(result.Generated.Payload))))
	p2, _ := newPipeline(t, cfg2, summarizer)
	result2, err := p2.Generate(context.Background(), record)
	if err != nil {
		t.Fatalf("Generate at boundary: %v", err)
	}
	if result2.Generated == nil {
		t.Fatal("payload at the limit should still generate directly")
	}
	if summarizer.calls.Load() != 0 {
		t.Fatalf("summarizer calls = %d, want 0", summarizer.calls.Load())
	}
}

func TestViewMasterPasswordOverride(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMasterPassword("override-me"))
	p, _ := newPipeline(t, cfg, &fakeSummarizer{})

	result, err := p.Generate(context.Background(), contactRecord("Looking forward to it."))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	encoded := strings.TrimPrefix(result.Generated.URL, cfg.Server.BaseURL+"/view?data=")

	g := p.View(encoded)
	if !g.Submit("override-me") {
		t.Fatal("master password rejected")
	}

	// Without a configured master password the same candidate fails.
	plain, _ := newPipeline(t, testsupport.NewConfig(t), &fakeSummarizer{})
	result2, err := plain.Generate(context.Background(), contactRecord("Looking forward to it."))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	encoded2 := strings.TrimPrefix(result2.Generated.URL, cfg.Server.BaseURL+"/view?data=")
	if plain.View(encoded2).Submit("override-me") {
		t.Fatal("master override should be disabled when unset")
	}
}

func TestGenerateRecordsSnapshot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p, store := newPipeline(t, cfg, &fakeSummarizer{})

	if _, err := p.Generate(context.Background(), contactRecord("Looking forward to it.")); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	entries, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	if !strings.Contains(entries[0].RecordJSON, `"templateId":"contactForm"`) {
		t.Fatalf("record snapshot = %q", entries[0].RecordJSON)
	}
	if len(entries[0].QRPNG) == 0 {
		t.Fatal("entry missing QR image")
	}
}

func TestViewMissingAndCorruptData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p, _ := newPipeline(t, cfg, &fakeSummarizer{})

	missing := p.View("")
	if missing.State() != gate.StateError {
		t.Fatalf("state = %s, want error", missing.State())
	}
	if !strings.Contains(missing.Reason(), "No QR code data") {
		t.Fatalf("reason = %q", missing.Reason())
	}

	corrupt := p.View("%%%not-base64%%%")
	if corrupt.State() != gate.StateError {
		t.Fatalf("state = %s, want error", corrupt.State())
	}
	if !strings.Contains(corrupt.Reason(), "corrupted or invalid") {
		t.Fatalf("reason = %q", corrupt.Reason())
	}
}
