package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"unicode/utf8"

	"qrsafe/internal/config"
	"qrsafe/internal/forms"
	"qrsafe/internal/gate"
	"qrsafe/internal/history"
	"qrsafe/internal/logging"
	"qrsafe/internal/payload"
	"qrsafe/internal/qrgen"
	"qrsafe/internal/services"
	"qrsafe/internal/summarize"
)

// Generated is the successful outcome of a submission: a rendered QR code
// pointing at the view URL.
type Generated struct {
	EntryID string
	Payload string
	URL     string
	PNG     []byte
	DataURI string
}

// SummaryPending is returned when the payload exceeded the size limit. When
// NeedsUserInput is false the Summary is a usable shortened payload awaiting
// the user's confirmation; otherwise Summary holds suggestions (or Reason
// explains the failure) and the user must edit the record.
type SummaryPending struct {
	Summary        string
	NeedsUserInput bool
	Reason         string
}

// Result is the outcome of Generate. Exactly one field is set.
type Result struct {
	Generated      *Generated
	SummaryPending *SummaryPending
}

// Pipeline turns validated form records into password-gated QR codes.
type Pipeline struct {
	cfg        *config.Config
	logger     *slog.Logger
	summarizer summarize.Summarizer
	generator  *qrgen.Generator
	store      *history.Store
}

// New wires the pipeline. The store may be nil, in which case history is
// disabled.
func New(cfg *config.Config, logger *slog.Logger, summarizer summarize.Summarizer, generator *qrgen.Generator, store *history.Store) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		summarizer: summarizer,
		generator:  generator,
		store:      store,
	}
}

// Generate validates the record, serializes it, and either produces a QR
// code or, when the payload exceeds the configured limit, asks the
// summarizer for a shortened version exactly once and hands it back for
// confirmation.
func (p *Pipeline) Generate(ctx context.Context, record *forms.Record) (*Result, error) {
	if err := forms.Validate(record); err != nil {
		return nil, err
	}
	ctx = services.WithTemplateID(ctx, record.TemplateID)

	text := payload.Serialize(record)
	limit := p.cfg.Limits.MaxPayloadChars
	if limit > 0 && utf8.RuneCountInString(text) > limit {
		return p.summarizeOversized(ctx, text)
	}
	return p.finish(ctx, record, text)
}

// ConfirmSummary encodes a user-confirmed summary as the payload, bypassing
// the size check. QR capacity still bounds what can be rendered.
func (p *Pipeline) ConfirmSummary(ctx context.Context, record *forms.Record, summary string) (*Result, error) {
	if summary == "" {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "confirm", "summary required", nil)
	}
	return p.finish(ctx, record, summary)
}

// View decodes QR payload data into a gate. Decode failures become terminal
// gate errors rather than Go errors so the caller always has a state to
// show.
func (p *Pipeline) View(encoded string) *gate.Gate {
	decoded, err := payload.Decode(encoded)
	switch {
	case errors.Is(err, payload.ErrMissing):
		return gate.Failed("No QR code data was provided.")
	case err != nil:
		return gate.Failed(services.UserFacing(services.ErrDecode))
	}
	return gate.FromPayload(decoded, p.cfg.Gate.MasterPassword)
}

func (p *Pipeline) summarizeOversized(ctx context.Context, text string) (*Result, error) {
	log := logging.WithContext(ctx, p.logger)
	log.Info("payload exceeds limit, summarizing",
		logging.Int("payload_chars", utf8.RuneCountInString(text)),
		logging.Int("limit", p.cfg.Limits.MaxPayloadChars))

	result, err := p.summarizer.Summarize(ctx, text)
	if err != nil {
		log.Warn("summarization failed", logging.Error(err))
		return &Result{SummaryPending: &SummaryPending{
			NeedsUserInput: true,
			Reason:         services.UserFacing(err),
		}}, nil
	}
	return &Result{SummaryPending: &SummaryPending{
		Summary:        result.Summary,
		NeedsUserInput: result.NeedsUserInput,
	}}, nil
}

func (p *Pipeline) finish(ctx context.Context, record *forms.Record, text string) (*Result, error) {
	encoded := payload.Encode(text)
	url := p.cfg.Server.BaseURL + "/view?data=" + encoded

	img, err := p.generator.Render(url)
	if err != nil {
		return nil, err
	}

	generated := &Generated{
		Payload: text,
		URL:     url,
		PNG:     img.PNG,
		DataURI: img.DataURI,
	}

	// History is best effort. A storage failure never blocks handing the QR
	// code back to the user.
	if p.store != nil {
		snapshot, marshalErr := json.Marshal(record)
		if marshalErr != nil {
			snapshot = nil
		}
		entry, appendErr := p.store.Append(ctx, &history.Entry{
			TemplateID:  record.TemplateID,
			DisplayName: record.DisplayName(),
			Payload:     text,
			RecordJSON:  string(snapshot),
			QRPNG:       img.PNG,
		})
		if appendErr != nil {
			logging.WithContext(ctx, p.logger).Warn("history append failed", logging.Error(appendErr))
		} else {
			generated.EntryID = entry.ID
		}
	}

	return &Result{Generated: generated}, nil
}
