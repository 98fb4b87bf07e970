// Package analyze turns one message into a TaskRecord: it asks the configured
// drafter for a model draft, then runs the normalization pipeline over the
// text and whatever the model returned.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lifebox/lifebox-cli/internal/config"
	"github.com/lifebox/lifebox-cli/internal/draft"
	"github.com/lifebox/lifebox-cli/internal/llm"
	"github.com/lifebox/lifebox-cli/internal/model"
	"github.com/lifebox/lifebox-cli/internal/monitoring"
	"github.com/lifebox/lifebox-cli/internal/pipeline"
)

// DefaultLocale is used when neither the request nor the config names one.
const DefaultLocale = "ja-JP"

// ErrInvalidRequest marks request validation failures.
var ErrInvalidRequest = errors.New("invalid request")

// Request is one analyze call.
type Request struct {
	Text       string `json:"text" validate:"required,min=1"`
	Locale     string `json:"locale"`
	SourceHint string `json:"source_hint"`
	Now        string `json:"now"`
	Model      string `json:"model"`
}

// NormalizeRequest runs the pipeline over a draft the caller already has.
type NormalizeRequest struct {
	Text        string `json:"text"`
	ModelOutput string `json:"model_output"`
	SourceHint  string `json:"source_hint"`
	Locale      string `json:"locale"`
}

// Service analyzes messages. It is safe for concurrent use.
type Service struct {
	pipeline      *pipeline.Pipeline
	drafter       llm.Drafter
	metrics       *monitoring.Metrics
	validate      *validator.Validate
	defaultLocale string
	now           func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records every analyze call on m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithDefaultLocale sets the locale used when a request has none.
func WithDefaultLocale(locale string) Option {
	return func(s *Service) {
		if locale != "" {
			s.defaultLocale = locale
		}
	}
}

// WithClock overrides the clock used to fill Request.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. A nil drafter disables drafting.
func NewService(p *pipeline.Pipeline, d llm.Drafter, opts ...Option) *Service {
	if p == nil {
		p = pipeline.New(nil)
	}
	if d == nil {
		d = llm.NopDrafter{}
	}
	s := &Service{
		pipeline:      p,
		drafter:       d,
		validate:      validator.New(),
		defaultLocale: DefaultLocale,
		now:           time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FromConfig wires the pipeline and drafter described by cfg. Offline skips
// the model entirely.
func FromConfig(cfg *config.Config, p *pipeline.Pipeline, offline bool, opts ...Option) (*Service, error) {
	var d llm.Drafter = llm.NopDrafter{}
	if !offline {
		var err error
		d, err = llm.New(cfg)
		if err != nil {
			return nil, eris.Wrap(err, "analyze: build drafter")
		}
	}
	opts = append([]Option{WithDefaultLocale(cfg.Analyze.DefaultLocale)}, opts...)
	return NewService(p, d, opts...), nil
}

// Drafter returns the drafter in use.
func (s *Service) Drafter() llm.Drafter {
	return s.drafter
}

// Analyze drafts and normalizes one message. Drafter failures degrade to
// "no draft"; only validation and cancellation are returned as errors.
func (s *Service) Analyze(ctx context.Context, req Request) (model.TaskRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return model.TaskRecord{}, invalid(err)
	}
	if req.Locale == "" {
		req.Locale = s.defaultLocale
	}
	if req.Now == "" {
		req.Now = s.now().Format(time.RFC3339)
	}

	log := zap.L().With(
		zap.String("component", "analyze"),
		zap.String("drafter", s.drafter.Name()),
	)
	start := time.Now()

	d, state, err := s.draft(ctx, log, req)
	if err != nil {
		return model.TaskRecord{}, err
	}

	normStart := time.Now()
	rec := s.pipeline.NormalizeDraft(req.Text, d, req.SourceHint)
	s.observe(monitoring.StageNormalize, time.Since(normStart))
	s.observe(monitoring.StageTotal, time.Since(start))

	if s.metrics != nil {
		s.metrics.RecordAnalyze(rec.Risk, state)
	}
	log.Debug("analyze: record built",
		zap.String("draft", string(state)),
		zap.String("risk", string(rec.Risk)),
		zap.Float64("confidence", rec.Confidence),
	)
	return rec, nil
}

// Normalize runs the pipeline without a model call.
func (s *Service) Normalize(req NormalizeRequest) model.TaskRecord {
	return s.pipeline.Normalize(pipeline.Input{
		Text:        req.Text,
		ModelOutput: req.ModelOutput,
		SourceHint:  req.SourceHint,
		Locale:      req.Locale,
	})
}

func (s *Service) draft(ctx context.Context, log *zap.Logger, req Request) (draft.Draft, monitoring.DraftState, error) {
	if _, ok := s.drafter.(llm.NopDrafter); ok {
		return draft.Draft{}, monitoring.DraftSkipped, nil
	}

	start := time.Now()
	raw, err := s.drafter.Draft(ctx, llm.Input{
		Text:       req.Text,
		Locale:     req.Locale,
		SourceHint: req.SourceHint,
		Now:        req.Now,
		Model:      req.Model,
	})
	s.observe(monitoring.StageDraft, time.Since(start))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return draft.Draft{}, "", eris.Wrap(ctxErr, "analyze: draft")
		}
		log.Warn("analyze: draft failed, continuing without it", zap.Error(err))
		s.draftFailed()
		return draft.Draft{}, monitoring.DraftFailed, nil
	}

	d := draft.Parse(raw)
	if !d.Present() {
		log.Warn("analyze: draft had no JSON object", zap.Int("raw_len", len(raw)))
		s.draftFailed()
		return d, monitoring.DraftFailed, nil
	}
	return d, monitoring.DraftUsed, nil
}

func (s *Service) draftFailed() {
	if s.metrics != nil {
		s.metrics.RecordDraftFailure(s.drafter.Name())
	}
}

func (s *Service) observe(stage string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveStage(stage, d)
	}
}

func invalid(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return eris.Wrap(ErrInvalidRequest, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return eris.Wrap(ErrInvalidRequest, strings.Join(msgs, "; "))
}
