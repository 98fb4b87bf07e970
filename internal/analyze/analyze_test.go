package analyze

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lifebox/lifebox-cli/internal/config"
	"github.com/lifebox/lifebox-cli/internal/llm"
	"github.com/lifebox/lifebox-cli/internal/model"
	"github.com/lifebox/lifebox-cli/internal/monitoring"
	"github.com/lifebox/lifebox-cli/internal/pipeline"
)

type mockDrafter struct {
	mock.Mock
}

func (m *mockDrafter) Draft(ctx context.Context, in llm.Input) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *mockDrafter) Name() string { return "mock" }

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func TestAnalyze_UsesDraft(t *testing.T) {
	d := new(mockDrafter)
	d.On("Draft", mock.Anything, llm.Input{
		Text:       "明日までに提出してください",
		Locale:     "ja-JP",
		SourceHint: "line",
		Now:        "2026-03-01T09:00:00Z",
	}).Return(`{"assignee":"田中","confidence":0.95}`, nil)

	m := monitoring.NewMetrics(prometheus.NewRegistry())
	svc := NewService(pipeline.New(nil), d, WithMetrics(m), WithClock(fixedClock))

	rec, err := svc.Analyze(context.Background(), Request{
		Text:       "明日までに提出してください",
		SourceHint: "line",
	})
	require.NoError(t, err)
	d.AssertExpectations(t)

	require.NotNil(t, rec.Assignee)
	assert.Equal(t, "田中", *rec.Assignee)
	require.NotNil(t, rec.DueAt)
	assert.Equal(t, "明日", *rec.DueAt)
	assert.InDelta(t, 0.95, rec.Confidence, 0.001)

	w := m.TakeWindow(time.Now())
	assert.Equal(t, 1, w.Analyzed)
	assert.Zero(t, w.DraftFailures)
}

func TestAnalyze_DraftFailureDegrades(t *testing.T) {
	d := new(mockDrafter)
	d.On("Draft", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	reg := prometheus.NewRegistry()
	m := monitoring.NewMetrics(reg)
	svc := NewService(nil, d, WithMetrics(m))

	rec, err := svc.Analyze(context.Background(), Request{Text: "会議の資料を確認"})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Title)
	assert.Equal(t, model.StatusPending, rec.Status)

	w := m.TakeWindow(time.Now())
	assert.Equal(t, 1, w.Analyzed)
	assert.Equal(t, 1, w.DraftFailures)
}

func TestAnalyze_GarbageDraftCountsAsFailure(t *testing.T) {
	d := new(mockDrafter)
	d.On("Draft", mock.Anything, mock.Anything).Return("I cannot help with that.", nil)

	m := monitoring.NewMetrics(prometheus.NewRegistry())
	svc := NewService(nil, d, WithMetrics(m))

	rec, err := svc.Analyze(context.Background(), Request{Text: "hello there"})
	require.NoError(t, err)
	assert.Equal(t, pipeline.ConfidenceReadable, rec.Confidence)
	assert.Equal(t, 1, m.TakeWindow(time.Now()).DraftFailures)
}

func TestAnalyze_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := new(mockDrafter)
	d.On("Draft", mock.Anything, mock.Anything).Return("", context.Canceled)

	svc := NewService(nil, d)
	_, err := svc.Analyze(ctx, Request{Text: "hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_Validation(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.Analyze(context.Background(), Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "text: required")
}

func TestAnalyze_NopDrafterSkips(t *testing.T) {
	m := monitoring.NewMetrics(prometheus.NewRegistry())
	svc := NewService(nil, nil, WithMetrics(m))

	rec, err := svc.Analyze(context.Background(), Request{Text: "至急 振込をお願いします 3万円"})
	require.NoError(t, err)
	assert.Equal(t, model.RiskHigh, rec.Risk)
	require.NotNil(t, rec.Amount)
	assert.InDelta(t, 30000, *rec.Amount, 0.001)

	w := m.TakeWindow(time.Now())
	assert.Equal(t, 1, w.Analyzed)
	assert.Equal(t, 1, w.HighRisk)
	assert.Zero(t, w.DraftFailures)
}

func TestAnalyze_DefaultLocaleAndModel(t *testing.T) {
	d := new(mockDrafter)
	d.On("Draft", mock.Anything, mock.MatchedBy(func(in llm.Input) bool {
		return in.Locale == "en-US" && in.Model == "custom" && in.Now == "today"
	})).Return("{}", nil)

	svc := NewService(nil, d, WithDefaultLocale("en-US"))
	_, err := svc.Analyze(context.Background(), Request{Text: "pay the invoice", Now: "today", Model: "custom"})
	require.NoError(t, err)
	d.AssertExpectations(t)
}

func TestNormalize(t *testing.T) {
	svc := NewService(nil, nil)

	rec := svc.Normalize(NormalizeRequest{
		Text:        "3/15 歯科 予約",
		ModelOutput: "```json\n{\"title\":\"x\",\"source\":\"sms\"}\n```",
	})
	require.NotNil(t, rec.DueAt)
	assert.Equal(t, "3/15", *rec.DueAt)
	require.NotNil(t, rec.Source)
	assert.Equal(t, "sms", *rec.Source)

	failsafe := svc.Normalize(NormalizeRequest{Text: "   "})
	assert.Equal(t, pipeline.ConfidenceUnreadable, failsafe.Confidence)
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Provider = "bogus"
	cfg.Analyze.DefaultLocale = "zh-CN"

	_, err := FromConfig(cfg, nil, false)
	require.Error(t, err)

	svc, err := FromConfig(cfg, nil, true)
	require.NoError(t, err)
	assert.IsType(t, llm.NopDrafter{}, svc.Drafter())
	assert.Equal(t, "zh-CN", svc.defaultLocale)
}

func TestAnalyze_StageHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := monitoring.NewMetrics(reg)
	svc := NewService(nil, nil, WithMetrics(m))

	_, err := svc.Analyze(context.Background(), Request{Text: "hello"})
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "lifebox_analyze_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
