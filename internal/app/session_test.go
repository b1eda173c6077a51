package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swingplanner/internal/domain"
	"swingplanner/internal/ports"
	"swingplanner/internal/report"
)

func stubRender(w io.Writer, symbol string, plan domain.Plan) error {
	_, err := fmt.Fprintf(w, "[%s shares=%d targets=%d]\n", symbol, plan.Result.Shares, len(plan.Targets))
	return err
}

func stubRenderAnalysis(w io.Writer, a *domain.AnalysisResult) error {
	_, err := fmt.Fprintf(w, "[analysis %s %s]\n", a.Ticker, a.Sentiment)
	return err
}

func newTestSession(t *testing.T) (*Session, *PlannerService, *mockAnalyzer, *bytes.Buffer) {
	t.Helper()
	svc, _, analyzer, _ := newTestService(t)
	var out bytes.Buffer
	return NewSession(svc, &out, stubRender, stubRenderAnalysis), svc, analyzer, &out
}

func TestSession_Run(t *testing.T) {
	sess, svc, _, out := newTestSession(t)

	script := strings.Join([]string{
		"set entry 150",
		"set stop 145",
		"symbol nvda",
		"add",
		"price 3 180",
		"pct 3 25%",
		"remove 2",
		"bogus",
		"quit",
		"set entry 999",
	}, "\n")
	require.NoError(t, sess.Run(context.Background(), strings.NewReader(script)))

	assert.Contains(t, out.String(), "[ shares=20 targets=2]")
	assert.Contains(t, out.String(), "[NVDA shares=20 targets=3]")
	assert.Contains(t, out.String(), `error: unknown command "bogus"`)

	plan := svc.Plan()
	assert.Equal(t, 150.0, plan.Inputs.EntryPrice, "commands after quit are not run")
	require.Len(t, plan.Targets, 2)
	assert.Equal(t, 180.0, plan.Targets[1].Price)
	assert.Equal(t, 25.0, plan.Targets[1].PercentageExit)
}

func TestSession_RunStopsWhenContextIsCanceled(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx, r) }()

	// The reader never delivers a line, as with a terminal waiting on input.
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the context was canceled")
	}
}

func TestSession_NonFiniteInput(t *testing.T) {
	sess, svc, _, out := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, sess.Execute(ctx, "set entry 150"))
	require.NoError(t, sess.Execute(ctx, "set stop 145"))
	require.NoError(t, sess.Execute(ctx, "set entry nan"))
	assert.Zero(t, svc.Inputs().EntryPrice)
	assert.False(t, svc.Plan().Result.IsValid)
	assert.Contains(t, out.String(), "[ shares=0 targets=2]")

	require.NoError(t, sess.Execute(ctx, "set account +Inf"))
	assert.Zero(t, svc.Inputs().AccountSize)

	var doc bytes.Buffer
	require.NoError(t, report.WriteJSON(&doc, svc.Symbol(), svc.Plan()), "a sanitized plan always encodes")
}

func TestSession_ExecuteErrors(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	ctx := context.Background()

	tests := []string{
		"set entry",
		"set entry abc",
		"set leverage 5",
		"remove x",
		"remove 9",
		"price 1",
		"save",
		"analyze",
	}
	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			assert.ErrorIs(t, sess.Execute(ctx, line), ports.ErrInvalidRequest)
		})
	}

	assert.ErrorIs(t, sess.Execute(ctx, "exit"), ErrQuit)
	assert.NoError(t, sess.Execute(ctx, "   "))
}

func TestSession_Worksheets(t *testing.T) {
	sess, _, _, out := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, sess.Execute(ctx, "list"))
	assert.Contains(t, out.String(), "no saved worksheets")

	require.NoError(t, sess.Execute(ctx, "set entry 150"))
	require.NoError(t, sess.Execute(ctx, "set stop 145"))
	require.NoError(t, sess.Execute(ctx, "save swing"))
	require.NoError(t, sess.Execute(ctx, "set entry 10"))
	require.NoError(t, sess.Execute(ctx, "load swing"))
	require.NoError(t, sess.Execute(ctx, "list"))
	assert.Contains(t, out.String(), `saved "swing"`)
	assert.Contains(t, out.String(), "entry 150 stop 145")

	require.NoError(t, sess.Execute(ctx, "delete swing"))
	assert.ErrorIs(t, sess.Execute(ctx, "load swing"), ports.ErrNotFound)
}

func TestSession_Analyze(t *testing.T) {
	sess, _, analyzer, out := newTestSession(t)
	ctx := context.Background()
	analyzer.result = &domain.AnalysisResult{Ticker: "NVDA", Sentiment: domain.SentimentBearish}

	require.NoError(t, sess.Execute(ctx, "symbol nvda"))
	require.NoError(t, sess.Execute(ctx, "analyze weekly"))
	assert.Contains(t, out.String(), "[analysis NVDA bearish]")
}

func TestParseTargets(t *testing.T) {
	got, err := ParseTargets("160:50, 170:30%,180,,")
	require.NoError(t, err)
	assert.Equal(t, []domain.TradeTarget{
		{Price: 160, PercentageExit: 50},
		{Price: 170, PercentageExit: 30},
		{Price: 180, PercentageExit: 0},
	}, got)

	got, err = ParseTargets("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParseTargets("160:half")
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)
}

func TestPlannerService_ReplaceTargets(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	setLongTrade(t, svc)

	targets, err := ParseTargets("158:100,0:0")
	require.NoError(t, err)
	plan := svc.ReplaceTargets(context.Background(), targets)

	require.Len(t, plan.Targets, 2)
	assert.Equal(t, 158.0, plan.Targets[0].Price)
	assert.Equal(t, 165.0, plan.Targets[1].Price, "unset prices are seeded by position")
	assert.Equal(t, int64(20), plan.TargetMetrics.SharesSold)
}
