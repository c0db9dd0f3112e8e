package intelligence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmfontes/bulario/internal/docstore"
	"github.com/gmfontes/bulario/internal/domain"
	"github.com/gmfontes/bulario/internal/llm"
)

type fakeSearcher struct {
	results []docstore.SearchResult
	err     error
	calls   int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ int) ([]docstore.SearchResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func hits(similarities ...float64) []docstore.SearchResult {
	out := make([]docstore.SearchResult, len(similarities))
	for i, s := range similarities {
		out[i] = docstore.SearchResult{
			Document:   docstore.Document{ID: "p", Content: "Pode causar sonolência e náusea."},
			Similarity: s,
		}
	}
	return out
}

func newAnswerService(client *fakeLLM, search Searcher) *AnswerService {
	svc := NewAnswerService(client, search, discardLogger())

	// Deterministic clock: every reading advances 50ms.
	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	step := 0
	svc.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * 50 * time.Millisecond)
	}
	return svc
}

func TestAnswerTopicGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("off-topic question blocked without any backend call", func(t *testing.T) {
		client := &fakeLLM{}
		search := &fakeSearcher{results: hits(0.9)}
		svc := newAnswerService(client, search)

		resp := svc.Answer(ctx, "dipirona", "posologia")
		assert.Equal(t, domain.SourceBlocked, resp.Source)
		assert.Equal(t, blockedTopicMessage, resp.Answer)
		assert.Zero(t, resp.Confidence)
		assert.Zero(t, search.calls)
		assert.Empty(t, client.calls)
	})

	t.Run("guard wins even with every backend down", func(t *testing.T) {
		client := &fakeLLM{errs: map[llm.TaskType]error{
			llm.TaskGrounded: llm.ErrUnavailable,
			llm.TaskFallback: llm.ErrUnavailable,
		}}
		search := &fakeSearcher{err: errors.New("pool closed")}
		svc := newAnswerService(client, search)

		resp := svc.Answer(ctx, "dipirona", "interações")
		assert.Equal(t, domain.SourceBlocked, resp.Source)
		assert.Equal(t, blockedTopicMessage, resp.Answer)
	})

	t.Run("topic match is case and space insensitive", func(t *testing.T) {
		client := &fakeLLM{responses: map[llm.TaskType]string{
			llm.TaskGrounded: `{"answer": "Sonolência.", "confidence": 0.9}`,
		}}
		svc := newAnswerService(client, &fakeSearcher{results: hits(0.9, 0.8)})

		resp := svc.Answer(ctx, "dipirona", "  Reações Adversas ")
		assert.Equal(t, domain.SourceGrounded, resp.Source)
	})
}

func TestAnswerGrounded(t *testing.T) {
	ctx := context.Background()

	t.Run("high retrieval confidence answers from passages", func(t *testing.T) {
		client := &fakeLLM{responses: map[llm.TaskType]string{
			llm.TaskGrounded: `{"answer": "Pode causar sonolência e náusea.", "confidence": 0.3}`,
		}}
		svc := newAnswerService(client, &fakeSearcher{results: hits(0.9, 0.85, 0.8)})

		resp := svc.Answer(ctx, "dipirona", "reações adversas")
		assert.Equal(t, domain.SourceGrounded, resp.Source)
		assert.Equal(t, "Pode causar sonolência e náusea.", resp.Answer)
		// The retrieval mean wins over the model's self-report.
		assert.InDelta(t, 0.85, resp.Confidence, 1e-9)
		assert.Contains(t, resp.Query, "dipirona")
		assert.Positive(t, resp.Elapsed)

		require.Len(t, client.calls, 1)
		assert.Equal(t, llm.TaskGrounded, client.calls[0].Task)
		assert.Contains(t, client.calls[0].UserPrompt, "Pode causar sonolência")
	})

	t.Run("non-JSON grounded output surfaces as raw text", func(t *testing.T) {
		client := &fakeLLM{responses: map[llm.TaskType]string{
			llm.TaskGrounded: "  A bula menciona sonolência.  ",
		}}
		svc := newAnswerService(client, &fakeSearcher{results: hits(0.9, 0.9)})

		resp := svc.Answer(ctx, "dipirona", "reações adversas")
		assert.Equal(t, "A bula menciona sonolência.", resp.Answer)
		assert.InDelta(t, 0.9, resp.Confidence, 1e-9)
	})

	t.Run("grounded generation failure reports zero confidence", func(t *testing.T) {
		client := &fakeLLM{errs: map[llm.TaskType]error{
			llm.TaskGrounded: llm.ErrTimeout,
		}}
		svc := newAnswerService(client, &fakeSearcher{results: hits(0.95)})

		resp := svc.Answer(ctx, "dipirona", "reações adversas")
		assert.Equal(t, domain.SourceGrounded, resp.Source)
		assert.Zero(t, resp.Confidence)
		assert.Contains(t, resp.Answer, "Erro")
	})
}

func TestAnswerFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("empty retrieval falls back with disclaimer", func(t *testing.T) {
		client := &fakeLLM{responses: map[llm.TaskType]string{
			llm.TaskFallback: `{"answer": "Geralmente causa sonolência.", "confidence": 0.5}`,
		}}
		svc := newAnswerService(client, &fakeSearcher{})

		resp := svc.Answer(ctx, "remediobscuro", "reações adversas")
		assert.Equal(t, domain.SourceFallback, resp.Source)
		assert.Contains(t, resp.Answer, "Geralmente causa sonolência.")
		assert.Contains(t, resp.Answer, safetyDisclaimer)
		assert.InDelta(t, 0.5, resp.Confidence, 1e-9)

		require.Len(t, client.calls, 1)
		assert.Equal(t, llm.TaskFallback, client.calls[0].Task)
	})

	t.Run("low aggregate similarity falls back", func(t *testing.T) {
		client := &fakeLLM{responses: map[llm.TaskType]string{
			llm.TaskFallback: `{"answer": "Consulte a bula oficial.", "confidence": 0.4}`,
		}}
		svc := newAnswerService(client, &fakeSearcher{results: hits(0.5, 0.4, 0.3)})

		resp := svc.Answer(ctx, "dipirona", "reações adversas")
		assert.Equal(t, domain.SourceFallback, resp.Source)
	})

	t.Run("store outage falls back instead of failing", func(t *testing.T) {
		client := &fakeLLM{responses: map[llm.TaskType]string{
			llm.TaskFallback: `{"answer": "Pode causar alergia.", "confidence": 0.45}`,
		}}
		svc := newAnswerService(client, &fakeSearcher{err: errors.New("connection refused")})

		resp := svc.Answer(ctx, "dipirona", "reações adversas")
		assert.Equal(t, domain.SourceFallback, resp.Source)
		assert.Contains(t, resp.Answer, "Pode causar alergia.")
	})

	t.Run("self-reported confidence is clamped", func(t *testing.T) {
		for raw, want := range map[string]float64{
			`{"answer": "Sim.", "confidence": 1.7}`:  1.0,
			`{"answer": "Sim.", "confidence": -0.3}`: 0.0,
		} {
			client := &fakeLLM{responses: map[llm.TaskType]string{llm.TaskFallback: raw}}
			svc := newAnswerService(client, &fakeSearcher{})

			resp := svc.Answer(ctx, "dipirona", "reações adversas")
			assert.InDelta(t, want, resp.Confidence, 1e-9, "raw %s", raw)
		}
	})

	t.Run("missing confidence key defaults to 0.5", func(t *testing.T) {
		client := &fakeLLM{responses: map[llm.TaskType]string{
			llm.TaskFallback: `{"answer": "Sim."}`,
		}}
		svc := newAnswerService(client, &fakeSearcher{})

		resp := svc.Answer(ctx, "dipirona", "reações adversas")
		assert.Contains(t, resp.Answer, "Sim.")
		assert.InDelta(t, 0.5, resp.Confidence, 1e-9)
	})

	t.Run("unparseable fallback output yields the sentinel", func(t *testing.T) {
		client := &fakeLLM{responses: map[llm.TaskType]string{
			llm.TaskFallback: "não tenho certeza sobre isso",
		}}
		svc := newAnswerService(client, &fakeSearcher{})

		resp := svc.Answer(ctx, "dipirona", "reações adversas")
		assert.Contains(t, resp.Answer, domain.NotFoundSentinel)
		assert.Contains(t, resp.Answer, safetyDisclaimer)
		assert.InDelta(t, 0.2, resp.Confidence, 1e-9)
	})

	t.Run("fallback generation failure reports zero confidence", func(t *testing.T) {
		client := &fakeLLM{errs: map[llm.TaskType]error{
			llm.TaskFallback: llm.ErrUnavailable,
		}}
		svc := newAnswerService(client, &fakeSearcher{})

		resp := svc.Answer(ctx, "dipirona", "reações adversas")
		assert.Equal(t, domain.SourceFallback, resp.Source)
		assert.Zero(t, resp.Confidence)
		assert.Contains(t, resp.Answer, "Erro")
	})
}
