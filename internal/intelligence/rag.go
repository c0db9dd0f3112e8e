package intelligence

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gmfontes/bulario/internal/docstore"
	"github.com/gmfontes/bulario/internal/domain"
	"github.com/gmfontes/bulario/internal/llm"
)

const (
	// allowedTopic is the only question category the guard lets through.
	allowedTopic = "reações adversas"

	// retrievalTopK is how many passages one question retrieves.
	retrievalTopK = 5

	// confidenceThreshold gates the grounded branch: below it the answer
	// falls back to general knowledge.
	confidenceThreshold = 0.6

	// unparseableFallbackConfidence is reported when the fallback model
	// output carries no usable JSON.
	unparseableFallbackConfidence = 0.2

	// omittedConfidence stands in when the fallback answer parses but the
	// model left the confidence key out.
	omittedConfidence = 0.5
)

// answerPayload mirrors the JSON object both answer prompts ask for.
// Confidence is a pointer so an absent key is distinguishable from an
// explicit zero.
type answerPayload struct {
	Answer     string   `json:"answer"`
	Confidence *float64 `json:"confidence"`
}

// Searcher is the retrieval surface the answer service consumes.
// *docstore.Store satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]docstore.SearchResult, error)
}

// AnswerService answers medication questions with confidence-gated
// retrieval: leaflet passages when they are close enough to the question,
// the model's general knowledge otherwise. A topic guard rejects anything
// but adverse-reaction questions before any I/O.
type AnswerService struct {
	client llm.Client
	search Searcher
	log    *slog.Logger
	now    func() time.Time
}

// NewAnswerService creates an answer service. logger may be nil.
func NewAnswerService(client llm.Client, search Searcher, logger *slog.Logger) *AnswerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerService{
		client: client,
		search: search,
		log:    logger,
		now:    time.Now,
	}
}

// Answer resolves one question about a medication. It always returns a
// response: failures become low-confidence answers, never errors.
func (s *AnswerService) Answer(ctx context.Context, medication, topic string) *domain.AnswerResponse {
	start := s.now()
	question := fmt.Sprintf("Quais são as reações adversas da %s?", medication)
	resp := &domain.AnswerResponse{Query: question}

	if strings.ToLower(strings.TrimSpace(topic)) != allowedTopic {
		s.log.Info("topic blocked by guard", "topic", topic)
		resp.Answer = blockedTopicMessage
		resp.Source = domain.SourceBlocked
		resp.Elapsed = s.now().Sub(start)
		return resp
	}

	passages, aggregate := s.retrieve(ctx, question)
	if aggregate < confidenceThreshold || len(passages) == 0 {
		s.answerFromGeneralKnowledge(ctx, question, resp)
	} else {
		s.answerFromPassages(ctx, question, passages, aggregate, resp)
	}

	resp.Elapsed = s.now().Sub(start)
	return resp
}

// retrieve returns the passage texts and the mean similarity. A store
// outage is logged and reported as zero confidence so the caller falls
// back instead of failing.
func (s *AnswerService) retrieve(ctx context.Context, question string) ([]string, float64) {
	results, err := s.search.Search(ctx, question, retrievalTopK)
	if err != nil {
		s.log.Warn("retrieval unavailable, falling back", "error", err)
		return nil, 0
	}
	if len(results) == 0 {
		return nil, 0
	}

	passages := make([]string, len(results))
	var sum float64
	for i, r := range results {
		passages[i] = r.Document.Content
		sum += r.Similarity
	}
	aggregate := sum / float64(len(results))
	s.log.Info("passages retrieved", "hits", len(results), "confidence", aggregate)
	return passages, aggregate
}

func (s *AnswerService) answerFromPassages(ctx context.Context, question string, passages []string, aggregate float64, resp *domain.AnswerResponse) {
	resp.Source = domain.SourceGrounded

	gen, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskGrounded,
		UserPrompt: buildGroundedPrompt(passages, question),
	})
	if err != nil {
		resp.Answer = fmt.Sprintf("Erro ao consultar a bula: %v", err)
		return
	}

	// Reported confidence is the retrieval aggregate, not the model's
	// self-assessment.
	resp.Confidence = aggregate
	if payload, err := llm.ExtractJSON[answerPayload](gen.Text, nil); err == nil && payload.Answer != "" {
		resp.Answer = payload.Answer
		return
	}
	resp.Answer = strings.TrimSpace(gen.Text)
}

func (s *AnswerService) answerFromGeneralKnowledge(ctx context.Context, question string, resp *domain.AnswerResponse) {
	resp.Source = domain.SourceFallback

	gen, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskFallback,
		UserPrompt: buildFallbackPrompt(question),
	})
	if err != nil {
		resp.Answer = fmt.Sprintf("Erro no fallback: %v", err)
		return
	}

	payload, err := llm.ExtractJSON[answerPayload](gen.Text, nil)
	if err != nil || payload.Answer == "" {
		resp.Answer = domain.NotFoundSentinel
		resp.Confidence = unparseableFallbackConfidence
	} else {
		resp.Answer = payload.Answer
		if payload.Confidence == nil {
			resp.Confidence = omittedConfidence
		} else {
			resp.Confidence = clamp01(*payload.Confidence)
		}
	}

	if !strings.Contains(resp.Answer, safetyDisclaimer) {
		resp.Answer += "\n\n" + safetyDisclaimer
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
