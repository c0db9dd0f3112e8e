package intelligence

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gmfontes/bulario/internal/llm"
)

// IntentClassifier routes free-form chat utterances to one of the known
// intents. It never fails: when the model is unreachable or answers
// garbage, the result degrades to IntentUnknown with an apology so the
// conversation loop keeps going.
type IntentClassifier struct {
	client llm.Client
	log    *slog.Logger
}

// NewIntentClassifier creates a classifier backed by a model client.
// logger may be nil.
func NewIntentClassifier(client llm.Client, logger *slog.Logger) *IntentClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntentClassifier{client: client, log: logger}
}

// Classify returns the intent behind one utterance, never nil.
func (c *IntentClassifier) Classify(ctx context.Context, text string) *IntentResult {
	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskIntent,
		UserPrompt: buildIntentPrompt(text),
	})
	if err != nil {
		c.log.Warn("intent generation failed", "error", err)
		return unknownResult()
	}

	result, err := llm.ExtractJSON[IntentResult](resp.Text, nil)
	if err != nil {
		c.log.Warn("unusable intent output", "error", err)
		return unknownResult()
	}

	result.Intent = normalizeIntent(result.Intent)
	if result.Message == "" {
		result.Message = apologyMessage
	}
	c.log.Debug("utterance classified",
		"intent", result.Intent,
		"medication", result.Medication)
	return &result
}

// normalizeIntent maps model output onto the known intent set. Older
// prompt revisions emitted "query_rag" for leaflet questions.
func normalizeIntent(name IntentName) IntentName {
	name = IntentName(strings.ToLower(strings.TrimSpace(string(name))))
	if name == "query_rag" {
		return IntentQuery
	}
	if !IsValidIntent(name) {
		return IntentUnknown
	}
	return name
}

func unknownResult() *IntentResult {
	return &IntentResult{Intent: IntentUnknown, Message: apologyMessage}
}
