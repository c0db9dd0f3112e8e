// Package intelligence holds the language-model-facing services: the
// prescription parser, the intent classifier and the confidence-gated
// answer service.
package intelligence

// IntentName enumerates the conversational intents the classifier can
// produce.
type IntentName string

const (
	IntentSchedule IntentName = "schedule"
	IntentCancel   IntentName = "cancel"
	IntentEdit     IntentName = "edit"
	IntentQuery    IntentName = "query"
	IntentUnknown  IntentName = "unknown"
)

// validIntents is the set of known intent names for validation.
var validIntents = map[IntentName]bool{
	IntentSchedule: true,
	IntentCancel:   true,
	IntentEdit:     true,
	IntentQuery:    true,
	IntentUnknown:  true,
}

// IsValidIntent returns true if the given name is a known intent.
func IsValidIntent(name IntentName) bool {
	return validIntents[name]
}

// IntentResult is the structured output of classifying one user utterance.
// Medication and Topic are empty when the utterance does not mention them.
type IntentResult struct {
	Intent     IntentName `json:"intent"`
	Medication string     `json:"medicamento"`
	Topic      string     `json:"topic"`
	Message    string     `json:"message"`
}

// ParseErrorKind enumerates prescription parse failure reasons.
type ParseErrorKind string

const (
	// KindGenerationUnavailable means the model call itself failed.
	KindGenerationUnavailable ParseErrorKind = "GENERATION_UNAVAILABLE"

	// KindMalformedOutput means the model answered but no usable JSON
	// object could be extracted.
	KindMalformedOutput ParseErrorKind = "MALFORMED_OUTPUT"

	// KindIncompleteData means the extracted object is missing required
	// fields or carries non-positive values.
	KindIncompleteData ParseErrorKind = "INCOMPLETE_DATA"
)

// ParseError is returned when a prescription instruction cannot be turned
// into a schedule descriptor.
type ParseError struct {
	Kind    ParseErrorKind
	Message string
}

func (e *ParseError) Error() string {
	return string(e.Kind) + ": " + e.Message
}
