package intelligence

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gmfontes/bulario/internal/domain"
	"github.com/gmfontes/bulario/internal/llm"
)

// prescriptionPayload mirrors the JSON object the extraction prompt asks
// for.
type prescriptionPayload struct {
	Medicamento    string `json:"medicamento"`
	IntervaloHoras int    `json:"intervalo_horas"`
	DuracaoDias    int    `json:"duracao_dias"`
}

// PrescriptionParser turns free-text medication instructions into schedule
// descriptors with a single model call. No internal retry: a failed call
// surfaces immediately so the caller can re-prompt the user.
type PrescriptionParser struct {
	client llm.Client
	log    *slog.Logger
}

// NewPrescriptionParser creates a parser backed by a model client. logger
// may be nil.
func NewPrescriptionParser(client llm.Client, logger *slog.Logger) *PrescriptionParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &PrescriptionParser{client: client, log: logger}
}

// Parse extracts a prescription from text. Failures come back as
// *ParseError with the kind identifying which stage broke.
func (p *PrescriptionParser) Parse(ctx context.Context, text string) (domain.Prescription, error) {
	resp, err := p.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskPrescription,
		UserPrompt: buildPrescriptionPrompt(text),
	})
	if err != nil {
		return domain.Prescription{}, &ParseError{
			Kind:    KindGenerationUnavailable,
			Message: fmt.Sprintf("model call failed: %v", err),
		}
	}

	payload, err := llm.ExtractJSON[prescriptionPayload](resp.Text, nil)
	if err != nil {
		p.log.Warn("unusable extraction output", "error", err)
		return domain.Prescription{}, &ParseError{
			Kind:    KindMalformedOutput,
			Message: fmt.Sprintf("no prescription object in model output: %v", err),
		}
	}

	if err := validatePayload(payload); err != nil {
		return domain.Prescription{}, &ParseError{
			Kind:    KindIncompleteData,
			Message: err.Error(),
		}
	}

	rx := domain.Prescription{
		Medication:    strings.TrimSpace(payload.Medicamento),
		IntervalHours: payload.IntervaloHoras,
		DurationDays:  payload.DuracaoDias,
	}
	p.log.Info("prescription extracted",
		"medication", rx.Medication,
		"interval_hours", rx.IntervalHours,
		"duration_days", rx.DurationDays)
	return rx, nil
}

func validatePayload(p prescriptionPayload) error {
	if strings.TrimSpace(p.Medicamento) == "" {
		return fmt.Errorf("missing medication name")
	}
	if p.IntervaloHoras <= 0 {
		return fmt.Errorf("interval must be positive, got %d", p.IntervaloHoras)
	}
	if p.DuracaoDias <= 0 {
		return fmt.Errorf("duration must be positive, got %d", p.DuracaoDias)
	}
	return nil
}
