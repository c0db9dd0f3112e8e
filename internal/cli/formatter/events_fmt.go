package formatter

import (
	"fmt"
	"strings"

	"github.com/gmfontes/bulario/internal/domain"
	"github.com/gmfontes/bulario/internal/scheduler"
)

// FormatDoseList renders the upcoming doses of one medication, numbered so
// the user can reference them in cancel and edit flows.
func FormatDoseList(medication string, doses []domain.DoseEvent) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("Doses futuras de %s", medication)))
	b.WriteString("\n\n")

	if len(doses) == 0 {
		b.WriteString(Dim("  nenhum evento futuro encontrado\n"))
		return b.String()
	}

	for i, dose := range doses {
		b.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			StyleBlue.Render(fmt.Sprintf("%2d.", i+1)),
			dose.Start.Format(timeLayout),
			Dim(fmt.Sprintf("dose %d/%d", dose.DoseIndex, dose.TotalDoses)),
			Dim(dose.EventID)))
	}
	b.WriteString(fmt.Sprintf("\n  %s %s\n", Dim("Tratamento:"), string(doses[0].TreatmentID)))
	return b.String()
}

// FormatDeleteResult renders a bulk deletion outcome.
func FormatDeleteResult(res scheduler.DeleteResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\n", summarizeDeletes(res)))
	for _, id := range res.FailedIDs {
		b.WriteString(fmt.Sprintf("  %s\n", StyleRed.Render("falha ao remover "+id)))
	}
	return b.String()
}

// FormatDose renders a single updated dose event.
func FormatDose(dose *domain.DoseEvent) string {
	return fmt.Sprintf("%s %s %s\n",
		StyleGreen.Render("Evento atualizado:"),
		dose.Start.Format(timeLayout),
		Dim(fmt.Sprintf("dose %d/%d", dose.DoseIndex, dose.TotalDoses)))
}
