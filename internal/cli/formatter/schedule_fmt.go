package formatter

import (
	"fmt"
	"strings"

	"github.com/gmfontes/bulario/internal/scheduler"
)

// timeLayout is the display format for event times.
const timeLayout = "02/01/2006 15:04"

// FormatScheduleResult renders the outcome of one scheduling operation.
func FormatScheduleResult(res *scheduler.ScheduleResult) string {
	var b strings.Builder

	b.WriteString(Header("Tratamento agendado"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Medicamento:"), Bold(res.Medication)))
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Tratamento: "), StyleBlue.Render(string(res.TreatmentID))))
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Início:     "), res.Start.Format(timeLayout)))

	if res.Created == res.Requested {
		b.WriteString(fmt.Sprintf("  %s\n", StyleGreen.Render(fmt.Sprintf("%d doses criadas", res.Created))))
	} else {
		b.WriteString(fmt.Sprintf("  %s\n", StyleYellow.Render(
			fmt.Sprintf("%d de %d doses criadas", res.Created, res.Requested))))
		for _, dose := range res.FailedDoses {
			b.WriteString(fmt.Sprintf("    %s\n", StyleRed.Render(fmt.Sprintf("falha na dose %d", dose))))
		}
	}

	return b.String()
}

// FormatReplaceResult renders both phases of a treatment replacement.
func FormatReplaceResult(res *scheduler.ReplaceResult) string {
	var b strings.Builder

	b.WriteString(Header("Tratamento substituído"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", Dim("Anterior:"), string(res.OldTreatmentID)))
	b.WriteString(fmt.Sprintf("  %s\n", summarizeDeletes(res.Deleted)))

	if res.Schedule != nil {
		b.WriteString("\n")
		b.WriteString(FormatScheduleResult(res.Schedule))
	}
	return b.String()
}

func summarizeDeletes(res scheduler.DeleteResult) string {
	if len(res.FailedIDs) == 0 {
		return StyleGreen.Render(fmt.Sprintf("%d eventos removidos", res.Deleted))
	}
	return StyleYellow.Render(fmt.Sprintf("%d eventos removidos, %d falhas", res.Deleted, len(res.FailedIDs)))
}
