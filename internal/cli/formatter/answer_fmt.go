package formatter

import (
	"fmt"
	"strings"

	"github.com/gmfontes/bulario/internal/domain"
)

// FormatAnswer renders one answered medication question, with the source
// badge colored by how trustworthy the branch is.
func FormatAnswer(res *domain.AnswerResponse) string {
	var b strings.Builder

	b.WriteString(Header("Resposta"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s\n\n", Dim("Pergunta:"), res.Query))
	b.WriteString(indent(res.Answer, "  "))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s  %s\n",
		sourceBadge(res.Source),
		Dim(fmt.Sprintf("confiança %.2f", res.Confidence)),
		Dim(fmt.Sprintf("(%dms)", res.Elapsed.Milliseconds()))))
	return b.String()
}

func sourceBadge(source domain.AnswerSource) string {
	switch source {
	case domain.SourceGrounded:
		return StyleGreen.Render("● BULA")
	case domain.SourceFallback:
		return StyleYellow.Render("● CONHECIMENTO GERAL")
	case domain.SourceBlocked:
		return StyleRed.Render("● BLOQUEADO")
	default:
		return StyleDim.Render("● DESCONHECIDO")
	}
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
