package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gmfontes/bulario/internal/cli/formatter"
	"github.com/gmfontes/bulario/internal/domain"
	"github.com/gmfontes/bulario/internal/intelligence"
)

// errNotInteractive is returned when chat starts without a terminal.
var errNotInteractive = errors.New("chat requires an interactive terminal")

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Conversational loop: schedule, cancel, edit and ask",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return errNotInteractive
			}
			return runChat(app)
		},
	}
}

func runChat(app *App) error {
	ctx := context.Background()
	out := app.stdout()
	scanner := bufio.NewScanner(app.stdin())

	fmt.Fprintln(out, formatter.Bold("Assistente de medicamentos. Digite 'sair' para encerrar."))

	for {
		line, ok := prompt(scanner, out, "> ")
		if !ok {
			return nil
		}
		if line == "" {
			continue
		}
		if isExit(line) {
			fmt.Fprintln(out, formatter.Dim("Encerrando..."))
			return nil
		}

		res := app.Classifier.Classify(ctx, line)
		fmt.Fprintln(out, res.Message)

		switch res.Intent {
		case intelligence.IntentSchedule:
			chatSchedule(ctx, app, scanner, line)
		case intelligence.IntentCancel:
			chatCancel(ctx, app, scanner, res.Medication)
		case intelligence.IntentEdit:
			chatEdit(ctx, app, scanner, res.Medication)
		case intelligence.IntentQuery:
			chatQuery(ctx, app, scanner, res)
		}
	}
}

func chatSchedule(ctx context.Context, app *App, scanner *bufio.Scanner, line string) {
	out := app.stdout()

	rx, err := app.Parser.Parse(ctx, line)
	if err != nil {
		// The classifier's message already asked for the missing details.
		return
	}

	start, ok := prompt(scanner, out,
		"Quando começar? ('agora' ou 'DD/MM/AAAA HH:MM')\n> ")
	if !ok {
		return
	}
	startAt, err := parseStart(app, start)
	if err != nil {
		fmt.Fprintln(out, formatter.StyleRed.Render(err.Error()))
		return
	}

	res, err := app.Scheduler.Schedule(ctx, rx, startAt)
	if err != nil {
		fmt.Fprintln(out, formatter.StyleRed.Render(err.Error()))
		return
	}
	fmt.Fprint(out, formatter.FormatScheduleResult(res))
}

func chatCancel(ctx context.Context, app *App, scanner *bufio.Scanner, medication string) {
	out := app.stdout()

	doses, ok := chatFindDoses(ctx, app, scanner, medication)
	if !ok || len(doses) == 0 {
		return
	}

	choice, ok := prompt(scanner, out,
		"Digite o NÚMERO do evento ou 'todos' para cancelar o tratamento inteiro:\n> ")
	if !ok {
		return
	}

	ids := pickEventIDs(doses, choice)
	if ids == nil {
		fmt.Fprintln(out, formatter.Dim("Opção inválida. Operação cancelada."))
		return
	}
	fmt.Fprint(out, formatter.FormatDeleteResult(app.Scheduler.DeleteEvents(ctx, ids)))
}

func chatEdit(ctx context.Context, app *App, scanner *bufio.Scanner, medication string) {
	out := app.stdout()

	doses, ok := chatFindDoses(ctx, app, scanner, medication)
	if !ok || len(doses) == 0 {
		return
	}

	choice, ok := prompt(scanner, out, "Digite o NÚMERO do evento a editar:\n> ")
	if !ok {
		return
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(doses) {
		fmt.Fprintln(out, formatter.Dim("Número inválido. Operação cancelada."))
		return
	}

	start, ok := prompt(scanner, out,
		"Novo horário ('agora' ou 'DD/MM/AAAA HH:MM')\n> ")
	if !ok {
		return
	}
	newStart, err := parseStart(app, start)
	if err != nil {
		fmt.Fprintln(out, formatter.StyleRed.Render(err.Error()))
		return
	}

	dose, err := app.Scheduler.EditEvent(ctx, doses[idx-1].EventID, newStart)
	if err != nil {
		fmt.Fprintln(out, formatter.StyleRed.Render(err.Error()))
		return
	}
	fmt.Fprint(out, formatter.FormatDose(dose))
}

func chatQuery(ctx context.Context, app *App, scanner *bufio.Scanner, res *intelligence.IntentResult) {
	out := app.stdout()

	medication := res.Medication
	if medication == "" {
		var ok bool
		medication, ok = prompt(scanner, out, "Qual o medicamento?\n> ")
		if !ok || medication == "" {
			return
		}
	}

	topic := res.Topic
	if topic == "" {
		topic = "reações adversas"
	}
	fmt.Fprint(out, formatter.FormatAnswer(app.Answers.Answer(ctx, medication, topic)))
}

// chatFindDoses resolves the medication (prompting when the classifier did
// not catch one) and lists its future doses.
func chatFindDoses(ctx context.Context, app *App, scanner *bufio.Scanner, medication string) ([]domain.DoseEvent, bool) {
	out := app.stdout()

	if medication == "" {
		var ok bool
		medication, ok = prompt(scanner, out, "Qual o medicamento?\n> ")
		if !ok || medication == "" {
			return nil, false
		}
	}

	doses, err := app.Scheduler.FindFutureEvents(ctx, medication)
	if err != nil {
		fmt.Fprintln(out, formatter.StyleRed.Render(err.Error()))
		return nil, false
	}
	fmt.Fprint(out, formatter.FormatDoseList(medication, doses))
	return doses, true
}

// pickEventIDs translates a user choice into event ids: "todos" selects
// every dose, a 1-based number selects one. nil means invalid input.
func pickEventIDs(doses []domain.DoseEvent, choice string) []string {
	choice = strings.ToLower(strings.TrimSpace(choice))
	if choice == "todos" {
		ids := make([]string, len(doses))
		for i, d := range doses {
			ids[i] = d.EventID
		}
		return ids
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(doses) {
		return nil
	}
	return []string{doses[idx-1].EventID}
}

func prompt(scanner *bufio.Scanner, out io.Writer, text string) (string, bool) {
	fmt.Fprint(out, text)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

func isExit(line string) bool {
	switch strings.ToLower(line) {
	case "sair", "exit", "quit":
		return true
	}
	return false
}
