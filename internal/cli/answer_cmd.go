package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmfontes/bulario/internal/cli/formatter"
)

func newAnswerCmd(app *App) *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "answer <medicamento>",
		Short: "Answer a question about a medication from its leaflet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := app.Answers.Answer(context.Background(), args[0], topic)
			fmt.Fprint(app.stdout(), formatter.FormatAnswer(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "reações adversas",
		"Question topic; only 'reações adversas' is allowed")

	return cmd
}
