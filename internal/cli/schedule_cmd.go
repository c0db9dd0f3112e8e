package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmfontes/bulario/internal/cli/formatter"
)

func newScheduleCmd(app *App) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "schedule <instrução>",
		Short: "Parse a prescription and create its dose events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			rx, err := app.Parser.Parse(ctx, args[0])
			if err != nil {
				return fmt.Errorf("interpreting the instruction: %w", err)
			}

			startAt, err := parseStart(app, start)
			if err != nil {
				return err
			}

			res, err := app.Scheduler.Schedule(ctx, rx, startAt)
			if err != nil {
				return err
			}

			fmt.Fprint(app.stdout(), formatter.FormatScheduleResult(res))
			return nil
		},
	}

	registerStartFlag(cmd.Flags(), &start, "agora")

	return cmd
}
