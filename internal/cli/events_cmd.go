package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmfontes/bulario/internal/cli/formatter"
	"github.com/gmfontes/bulario/internal/domain"
)

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect and change scheduled dose events",
	}

	cmd.AddCommand(
		newEventsListCmd(app),
		newEventsDeleteCmd(app),
		newEventsEditCmd(app),
		newEventsReplaceCmd(app),
	)
	return cmd
}

func newEventsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <medicamento>",
		Short: "List upcoming doses of a medication",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doses, err := app.Scheduler.FindFutureEvents(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout(), formatter.FormatDoseList(args[0], doses))
			return nil
		},
	}
}

func newEventsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>...",
		Short: "Delete dose events by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := app.Scheduler.DeleteEvents(context.Background(), args)
			fmt.Fprint(app.stdout(), formatter.FormatDeleteResult(res))
			if len(res.FailedIDs) > 0 {
				return fmt.Errorf("%d of %d deletions failed", len(res.FailedIDs), len(args))
			}
			return nil
		},
	}
}

func newEventsEditCmd(app *App) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "edit <event-id>",
		Short: "Move one dose event to a new time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			newStart, err := parseStart(app, start)
			if err != nil {
				return err
			}

			dose, err := app.Scheduler.EditEvent(context.Background(), args[0], newStart)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout(), formatter.FormatDose(dose))
			return nil
		},
	}

	registerStartFlag(cmd.Flags(), &start, "")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newEventsReplaceCmd(app *App) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "replace <treatment-id> <instrução>",
		Short: "Replace an entire treatment with a new prescription",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if !domain.IsTreatmentID(args[0]) {
				return fmt.Errorf("%q is not a treatment id", args[0])
			}

			rx, err := app.Parser.Parse(ctx, args[1])
			if err != nil {
				return fmt.Errorf("interpreting the instruction: %w", err)
			}

			startAt, err := parseStart(app, start)
			if err != nil {
				return err
			}

			res, err := app.Scheduler.ReplaceTreatment(ctx, domain.TreatmentID(args[0]), rx, startAt)
			if res != nil {
				fmt.Fprint(app.stdout(), formatter.FormatReplaceResult(res))
			}
			return err
		},
	}

	registerStartFlag(cmd.Flags(), &start, "agora")

	return cmd
}
