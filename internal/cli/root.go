// Package cli wires the application services into cobra commands.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gmfontes/bulario/internal/docstore"
	"github.com/gmfontes/bulario/internal/intelligence"
	"github.com/gmfontes/bulario/internal/scheduler"
)

// App holds references to all services used by CLI commands.
type App struct {
	Parser     *intelligence.PrescriptionParser
	Classifier *intelligence.IntentClassifier
	Answers    *intelligence.AnswerService
	Scheduler  *scheduler.Service
	Docs       *docstore.Store

	// IsInteractive reports whether stdin is a terminal; the chat loop
	// refuses to start without one.
	IsInteractive func() bool

	// In and Out default to the process streams; tests substitute buffers.
	In  io.Reader
	Out io.Writer
}

func (a *App) stdin() io.Reader {
	if a.In != nil {
		return a.In
	}
	return os.Stdin
}

func (a *App) stdout() io.Writer {
	if a.Out != nil {
		return a.Out
	}
	return os.Stdout
}

// NewRootCmd creates the top-level "bulario" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "bulario",
		Short:         "Medication scheduling and leaflet assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newScheduleCmd(app),
		newEventsCmd(app),
		newAnswerCmd(app),
		newChatCmd(app),
		newDocsCmd(app),
	)

	return root
}
