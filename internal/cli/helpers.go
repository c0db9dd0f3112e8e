package cli

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/gmfontes/bulario/internal/scheduler"
)

// parseStart resolves a user start-time string against the scheduler's
// clock and timezone.
func parseStart(app *App, raw string) (time.Time, error) {
	return scheduler.ParseStartTime(raw, app.Scheduler.Now(), app.Scheduler.Location())
}

// registerStartFlag adds the shared --start flag with the usage text every
// scheduling command repeats.
func registerStartFlag(fs *pflag.FlagSet, target *string, def string) {
	fs.StringVar(target, "start", def, "Start time: 'agora' or 'DD/MM/AAAA HH:MM'")
}
