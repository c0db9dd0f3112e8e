package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gmfontes/bulario/internal/docstore"
)

func newDocsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage indexed leaflet passages",
	}

	cmd.AddCommand(newDocsAddCmd(app), newDocsCountCmd(app))
	return cmd
}

func newDocsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <medicamento> <file>",
		Short: "Index one leaflet passage from a text file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			medication, path := args[0], args[1]

			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading passage file: %w", err)
			}

			id := docID(medication, path)
			err = app.Docs.Add(context.Background(), docstore.Document{
				ID:      id,
				Content: string(content),
				Metadata: map[string]string{
					"medicamento": strings.ToLower(medication),
					"source":      filepath.Base(path),
				},
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(app.stdout(), "Passagem indexada: %s\n", id)
			return nil
		},
	}
}

func newDocsCountCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show how many passages are indexed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Docs.Count(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout(), "%d passagens indexadas\n", n)
			return nil
		},
	}
}

// docID derives a stable document id from the medication and file name, so
// re-adding the same file replaces the stored passage.
func docID(medication, path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ToLower(medication) + "-" + strings.ToLower(base)
}
