package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/poap/internal/cli/formatter"
	"github.com/alexanderramin/poap/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out, format string
	var edits scriptedEdits

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the allocation table to CSV (or JSON)",
		Long: `Write the whole allocation table, every month of the horizon, one row
per resource. The format follows --format, or the file extension when
--format is omitted. When --format is given without --out, the configured
file name gets the matching extension. Use --out - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rejected, err := edits.apply(ctx, app)
			if err != nil {
				return err
			}
			if len(rejected) > 0 {
				fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatRejected(rejected))
			}

			fromConfig := out == ""
			if fromConfig {
				out = app.Config.ExportFile
			}
			f := export.FormatForPath(out)
			if format != "" {
				if f, err = export.ParseFormat(format); err != nil {
					return err
				}
				if fromConfig {
					out = export.WithExtension(out, f)
				}
			}

			if out == "-" {
				_, err := app.Export.Write(ctx, cmd.OutOrStdout(), f)
				return err
			}
			n, err := exportToFile(ctx, app, out, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render(exportedMessage(n, out, f)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", `output file ("-" for stdout; default from config)`)
	cmd.Flags().StringVar(&format, "format", "", "csv or json (default: from the file extension)")
	edits.bind(cmd)

	return cmd
}

// exportToFile writes the plan to path, removing a partial file on failure.
func exportToFile(ctx context.Context, app *App, path string, format export.Format) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	n, err := writeAndClose(ctx, app, f, format)
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return n, nil
}

func writeAndClose(ctx context.Context, app *App, w io.WriteCloser, format export.Format) (int, error) {
	n, err := app.Export.Write(ctx, w, format)
	if cerr := w.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing export: %w", cerr)
	}
	return n, err
}

func exportedMessage(rows int, path string, format export.Format) string {
	return fmt.Sprintf("Exported %d resources to %s (%s).", rows, path, format)
}
