package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naseej/meshdesign/pkg/designs"
	"github.com/naseej/meshdesign/pkg/errors"
	"github.com/naseej/meshdesign/pkg/mesh"
	"github.com/naseej/meshdesign/pkg/mesh/layout"
	"github.com/naseej/meshdesign/pkg/render"
)

// newExportCmd creates the export command, which renders a saved design
// (or the seed graph) as DOT or SVG.
func newExportCmd() *cobra.Command {
	var (
		format    string
		out       string
		direction string
		dir       string
	)

	cmd := &cobra.Command{
		Use:   "export [design-name]",
		Short: "Export a design as DOT or SVG",
		Long: `Export renders a saved design as a Graphviz DOT file or an SVG image.
Without a design name, the seed graph is exported.`,
		Example: `  meshdesign export --format dot
  meshdesign export telemetry --format svg --out telemetry.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "dot" && format != "svg" {
				return errors.New(errors.ErrCodeUnsupported, "invalid format %q (must be dot or svg)", format)
			}

			var snap mesh.Snapshot
			if len(args) == 1 {
				fileStore, err := designs.NewFileStore(dir)
				if err != nil {
					return err
				}
				d, err := fileStore.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				snap = d.Graph
			} else {
				snap = mesh.NewStore(loggerFromContext(cmd.Context())).Snapshot()
			}

			dot := render.ToDOT(snap, layout.ParseDirection(direction))
			var data []byte
			if format == "dot" {
				data = []byte(dot)
			} else {
				svg, err := render.RenderSVG(dot)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "render svg")
				}
				data = svg
			}

			if out == "" {
				fmt.Print(string(data))
				return nil
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			printSuccess("Wrote %s (%d bytes)", StyleHighlight.Render(out), len(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "dot", "output format: dot or svg")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	cmd.Flags().StringVar(&direction, "direction", "horizontal", "layout direction: horizontal or vertical")
	cmd.Flags().StringVar(&dir, "designs-dir", "", "designs directory (default ~/.config/meshdesign/designs)")
	return cmd
}
