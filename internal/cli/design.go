package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/naseej/meshdesign/pkg/config"
	"github.com/naseej/meshdesign/pkg/designs"
	"github.com/naseej/meshdesign/pkg/errors"
	"github.com/naseej/meshdesign/pkg/mesh"
)

// newDesignCmd creates the design command, which generates a graph from
// a natural-language prompt and optionally saves it as a named design.
func newDesignCmd(configPath *string) *cobra.Command {
	var (
		saveAs  string
		backend string
	)

	cmd := &cobra.Command{
		Use:   "design <prompt>",
		Short: "Generate a graph from a natural-language prompt",
		Long: `Design sends the prompt to the configured design backend (the external
AI design service or the offline keyword matcher), replaces the working
graph with the synthesized nodes, runs one layout pass, and prints the
result. Use --save to keep it as a named design.`,
		Example: `  meshdesign design "mqtt sensors filtered into postgres"
  meshdesign design --save telemetry "sensor data to an AI analyzer"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prompt := strings.Join(args, " ")

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if backend != "" {
				cfg.Synth.Backend = backend
			}

			store := mesh.NewEmptyStore(logger)
			synthesizer := newSynthesizer(cfg, store, logger)

			spinner := newSpinnerWithContext(cmd.Context(), "Generating design...")
			spinner.Start()
			prog := newProgress(logger)
			res, err := synthesizer.Generate(cmd.Context(), prompt)
			if err != nil {
				spinner.StopWithError(errors.UserMessage(err))
				return err
			}
			spinner.Stop()
			prog.done("Design generated")

			snap := store.Snapshot()
			printSuccess("Generated %d nodes", res.NodeCount)
			for _, n := range snap.Nodes {
				profile := mesh.ProfileFor(n.Type)
				printDetail("%s %s (%s)", profile.Icon, n.DisplayLabel(), profile.Title)
			}

			if saveAs != "" {
				fileStore, err := designs.NewFileStore(cfg.Designs.Dir)
				if err != nil {
					return err
				}
				d := designs.Design{Name: saveAs, SavedAt: time.Now().UTC(), Graph: snap}
				if err := fileStore.Set(cmd.Context(), d); err != nil {
					return err
				}
				printSuccess("Saved design %s", StyleHighlight.Render(saveAs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&saveAs, "save", "", "save the result as a named design")
	cmd.Flags().StringVar(&backend, "backend", "", "design backend: http or keyword (overrides config)")
	return cmd
}
