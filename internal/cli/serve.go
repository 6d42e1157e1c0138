package cli

import (
	"github.com/spf13/cobra"

	"github.com/naseej/meshdesign/internal/api"
	"github.com/naseej/meshdesign/pkg/config"
	"github.com/naseej/meshdesign/pkg/mesh"
	"github.com/naseej/meshdesign/pkg/mesh/layout"
)

// newServeCmd creates the serve command, which runs the HTTP console.
func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP console exposing the graph editor API",
		Long: `Serve starts the mesh designer console: a JSON API carrying graph
snapshots, mutation commands, layout and synthesis triggers, design
persistence, and DOT/SVG export. The canvas frontend is an external
collaborator of this API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			store := mesh.NewStore(logger)
			designStore, err := openDesigns(cmd.Context(), cfg.Designs)
			if err != nil {
				return err
			}
			defer designStore.Close()

			srv := api.New(api.Config{
				Store:       store,
				Synthesizer: newSynthesizer(cfg, store, logger),
				Designs:     designStore,
				LayoutCfg:   layoutConfigFrom(cfg.Layout),
				DefaultDir:  layout.ParseDirection(cfg.Layout.Direction),
				Logger:      logger,
			})

			logger.Info("starting console",
				"addr", cfg.Server.Addr,
				"synth", cfg.Synth.Backend,
				"designs", cfg.Designs.Backend)
			return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
